package config

type API struct {
	Bind string `env:"API_HTTP_SERVER_BIND" envDefault:":11000"`
}

type Prometheus struct {
	Listen string `env:"PROMETHEUS_LISTEN" envDefault:":2112"`
}

type Health struct {
	Listen string `env:"HEALTH_LISTEN" envDefault:":8088"`
}
