package config

type App struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Prometheus Prometheus
	Health     Health
	API        API
	DB         DB
	Nats       Nats
	Redis      Redis
	Vault      Vault
	Auth       Auth
	Support    Support
}
