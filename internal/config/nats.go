package config

import (
	"fmt"
	"time"
)

const consumerGroupPrefix = "connecthub_storage"

type Nats struct {
	URL              string        `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	MaxReconnects    int           `env:"NATS_MAX_RECONNECTS" envDefault:"10"`
	ReconnectTimeout time.Duration `env:"NATS_RECONNECT_TIMEOUT" envDefault:"10s"`
}

// GenerateGroupName returns queue group name shared by all replicas of the service
func GenerateGroupName(name string) string {
	return fmt.Sprintf("%s_%s", consumerGroupPrefix, name)
}
