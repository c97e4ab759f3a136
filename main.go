package main

import (
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/connecthub-labs/connecthub-storage/internal"
	"github.com/connecthub-labs/connecthub-storage/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using process environment")
	}

	cfg := config.App{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("parse config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("parse log level")
	}
	zerolog.SetGlobalLevel(level)

	app, err := internal.NewApplication(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init application")
	}

	app.Run()
}
