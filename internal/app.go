package internal

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/goverland-labs/goverland-platform-events/pkg/natsclient"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/s-larionov/process-manager"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/assistant"
	"github.com/connecthub-labs/connecthub-storage/internal/campaign"
	"github.com/connecthub-labs/connecthub-storage/internal/config"
	"github.com/connecthub-labs/connecthub-storage/internal/dashboard"
	"github.com/connecthub-labs/connecthub-storage/internal/dbtx"
	"github.com/connecthub-labs/connecthub-storage/internal/engagement"
	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/idempotency"
	"github.com/connecthub-labs/connecthub-storage/internal/investment"
	"github.com/connecthub-labs/connecthub-storage/internal/message"
	"github.com/connecthub-labs/connecthub-storage/internal/metrics"
	"github.com/connecthub-labs/connecthub-storage/internal/notification"
	"github.com/connecthub-labs/connecthub-storage/internal/profile"
	"github.com/connecthub-labs/connecthub-storage/internal/secrets"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/internal/sponsorship"
	"github.com/connecthub-labs/connecthub-storage/internal/wallet"
	"github.com/connecthub-labs/connecthub-storage/pkg/health"
	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
	"github.com/connecthub-labs/connecthub-storage/pkg/prometheus"
)

const (
	apiPrefix = "/api/v1"

	jwtSecretName  = "auth"
	jwtSecretField = "jwt_secret"
)

type registrar interface {
	Register(r *mux.Router)
}

type Application struct {
	sigChan <-chan os.Signal
	manager *process.Manager
	cfg     config.App
	db      *gorm.DB
	nc      *nats.Conn
	rdb     *redis.Client

	publisher *events.Publisher
	auth      *session.Authenticator

	profiles      *profile.Service
	campaigns     *campaign.Service
	proposals     *engagement.Service
	wallets       *wallet.Service
	pitches       *investment.Service
	sponsorships  *sponsorship.Service
	messages      *message.Service
	notifications *notification.Service
	dashboard     *dashboard.Service
}

func NewApplication(cfg config.App) (*Application, error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	a := &Application{
		sigChan: sigChan,
		cfg:     cfg,
		manager: process.NewManager(),
	}

	err := a.bootstrap()
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Application) Run() {
	a.manager.StartAll()
	a.registerShutdown()
}

func (a *Application) bootstrap() error {
	initializers := []func() error{
		a.initDB,
		a.initNats,
		a.initRedis,

		// Init Dependencies
		a.initServices,
		a.initAuth,

		// Init Workers: Application
		a.initAPI,
		a.initNotificationConsumer,

		// Init Workers: System
		a.initPrometheusWorker,
		a.initHealthWorker,
	}

	for _, initializer := range initializers {
		if err := initializer(); err != nil {
			return err
		}
	}

	return nil
}

func (a *Application) initDB() error {
	db, err := gorm.Open(postgres.Open(a.cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	ps, err := db.DB()
	if err != nil {
		return err
	}
	ps.SetMaxOpenConns(a.cfg.DB.MaxOpenConnections)

	a.db = db
	if a.cfg.DB.Debug {
		a.db = db.Debug()
	}

	if !a.cfg.DB.AutoMigrate {
		return nil
	}

	err = a.db.AutoMigrate(
		&profile.Profile{},
		&campaign.Campaign{},
		&engagement.Proposal{},
		&wallet.Wallet{},
		&wallet.Transaction{},
		&investment.Pitch{},
		&sponsorship.Request{},
		&message.Message{},
		&notification.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}

func (a *Application) initNats() error {
	nc, err := nats.Connect(
		a.cfg.Nats.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(a.cfg.Nats.MaxReconnects),
		nats.ReconnectWait(a.cfg.Nats.ReconnectTimeout),
	)
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}

	pb, err := natsclient.NewPublisher(nc)
	if err != nil {
		return fmt.Errorf("nats publisher: %w", err)
	}

	a.nc = nc
	a.publisher = events.NewPublisher(pb)

	return nil
}

func (a *Application) initRedis() error {
	a.rdb = redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})

	return nil
}

func (a *Application) initServices() error {
	tx := dbtx.NewTransactor(a.db)
	proposalRepo := engagement.NewRepo(a.db)

	a.profiles = profile.NewService(profile.NewRepo(a.db))
	a.campaigns = campaign.NewService(campaign.NewRepo(a.db), proposalRepo, tx)
	a.wallets = wallet.NewService(wallet.NewRepo(a.db), tx)
	a.proposals = engagement.NewService(proposalRepo, a.campaigns, a.wallets, tx, a.publisher)
	a.pitches = investment.NewService(investment.NewRepo(a.db), a.publisher)
	a.sponsorships = sponsorship.NewService(sponsorship.NewRepo(a.db), tx, a.publisher)
	a.messages = message.NewService(
		message.NewRepo(a.db),
		a.publisher,
		assistant.New(assistant.DefaultRules),
		a.cfg.Support.UserID,
		a.cfg.Support.ReplyDelay,
	)
	a.notifications = notification.NewService(notification.NewRepo(a.db))
	a.dashboard = dashboard.NewService(a.campaigns, a.proposals, a.pitches, a.sponsorships, a.messages)

	return nil
}

// initAuth resolves the token secret from the environment or from Vault
func (a *Application) initAuth() error {
	secret := a.cfg.Auth.JWTSecret
	if secret == "" {
		if !a.cfg.Vault.Enabled() {
			return errors.New("jwt secret is not configured")
		}

		cli, err := secrets.NewVaultClient(a.cfg.Vault.Address, a.cfg.Vault.Token)
		if err != nil {
			return err
		}

		secret, err = secrets.NewStore(cli, a.cfg.Vault.BasePath).Get(jwtSecretName, jwtSecretField)
		if err != nil {
			return fmt.Errorf("resolve jwt secret: %w", err)
		}
	}

	a.auth = session.NewAuthenticator(secret, a.profiles, a.cfg.Auth.RoleCacheTTL)

	return nil
}

func (a *Application) initAPI() error {
	router := mux.NewRouter()
	router.Use(metrics.Middleware)

	api := router.PathPrefix(apiPrefix).Subrouter()
	api.Use(a.auth.Middleware)
	api.Use(idempotency.NewGuard(a.rdb, a.cfg.Redis.IdempotencyTTL).Middleware)

	servers := []registrar{
		profile.NewServer(a.profiles, a.auth),
		campaign.NewServer(a.campaigns),
		engagement.NewServer(a.proposals),
		wallet.NewServer(a.wallets),
		investment.NewServer(a.pitches),
		sponsorship.NewServer(a.sponsorships),
		message.NewServer(a.messages),
		notification.NewServer(a.notifications),
		dashboard.NewServer(a.dashboard),
	}
	for _, s := range servers {
		s.Register(api)
	}

	a.manager.AddWorker(process.NewServerWorker("API", httpsrv.NewServer(a.cfg.API.Bind, router)))

	return nil
}

func (a *Application) initNotificationConsumer() error {
	consumer := notification.NewConsumer(a.nc, a.notifications)
	a.manager.AddWorker(process.NewCallbackWorker("notification-consumer", consumer.Start))

	return nil
}

func (a *Application) initPrometheusWorker() error {
	srv := prometheus.NewServer(a.cfg.Prometheus.Listen, "/metrics")
	a.manager.AddWorker(process.NewServerWorker("prometheus", srv))

	return nil
}

func (a *Application) initHealthWorker() error {
	srv := health.NewHealthCheckServer(a.cfg.Health.Listen, "/status", health.DefaultHandler(a.manager))
	a.manager.AddWorker(process.NewServerWorker("health", srv))

	return nil
}

func (a *Application) registerShutdown() {
	go func(manager *process.Manager) {
		<-a.sigChan

		manager.StopAll()
	}(a.manager)

	a.manager.AwaitAll()

	a.close()
}

func (a *Application) close() {
	a.messages.Close()

	if err := a.nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("drain nats connection")
	}

	if err := a.rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("close redis client")
	}

	if ps, err := a.db.DB(); err == nil {
		_ = ps.Close()
	}
}
