package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/biosecret/todolist-api/auth"
	"github.com/biosecret/todolist-api/config"
	"github.com/biosecret/todolist-api/database"
	"github.com/biosecret/todolist-api/events"
	"github.com/biosecret/todolist-api/handlers"
	"github.com/biosecret/todolist-api/middleware"
	"github.com/biosecret/todolist-api/router"
	"github.com/biosecret/todolist-api/utils"
)

const shutdownTimeout = 10 * time.Second

// Services are the long-lived collaborators the HTTP layer is built on.
type Services struct {
	Store  database.Store
	Events events.Publisher
	Bus    *events.Bus
}

// NewServer builds the fiber app with every middleware and route installed.
func NewServer(cfg *config.Config, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "todolist-api",
		ErrorHandler: middleware.ErrorHandler(cfg.IsProduction()),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(recover.New())
	if cfg.Env != config.EnvTest {
		app.Use(logger.New(logger.Config{
			Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
		}))
	}

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL())
	h := handlers.New(handlers.Config{
		Store:     svc.Store,
		Tokens:    tokens,
		Events:    svc.Events,
		Bus:       svc.Bus,
		PageLimit: cfg.PageLimit,
	})

	router.SetupRoutes(app, h, tokens)
	config.AddSwaggerRoutes(app)

	return app
}

// OpenPublishers starts the in-process bus and the brokers named in cfg.
// The returned publisher fans out to all of them; broker deliveries run in
// the background behind a bounded queue.
func OpenPublishers(cfg config.EventsConfig) (events.Publisher, *events.Bus, error) {
	bus := events.NewBus()
	var brokers events.Multi

	if cfg.MQTTURL != "" {
		p, err := events.NewMQTTPublisher(cfg.MQTTURL, cfg.MQTTClient)
		if err != nil {
			return nil, nil, err
		}
		brokers = append(brokers, p)
	}

	if cfg.PulsarURL != "" {
		p, err := events.NewPulsarPublisher(cfg.PulsarURL, cfg.PulsarTopic, cfg.MQTTClient)
		if err != nil {
			brokers.Close()
			return nil, nil, err
		}
		brokers = append(brokers, p)
	}

	if len(brokers) == 0 {
		return bus, bus, nil
	}
	return events.Multi{bus, events.NewAsync(brokers, cfg.QueueSize)}, bus, nil
}

// SetupAndRunApp loads configuration, connects the store and the event
// sinks, and serves until SIGINT or SIGTERM.
func SetupAndRunApp(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := prepare(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Errorf("close store: %v", err)
		}
	}()

	publisher, bus, err := OpenPublishers(cfg.Events)
	if err != nil {
		return err
	}
	defer publisher.Close()

	app := NewServer(cfg, Services{Store: store, Events: publisher, Bus: bus})

	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		// Close the bus first so open event streams return.
		bus.Close()
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// prepare sets the log level and fills in a throwaway signing secret when
// none is configured outside production.
func prepare(cfg *config.Config) error {
	if cfg.IsProduction() {
		log.SetLevel(log.LevelInfo)
	} else {
		log.SetLevel(log.LevelDebug)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT secret is required in production")
		}
		secret, err := utils.RandomHex(32)
		if err != nil {
			return err
		}
		cfg.JWTSecret = secret
		log.Warn("JWT_SECRET is not set, using a random secret for this process")
	}
	return nil
}
