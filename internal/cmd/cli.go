package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

// Run executes the catalog command line. Without a subcommand it serves the API.
func Run(ctx context.Context, args []string) error {
	return newCommand().Run(ctx, args)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Product and category catalog API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a config file (yaml, json, toml or env)",
				Sources: cli.EnvVars("CATALOG_CONFIG"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Run database migration",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "Insert sample categories and products",
				Action: seed,
			},
			{
				Name:  "token",
				Usage: "Print a bearer token for the write endpoints",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Value: "operator", Usage: "token subject"},
					&cli.DurationFlag{Name: "ttl", Value: services.DefaultTokenTTL, Usage: "token lifetime"},
				},
				Action: token,
			},
			{
				Name:   "events",
				Usage:  "Consume catalog events and log them",
				Action: events,
			},
		},
	}
}

// process holds what every command needs after bootstrap.
type process struct {
	cfg *config.Config
	log *zap.Logger
}

func bootstrap(c *cli.Command) (*process, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &process{cfg: cfg, log: log}, nil
}

func (r *process) openDB() (*gorm.DB, error) {
	return database.Open(r.cfg.Database, r.log)
}

func serve(ctx context.Context, c *cli.Command) error {
	proc, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer proc.log.Sync()

	db, err := proc.openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if proc.cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		proc.log.Info("database migrated")
	}

	deps := server.Deps{Config: proc.cfg, DB: db, Log: proc.log}
	if proc.cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      proc.cfg.RabbitMQ.URL,
			Exchange: proc.cfg.RabbitMQ.Exchange,
			Queue:    proc.cfg.RabbitMQ.Queue,
		}, proc.log)
		if err != nil {
			return err
		}
		defer mq.Close()
		deps.Events = mq
	} else {
		proc.log.Info("RABBITMQ_URL is not set, catalog events are disabled")
	}

	app := server.NewApp(deps)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		proc.log.Info("starting server", zap.String("addr", proc.cfg.AppPort), zap.String("env", proc.cfg.AppEnv))
		errCh <- app.Listen(proc.cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	proc.log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		proc.log.Error("error during shutdown", zap.Error(err))
		return err
	}
	proc.log.Info("server gracefully stopped")
	return nil
}

func migrate(ctx context.Context, c *cli.Command) error {
	proc, err := bootstrap(c)
	if err != nil {
		return err
	}
	db, err := proc.openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	proc.log.Info("migration complete")
	return nil
}

func seed(ctx context.Context, c *cli.Command) error {
	proc, err := bootstrap(c)
	if err != nil {
		return err
	}
	db, err := proc.openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if err := database.Seed(db, proc.log); err != nil {
		return err
	}
	proc.log.Info("seed complete")
	return nil
}

func token(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set to issue tokens")
	}

	tokenString, err := services.NewAuthService(cfg.JWT.Secret).IssueToken(c.String("subject"), c.Duration("ttl"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Root().Writer, tokenString)
	return err
}

func events(ctx context.Context, c *cli.Command) error {
	proc, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer proc.log.Sync()

	if proc.cfg.RabbitMQ.URL == "" {
		return errors.New("RABBITMQ_URL must be set to consume events")
	}
	mq, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:      proc.cfg.RabbitMQ.URL,
		Exchange: proc.cfg.RabbitMQ.Exchange,
		Queue:    proc.cfg.RabbitMQ.Queue,
	}, proc.log)
	if err != nil {
		return err
	}
	defer mq.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mq.Consume(ctx, func(msg amqp.Delivery) error {
		proc.log.Info("catalog event",
			zap.String("routing_key", msg.RoutingKey),
			zap.Time("published_at", msg.Timestamp),
			zap.ByteString("body", msg.Body))
		return nil
	})
}
