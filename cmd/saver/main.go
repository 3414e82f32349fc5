package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/registro-usuarios/internal/application/usecase"
	"github.com/jhoicas/registro-usuarios/internal/infrastructure/metrics"
	"github.com/jhoicas/registro-usuarios/internal/infrastructure/postgres"
	"github.com/jhoicas/registro-usuarios/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/registro-usuarios/internal/interfaces/broker"
	httpRouter "github.com/jhoicas/registro-usuarios/internal/interfaces/http"
	"github.com/jhoicas/registro-usuarios/pkg/config"
	"github.com/jhoicas/registro-usuarios/pkg/logger"
	"github.com/jhoicas/registro-usuarios/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando guardador de usuarios")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("guardador finalizado con error")
	}
	log.Info().Msg("guardador detenido")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	policy := retry.Policy{Attempts: cfg.Connect.Attempts, Backoff: cfg.Connect.Backoff}

	pool, err := postgres.Connect(ctx, cfg.DB, policy, log.Named("postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}

	conn, err := rabbitmq.Dial(ctx, cfg.RabbitMQ, policy, log.Named("rabbitmq"))
	if err != nil {
		return err
	}
	defer conn.Close()

	consumeCh, err := conn.Channel()
	if err != nil {
		return err
	}
	defer consumeCh.Close()
	if err := rabbitmq.TopologyFromConfig(cfg.RabbitMQ).Declare(consumeCh); err != nil {
		return err
	}

	// Canal aparte para respuestas: los frames de publicación no se mezclan con el consumo.
	replyCh, err := conn.Channel()
	if err != nil {
		return err
	}
	defer replyCh.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(reg)

	saveUC := usecase.NewSaveUserUseCase(postgres.NewTxRunner(pool), cfg.Saver.SaveTimeout)
	handler := broker.NewHandler(
		saveUC,
		rabbitmq.NewReplyPublisher(replyCh),
		recorder,
		log.Named("handler"),
		cfg.Saver.PublishTimeout,
	)
	consumer := rabbitmq.NewConsumer(consumeCh, cfg.RabbitMQ.Queue, cfg.App.Name,
		cfg.RabbitMQ.Prefetch, handler, log.Named("consumer"))

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 60,
	})
	app.Use(recover.New())
	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName: cfg.App.Name,
		Checks: map[string]httpRouter.HealthCheck{
			"database": pool.Ping,
			"rabbitmq": func(context.Context) error {
				if conn.IsClosed() {
					return errors.New("conexión cerrada")
				}
				return nil
			},
		},
		Gatherer: reg,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor de operación escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})
	return g.Wait()
}
