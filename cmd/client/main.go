package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/registro-usuarios/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/registro-usuarios/internal/interfaces/cli"
	"github.com/jhoicas/registro-usuarios/pkg/config"
	"github.com/jhoicas/registro-usuarios/pkg/logger"
	"github.com/jhoicas/registro-usuarios/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := retry.Policy{Attempts: cfg.Connect.Attempts, Backoff: cfg.Connect.Backoff}
	deps := cli.Deps{
		Connect: func(ctx context.Context) (cli.Caller, func() error, error) {
			conn, err := rabbitmq.Dial(ctx, cfg.RabbitMQ, policy, log.Named("rabbitmq"))
			if err != nil {
				return nil, nil, err
			}
			client, err := rabbitmq.NewRPCClient(conn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
			if err != nil {
				conn.Close()
				return nil, nil, err
			}
			return client, conn.Close, nil
		},
		Timeout: cfg.Client.Timeout,
	}

	if err := cli.Execute(ctx, deps); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
