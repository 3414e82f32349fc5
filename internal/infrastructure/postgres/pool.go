package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/registro-usuarios/pkg/config"
	"github.com/jhoicas/registro-usuarios/pkg/logger"
	"github.com/jhoicas/registro-usuarios/pkg/retry"
)

// NewPool crea un pool de conexiones PostgreSQL y verifica la conexión con Ping.
// Cada transacción toma una conexión propia del pool; MaxConns debe cubrir el prefetch del consumidor.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// Connect abre el pool con la política de reintentos del arranque.
func Connect(ctx context.Context, cfg config.DBConfig, policy retry.Policy, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := retry.Do(ctx, policy,
		func(attempt, max int, err error) {
			log.Warn().Err(err).Int("intento", attempt).Int("max", max).
				Str("host", cfg.Host).Msg("conexión a PostgreSQL fallida")
		},
		func(ctx context.Context) error {
			p, err := NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	log.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Msg("conectado a PostgreSQL")
	return pool, nil
}
