// Package rabbitmq adapta amqp091-go al servicio: conexión con reintentos,
// declaración de topología, publicación de respuestas y el bucle de consumo.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/registro-usuarios/pkg/config"
	"github.com/jhoicas/registro-usuarios/pkg/logger"
	"github.com/jhoicas/registro-usuarios/pkg/retry"
)

const heartbeat = 60 * time.Second

// Dial abre la conexión AMQP con la política de reintentos.
// Agotados los intentos devuelve error; nunca devuelve una conexión nil sin error.
func Dial(ctx context.Context, cfg config.RabbitMQConfig, policy retry.Policy, log *logger.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	err := retry.Do(ctx, policy,
		func(attempt, max int, err error) {
			log.Warn().Err(err).Int("intento", attempt).Int("max", max).
				Str("host", cfg.Host).Msg("conexión a RabbitMQ fallida")
		},
		func(context.Context) error {
			c, err := amqp.DialConfig(cfg.URL(), amqp.Config{
				Heartbeat:  heartbeat,
				Properties: amqp.Table{"connection_name": "registro-usuarios"},
			})
			if err != nil {
				return err
			}
			conn = c
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: %w", err)
	}
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("conectado a RabbitMQ")
	return conn, nil
}

// Topology exchange directo durable + cola durable enlazada por routing key.
type Topology struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// TopologyFromConfig extrae la topología de la configuración.
func TopologyFromConfig(cfg config.RabbitMQConfig) Topology {
	return Topology{Exchange: cfg.Exchange, Queue: cfg.Queue, RoutingKey: cfg.RoutingKey}
}

type topologyChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Declare declara exchange, cola y binding (idempotente).
func (t Topology) Declare(ch topologyChannel) error {
	if err := ch.ExchangeDeclare(t.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declarar exchange %s: %w", t.Exchange, err)
	}
	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declarar cola %s: %w", t.Queue, err)
	}
	if err := ch.QueueBind(t.Queue, t.RoutingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("enlazar cola %s a %s/%s: %w", t.Queue, t.Exchange, t.RoutingKey, err)
	}
	return nil
}
