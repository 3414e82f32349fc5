package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/registro-usuarios/pkg/logger"
)

// ErrDeliveriesClosed el broker cerró el canal de entregas (conexión o canal caídos).
var ErrDeliveriesClosed = errors.New("canal de entregas cerrado")

// DeliveryHandler procesa una entrega completa, incluido su ack. No debe entrar en pánico
// ni devolver errores: todo fallo se resuelve dentro (respuesta de error + ack).
type DeliveryHandler interface {
	Handle(ctx context.Context, d amqp.Delivery)
}

type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Consumer lee la cola con ack manual y despacha cada entrega a un goroutine,
// con un máximo de prefetch invocaciones en vuelo.
type Consumer struct {
	ch       consumeChannel
	queue    string
	tag      string
	prefetch int
	handler  DeliveryHandler
	log      *logger.Logger
}

// NewConsumer construye el consumidor. prefetch limita tanto el QoS del broker como los goroutines activos.
func NewConsumer(ch consumeChannel, queue, tag string, prefetch int, handler DeliveryHandler, log *logger.Logger) *Consumer {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Consumer{ch: ch, queue: queue, tag: tag, prefetch: prefetch, handler: handler, log: log}
}

// Run consume hasta que ctx se cancele (devuelve nil) o el broker cierre las entregas
// (devuelve ErrDeliveriesClosed). En ambos casos espera a que terminen los handlers en vuelo.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("configurar prefetch: %w", err)
	}
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consumir cola %s: %w", c.queue, err)
	}

	c.log.Info().Str("queue", c.queue).Int("prefetch", c.prefetch).Msg("esperando mensajes para guardar usuarios")

	// Los handlers en vuelo terminan su tx, respuesta y ack aunque se pida apagar.
	workCtx := context.WithoutCancel(ctx)
	sem := make(chan struct{}, c.prefetch)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("consumidor detenido")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveriesClosed
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				c.handler.Handle(workCtx, d)
			}(d)
		}
	}
}
