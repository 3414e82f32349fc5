package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrClientClosed la cola de respuestas se cerró antes de recibir la respuesta.
var ErrClientClosed = errors.New("cliente RPC cerrado")

// RPCClient publica solicitudes con ReplyTo/CorrelationId y espera la respuesta correlacionada
// en una cola exclusiva propia.
type RPCClient struct {
	ch         publishChannel
	exchange   string
	routingKey string
	replyQueue string
	pubMu      sync.Mutex

	mu      sync.Mutex
	pending map[string]chan []byte
	closed  bool
}

// NewRPCClient abre un canal, declara el exchange y una cola de respuestas exclusiva, y
// empieza a despachar respuestas a quien las espera.
func NewRPCClient(conn *amqp.Connection, exchange, routingKey string) (*RPCClient, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declarar cola de respuestas: %w", err)
	}
	replies, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consumir respuestas: %w", err)
	}
	return newRPCClient(ch, replies, exchange, routingKey, q.Name), nil
}

func newRPCClient(ch publishChannel, replies <-chan amqp.Delivery, exchange, routingKey, replyQueue string) *RPCClient {
	c := &RPCClient{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		replyQueue: replyQueue,
		pending:    make(map[string]chan []byte),
	}
	go c.dispatch(replies)
	return c
}

func (c *RPCClient) dispatch(replies <-chan amqp.Delivery) {
	for d := range replies {
		c.mu.Lock()
		waiter, ok := c.pending[d.CorrelationId]
		if ok {
			delete(c.pending, d.CorrelationId)
		}
		c.mu.Unlock()
		if ok {
			waiter <- d.Body // buffer de 1, nunca bloquea
		}
	}

	c.mu.Lock()
	c.closed = true
	for id, waiter := range c.pending {
		close(waiter)
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

// Call publica payload como JSON persistente y espera la respuesta o el fin de ctx.
func (c *RPCClient) Call(ctx context.Context, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializar solicitud: %w", err)
	}

	correlationID := uuid.NewString()
	waiter := make(chan []byte, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClientClosed
	}
	c.pending[correlationID] = waiter
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, correlationID)
		c.mu.Unlock()
	}()

	c.pubMu.Lock()
	err = c.ch.PublishWithContext(ctx, c.exchange, c.routingKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: correlationID,
		ReplyTo:       c.replyQueue,
		Body:          body,
	})
	c.pubMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("publicar solicitud: %w", err)
	}

	select {
	case reply, ok := <-waiter:
		if !ok {
			return nil, ErrClientClosed
		}
		return reply, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("esperando respuesta %s: %w", correlationID, ctx.Err())
	}
}
