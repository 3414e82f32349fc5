package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ReplyPublisher publica respuestas directamente en la cola reply-to (exchange por defecto).
type ReplyPublisher struct {
	mu sync.Mutex // serializa los frames de publicación del canal compartido
	ch publishChannel
}

// NewReplyPublisher construye el publicador sobre un canal dedicado a respuestas.
func NewReplyPublisher(ch publishChannel) *ReplyPublisher {
	return &ReplyPublisher{ch: ch}
}

// Publish serializa body a JSON y lo envía a replyTo con el correlation id intacto.
func (p *ReplyPublisher) Publish(ctx context.Context, replyTo, correlationID string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("serializar respuesta: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, "", replyTo, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		Timestamp:     time.Now(),
		Body:          payload,
	})
	if err != nil {
		return fmt.Errorf("publicar respuesta en %s: %w", replyTo, err)
	}
	return nil
}
