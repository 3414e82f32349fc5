package broker

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	"github.com/jhoicas/registro-usuarios/internal/application/usecase"
	"github.com/jhoicas/registro-usuarios/internal/infrastructure/metrics"
	"github.com/jhoicas/registro-usuarios/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/registro-usuarios/pkg/logger"
)

// Saver guarda un usuario; implementado por usecase.SaveUserUseCase.
type Saver interface {
	Save(ctx context.Context, in dto.CreateUserRequest) usecase.SaveResult
}

// ReplyPublisher envía la respuesta a la cola reply-to; implementado por rabbitmq.ReplyPublisher.
type ReplyPublisher interface {
	Publish(ctx context.Context, replyTo, correlationID string, body any) error
}

// Handler procesa cada entrega en orden estricto: decode → save → respuesta → ack.
type Handler struct {
	saver          Saver
	publisher      ReplyPublisher
	metrics        metrics.Recorder
	log            *logger.Logger
	publishTimeout time.Duration
	now            func() time.Time
}

var _ rabbitmq.DeliveryHandler = (*Handler)(nil)

// NewHandler construye el manejador. publishTimeout <= 0 usa 5s.
func NewHandler(saver Saver, publisher ReplyPublisher, rec metrics.Recorder, log *logger.Logger, publishTimeout time.Duration) *Handler {
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &Handler{
		saver:          saver,
		publisher:      publisher,
		metrics:        rec,
		log:            log,
		publishTimeout: publishTimeout,
		now:            time.Now,
	}
}

// Handle nunca devuelve error ni propaga pánicos: todo fallo termina en una
// respuesta de error y la entrega se confirma siempre, después de intentar responder.
func (h *Handler) Handle(ctx context.Context, d amqp.Delivery) {
	start := h.now()
	h.metrics.IncInFlight()
	defer h.metrics.DecInFlight()

	h.log.Debug().Uint64("delivery_tag", d.DeliveryTag).Str("correlation_id", d.CorrelationId).Msg("entrega recibida")

	env, err := Decode(d)
	var (
		res  usecase.SaveResult
		name string
	)
	if err != nil {
		res = usecase.Failed(usecase.FailureDecode, err)
	} else {
		name = env.User.Name
		res = h.safeSave(ctx, env.User)
	}

	h.reply(ctx, env, res, name)

	if err := d.Ack(false); err != nil {
		h.log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("no se pudo confirmar la entrega")
	}

	elapsed := h.now().Sub(start)
	h.metrics.ObserveOutcome(res.Outcome(), elapsed)
	h.logResult(env, res, elapsed)
}

func (h *Handler) safeSave(ctx context.Context, in dto.CreateUserRequest) (res usecase.SaveResult) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("dni", in.DNI).Msg("pánico al guardar usuario")
			res = usecase.Failed(usecase.FailureStore, fmt.Errorf("error interno: %v", r))
		}
	}()
	return h.saver.Save(ctx, in)
}

func (h *Handler) reply(ctx context.Context, env Envelope, res usecase.SaveResult, name string) {
	if env.ReplyTo == "" {
		h.log.Warn().Str("correlation_id", env.CorrelationID).Str("outcome", res.Outcome()).
			Msg("mensaje sin reply_to, no se envía respuesta")
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, h.publishTimeout)
	defer cancel()

	body := BuildReply(res, name, env.CorrelationID, h.now())
	if err := h.publisher.Publish(pubCtx, env.ReplyTo, env.CorrelationID, body); err != nil {
		h.metrics.RecordPublishFailure()
		h.log.Error().Err(err).
			Str("reply_to", env.ReplyTo).
			Str("correlation_id", env.CorrelationID).
			Msg("no se pudo publicar la respuesta")
		return
	}
	h.log.Trace().Str("reply_to", env.ReplyTo).Str("correlation_id", env.CorrelationID).Msg("respuesta publicada")
}

func (h *Handler) logResult(env Envelope, res usecase.SaveResult, elapsed time.Duration) {
	if res.OK() {
		h.log.Info().
			Int64("user_id", res.UserID).
			Dur("duration", elapsed).
			Str("dni", env.User.DNI).
			Strs("amigos_guardados", res.LinkedFriendDNIs).
			Str("correlation_id", env.CorrelationID).
			Msg("usuario guardado")
		return
	}
	var ev *zerolog.Event
	if res.Failure.Kind == usecase.FailureStore {
		ev = h.log.Error()
	} else {
		ev = h.log.Warn()
	}
	ev.Str("outcome", res.Outcome()).
		Str("dni", env.User.DNI).
		Str("correlation_id", env.CorrelationID).
		Dur("duration", elapsed).
		Err(res.Failure.Reason).
		Msg("solicitud rechazada")
}
