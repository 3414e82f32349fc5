// Package broker adapta las entregas AMQP al caso de uso de guardado:
// decodifica la solicitud, guarda, responde al reply-to y confirma la entrega.
package broker

import (
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	"github.com/jhoicas/registro-usuarios/internal/domain"
)

// Envelope solicitud decodificada más los metadatos de transporte.
type Envelope struct {
	User          dto.CreateUserRequest
	ReplyTo       string
	CorrelationID string
}

// Decode parsea el cuerpo de la entrega. ReplyTo y CorrelationID se rellenan
// siempre, incluso si el cuerpo es inválido, para poder enviar la respuesta de error.
func Decode(d amqp.Delivery) (Envelope, error) {
	env := Envelope{ReplyTo: d.ReplyTo, CorrelationID: d.CorrelationId}

	var req dto.CreateUserRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		return env, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	required := []struct {
		field string
		value string
	}{
		{"nombre", req.Name},
		{"correo", req.Email},
		{"clave", req.Secret},
		{"dni", req.DNI},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return env, fmt.Errorf("%w: falta el campo %q", domain.ErrDecode, r.field)
		}
	}
	if req.Friends == nil {
		req.Friends = []string{}
	}

	env.User = req
	return env, nil
}
