package broker

import (
	"fmt"
	"time"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	"github.com/jhoicas/registro-usuarios/internal/application/usecase"
)

// BuildReply arma el cuerpo de respuesta para un resultado de guardado.
// name es el nombre del usuario solicitado; se usa en el mensaje de éxito.
func BuildReply(res usecase.SaveResult, name, correlationID string, now time.Time) any {
	ts := now.UTC().Format(time.RFC3339)
	if !res.OK() {
		return dto.ErrorReply{
			Status:        dto.StatusError,
			Message:       res.Failure.Message(),
			Timestamp:     ts,
			CorrelationID: correlationID,
		}
	}
	linked := res.LinkedFriendDNIs
	if linked == nil {
		linked = []string{}
	}
	return dto.SuccessReply{
		Status:        dto.StatusSuccess,
		Message:       fmt.Sprintf("Usuario %s guardado correctamente", name),
		UserID:        res.UserID,
		SavedFriends:  linked,
		Timestamp:     ts,
		CorrelationID: correlationID,
	}
}
