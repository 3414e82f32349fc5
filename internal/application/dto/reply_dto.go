package dto

// Valores de Reply.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessReply respuesta publicada cuando el usuario se guardó.
// SavedFriends siempre se serializa, aunque esté vacío.
type SuccessReply struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	UserID        int64    `json:"user_id"`
	SavedFriends  []string `json:"amigos_guardados"`
	Timestamp     string   `json:"timestamp"`
	CorrelationID string   `json:"correlation_id"`
}

// ErrorReply respuesta publicada ante cualquier fallo (decodificación, duplicado, BD).
type ErrorReply struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Timestamp     string `json:"timestamp"`
	CorrelationID string `json:"correlation_id"`
}

// Reply forma genérica para leer cualquiera de las dos respuestas (lado cliente).
type Reply struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	UserID        int64    `json:"user_id,omitempty"`
	SavedFriends  []string `json:"amigos_guardados,omitempty"`
	Timestamp     string   `json:"timestamp"`
	CorrelationID string   `json:"correlation_id"`
}

// OK indica si la respuesta es de éxito.
func (r Reply) OK() bool { return r.Status == StatusSuccess }
