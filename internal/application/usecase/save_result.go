package usecase

// FailureKind clasifica el motivo de un fallo al procesar una solicitud.
type FailureKind string

const (
	FailureDecode        FailureKind = "decode_error"
	FailureDuplicateUser FailureKind = "duplicate_user"
	FailureStore         FailureKind = "store_error"
)

// OutcomeSuccess etiqueta de métricas/logs para un guardado exitoso.
const OutcomeSuccess = "success"

// Failure describe por qué no se guardó el usuario.
type Failure struct {
	Kind   FailureKind
	Reason error
}

// Message texto legible que viaja en la respuesta de error.
func (f *Failure) Message() string {
	if f.Reason == nil {
		return string(f.Kind)
	}
	return f.Reason.Error()
}

// SaveResult resultado etiquetado de Save: éxito (Failure == nil) o fallo.
// Quien lo recibe debe ramificar con OK(); Save nunca devuelve error de Go.
type SaveResult struct {
	UserID           int64
	LinkedFriendDNIs []string
	Failure          *Failure
}

// OK indica éxito.
func (r SaveResult) OK() bool { return r.Failure == nil }

// Outcome etiqueta corta del resultado ("success" o el FailureKind).
func (r SaveResult) Outcome() string {
	if r.Failure == nil {
		return OutcomeSuccess
	}
	return string(r.Failure.Kind)
}

// Succeeded construye un resultado exitoso. linked nunca queda nil.
func Succeeded(userID int64, linked []string) SaveResult {
	if linked == nil {
		linked = []string{}
	}
	return SaveResult{UserID: userID, LinkedFriendDNIs: linked}
}

// Failed construye un resultado de fallo.
func Failed(kind FailureKind, reason error) SaveResult {
	return SaveResult{Failure: &Failure{Kind: kind, Reason: reason}}
}
