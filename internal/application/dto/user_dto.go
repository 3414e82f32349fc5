package dto

// CreateUserRequest cuerpo del mensaje entrante "guardar usuario".
// Los nombres JSON son los del contrato con los productores (nombre, correo, clave...).
type CreateUserRequest struct {
	Name    string   `json:"nombre"`
	Email   string   `json:"correo"`
	Secret  string   `json:"clave"`
	DNI     string   `json:"dni"`
	Phone   *string  `json:"telefono"`
	Friends []string `json:"amigos,omitempty"`
}
