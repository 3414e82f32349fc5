package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Nombres de las restricciones declaradas en migrations/.
const (
	constraintUsuariosDNI    = "usuarios_dni_key"
	constraintUsuariosCorreo = "usuarios_correo_key"
)

// uniqueViolation devuelve el nombre de la restricción si err es una violación de unicidad (23505).
func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
