package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrDuplicateUser      = errors.New("el usuario ya existe")
	ErrEmailAlreadyExists = errors.New("el correo ya está registrado")
	ErrDecode             = errors.New("mensaje mal formado")
)
