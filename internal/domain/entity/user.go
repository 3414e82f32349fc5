package entity

import "time"

// User representa un registro de la tabla usuarios.
// ID y CreatedAt los asigna la base de datos al insertar.
type User struct {
	ID        int64
	Name      string
	Email     string
	Secret    string  // se guarda tal cual llega; el hash es responsabilidad de quien publica
	DNI       string  // documento nacional, único
	Phone     *string // opcional
	CreatedAt time.Time
}
