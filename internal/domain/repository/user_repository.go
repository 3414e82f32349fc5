package repository

import (
	"context"

	"github.com/jhoicas/registro-usuarios/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create inserta el usuario y completa ID y CreatedAt.
	// Devuelve domain.ErrDuplicateUser o domain.ErrEmailAlreadyExists ante violaciones de unicidad.
	Create(ctx context.Context, user *entity.User) error
	// FindIDByDNI busca el id de un usuario por dni; found es false si no existe.
	FindIDByDNI(ctx context.Context, dni string) (id int64, found bool, err error)
}
