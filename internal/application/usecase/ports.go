package usecase

import (
	"context"

	"github.com/jhoicas/registro-usuarios/internal/domain/repository"
)

// UserTxRunner ejecuta fn dentro de una transacción de BD, con repositorios atados a esa tx.
// Cada llamada usa su propia sesión: nada se comparte entre transacciones concurrentes.
// Si fn devuelve error se hace rollback y no queda ninguna fila escrita.
type UserTxRunner interface {
	Run(ctx context.Context, fn func(
		users repository.UserRepository,
		friends repository.FriendshipRepository,
	) error) error
}
