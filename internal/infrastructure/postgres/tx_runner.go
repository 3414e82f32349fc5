package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/registro-usuarios/internal/application/usecase"
	"github.com/jhoicas/registro-usuarios/internal/domain/repository"
)

var _ usecase.UserTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Cada Run toma su propia conexión del pool, así que las tx concurrentes no comparten sesión.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	users repository.UserRepository,
	friends repository.FriendshipRepository,
) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			// El ctx puede estar vencido (timeout); el rollback igual debe enviarse.
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err := fn(NewUserRepository(tx), NewFriendshipRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
