package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/registro-usuarios/internal/domain/repository"
)

var _ repository.FriendshipRepository = (*FriendshipRepo)(nil)

// FriendshipRepo implementación de FriendshipRepository sobre la tabla amigos.
type FriendshipRepo struct {
	q Querier
}

// NewFriendshipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFriendshipRepository(q Querier) *FriendshipRepo {
	return &FriendshipRepo{q: q}
}

// Link inserta el vínculo; si el par ya existe no hace nada.
func (r *FriendshipRepo) Link(ctx context.Context, userID, friendID int64) (bool, error) {
	query := `
		INSERT INTO amigos (usuario_id, amigo_id)
		VALUES ($1, $2)
		ON CONFLICT (usuario_id, amigo_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("insert amigo: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
