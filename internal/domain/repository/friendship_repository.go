package repository

import "context"

// FriendshipRepository define el puerto de persistencia para la tabla amigos.
type FriendshipRepository interface {
	// Link crea el vínculo (userID, friendID). Si ya existe no hace nada y created es false.
	Link(ctx context.Context, userID, friendID int64) (created bool, err error)
}
