package entity

import "time"

// Friendship vincula un usuario (dueño) con otro usuario existente.
// El par (UserID, FriendID) es único y se borra en cascada con cualquiera de los dos.
type Friendship struct {
	ID        int64
	UserID    int64
	FriendID  int64
	CreatedAt time.Time
}
