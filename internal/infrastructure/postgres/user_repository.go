package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/registro-usuarios/internal/domain"
	"github.com/jhoicas/registro-usuarios/internal/domain/entity"
	"github.com/jhoicas/registro-usuarios/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre la tabla usuarios (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create inserta el usuario y lee el id y created_at asignados por la BD.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO usuarios (nombre, correo, clave, dni, telefono)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		user.Name, user.Email, user.Secret, user.DNI, user.Phone,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case constraintUsuariosDNI:
				return domain.ErrDuplicateUser
			case constraintUsuariosCorreo:
				return fmt.Errorf("correo %s: %w", user.Email, domain.ErrEmailAlreadyExists)
			}
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// FindIDByDNI busca el id por dni.
func (r *UserRepo) FindIDByDNI(ctx context.Context, dni string) (int64, bool, error) {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT id FROM usuarios WHERE dni = $1`, dni).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get usuario by dni: %w", err)
	}
	return id, true, nil
}
