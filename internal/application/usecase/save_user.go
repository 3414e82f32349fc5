package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	"github.com/jhoicas/registro-usuarios/internal/domain"
	"github.com/jhoicas/registro-usuarios/internal/domain/entity"
	"github.com/jhoicas/registro-usuarios/internal/domain/repository"
)

// DefaultSaveTimeout límite de duración de la transacción si no se configura otro.
const DefaultSaveTimeout = 10 * time.Second

// SaveUserUseCase guarda un usuario y sus vínculos de amistad en una sola transacción.
//
// La creación del usuario es todo o nada: un dni repetido la rechaza antes de escribir.
// Los amigos son tolerantes: un dni de amigo inexistente se descarta sin fallar.
// La exclusión entre solicitudes concurrentes con el mismo dni la da la restricción
// UNIQUE de la BD, no un lock en proceso.
type SaveUserUseCase struct {
	txRunner UserTxRunner
	timeout  time.Duration
}

// NewSaveUserUseCase construye el caso de uso. timeout <= 0 usa DefaultSaveTimeout.
func NewSaveUserUseCase(txRunner UserTxRunner, timeout time.Duration) *SaveUserUseCase {
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}
	return &SaveUserUseCase{txRunner: txRunner, timeout: timeout}
}

// Save ejecuta: buscar dni → insertar usuario → vincular amigos existentes → commit.
// Cualquier error dentro de la tx provoca rollback completo y se devuelve como Failure.
func (uc *SaveUserUseCase) Save(ctx context.Context, in dto.CreateUserRequest) SaveResult {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var (
		userID int64
		linked []string
	)
	err := uc.txRunner.Run(ctx, func(users repository.UserRepository, friends repository.FriendshipRepository) error {
		linked = linked[:0]

		_, exists, err := users.FindIDByDNI(ctx, in.DNI)
		if err != nil {
			return fmt.Errorf("buscar usuario por dni: %w", err)
		}
		if exists {
			return domain.ErrDuplicateUser
		}

		user := &entity.User{
			Name:   in.Name,
			Email:  in.Email,
			Secret: in.Secret,
			DNI:    in.DNI,
			Phone:  in.Phone,
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		userID = user.ID

		// Cada entrada se procesa; un par repetido no crea fila nueva (ON CONFLICT) pero cuenta como vinculado.
		for _, friendDNI := range in.Friends {
			friendID, found, err := users.FindIDByDNI(ctx, friendDNI)
			if err != nil {
				return fmt.Errorf("buscar amigo %s: %w", friendDNI, err)
			}
			if !found {
				continue
			}
			if _, err := friends.Link(ctx, userID, friendID); err != nil {
				return fmt.Errorf("vincular amigo %s: %w", friendDNI, err)
			}
			linked = append(linked, friendDNI)
		}
		return nil
	})
	if err != nil {
		return classify(err, in.DNI)
	}
	return Succeeded(userID, append([]string(nil), linked...))
}

func classify(err error, dni string) SaveResult {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return Failed(FailureDuplicateUser, fmt.Errorf("usuario con DNI %s: %w", dni, domain.ErrDuplicateUser))
	case errors.Is(err, context.DeadlineExceeded):
		return Failed(FailureStore, fmt.Errorf("tiempo de transacción agotado: %w", err))
	default:
		return Failed(FailureStore, err)
	}
}
