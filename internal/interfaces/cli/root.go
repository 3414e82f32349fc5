// Package cli comandos del cliente: registro manual y prueba de carga contra el guardador.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
)

// Caller envía una solicitud y espera su respuesta correlacionada.
type Caller interface {
	Call(ctx context.Context, payload any) ([]byte, error)
}

// Connector abre el Caller para un comando; close libera la conexión.
type Connector func(ctx context.Context) (caller Caller, close func() error, err error)

// Deps dependencias de los comandos.
type Deps struct {
	Connect Connector
	Timeout time.Duration // espera máxima por respuesta
	Seed    int64         // 0 → semilla por hora actual
}

func newRootCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "registro",
		Short:         "Cliente del servicio de registro de usuarios",
		Long:          "Envía solicitudes \"guardar usuario\" por RabbitMQ y muestra las respuestas del guardador.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRegistrarCmd(deps))
	cmd.AddCommand(newCargaCmd(deps))
	return cmd
}

// NewRootCmdForTest devuelve el comando raíz para tests.
func NewRootCmdForTest(deps Deps) *cobra.Command {
	return newRootCmd(deps)
}

// Execute ejecuta el cliente con ctx (cancelado por señal).
func Execute(ctx context.Context, deps Deps) error {
	return newRootCmd(deps).ExecuteContext(ctx)
}

func (d Deps) timeout() time.Duration {
	if d.Timeout <= 0 {
		return 60 * time.Second
	}
	return d.Timeout
}

// call envía una solicitud con el timeout configurado y decodifica la respuesta.
func call(ctx context.Context, caller Caller, timeout time.Duration, req dto.CreateUserRequest) (dto.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := caller.Call(ctx, req)
	if err != nil {
		return dto.Reply{}, err
	}
	var reply dto.Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return dto.Reply{}, fmt.Errorf("respuesta ilegible: %w", err)
	}
	return reply, nil
}
