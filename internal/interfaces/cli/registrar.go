package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	"github.com/jhoicas/registro-usuarios/pkg/datagen"
)

func newRegistrarCmd(deps Deps) *cobra.Command {
	var (
		req     dto.CreateUserRequest
		phone   string
		friends []string
	)
	cmd := &cobra.Command{
		Use:   "registrar",
		Short: "Registra un usuario y espera la respuesta",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.DNI = strings.TrimSpace(req.DNI)
			if !datagen.ValidDNI(req.DNI) {
				return fmt.Errorf("dni inválido %q: debe tener 8 dígitos", req.DNI)
			}
			if req.Name == "" || req.Email == "" || req.Secret == "" {
				return fmt.Errorf("--nombre, --correo y --clave son obligatorios")
			}
			if phone != "" {
				req.Phone = &phone
			}
			req.Friends = datagen.CleanFriendDNIs(friends)

			caller, closeFn, err := deps.Connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("conectar: %w", err)
			}
			defer closeFn()

			start := time.Now()
			reply, err := call(cmd.Context(), caller, deps.timeout(), req)
			if err != nil {
				return fmt.Errorf("registrar %s: %w", req.DNI, err)
			}
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			if !reply.OK() {
				fmt.Fprintf(out, "Error: %s\n", reply.Message)
				return fmt.Errorf("registro rechazado")
			}
			fmt.Fprintf(out, "%s (id %d)\n", reply.Message, reply.UserID)
			if len(reply.SavedFriends) > 0 {
				fmt.Fprintf(out, "Amigos vinculados: %s\n", strings.Join(reply.SavedFriends, ", "))
			}
			fmt.Fprintf(out, "Tiempo de respuesta: %d ms\n", elapsed.Milliseconds())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "nombre", "", "nombre completo")
	cmd.Flags().StringVar(&req.Email, "correo", "", "correo electrónico")
	cmd.Flags().StringVar(&req.Secret, "clave", "", "clave")
	cmd.Flags().StringVar(&req.DNI, "dni", "", "DNI de 8 dígitos")
	cmd.Flags().StringVar(&phone, "telefono", "", "teléfono (opcional)")
	cmd.Flags().StringSliceVar(&friends, "amigos", nil, "DNIs de amigos separados por coma")
	return cmd
}
