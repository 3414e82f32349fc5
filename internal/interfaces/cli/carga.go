package cli

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	"github.com/jhoicas/registro-usuarios/pkg/datagen"
)

// LoadStats resultado de una prueba de carga.
type LoadStats struct {
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// AvgMillis tiempo medio por registro en ms (tiempo total / registros).
func (s LoadStats) AvgMillis() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Elapsed.Milliseconds()) / float64(s.Total)
}

// TPS registros por segundo.
func (s LoadStats) TPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Total) / s.Elapsed.Seconds()
}

func newCargaCmd(deps Deps) *cobra.Command {
	var total, concurrency int
	cmd := &cobra.Command{
		Use:   "carga",
		Short: "Envía registros aleatorios en paralelo y mide el rendimiento",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if total <= 0 || concurrency <= 0 {
				return fmt.Errorf("--total y --concurrencia deben ser mayores que cero")
			}
			caller, closeFn, err := deps.Connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("conectar: %w", err)
			}
			defer closeFn()

			seed := deps.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			// rand.Rand no es seguro para uso concurrente; se generan todos antes de enviar.
			r := rand.New(rand.NewSource(seed))
			reqs := make([]dto.CreateUserRequest, total)
			for i := range reqs {
				reqs[i] = datagen.RandomUser(r)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Enviando %d registros con concurrencia %d...\n", total, concurrency)

			stats := runLoad(cmd, caller, deps, reqs, concurrency)

			fmt.Fprintf(out, "Exitosos: %d\n", stats.Succeeded)
			fmt.Fprintf(out, "Fallidos: %d\n", stats.Failed)
			fmt.Fprintf(out, "Tiempo total: %d ms\n", stats.Elapsed.Milliseconds())
			fmt.Fprintf(out, "Promedio: %.2f ms/reg\n", stats.AvgMillis())
			fmt.Fprintf(out, "TPS: %.2f reg/s\n", stats.TPS())
			return nil
		},
	}
	cmd.Flags().IntVarP(&total, "total", "n", 1000, "registros a enviar")
	cmd.Flags().IntVarP(&concurrency, "concurrencia", "c", 50, "solicitudes simultáneas")
	return cmd
}

func runLoad(cmd *cobra.Command, caller Caller, deps Deps, reqs []dto.CreateUserRequest, concurrency int) LoadStats {
	var (
		ok, failed atomic.Int64
		errMu      sync.Mutex
		firstErr   error
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)

	start := time.Now()
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			reply, err := call(ctx, caller, deps.timeout(), req)
			if err != nil || !reply.OK() {
				failed.Add(1)
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
				}
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if firstErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "primer error de transporte: %v\n", firstErr)
	}
	return LoadStats{
		Total:     len(reqs),
		Succeeded: int(ok.Load()),
		Failed:    int(failed.Load()),
		Elapsed:   time.Since(start),
	}
}
