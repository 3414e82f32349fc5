// Package retry reintenta la conexión a dependencias externas con espera fija
// y un número máximo de intentos. Agotados los intentos devuelve el último error:
// el arranque debe fallar en lugar de seguir con un handle sin conectar.
package retry

import (
	"context"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Policy intentos máximos y espera constante entre ellos.
type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// OnFailure se invoca tras cada intento fallido (para loguear).
type OnFailure func(attempt, max int, err error)

// Do ejecuta fn hasta que devuelva nil o se agoten los intentos.
func Do(ctx context.Context, p Policy, onFailure OnFailure, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Backoff <= 0 {
		p.Backoff = time.Millisecond
	}
	backoff := goretry.WithMaxRetries(uint64(p.Attempts-1), goretry.NewConstant(p.Backoff))

	attempt := 0
	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			if onFailure != nil {
				onFailure(attempt, p.Attempts, err)
			}
			return goretry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sin conexión tras %d intentos: %w", attempt, err)
	}
	return nil
}
