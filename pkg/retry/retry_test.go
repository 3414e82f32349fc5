package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var failures []int

	err := Do(context.Background(), Policy{Attempts: 5, Backoff: time.Millisecond},
		func(attempt, max int, err error) {
			failures = append(failures, attempt)
			assert.Equal(t, 5, max)
		},
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errDown
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, failures)
}

func TestDo_FailsFastAfterMaxAttempts(t *testing.T) {
	calls := 0

	err := Do(context.Background(), Policy{Attempts: 3, Backoff: time.Millisecond}, nil,
		func(context.Context) error {
			calls++
			return errDown
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "3 intentos")
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, Policy{Attempts: 100, Backoff: 50 * time.Millisecond}, nil,
		func(context.Context) error {
			calls++
			cancel()
			return errDown
		})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
