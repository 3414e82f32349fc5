package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	"github.com/jhoicas/registro-usuarios/internal/interfaces/cli"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake Caller
// ──────────────────────────────────────────────────────────────────────────────

type fakeCaller struct {
	mu       sync.Mutex
	requests []dto.CreateUserRequest
	reply    func(dto.CreateUserRequest) (any, error)

	inFlight atomic.Int32
	maxSeen  atomic.Int32
	hold     time.Duration
}

func (f *fakeCaller) Call(_ context.Context, payload any) ([]byte, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(f.hold)

	req := payload.(dto.CreateUserRequest)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	body, err := f.reply(req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(body)
}

func successReply(req dto.CreateUserRequest) (any, error) {
	return dto.SuccessReply{
		Status:       dto.StatusSuccess,
		Message:      "Usuario " + req.Name + " guardado correctamente",
		UserID:       7,
		SavedFriends: req.Friends,
	}, nil
}

func run(t *testing.T, caller *fakeCaller, args ...string) (string, error) {
	t.Helper()
	closed := false
	cmd := cli.NewRootCmdForTest(cli.Deps{
		Connect: func(context.Context) (cli.Caller, func() error, error) {
			return caller, func() error { closed = true; return nil }, nil
		},
		Timeout: time.Second,
		Seed:    1,
	})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if len(caller.requests) > 0 {
		assert.True(t, closed, "la conexión se cierra al terminar")
	}
	return buf.String(), err
}

// ──────────────────────────────────────────────────────────────────────────────
// registrar
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrar_SendsCleanedRequest(t *testing.T) {
	caller := &fakeCaller{reply: successReply}

	out, err := run(t, caller, "registrar",
		"--nombre", "Ana", "--correo", "ana@x.com", "--clave", "p", "--dni", "11111111",
		"--telefono", "912345678", "--amigos", "22222222,abc, 33333333")

	require.NoError(t, err)
	require.Len(t, caller.requests, 1)
	req := caller.requests[0]
	assert.Equal(t, "11111111", req.DNI)
	require.NotNil(t, req.Phone)
	assert.Equal(t, "912345678", *req.Phone)
	assert.Equal(t, []string{"22222222", "33333333"}, req.Friends, "se descartan los dni mal formados")
	assert.Contains(t, out, "Usuario Ana guardado correctamente")
	assert.Contains(t, out, "22222222, 33333333")
}

func TestRegistrar_RejectsBadDNIWithoutSending(t *testing.T) {
	caller := &fakeCaller{reply: successReply}

	_, err := run(t, caller, "registrar", "--nombre", "Ana", "--correo", "a@x", "--clave", "p", "--dni", "1234")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "8 dígitos")
	assert.Empty(t, caller.requests)
}

func TestRegistrar_ErrorReplyFailsCommand(t *testing.T) {
	caller := &fakeCaller{reply: func(dto.CreateUserRequest) (any, error) {
		return dto.ErrorReply{Status: dto.StatusError, Message: "usuario con DNI 11111111: el usuario ya existe"}, nil
	}}

	out, err := run(t, caller, "registrar", "--nombre", "Ana", "--correo", "a@x", "--clave", "p", "--dni", "11111111")

	require.Error(t, err)
	assert.Contains(t, out, "ya existe")
}

// ──────────────────────────────────────────────────────────────────────────────
// carga
// ──────────────────────────────────────────────────────────────────────────────

func TestCarga_CountsOutcomesAndBoundsConcurrency(t *testing.T) {
	var n atomic.Int32
	caller := &fakeCaller{hold: 2 * time.Millisecond, reply: func(req dto.CreateUserRequest) (any, error) {
		switch n.Add(1) % 4 {
		case 0:
			return nil, errors.New("timeout")
		case 1:
			return dto.ErrorReply{Status: dto.StatusError, Message: "ya existe"}, nil
		default:
			return successReply(req)
		}
	}}

	out, err := run(t, caller, "carga", "-n", "40", "-c", "4")

	require.NoError(t, err)
	assert.Len(t, caller.requests, 40)
	assert.LessOrEqual(t, caller.maxSeen.Load(), int32(4))
	assert.Contains(t, out, "Exitosos: 20")
	assert.Contains(t, out, "Fallidos: 20")
	assert.Contains(t, out, "TPS:")
}

func TestCarga_RejectsNonPositiveFlags(t *testing.T) {
	caller := &fakeCaller{reply: successReply}

	_, err := run(t, caller, "carga", "-n", "0")

	require.Error(t, err)
	assert.Empty(t, caller.requests)
}

func TestLoadStats_Rates(t *testing.T) {
	s := cli.LoadStats{Total: 1000, Elapsed: 2 * time.Second}

	assert.InDelta(t, 2.0, s.AvgMillis(), 0.001)
	assert.InDelta(t, 500.0, s.TPS(), 0.001)
	assert.Zero(t, cli.LoadStats{}.TPS())
}
