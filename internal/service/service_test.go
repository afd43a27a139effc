package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/config"
	"github.com/arcitek-ai/arcitek/internal/output"
)

// --- Mock types ---

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Provider() backend.BackendProvider {
	args := m.Called()
	return args.Get(0).(backend.BackendProvider)
}

func (m *MockBackend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*backend.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Helpers ---

// captured records what a backend received.
type captured struct {
	input  string
	params map[string]any
}

// capture returns a mock.Run hook that stores the request input and parameters.
func capture(c *captured) func(mock.Arguments) {
	return func(args mock.Arguments) {
		req := args.Get(1).(*backend.Request)
		b, _ := io.ReadAll(req.Input)
		c.input = string(b)
		c.params = req.Parameters
	}
}

func newTestStore(t *testing.T) *output.Store {
	t.Helper()

	n := 0
	store, err := output.NewStore(t.TempDir(),
		output.WithClock(func() time.Time { return time.Unix(1735689600, 0) }),
		output.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id%06d", n)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func newRegistry(t *testing.T, backends ...backend.Backend) *backend.Registry {
	t.Helper()

	reg := backend.NewRegistry()
	for _, b := range backends {
		require.NoError(t, reg.Register(b))
	}

	return reg
}

func newMockBackend(provider backend.BackendProvider) *MockBackend {
	m := new(MockBackend)
	m.On("Provider").Return(provider)
	return m
}

func defaultConfig() ConfigFunc {
	return StaticConfig(config.Default())
}

func TestAvailability(t *testing.T) {
	reg := newRegistry(t,
		newMockBackend(backend.BackendProviderOpenAIChat),
		newMockBackend(backend.BackendProviderOpenAISpeech),
	)

	got := Availability(reg, config.Default())
	require.Len(t, got, len(Names))
	require.Equal(t, map[string]bool{
		NameImage:     false,
		NameStory:     true,
		NameNarration: true,
		NameMusic:     false,
	}, got)
}

func TestTruncateRunes(t *testing.T) {
	s, cut := truncateRunes("héllo", 2)
	require.True(t, cut)
	require.Equal(t, "hé", s)

	s, cut = truncateRunes("hé", 2)
	require.False(t, cut)
	require.Equal(t, "hé", s)
}
