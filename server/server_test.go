package server

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"honk/domain"
	"honk/ports"
	"honk/relay"
	"honk/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAgent is an idle agent that the relay can subscribe to
type stubAgent struct {
	mu       sync.Mutex
	listener ports.EventListener
}

func (a *stubAgent) Open(ctx context.Context) error { return nil }
func (a *stubAgent) Status() domain.Status { return domain.Status{State: domain.StateRunning} }
func (a *stubAgent) Stop() {}
func (a *stubAgent) Submit(text string) error { return nil }
func (a *stubAgent) Write(text string) error { return nil }

func (a *stubAgent) Subscribe(l ports.EventListener) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = l
	return func() {}
}

func newTestServer(t *testing.T) (*Server, *relay.Relay) {
	t.Helper()
	agent := &stubAgent{}
	r := relay.New(agent)

	dir := t.TempDir()
	srv, err := NewServer(agent, r, Config{
		AuthorizedKeysPath: filepath.Join(dir, "authorized_keys"),
		Host:               "127.0.0.1",
		HostKeyPath:        filepath.Join(dir, "ssh", "id_ed25519"),
		Port:               "0",
	})
	require.NoError(t, err)
	return srv, r
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, "127.0.0.1:0", srv.Address())
}

func TestStartStopsWithContext(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	cancel()
	assert.NoError(t, <-errCh)
}

func TestNewestConnectionWins(t *testing.T) {
	srv, r := newTestServer(t)

	first := srv.newSessionModel("a@1", ui.PanelOptions{})
	first.Init()
	second := srv.newSessionModel("b@2", ui.PanelOptions{})
	second.Init()

	// The first client disconnecting must not detach the second
	first.close()
	assert.True(t, r.Attached())

	second.Update(tea.QuitMsg{})
	assert.False(t, r.Attached())

	// Dropped connections close again from the context watcher
	second.close()
}
