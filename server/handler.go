package server

import (
	"fmt"
	"sync"
	"time"

	"honk/logging"
	"honk/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
)

// sessionModel wraps ui.Panel to detach it when the connection ends
type sessionModel struct {
	*ui.Panel
	closeOnce sync.Once
	sessionID string
	startTime time.Time
}

func (s *sessionModel) Init() tea.Cmd {
	return s.Panel.Init()
}

func (s *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.QuitMsg); ok {
		s.close()
	}

	updatedModel, cmd := s.Panel.Update(msg)
	if p, ok := updatedModel.(*ui.Panel); ok {
		s.Panel = p
	}
	return s, cmd
}

func (s *sessionModel) View() string {
	return s.Panel.View()
}

// close detaches the panel. Only this connection's sink is released, so a
// newer connection keeps receiving output.
func (s *sessionModel) close() {
	s.closeOnce.Do(func() {
		s.Panel.Close()
		logging.Logger.Info("SSH session ended",
			"session_id", s.sessionID,
			"duration", time.Since(s.startTime).String())
	})
}

// teaHandler creates a panel for each SSH session
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	sessionID := fmt.Sprintf("%s@%s", sess.User(), sess.RemoteAddr().String())

	logging.Logger.Info("New SSH session",
		"session_id", sessionID,
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String(),
		"term", pty.Term,
		"window", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	options := s.panelOptions
	options.DevMode = false // SSH mode never uses dev mode

	model := s.newSessionModel(sessionID, options)

	// A dropped connection never delivers tea.QuitMsg
	go func() {
		<-sess.Context().Done()
		model.close()
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

func (s *Server) newSessionModel(sessionID string, options ui.PanelOptions) *sessionModel {
	return &sessionModel{
		Panel:     ui.NewPanel(s.agent, s.relay, options),
		sessionID: sessionID,
		startTime: time.Now(),
	}
}
