package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/Jean-Jawed/Patternia/internal/audio"
	"github.com/Jean-Jawed/Patternia/internal/core"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.patternia/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server. Every connection gets its own
// campaign over the shared level set and run history.
type SSHServer struct {
	config SSHServerConfig
	game   Options
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. Sessions never produce sound on
// the server: the game options' audio sink is replaced with a silent one.
func NewSSHServer(cfg SSHServerConfig, game Options) (*SSHServer, error) {
	game.normalize()
	game.Watcher = nil

	srv := &SSHServer{
		config: cfg,
		game:   game,
		logger: game.Logger.WithPrefix("ssh"),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".patternia", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rt := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.game.Config.Sim.TickRate,
	}

	opts := s.game
	opts.Audio = &audio.Nop{}
	opts.Logger = s.logger.With("user", sshSession.User())

	return NewAppModel(opts, rt), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "err", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// appScreen is the view an AppModel is showing.
type appScreen int

const (
	screenMenu appScreen = iota
	screenGame
	screenHistory
)

// AppModel manages the full flow: menu -> level -> menu, plus the run
// history board. It is the top-level model for `menu` and SSH sessions.
type AppModel struct {
	opts     Options
	rt       core.RuntimeConfig
	screen   appScreen
	menu     MenuModel
	game     *Model
	history  HistoryModel
	lastID   int
	err      error
	quitting bool
}

// NewAppModel creates a model that starts at the level menu.
func NewAppModel(opts Options, rt core.RuntimeConfig) AppModel {
	opts.normalize()
	if rt.TickRate <= 0 {
		rt.TickRate = opts.Config.Sim.TickRate
	}
	m := AppModel{opts: opts, rt: rt}
	m.menu = m.newMenu()
	return m
}

func (m *AppModel) newMenu() MenuModel {
	items, err := MenuItems(m.opts.Loader, m.opts.Store, m.opts.Logger)
	if err != nil {
		m.opts.Logger.Error("could not list levels", "err", err)
	}
	menu := NewMenuModel(items, m.rt)
	for i, it := range items {
		if it.LevelID == m.lastID {
			menu.cursor = i
		}
	}
	return menu
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the app.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.rt.ScreenW = wsm.Width
		m.rt.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		id := m.lastID
		if len(m.menu.items) > 0 {
			id = m.menu.items[m.menu.cursor].LevelID
		}
		m.history = NewHistoryModel(m.menu.items, m.opts.Store, m.rt.TickRate, id, m.rt.ScreenW, m.rt.ScreenH)
		m.screen = screenHistory
		return m, m.history.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		opts := m.opts
		opts.LevelID = selected.LevelID
		game, err := NewGame(opts)
		if err != nil {
			m.opts.Logger.Error("could not start level", "level", selected.LevelID, "err", err)
			m.err = err
			m.menu = m.newMenu()
			return m, nil
		}

		m.err = nil
		m.lastID = selected.LevelID
		gm := NewModel(game, m.rt, m.opts)
		gm.embedded = true
		m.game = &gm
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when a level is running.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.lastID = m.game.Game().State().LevelID
		m.game = nil
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateHistory handles updates when the run history board is open.
func (m AppModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if h, ok := newModel.(HistoryModel); ok {
		m.history = h
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.history.BackToMenu() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenHistory:
		return m.history.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(menuDimStyle.Render(m.err.Error()), m.rt.ScreenW)
	}
	return view
}

// RunApp runs the menu-driven flow locally until the player quits.
func RunApp(opts Options, rt core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewAppModel(opts, rt),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if app, ok := final.(AppModel); ok && app.game != nil {
		app.game.Game().Stop()
	}
	return err
}
