package tui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Jean-Jawed/Patternia/internal/audio"
	"github.com/Jean-Jawed/Patternia/internal/config"
	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/render"
	"github.com/Jean-Jawed/Patternia/internal/session"
	"github.com/Jean-Jawed/Patternia/internal/storage"
)

// Options wires a game to its level set and side services.
type Options struct {
	Config  config.GameConfig
	Loader  *levels.Loader  // nil uses the built-in levels
	Store   *storage.Store  // nil disables run history
	Audio   audio.Sink      // nil is silent
	Watcher *levels.Watcher // nil disables hot reload
	Logger  *log.Logger
	LevelID int // 0 starts at the first level
}

func (o *Options) normalize() {
	if o.Loader == nil {
		o.Loader = levels.Builtin()
	}
	if o.Audio == nil {
		o.Audio = &audio.Nop{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// NewGame builds a campaign over the options' level set and loads the
// starting level. A level that fails to load is reported on screen
// rather than returned, so the player can move on to another one.
func NewGame(opts Options) (*session.Game, error) {
	opts.normalize()

	game, err := session.NewGame(session.GameOptions{
		Config:  opts.Config,
		Source:  opts.Loader,
		Audio:   opts.Audio,
		Logger:  opts.Logger,
		OnClear: recordClear(opts.Store, opts.Logger),
	})
	if err != nil {
		return nil, err
	}

	start := 0
	if opts.LevelID != 0 {
		i, ok := game.IndexOf(opts.LevelID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", levels.ErrNotFound, opts.LevelID)
		}
		start = i
	}
	if err := game.Start(start); err != nil {
		opts.Logger.Warn("starting level failed", "index", start, "err", err)
	}
	return game, nil
}

// recordClear saves every won level to the run history.
func recordClear(store *storage.Store, logger *log.Logger) func(session.Clear) {
	if store == nil {
		return nil
	}
	return func(c session.Clear) {
		if _, err := store.RecordClear(c.LevelID, c.Deaths, c.Steps, c.Ticks); err != nil {
			logger.Warn("could not record clear", "level", c.LevelID, "err", err)
		}
	}
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for playing the campaign.
type Model struct {
	game       *session.Game
	loader     *levels.Loader
	watcher    *levels.Watcher
	screen     *core.Screen
	keys       KeyMap
	input      core.InputFrame // actions since the last tick
	help       help.Model
	width      int
	height     int
	tickRate   int
	logger     *log.Logger
	embedded   bool // Back returns to a menu instead of quitting
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for a running game.
func NewModel(game *session.Game, rt core.RuntimeConfig, opts Options) Model {
	opts.normalize()
	if rt.TickRate <= 0 {
		rt.TickRate = opts.Config.Sim.TickRate
	}

	return Model{
		game:     game,
		loader:   opts.Loader,
		watcher:  opts.Watcher,
		screen:   core.NewScreen(rt.ScreenW, max(1, rt.ScreenH-1)),
		keys:     DefaultKeyMap(),
		input:    core.NewInputFrame(),
		help:     help.New(),
		width:    rt.ScreenW,
		height:   rt.ScreenH,
		tickRate: rt.TickRate,
		logger:   opts.Logger,
	}
}

// Init starts the tick loop and, when watching, the file watch loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tickRate), watchCmd(m.watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		m.applyInput()
		m.game.Tick()
		return m, tickCmd(m.tickRate)

	case LevelChangedMsg:
		m.handleLevelChange(string(msg))
		return m, watchCmd(m.watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch a := m.keys.Action(msg); a {
	case core.ActionNone:
	case core.ActionQuit:
		m.quitting = true
		m.game.Stop()
		return m, tea.Quit
	case core.ActionBack:
		m.game.Stop()
		if !m.embedded {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
	default:
		m.input.Set(a)
	}
	return m, nil
}

// frameActions are applied after movement, in this order.
var frameActions = []core.Action{
	core.ActionRetry,
	core.ActionConfirm,
	core.ActionNextLevel,
	core.ActionPrevLevel,
	core.ActionMute,
}

// applyInput hands the actions gathered since the last tick to the game.
func (m *Model) applyInput() {
	for _, d := range m.input.Directions {
		m.game.Push(d)
	}
	for _, a := range frameActions {
		if m.input.Has(a) {
			m.game.HandleAction(a)
		}
	}
	m.input.Clear()
}

// handleLevelChange reloads the current level when its file was written.
func (m Model) handleLevelChange(p string) {
	current := m.loader.AbsPath(m.game.Session().Level())
	if current == "" || filepath.Clean(current) != p {
		return
	}
	m.logger.Info("level file changed, reloading", "path", p)
	m.game.RequestReload()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpView := helpStyle.Render(m.help.View(m.keys))
	m.screen.Resize(m.width, max(1, m.height-lipgloss.Height(helpView)))

	render.Draw(m.screen, render.FrameOf(m.game))
	return RenderScreen(m.screen) + "\n" + helpView
}

// Game returns the running campaign.
func (m Model) Game() *session.Game {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays the campaign full screen until the player quits.
func Run(opts Options, rt core.RuntimeConfig) error {
	game, err := NewGame(opts)
	if err != nil {
		return err
	}
	model := NewModel(game, rt, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	game.Stop()
	return err
}
