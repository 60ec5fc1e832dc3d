package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Jean-Jawed/Patternia/internal/audio"
	"github.com/Jean-Jawed/Patternia/internal/config"
	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/levels/formats"
	"github.com/Jean-Jawed/Patternia/internal/rules"
	"github.com/charmbracelet/log"
)

// Phase is the campaign state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhasePlaying
	PhaseDying
	PhaseDeathScreen
	PhaseWinning
	PhaseWinScreen
	PhaseComplete
	PhaseFlash
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseDying:
		return "dying"
	case PhaseDeathScreen:
		return "death"
	case PhaseWinning:
		return "winning"
	case PhaseWinScreen:
		return "win"
	case PhaseComplete:
		return "complete"
	case PhaseFlash:
		return "flash"
	default:
		return "loading"
	}
}

// ErrNoLevels is returned when the level source is empty.
var ErrNoLevels = errors.New("session: no levels")

// Source provides levels. *levels.Loader implements it.
type Source interface {
	LoadAll() ([]levels.Level, error)
	LoadByID(id int) (levels.Level, error)
}

// Clear is a finished level, reported through GameOptions.OnClear.
type Clear struct {
	LevelID int
	Deaths  int
	Steps   int
	Ticks   int
}

// GameOptions configures a Game.
type GameOptions struct {
	Config  config.GameConfig
	Source  Source
	Audio   audio.Sink // nil is silent
	Logger  *log.Logger
	OnClear func(Clear)
}

type scheduled struct {
	at int
	ev formats.StartEvent
}

// Game drives the campaign: level order, staged death and win screens,
// retries, scheduled level events and the HUD state they feed.
type Game struct {
	cfg     config.GameConfig
	source  Source
	audio   audio.Sink
	logger  *log.Logger
	onClear func(Clear)

	order   []int
	index   int
	session *Session

	phase Phase
	timer int    // ticks left in a staged phase
	after func() // runs when a flash ends
	tick  int

	pending []scheduled

	hint      string
	hintUntil int
	seq       []string
	seqLabel  string
	seqUntil  int
	message   string

	reload  bool
	loadErr error
}

// NewGame reads the level order from the source. The first level is not
// loaded until Start.
func NewGame(opts GameOptions) (*Game, error) {
	if opts.Source == nil {
		return nil, ErrNoLevels
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Audio == nil {
		opts.Audio = &audio.Nop{}
	}
	config.Normalize(&opts.Config)

	all, err := opts.Source.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("session: list levels: %w", err)
	}
	if len(all) == 0 {
		return nil, ErrNoLevels
	}

	g := &Game{
		cfg:     opts.Config,
		source:  opts.Source,
		audio:   opts.Audio,
		logger:  opts.Logger,
		onClear: opts.OnClear,
		session: New(opts.Config, opts.Logger),
	}
	for _, l := range all {
		g.order = append(g.order, l.ID)
	}
	return g, nil
}

// Start loads the level at index i of the play order.
func (g *Game) Start(i int) error {
	return g.LoadLevel(i)
}

// IndexOf returns the play-order index of a level id.
func (g *Game) IndexOf(id int) (int, bool) {
	for i, v := range g.order {
		if v == id {
			return i, true
		}
	}
	return 0, false
}

// LoadLevel enters level i as a fresh attempt: deaths reset, the music
// stops and on_start events are scheduled. On failure the previous level
// stays on screen, inactive.
func (g *Game) LoadLevel(i int) error {
	if i < 0 || i >= len(g.order) {
		return fmt.Errorf("session: level index %d out of range", i)
	}
	g.session.Deactivate()
	g.index = i
	g.audio.StopLoop()
	g.clearHUD()
	g.pending = nil

	lvl, err := g.source.LoadByID(g.order[i])
	if err != nil {
		g.phase = PhaseLoading
		g.loadErr = err
		g.logger.Error("load level", "id", g.order[i], "err", err)
		return err
	}
	g.loadErr = nil

	g.session.ResetDeaths()
	g.session.Load(lvl)

	for _, ev := range lvl.OnStart {
		g.pending = append(g.pending, scheduled{at: g.tick + g.cfg.TicksFor(ev.Delay), ev: ev})
	}
	g.fireDue()

	g.begin(lvl)
	return nil
}

// ReloadCurrentLevel restarts the current level from its file, keeping
// the death counter. Death-count hints are checked immediately.
func (g *Game) ReloadCurrentLevel() error {
	if len(g.order) == 0 {
		return ErrNoLevels
	}
	g.session.Deactivate()

	lvl, err := g.source.LoadByID(g.order[g.index])
	if err != nil {
		g.phase = PhaseLoading
		g.loadErr = err
		g.logger.Error("reload level", "id", g.order[g.index], "err", err)
		return err
	}
	g.loadErr = nil

	g.audio.StopLoop()
	g.clearHUD()
	g.pending = nil
	g.session.Load(lvl)

	// Restore the level's soundscape; hints and sequences are not replayed.
	for _, ev := range lvl.OnStart {
		if ev.Type == "play_sound" {
			g.pending = append(g.pending, scheduled{at: g.tick + g.cfg.TicksFor(ev.Delay), ev: ev})
		}
	}
	g.consume(g.session.CheckHints())
	g.fireDue()

	g.begin(lvl)
	return nil
}

func (g *Game) begin(lvl levels.Level) {
	g.audio.LevelStart(lvl.ID)
	g.session.Activate()
	g.phase = PhasePlaying
	g.logger.Debug("level started", "id", lvl.ID, "deaths", g.session.Deaths())
}

// RequestReload asks for the current level to be reloaded on the next
// playing tick. Repeated requests before then collapse into one.
func (g *Game) RequestReload() {
	g.reload = true
}

// Stop freezes the running level and silences the music loop. A later
// LoadLevel or retry resumes play.
func (g *Game) Stop() {
	g.session.Deactivate()
	g.audio.StopLoop()
	g.pending = nil
}

// HandleAction applies one user action.
func (g *Game) HandleAction(a core.Action) {
	if d, ok := a.Direction(); ok {
		g.Push(d)
		return
	}

	switch a {
	case core.ActionConfirm:
		switch g.phase {
		case PhaseDeathScreen:
			g.flash(func() { g.ReloadCurrentLevel() })
		case PhaseWinScreen:
			next := g.index + 1
			g.flash(func() { g.LoadLevel(next) })
		case PhaseComplete:
			g.flash(func() { g.LoadLevel(0) })
		}

	case core.ActionRetry:
		switch g.phase {
		case PhasePlaying, PhaseDying, PhaseDeathScreen, PhaseLoading:
			g.flash(func() { g.ReloadCurrentLevel() })
		}

	case core.ActionNextLevel:
		g.jump(g.index + 1)

	case core.ActionPrevLevel:
		g.jump(g.index - 1)

	case core.ActionMute:
		g.audio.SetMuted(!g.audio.Muted())
	}
}

// Push queues a move while a level is being played.
func (g *Game) Push(d core.Direction) {
	if g.phase == PhasePlaying {
		g.session.Push(d)
	}
}

func (g *Game) jump(i int) {
	if i < 0 || i >= len(g.order) || g.phase == PhaseFlash {
		return
	}
	g.flash(func() { g.LoadLevel(i) })
}

func (g *Game) flash(then func()) {
	g.session.Deactivate()
	g.phase = PhaseFlash
	g.timer = g.cfg.TicksFor(g.cfg.Timing.FlashMs)
	g.after = then
	if g.timer <= 0 {
		g.endFlash()
	}
}

func (g *Game) endFlash() {
	then := g.after
	g.after = nil
	g.phase = PhaseLoading
	if then != nil {
		then()
	}
}

// Tick advances the campaign by one frame.
func (g *Game) Tick() {
	g.tick++

	switch g.phase {
	case PhasePlaying:
		if g.reload {
			g.reload = false
			if err := g.ReloadCurrentLevel(); err != nil {
				return
			}
		}
		g.fireDue()
		g.consume(g.session.Tick())

	case PhaseDying:
		if g.countdown() {
			g.phase = PhaseDeathScreen
		}

	case PhaseWinning:
		if g.countdown() {
			if g.index+1 < len(g.order) {
				g.phase = PhaseWinScreen
			} else {
				g.phase = PhaseComplete
			}
		}

	case PhaseFlash:
		if g.countdown() {
			g.endFlash()
		}
	}

	if g.hint != "" && g.hintUntil > 0 && g.tick >= g.hintUntil {
		g.hint = ""
	}
	if g.seq != nil && g.seqUntil > 0 && g.tick >= g.seqUntil {
		g.seq, g.seqLabel = nil, ""
	}
}

func (g *Game) countdown() bool {
	g.timer--
	return g.timer <= 0
}

// fireDue runs scheduled level events whose time has come.
func (g *Game) fireDue() {
	if len(g.pending) == 0 {
		return
	}
	rest := g.pending[:0]
	var due []formats.StartEvent
	for _, p := range g.pending {
		if g.tick >= p.at {
			due = append(due, p.ev)
		} else {
			rest = append(rest, p)
		}
	}
	g.pending = rest

	for _, ev := range due {
		switch ev.Type {
		case "show_hint":
			g.consume([]Event{{Kind: EventShowHint, Text: ev.HintText, DurationMs: g.startDuration(ev)}})
		case "show_sequence":
			g.consume([]Event{{Kind: EventShowSequence, Colors: ev.Colors, Label: ev.Label, DurationMs: g.startDuration(ev)}})
		case "play_sound":
			g.consume(g.session.Apply(rules.Effect{Kind: rules.EffectPlaySound, Tag: "play_sound", SoundID: ev.SoundID}))
		default:
			g.logger.Warn("unknown on_start event", "type", ev.Type)
		}
	}
}

func (g *Game) startDuration(ev formats.StartEvent) int {
	if ev.Duration > 0 {
		return ev.Duration
	}
	return g.cfg.Timing.StartEventMs
}

// consume routes session events to audio and the HUD.
func (g *Game) consume(evs []Event) {
	for _, ev := range evs {
		switch ev.Kind {
		case EventLanded:
			g.audio.Step()

		case EventKill:
			g.audio.Death()
			lvl := g.session.Level()
			g.message = lvl.DeathText()
			g.phase = PhaseDying
			g.timer = g.cfg.TicksFor(g.cfg.Timing.DeathRevealMs)

		case EventWin:
			g.audio.Win()
			lvl := g.session.Level()
			g.message = lvl.WinText()
			g.phase = PhaseWinning
			g.timer = g.cfg.TicksFor(g.cfg.Timing.WinRevealMs)
			if g.onClear != nil {
				g.onClear(Clear{LevelID: lvl.ID, Deaths: g.session.Deaths(), Steps: g.session.Steps(), Ticks: g.session.Ticks()})
			}

		case EventTeleport:
			g.audio.Teleport()

		case EventShowHint:
			g.hint = ev.Text
			g.hintUntil = 0
			if ev.DurationMs > 0 {
				g.hintUntil = g.tick + g.cfg.TicksFor(ev.DurationMs)
			}

		case EventShowSequence:
			g.seq, g.seqLabel = ev.Colors, ev.Label
			g.seqUntil = 0
			if ev.DurationMs > 0 {
				g.seqUntil = g.tick + g.cfg.TicksFor(ev.DurationMs)
			}

		case EventPlaySound:
			lvl := g.session.Level()
			p, ok := lvl.Pattern(ev.SoundID)
			if !ok {
				g.logger.Debug("no music pattern", "sound", ev.SoundID)
				continue
			}
			g.audio.StartLoop(notes(p))

		case EventStopSound:
			g.audio.StopLoop()
		}
	}
}

func (g *Game) clearHUD() {
	g.hint, g.hintUntil = "", 0
	g.seq, g.seqLabel, g.seqUntil = nil, "", 0
	g.message = ""
}

func notes(p []formats.Note) []audio.Note {
	out := make([]audio.Note, len(p))
	for i, n := range p {
		out[i] = audio.Note{Freq: n.Freq, Duration: time.Duration(n.Duration * float64(time.Second))}
	}
	return out
}

// HUD is the text state shown around the grid.
type HUD struct {
	LevelID       int
	Title         string
	Index, Count  int
	Deaths, Steps int
	Hint          string
	Sequence      []string
	SequenceLabel string
	WallHint      string
	Message       string
	Muted         bool
	LoadErr       error
}

// HUD returns the current HUD state.
func (g *Game) HUD() HUD {
	lvl := g.session.Level()
	return HUD{
		LevelID:       lvl.ID,
		Title:         lvl.Title,
		Index:         g.index,
		Count:         len(g.order),
		Deaths:        g.session.Deaths(),
		Steps:         g.session.Steps(),
		Hint:          g.hint,
		Sequence:      g.seq,
		SequenceLabel: g.seqLabel,
		WallHint:      lvl.WallHint,
		Message:       g.message,
		Muted:         g.audio.Muted(),
		LoadErr:       g.loadErr,
	}
}

// State summarizes the campaign.
func (g *Game) State() core.GameState {
	return core.GameState{
		LevelIndex: g.index,
		LevelID:    g.session.Level().ID,
		Deaths:     g.session.Deaths(),
		Steps:      g.session.Steps(),
		Active:     g.session.Active(),
		Complete:   g.phase == PhaseComplete,
	}
}

func (g *Game) Phase() Phase { return g.phase }
func (g *Game) Session() *Session { return g.session }
func (g *Game) Index() int { return g.index }
