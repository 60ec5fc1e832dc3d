package session

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/Jean-Jawed/Patternia/internal/audio"
	"github.com/Jean-Jawed/Patternia/internal/config"
	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/google/go-cmp/cmp"
)

// recSink records the cues a game sends.
type recSink struct {
	audio.Nop
	calls []string
}

func (r *recSink) Step() { r.calls = append(r.calls, "step") }
func (r *recSink) Death() { r.calls = append(r.calls, "death") }
func (r *recSink) Win() { r.calls = append(r.calls, "win") }
func (r *recSink) Teleport() { r.calls = append(r.calls, "teleport") }
func (r *recSink) LevelStart(int) { r.calls = append(r.calls, "level") }
func (r *recSink) StartLoop([]audio.Note) { r.calls = append(r.calls, "loop") }
func (r *recSink) StopLoop() { r.calls = append(r.calls, "stop") }

func (r *recSink) has(call string) bool {
	for _, c := range r.calls {
		if c == call {
			return true
		}
	}
	return false
}

var campaign = fstest.MapFS{
	"level_01.yaml": {Data: []byte(`
id: 1
title: One
grid_size: 2
start: [0, 0]
exit: [1, 0]
death_message: Ouch.
rules:
  - condition: {type: reach_exit}
    effect: {type: win}
hints:
  - {trigger: death_count, threshold: 1, text: careful, duration: 1000}
`)},
	"level_02.yaml": {Data: []byte(`
id: 2
title: Two
grid_size: 2
start: [0, 0]
exit: [1, 0]
border_behavior: block
wall_hint: Go right.
rules:
  - condition: {type: reach_exit}
    effect: {type: win}
on_start:
  - {type: play_sound, sound_id: hum}
  - {type: show_hint, delay: 100, hint_text: hello, duration: 100}
  - {type: show_sequence, colors: ["#E74C3C"], label: Look}
music_patterns:
  hum:
    - {freq: 220, duration: 0.5}
`)},
}

func newGame(t *testing.T, src Source) (*Game, *recSink, *[]Clear) {
	t.Helper()
	sink := &recSink{}
	clears := &[]Clear{}
	g, err := NewGame(GameOptions{
		Config:  config.DefaultGameConfig(),
		Source:  src,
		Audio:   sink,
		OnClear: func(c Clear) { *clears = append(*clears, c) },
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g, sink, clears
}

// tickUntil ticks until the game reaches phase, failing after max ticks.
func tickUntil(t *testing.T, g *Game, phase Phase, max int) {
	t.Helper()
	for i := 0; i < max; i++ {
		if g.Phase() == phase {
			return
		}
		g.Tick()
	}
	if g.Phase() != phase {
		t.Fatalf("phase = %s after %d ticks, want %s", g.Phase(), max, phase)
	}
}

// step sends one direction and waits for the traversal to finish.
func step(g *Game, a core.Action) {
	g.HandleAction(a)
	for i := 0; i < 14; i++ {
		g.Tick()
	}
}

func TestGameDeathRetryKeepsDeaths(t *testing.T) {
	g, sink, _ := newGame(t, levels.NewFSLoader(campaign))
	if err := g.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %s", g.Phase())
	}

	g.HandleAction(core.ActionUp)
	g.Tick()
	if g.Phase() != PhaseDying {
		t.Fatalf("phase after border = %s, want dying", g.Phase())
	}
	if !sink.has("death") {
		t.Error("no death cue")
	}
	if hud := g.HUD(); hud.Deaths != 1 || hud.Message != "Ouch." {
		t.Errorf("hud = %+v", hud)
	}

	tickUntil(t, g, PhaseDeathScreen, 40)
	g.HandleAction(core.ActionConfirm)
	if g.Phase() != PhaseFlash {
		t.Fatalf("phase after confirm = %s, want flash", g.Phase())
	}
	tickUntil(t, g, PhasePlaying, 40)

	hud := g.HUD()
	if hud.Deaths != 1 {
		t.Errorf("deaths after retry = %d, want 1", hud.Deaths)
	}
	if hud.Hint != "careful" {
		t.Errorf("hint after retry = %q, want careful", hud.Hint)
	}
	if hud.Message != "" {
		t.Errorf("message not cleared: %q", hud.Message)
	}
}

func TestGameWinAdvancesAndCompletes(t *testing.T) {
	g, sink, clears := newGame(t, levels.NewFSLoader(campaign))
	if err := g.Start(0); err != nil {
		t.Fatal(err)
	}

	// Die once so the clear carries a death.
	g.HandleAction(core.ActionLeft)
	tickUntil(t, g, PhaseDeathScreen, 40)
	g.HandleAction(core.ActionConfirm)
	tickUntil(t, g, PhasePlaying, 40)

	step(g, core.ActionRight)
	if g.Phase() != PhaseWinning && g.Phase() != PhaseWinScreen {
		t.Fatalf("phase after exit = %s", g.Phase())
	}
	if !sink.has("win") {
		t.Error("no win cue")
	}
	want := []Clear{{LevelID: 1, Deaths: 1, Steps: 1, Ticks: 12}}
	if diff := cmp.Diff(want, *clears); diff != "" {
		t.Errorf("clears mismatch (-want +got):\n%s", diff)
	}

	tickUntil(t, g, PhaseWinScreen, 40)
	g.HandleAction(core.ActionConfirm)
	tickUntil(t, g, PhasePlaying, 40)
	if g.Index() != 1 || g.HUD().Deaths != 0 {
		t.Errorf("index = %d deaths = %d, want 1 and 0", g.Index(), g.HUD().Deaths)
	}

	step(g, core.ActionRight)
	tickUntil(t, g, PhaseComplete, 40)
	if !g.State().Complete {
		t.Error("state not complete")
	}
	g.HandleAction(core.ActionConfirm)
	tickUntil(t, g, PhasePlaying, 40)
	if g.Index() != 0 {
		t.Errorf("index after complete = %d, want 0", g.Index())
	}
}

func TestGameStartEvents(t *testing.T) {
	g, sink, _ := newGame(t, levels.NewFSLoader(campaign))
	if err := g.Start(1); err != nil {
		t.Fatal(err)
	}

	if !sink.has("loop") {
		t.Error("play_sound at delay 0 did not start the loop")
	}
	if !g.Session().MusicPlaying() {
		t.Error("music flag not set by on_start")
	}
	hud := g.HUD()
	if diff := cmp.Diff([]string{"#E74C3C"}, hud.Sequence); diff != "" || hud.SequenceLabel != "Look" {
		t.Errorf("sequence = %v %q", hud.Sequence, hud.SequenceLabel)
	}
	if hud.WallHint != "Go right." {
		t.Errorf("wall hint = %q", hud.WallHint)
	}
	if hud.Hint != "" {
		t.Errorf("delayed hint shown early: %q", hud.Hint)
	}

	for i := 0; i < 6; i++ {
		g.Tick()
	}
	if got := g.HUD().Hint; got != "hello" {
		t.Fatalf("hint = %q, want hello", got)
	}
	for i := 0; i < 6; i++ {
		g.Tick()
	}
	if got := g.HUD().Hint; got != "" {
		t.Errorf("hint not expired: %q", got)
	}
}

func TestGameJumpResetsDeaths(t *testing.T) {
	g, _, _ := newGame(t, levels.NewFSLoader(campaign))
	if err := g.Start(0); err != nil {
		t.Fatal(err)
	}
	g.HandleAction(core.ActionUp)
	g.Tick()

	g.HandleAction(core.ActionNextLevel)
	tickUntil(t, g, PhasePlaying, 40)
	if g.Index() != 1 || g.HUD().Deaths != 0 {
		t.Errorf("index = %d deaths = %d", g.Index(), g.HUD().Deaths)
	}

	g.HandleAction(core.ActionNextLevel)
	if g.Phase() != PhasePlaying {
		t.Errorf("jump past the last level changed phase to %s", g.Phase())
	}
}

func TestGameRequestReload(t *testing.T) {
	g, _, _ := newGame(t, levels.NewFSLoader(campaign))
	if err := g.Start(0); err != nil {
		t.Fatal(err)
	}
	step(g, core.ActionDown)
	if g.HUD().Steps != 1 {
		t.Fatalf("steps = %d", g.HUD().Steps)
	}
	g.RequestReload()
	g.RequestReload()
	g.Tick()
	if g.HUD().Steps != 0 || g.Phase() != PhasePlaying {
		t.Errorf("reload did not restart: steps=%d phase=%s", g.HUD().Steps, g.Phase())
	}
}

func TestGameMute(t *testing.T) {
	g, sink, _ := newGame(t, levels.NewFSLoader(campaign))
	g.HandleAction(core.ActionMute)
	if !sink.Muted() || !g.HUD().Muted {
		t.Error("mute not toggled")
	}
}

func TestGameStop(t *testing.T) {
	g, sink, _ := newGame(t, levels.NewFSLoader(campaign))
	if err := g.Start(0); err != nil {
		t.Fatal(err)
	}
	g.Stop()
	if g.Session().Active() {
		t.Error("session still active after Stop")
	}
	if !sink.has("stop") {
		t.Error("music loop not stopped")
	}
	g.HandleAction(core.ActionRight)
	for i := 0; i < 20; i++ {
		g.Tick()
	}
	if g.HUD().Steps != 0 {
		t.Errorf("steps = %d after Stop, want 0", g.HUD().Steps)
	}
}

// flaky serves level 1 and fails on every other id.
type flaky struct{ inner Source }

func (f flaky) LoadAll() ([]levels.Level, error) { return f.inner.LoadAll() }

func (f flaky) LoadByID(id int) (levels.Level, error) {
	if id != 1 {
		return levels.Level{}, errors.New("disk on fire")
	}
	return f.inner.LoadByID(id)
}

func TestGameLoadFailureKeepsPrevious(t *testing.T) {
	g, _, _ := newGame(t, flaky{inner: levels.NewFSLoader(campaign)})
	if err := g.Start(0); err != nil {
		t.Fatal(err)
	}
	if err := g.LoadLevel(1); err == nil {
		t.Fatal("LoadLevel(1) succeeded")
	}
	if g.Phase() != PhaseLoading || g.Session().Active() {
		t.Errorf("phase = %s active = %v", g.Phase(), g.Session().Active())
	}
	hud := g.HUD()
	if hud.LevelID != 1 || hud.LoadErr == nil {
		t.Errorf("hud = %+v", hud)
	}
	if err := g.LoadLevel(7); err == nil {
		t.Error("out of range index accepted")
	}
}

func TestNewGameEmptySource(t *testing.T) {
	_, err := NewGame(GameOptions{Source: levels.NewFSLoader(fstest.MapFS{})})
	if !errors.Is(err, ErrNoLevels) {
		t.Errorf("err = %v, want ErrNoLevels", err)
	}
}
