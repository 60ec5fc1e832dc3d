package player

import (
	"testing"

	"github.com/Jean-Jawed/Patternia/internal/core"
)

// runMove issues dir once and ticks until the player stops moving.
// It returns the events seen and the number of ticks after the first.
func runMove(p *Player, dir core.Direction, size int, policy BorderPolicy) ([]Event, int) {
	var events []Event
	if ev := p.Update(dir, size, policy); ev.Kind != EventNone {
		events = append(events, ev)
	}
	ticks := 0
	for p.IsMoving() && ticks < 100 {
		if ev := p.Update(core.DirNone, size, policy); ev.Kind != EventNone {
			events = append(events, ev)
		}
		ticks++
	}
	return events, ticks
}

func TestMoveInBoundsLandsAfterFixedFrames(t *testing.T) {
	policies := []BorderPolicy{BorderBlock, BorderKill, BorderWrap, BorderExit}
	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			p := New(DefaultConfig())
			p.Reset(1, 1)

			events, ticks := runMove(p, core.DirRight, 4, policy)

			if ticks != MoveFrames {
				t.Errorf("traversal took %d ticks, want %d", ticks, MoveFrames)
			}
			if p.Phase() != Idle || p.Col() != 2 || p.Row() != 1 {
				t.Errorf("ended %v at (%d,%d)", p.Phase(), p.Col(), p.Row())
			}
			if len(events) != 1 || events[0].Kind != EventLanded || events[0].Col != 2 {
				t.Errorf("events = %+v", events)
			}
		})
	}
}

func TestVisualInterpolationMonotonic(t *testing.T) {
	p := New(DefaultConfig())
	p.Reset(0, 0)
	p.Update(core.DirDown, 3, BorderBlock)

	x, y := p.VisualPos()
	if x != 0 || y != 0 {
		t.Fatalf("visual at progress 0 = (%v,%v)", x, y)
	}
	prev := y
	for p.IsMoving() {
		p.Update(core.DirNone, 3, BorderBlock)
		_, y = p.VisualPos()
		if y < prev {
			t.Fatalf("visual row went back: %v < %v", y, prev)
		}
		if p.IsMoving() && p.Row() != 0 {
			t.Fatal("discrete row changed mid-move")
		}
		prev = y
	}
	if y != 1 {
		t.Errorf("visual at landing = %v, want 1", y)
	}
}

func TestWrapAllEdges(t *testing.T) {
	const n = 5
	tests := []struct {
		name     string
		col, row int
		dir      core.Direction
		wc, wr   int
	}{
		{"left", 0, 2, core.DirLeft, n - 1, 2},
		{"right", n - 1, 2, core.DirRight, 0, 2},
		{"up", 3, 0, core.DirUp, 3, n - 1},
		{"down", 3, n - 1, core.DirDown, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(DefaultConfig())
			p.Reset(tt.col, tt.row)
			events, _ := runMove(p, tt.dir, n, BorderWrap)
			if p.Col() != tt.wc || p.Row() != tt.wr {
				t.Errorf("landed (%d,%d), want (%d,%d)", p.Col(), p.Row(), tt.wc, tt.wr)
			}
			if len(events) != 1 || events[0].Kind != EventLanded {
				t.Errorf("events = %+v", events)
			}
		})
	}
}

func TestBlockLeavesStateUnchanged(t *testing.T) {
	p := New(DefaultConfig())
	p.Reset(0, 0)
	ev := p.Update(core.DirLeft, 3, BorderBlock)
	if ev.Kind != EventNone || p.Phase() != Idle || p.Col() != 0 || p.Row() != 0 {
		t.Errorf("block moved the player: %+v %v (%d,%d)", ev, p.Phase(), p.Col(), p.Row())
	}
}

func TestKillAndExitReportBorderHit(t *testing.T) {
	for _, policy := range []BorderPolicy{BorderKill, BorderExit} {
		p := New(DefaultConfig())
		p.Reset(2, 0)
		ev := p.Update(core.DirUp, 3, policy)
		if ev.Kind != EventBorderHit || ev.Dir != core.DirUp {
			t.Errorf("%v: event = %+v", policy, ev)
		}
		if p.Phase() != Idle || p.Row() != 0 {
			t.Errorf("%v: player moved", policy)
		}
	}
}

func TestDieIsTerminalUntilReset(t *testing.T) {
	p := New(DefaultConfig())
	p.Reset(0, 0)
	p.Update(core.DirRight, 3, BorderKill)
	for i := 0; i < 4; i++ {
		p.Update(core.DirNone, 3, BorderKill)
	}
	x, _ := p.VisualPos()
	p.Die()

	for i := 0; i < 20; i++ {
		if ev := p.Update(core.DirDown, 3, BorderKill); ev.Kind != EventNone {
			t.Fatalf("dead player emitted %+v", ev)
		}
	}
	if nx, _ := p.VisualPos(); nx != x {
		t.Errorf("visual moved after death: %v -> %v", x, nx)
	}
	if p.Col() != 0 || !p.IsDead() {
		t.Errorf("dead player at col %d, phase %v", p.Col(), p.Phase())
	}

	p.Reset(1, 1)
	if p.IsDead() || p.Col() != 1 {
		t.Error("Reset should revive at the new position")
	}
}

func TestTeleportDropsMove(t *testing.T) {
	p := New(DefaultConfig())
	p.Reset(0, 0)
	p.Update(core.DirRight, 4, BorderBlock)
	p.Update(core.DirNone, 4, BorderBlock)

	p.Teleport(3, 3)
	if p.IsMoving() || p.Col() != 3 || p.Row() != 3 {
		t.Fatalf("teleport left %v at (%d,%d)", p.Phase(), p.Col(), p.Row())
	}
	x, y := p.VisualPos()
	if x != 3 || y != 3 {
		t.Errorf("visual = (%v,%v)", x, y)
	}
}

func TestIntentIgnoredWhileMoving(t *testing.T) {
	p := New(DefaultConfig())
	p.Reset(0, 0)
	p.Update(core.DirRight, 4, BorderBlock)
	p.Update(core.DirDown, 4, BorderBlock)
	if c, r := p.Target(); c != 1 || r != 0 {
		t.Errorf("target changed mid-move to (%d,%d)", c, r)
	}
}

func TestLevitationAdvancesWhileIdle(t *testing.T) {
	p := New(DefaultConfig())
	p.Update(core.DirNone, 3, BorderBlock)
	a := p.LevOffset()
	p.Update(core.DirNone, 3, BorderBlock)
	b := p.LevOffset()
	if a == b {
		t.Error("levitation offset did not change")
	}
	lo, hi := LevAmplitude*(1-.55), LevAmplitude*(1+.55)
	for i := 0; i < 500; i++ {
		p.Update(core.DirNone, 3, BorderBlock)
		if o := p.LevOffset(); o < lo-1e-9 || o > hi+1e-9 {
			t.Fatalf("offset %v outside [%v,%v]", o, lo, hi)
		}
	}
}

func TestParseBorderPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want BorderPolicy
		ok   bool
	}{
		{"", BorderKill, true},
		{"kill", BorderKill, true},
		{"block", BorderBlock, true},
		{"wrap", BorderWrap, true},
		{"exit", BorderExit, true},
		{"bounce", BorderBlock, false},
	}
	for _, tt := range tests {
		got, ok := ParseBorderPolicy(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseBorderPolicy(%q) = %v, %v", tt.in, got, ok)
		}
	}
}
