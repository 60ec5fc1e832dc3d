// Package audio defines the sound cue interface the game drives and a
// silent implementation.
package audio

import "time"

// Note is one step of a looping pattern.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// Sink receives fire-and-forget sound cues from the game.
type Sink interface {
	Step()
	Death()
	Win()
	Teleport()
	LevelStart(levelID int)
	StartLoop(pattern []Note)
	StopLoop()
	SetMuted(muted bool)
	Muted() bool
}

// Nop is a silent Sink. It still tracks mute and loop state so callers
// can query it.
type Nop struct {
	muted   bool
	looping bool
}

func (n *Nop) Step() {}
func (n *Nop) Death() {}
func (n *Nop) Win() {}
func (n *Nop) Teleport() {}
func (n *Nop) LevelStart(int) {}
func (n *Nop) StopLoop() { n.looping = false }
func (n *Nop) SetMuted(m bool) { n.muted = m }
func (n *Nop) Muted() bool { return n.muted }
func (n *Nop) Looping() bool { return n.looping }
func (n *Nop) StartLoop(p []Note) { n.looping = len(p) > 0 }

// levelNotes are the tonics played when a level starts, by level id.
var levelNotes = []float64{440, 494, 523, 587, 659, 698, 784, 830, 880}

// LevelTonic returns the start tonic for a level id, clamped to the table.
func LevelTonic(levelID int) float64 {
	i := levelID - 1
	if i < 0 {
		i = 0
	}
	if i >= len(levelNotes) {
		i = len(levelNotes) - 1
	}
	return levelNotes[i]
}
