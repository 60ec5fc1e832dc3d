// Package synth plays the game's procedural tones and looping music
// patterns through the system speaker.
package synth

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Jean-Jawed/Patternia/internal/audio"
)

var _ audio.Sink = (*Speaker)(nil)

// Config configures a Speaker.
type Config struct {
	SampleRate int
	Volume     float64 // master gain, 0..1
}

// Speaker plays cues through the system speaker. All cues mix into one
// beep.Mixer; the music loop sits behind a beep.Ctrl so it can be cut.
type Speaker struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	mixer  *beep.Mixer
	loop   *beep.Ctrl
	muted  bool
	logger *log.Logger
}

// New initializes the speaker and starts the mixer. The caller
// should fall back to Nop when it returns an error.
func New(cfg Config, logger *log.Logger) (*Speaker, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	s := &Speaker{
		rate:   rate,
		volume: cfg.Volume,
		mixer:  &beep.Mixer{},
		logger: logger,
	}
	speaker.Play(s.mixer)
	logger.Debug("audio ready", "rate", cfg.SampleRate, "volume", cfg.Volume)
	return s, nil
}

func (s *Speaker) play(st beep.Streamer) {
	s.mu.Lock()
	muted := s.muted
	s.mu.Unlock()
	if muted || st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(newVolume(st, s.volume))
	speaker.Unlock()
}

func (s *Speaker) Step() { s.play(stepCue(s.rate)) }
func (s *Speaker) Death() { s.play(deathCue(s.rate)) }
func (s *Speaker) Win() { s.play(winCue(s.rate)) }
func (s *Speaker) Teleport() { s.play(teleportCue(s.rate)) }

func (s *Speaker) LevelStart(levelID int) { s.play(levelStartCue(s.rate, levelID)) }

// StartLoop replaces any running loop with pattern.
func (s *Speaker) StartLoop(pattern []audio.Note) {
	s.StopLoop()
	st := NewPatternLoop(s.rate, pattern)
	if st == nil {
		return
	}

	s.mu.Lock()
	ctrl := &beep.Ctrl{Streamer: st, Paused: s.muted}
	s.loop = ctrl
	s.mu.Unlock()

	speaker.Lock()
	s.mixer.Add(newVolume(ctrl, s.volume))
	speaker.Unlock()
}

// StopLoop cuts the running loop, if any.
func (s *Speaker) StopLoop() {
	s.mu.Lock()
	ctrl := s.loop
	s.loop = nil
	s.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	// A nil streamer drains out of the mixer on the next pass.
	ctrl.Streamer = nil
	speaker.Unlock()
}

// SetMuted silences new cues and pauses the loop.
func (s *Speaker) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	ctrl := s.loop
	s.mu.Unlock()
	if ctrl != nil {
		speaker.Lock()
		ctrl.Paused = muted
		speaker.Unlock()
	}
}

func (s *Speaker) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Close stops playback and releases the speaker.
func (s *Speaker) Close() {
	s.StopLoop()
	speaker.Clear()
	speaker.Close()
}
