package synth

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/Jean-Jawed/Patternia/internal/audio"
)

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSaw
	WaveSquare
)

// floorGain is the level exponential decays ramp down to.
const floorGain = .0001

// tone is an oscillator with an exponential decay envelope and an
// optional exponential frequency sweep.
type tone struct {
	rate     beep.SampleRate
	wave     WaveType
	from, to float64 // Hz
	sweep    int     // samples over which from reaches to
	gain     float64
	decay    int // samples over which gain reaches floorGain
	total    int
	pos      int
	phase    float64
}

// NewTone returns a finite streamer: a wave at freq whose gain decays
// exponentially from gain to silence over dur.
func NewTone(rate beep.SampleRate, freq float64, wave WaveType, dur time.Duration, gain float64) beep.Streamer {
	n := rate.N(dur)
	return &tone{rate: rate, wave: wave, from: freq, to: freq, gain: gain, decay: n, total: n}
}

// NewSweep returns a sine that glides exponentially from one frequency to
// another over sweep, decaying over decay.
func NewSweep(rate beep.SampleRate, from, to float64, sweep, decay time.Duration, gain float64) beep.Streamer {
	return &tone{
		rate:  rate,
		wave:  WaveSine,
		from:  from,
		to:    to,
		sweep: rate.N(sweep),
		gain:  gain,
		decay: rate.N(decay),
		total: rate.N(decay),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var val float64
		switch t.wave {
		case WaveSaw:
			val = 2.0 * (t.phase - 0.5)
		case WaveSquare:
			if t.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		default:
			val = math.Sin(2 * math.Pi * t.phase)
		}

		g := t.gain
		if t.decay > 0 && t.gain > 0 {
			g = t.gain * math.Pow(floorGain/t.gain, float64(t.pos)/float64(t.decay))
		}
		val *= g

		samples[i][0] = val
		samples[i][1] = val

		freq := t.from
		if t.sweep > 0 && t.to != t.from {
			frac := math.Min(float64(t.pos)/float64(t.sweep), 1)
			freq = t.from * math.Pow(t.to/t.from, frac)
		}
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Delayed prefixes s with silence.
func Delayed(rate beep.SampleRate, delay time.Duration, s beep.Streamer) beep.Streamer {
	if delay <= 0 {
		return s
	}
	return beep.Seq(beep.Silence(rate.N(delay)), s)
}

// patternLoop plays a note pattern forever. Each note sounds for three
// quarters of its slot and then rests.
type patternLoop struct {
	rate    beep.SampleRate
	pattern []audio.Note
	step    int
	cur     beep.Streamer
	left    int // samples left in the current slot
}

// NewPatternLoop returns an endless streamer cycling through pattern,
// or nil when the pattern is empty.
func NewPatternLoop(rate beep.SampleRate, pattern []audio.Note) beep.Streamer {
	if len(pattern) == 0 {
		return nil
	}
	return &patternLoop{rate: rate, pattern: pattern}
}

func (p *patternLoop) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if p.left <= 0 {
			note := p.pattern[p.step%len(p.pattern)]
			p.step++
			p.left = p.rate.N(note.Duration)
			if p.left <= 0 {
				p.left = 1
			}
			p.cur = NewTone(p.rate, note.Freq, WaveSine, note.Duration*3/4, .12)
		}

		chunk := samples[n:]
		if len(chunk) > p.left {
			chunk = chunk[:p.left]
		}
		got := 0
		if p.cur != nil {
			got, _ = p.cur.Stream(chunk)
		}
		for i := got; i < len(chunk); i++ {
			chunk[i] = [2]float64{}
		}
		if got < len(chunk) {
			p.cur = nil
		}
		p.left -= len(chunk)
		n += len(chunk)
	}
	return n, true
}

func (p *patternLoop) Err() error { return nil }

// newVolume scales s linearly; 0 or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Cue builders. Each returns a finite streamer; mixes are cut to the
// length of their longest voice.

func stepCue(rate beep.SampleRate) beep.Streamer {
	return NewTone(rate, 520, WaveSine, 60*time.Millisecond, .09)
}

func deathCue(rate beep.SampleRate) beep.Streamer {
	return beep.Take(rate.N(600*time.Millisecond), beep.Mix(
		NewTone(rate, 180, WaveSaw, 350*time.Millisecond, .22),
		Delayed(rate, 100*time.Millisecond, NewTone(rate, 90, WaveSine, 500*time.Millisecond, .12)),
	))
}

func winCue(rate beep.SampleRate) beep.Streamer {
	chord := []float64{523, 659, 784, 1047}
	parts := make([]beep.Streamer, len(chord))
	for i, f := range chord {
		parts[i] = Delayed(rate, time.Duration(i)*100*time.Millisecond, NewTone(rate, f, WaveSine, 250*time.Millisecond, .18))
	}
	return beep.Take(rate.N(550*time.Millisecond), beep.Mix(parts...))
}

func teleportCue(rate beep.SampleRate) beep.Streamer {
	return NewSweep(rate, 280, 880, 220*time.Millisecond, 280*time.Millisecond, .18)
}

func levelStartCue(rate beep.SampleRate, levelID int) beep.Streamer {
	f := audio.LevelTonic(levelID)
	return beep.Take(rate.N(450*time.Millisecond), beep.Mix(
		NewTone(rate, f, WaveSine, 400*time.Millisecond, .14),
		Delayed(rate, 150*time.Millisecond, NewTone(rate, f*1.5, WaveSine, 300*time.Millisecond, .07)),
	))
}
