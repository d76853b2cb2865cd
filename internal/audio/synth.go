package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue is a short sound tied to a world event.
type Cue int

const (
	CueLaunch Cue = iota
	CueCollision
	CueEscape
	CueTerminate
)

func (c Cue) String() string {
	switch c {
	case CueLaunch:
		return "launch"
	case CueCollision:
		return "collision"
	case CueEscape:
		return "escape"
	case CueTerminate:
		return "terminate"
	}
	return "unknown"
}

type wave int

const (
	waveSine wave = iota
	waveSquare
	waveNoise
)

// cueSpec describes a tone sweeping from -> to over duration.
type cueSpec struct {
	wave            wave
	from, to        float64
	duration        time.Duration
	attack, release time.Duration
	volume          float64 // log2 gain
}

var cues = map[Cue]cueSpec{
	CueLaunch:    {waveSine, 440, 880, 120 * time.Millisecond, 10 * time.Millisecond, 60 * time.Millisecond, -1},
	CueCollision: {waveNoise, 0, 0, 200 * time.Millisecond, 2 * time.Millisecond, 180 * time.Millisecond, -1.5},
	CueEscape:    {waveSine, 660, 330, 150 * time.Millisecond, 10 * time.Millisecond, 100 * time.Millisecond, -1.5},
	CueTerminate: {waveSquare, 110, 82.5, 600 * time.Millisecond, 20 * time.Millisecond, 400 * time.Millisecond, -2},
}

// Duration is how long the cue plays.
func (c Cue) Duration() time.Duration { return cues[c].duration }

// Synth renders cue c at sample rate sr. The streamer drains after the
// cue's duration.
func Synth(c Cue, sr beep.SampleRate) beep.Streamer {
	spec, ok := cues[c]
	if !ok {
		return beep.Silence(0)
	}
	n := sr.N(spec.duration)
	osc := &sweep{
		wave:  spec.wave,
		from:  spec.from,
		to:    spec.to,
		total: n,
		rate:  sr,
		rng:   rand.New(rand.NewSource(int64(c) + 1)),
	}
	env := &envelope{
		streamer: osc,
		attack:   sr.N(spec.attack),
		release:  sr.N(spec.release),
		total:    n,
	}
	return beep.Take(n, &effects.Volume{Streamer: env, Base: 2, Volume: spec.volume})
}

// sweep is an oscillator whose frequency glides linearly.
type sweep struct {
	wave     wave
	from, to float64
	phase    float64
	pos      int
	total    int
	rate     beep.SampleRate
	rng      *rand.Rand
}

func (o *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos >= o.total {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case waveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		freq := o.from + (o.to-o.from)*float64(o.pos)/float64(o.total)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *sweep) Err() error { return nil }

// envelope applies a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	pos      int
	attack   int
	release  int
	total    int
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; left < e.release {
			vol = math.Min(vol, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
