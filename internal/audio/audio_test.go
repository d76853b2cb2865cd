package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"

	"github.com/san-kum/slingshot/internal/dynamo"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for _, v := range buf[:k] {
			peak = math.Max(peak, math.Max(math.Abs(v[0]), math.Abs(v[1])))
		}
		n += k
		if !ok {
			return n, peak
		}
	}
}

func TestSynth(t *testing.T) {
	for _, c := range []Cue{CueLaunch, CueCollision, CueEscape, CueTerminate} {
		t.Run(c.String(), func(t *testing.T) {
			n, peak := drain(Synth(c, SampleRate))
			if want := SampleRate.N(c.Duration()); n != want {
				t.Errorf("samples = %d, want %d", n, want)
			}
			if peak == 0 || peak > 1 {
				t.Errorf("peak = %v, want in (0, 1]", peak)
			}
		})
	}
}

func TestSynth_Deterministic(t *testing.T) {
	a := make([][2]float64, 256)
	b := make([][2]float64, 256)
	Synth(CueCollision, SampleRate).Stream(a)
	Synth(CueCollision, SampleRate).Stream(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSynth_EnvelopeStartsSilent(t *testing.T) {
	buf := make([][2]float64, 1)
	Synth(CueLaunch, SampleRate).Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want 0 under the attack ramp", buf[0][0])
	}
}

func TestCueString(t *testing.T) {
	if CueEscape.String() != "escape" || Cue(42).String() != "unknown" {
		t.Error("unexpected cue names")
	}
}

func TestPlayer_OnTick(t *testing.T) {
	p := NewPlayer()

	p.OnTick(dynamo.Frame{Tick: 1})
	if p.Pending() != 0 {
		t.Fatal("quiet frame should not play anything")
	}

	p.OnTick(dynamo.Frame{Tick: 2, Report: dynamo.Report{
		Collided: []dynamo.BodyID{3, 4},
		Escaped:  []dynamo.BodyID{5},
	}})
	if p.Pending() != 2 {
		t.Errorf("pending = %d, want one collision and one escape cue", p.Pending())
	}

	p.Launch(6)
	p.OnTick(dynamo.Frame{Tick: 3, Report: dynamo.Report{Terminated: true}})
	if p.Pending() != 4 {
		t.Errorf("pending = %d, want 4", p.Pending())
	}
}

func TestPlayer_Fill(t *testing.T) {
	p := NewPlayer()
	out := [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}

	p.Fill(out)
	for i := range out[0] {
		if out[0][i] != 0 || out[1][i] != 0 {
			t.Fatal("an idle player should output silence")
		}
	}

	p.Play(CueLaunch)
	p.Fill(out)
	loud := false
	for i := range out[0] {
		if out[0][i] != 0 {
			loud = true
		}
		if math.Abs(float64(out[0][i])) > 1 {
			t.Fatalf("sample %d out of range: %v", i, out[0][i])
		}
	}
	if !loud {
		t.Error("expected the launch cue in the output")
	}

	for i := 0; i < 20; i++ {
		p.Fill(out)
	}
	if p.Pending() != 0 {
		t.Errorf("finished cues should leave the mixer, %d pending", p.Pending())
	}
}

func TestPlayer_StopWithoutStart(t *testing.T) {
	p := NewPlayer()
	p.Play(CueLaunch)
	p.Stop()
	if p.Pending() != 0 {
		t.Error("Stop should clear pending cues")
	}
}

func TestClamp(t *testing.T) {
	if clamp(2) != 1 || clamp(-3) != -1 || clamp(0.25) != 0.25 {
		t.Error("clamp out of range")
	}
}
