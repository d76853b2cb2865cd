package audio

import (
	"log"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/slingshot/internal/dynamo"
)

const (
	SampleRate = beep.SampleRate(44100)
	BufferSize = 1024
)

// Player mixes event cues into a portaudio output stream. World events
// arrive on the simulation goroutine and samples are pulled on the audio
// callback goroutine; the mixer is shared under mu.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	buf    [][2]float64
	stream *portaudio.Stream
	active bool
}

func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
		buf:   make([][2]float64, BufferSize),
	}
}

// Start opens the default output device.
func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(SampleRate), BufferSize, p.Fill)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	log.Printf("audio: started at %d Hz", SampleRate)

	p.mu.Lock()
	p.stream = stream
	p.active = true
	p.mu.Unlock()
	return nil
}

func (p *Player) Stop() {
	p.mu.Lock()
	stream, active := p.stream, p.active
	p.stream, p.active = nil, false
	p.mixer.Clear()
	p.mu.Unlock()

	if stream != nil {
		stream.Stop()
		stream.Close()
	}
	if active {
		portaudio.Terminate()
	}
}

func (p *Player) Play(c Cue) {
	p.mu.Lock()
	p.mixer.Add(Synth(c, SampleRate))
	p.mu.Unlock()
}

// Pending is the number of cues still sounding.
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

// OnTick implements dynamo.Observer. One cue per event kind and tick keeps
// a mass collision from clipping.
func (p *Player) OnTick(f dynamo.Frame) {
	if len(f.Report.Collided) > 0 {
		p.Play(CueCollision)
	}
	if len(f.Report.Escaped) > 0 {
		p.Play(CueEscape)
	}
	if f.Report.Terminated {
		p.Play(CueTerminate)
	}
}

// Launch plays the launch cue; it fits viz.WithLaunchHook.
func (p *Player) Launch(dynamo.BodyID) { p.Play(CueLaunch) }

// Fill is the portaudio callback: it pulls one buffer from the mixer into
// the stereo output.
func (p *Player) Fill(out [][]float32) {
	n := len(out[0])
	p.mu.Lock()
	if len(p.buf) < n {
		p.buf = make([][2]float64, n)
	}
	buf := p.buf[:n]
	p.mixer.Stream(buf)
	p.mu.Unlock()

	for i := range buf {
		out[0][i] = float32(clamp(buf[i][0]))
		out[1][i] = float32(clamp(buf[i][1]))
	}
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
