package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/metrics"
	"github.com/san-kum/slingshot/internal/world"
)

const (
	defaultCols     = 44
	defaultRows     = 22
	panelWidth      = 40
	historyCapacity = 600
	maxSpeed        = 32
	gifDotSize      = 2
	gifFile         = "slingshot.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// sling is a drag in progress, in dot coordinates.
type sling struct {
	x0, y0, x1, y1 int
}

type Option func(*Model)

// WithWorldOptions passes options to every world the model builds,
// including after a reset.
func WithWorldOptions(opts ...world.Option) Option {
	return func(m *Model) { m.worldOpts = append(m.worldOpts, opts...) }
}

// WithLaunchHook is called after each successful sling launch.
func WithLaunchHook(fn func(dynamo.BodyID)) Option {
	return func(m *Model) { m.onLaunch = fn }
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// Model is the interactive shell: it owns a world, ticks it once per
// frame and turns mouse drags into launches.
type Model struct {
	cfg       *config.Config
	worldOpts []world.Option
	onLaunch  func(dynamo.BodyID)

	world      *world.World
	frame      dynamo.Frame
	drift      *metrics.EnergyDrift
	minStep    *metrics.MinStep
	collisions *metrics.Counter
	escapes    *metrics.Counter

	view   Viewport
	canvas *Canvas
	theme  Theme
	styles Styles
	rng    *rand.Rand

	drag       *sling
	running    bool
	persist    bool
	speed      int
	showHelp   bool
	recording  bool
	frames     []*image.Paletted
	status     string
	driftHist  []float64
	stepHist   []float64
	terminated bool
	err        error
}

// NewModel builds the shell around a fresh world populated from cfg.
func NewModel(cfg *config.Config, opts ...Option) (Model, error) {
	m := Model{
		cfg:        cfg,
		drift:      metrics.NewEnergyDrift(),
		minStep:    metrics.NewMinStep(),
		collisions: metrics.NewCollisions(),
		escapes:    metrics.NewEscapes(),
		theme:      ThemeDeepSpace,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		running:    true,
		speed:      1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = NewStyles(m.theme)
	m.resize(defaultCols, defaultRows)
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.fit(msg.Width, msg.Height)
		m.draw()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.status = err.Error()
			}
		case "p":
			m.persist = !m.persist
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if quit := m.mouse(msg); quit {
			return m, tea.Quit
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.speed; i++ {
				if err := m.step(); err != nil {
					m.draw()
					return m, tea.Quit
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// mouse handles the sling gesture. It reports whether the shell should quit.
func (m *Model) mouse(msg tea.MouseMsg) bool {
	x, y := cellToDot(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.view.Contains(x, y) {
				m.drag = &sling{x0: x, y0: y, x1: x, y1: y}
			}
		case tea.MouseButtonMiddle:
			m.persist = !m.persist
		case tea.MouseButtonRight:
			return true
		}
	case tea.MouseActionMotion:
		if m.drag != nil {
			m.drag.x1, m.drag.y1 = x, y
		}
	case tea.MouseActionRelease:
		if m.drag != nil {
			m.drag.x1, m.drag.y1 = x, y
			m.launch(*m.drag)
			m.drag = nil
		}
	}
	return false
}

// cellToDot maps a terminal cell to the dot at its centre.
func cellToDot(col, row int) (int, int) {
	return (col-padLeft)*2 + 1, (row-padTop)*4 + 2
}

func (m *Model) launch(s sling) {
	pos, vel := m.view.Sling(s.x0, s.y0, s.x1, s.y1)
	id, err := m.world.Spawn(m.cfg.Launch.Mass, vel, pos, config.RandomColor(m.rng), m.cfg.Launch.Radius)
	if err != nil {
		m.status = fmt.Sprintf("launch failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("launched %s at %.0f m/s", id, r2.Norm(vel))
	m.frame = m.world.Frame()
	if m.onLaunch != nil {
		m.onLaunch(id)
	}
}

// step advances the world one tick and records the panel histories.
func (m *Model) step() error {
	f, err := m.world.Update()
	if errors.Is(err, dynamo.ErrSessionTerminated) {
		m.terminated = true
	}
	if f.Tick > 0 {
		m.frame = f
	}
	m.driftHist = appendCapped(m.driftHist, m.drift.Current())
	m.stepHist = appendCapped(m.stepHist, m.minStep.Value())
	if err != nil {
		m.err = err
	}
	return err
}

func appendCapped(s []float64, v float64) []float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// reset rebuilds the world from the configuration.
func (m *Model) reset() error {
	opts := append([]world.Option{world.WithMetrics(m.drift, m.minStep, m.collisions, m.escapes)}, m.worldOpts...)
	w, err := m.cfg.NewWorld(opts...)
	if err != nil {
		return err
	}
	m.world = w
	m.frame = w.Frame()
	m.drag = nil
	m.terminated = false
	m.err = nil
	m.driftHist = m.driftHist[:0]
	m.stepHist = m.stepHist[:0]
	m.status = ""
	m.canvas.Clear()
	m.draw()
	return nil
}

// fit sizes the canvas to the terminal, keeping dots square.
func (m *Model) fit(width, height int) {
	rows := height - padTop - 1
	cols := width - padLeft - 1 - panelWidth - 1
	cols = min(cols, 2*rows)
	rows = cols / 2
	if cols < 10 || rows < 5 {
		cols, rows = 10, 5
	}
	m.resize(cols, rows)
}

func (m *Model) resize(cols, rows int) {
	m.canvas = NewCanvas(cols, rows)
	m.view = Viewport{
		Width:       m.canvas.SubWidth(),
		Height:      m.canvas.SubHeight(),
		Boundary:    m.cfg.SpaceBoundary,
		MaxVelocity: m.cfg.MaxVelocity,
	}
}

// draw renders the world into the canvas. With persistence on the canvas
// is not cleared, so bodies leave trails.
func (m *Model) draw() {
	if !m.persist {
		m.canvas.Clear()
	}
	cx, cy := m.view.ToScreen(dynamo.Vector{})
	m.canvas.Circle(cx, cy, m.view.Scale(m.view.Boundary), m.theme.Boundary)
	for _, b := range m.frame.Bodies {
		x, y := m.view.ToScreen(b.Position)
		m.canvas.FillCircle(x, y, m.view.Scale(b.Radius), config.Hex(b.Color))
	}
}

func (m *Model) toggleRecording() {
	if m.recording {
		m.saveGIF()
		m.recording = false
		m.frames = nil
		return
	}
	m.recording = true
	m.frames = make([]*image.Paletted, 0, historyCapacity)
}

func (m *Model) captureFrame() {
	if len(m.frames) >= historyCapacity {
		return
	}
	m.frames = append(m.frames, m.canvas.Image(gifDotSize, inkColor))
}

func inkColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	return c
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(gifFile)
	if err != nil {
		log.Printf("gif: %v", err)
		m.status = "gif: " + err.Error()
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		log.Printf("gif: %v", err)
		m.status = "gif: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifFile)
}

// Err is the error that ended the session, if any. A terminated session
// reports dynamo.ErrSessionTerminated.
func (m Model) Err() error { return m.err }

func (m Model) World() *world.World { return m.world }

func (m Model) Viewport() Viewport { return m.view }

// View renders the TUI interface.
func (m Model) View() string {
	canvas := m.canvas
	if m.drag != nil {
		canvas = canvas.Clone()
		canvas.DrawLine(m.drag.x0, m.drag.y0, m.drag.x1, m.drag.y1, string(m.theme.Accent))
	}
	layout := lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Canvas.Render(canvas.String()), m.styles.Panel.Render(m.panel()))
	if m.showHelp {
		return helpText + "\n\n" + layout
	}
	return layout
}

func (m Model) panel() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.Header.Render(GradientText("SLINGSHOT", m.theme.Primary, m.theme.Secondary)) + "\n")
	switch {
	case m.terminated:
		s.WriteString(st.Alert.Render("TERMINATED"))
	case !m.running:
		s.WriteString(st.Paused.Render("PAUSED"))
	default:
		s.WriteString(st.Running.Render("RUNNING"))
	}
	if m.recording {
		s.WriteString("  " + st.Recording.Render(fmt.Sprintf("REC %d", len(m.frames))))
	}
	s.WriteString("\n")

	if len(m.driftHist) > 1 {
		chart := asciigraph.Plot(m.driftHist, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Energy drift"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	} else {
		s.WriteString("\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.frame.Tick))
	row("Bodies", fmt.Sprintf("%d", len(m.frame.Bodies)))
	row("Integrator", m.world.Integrator().Name())
	row("Speed", fmt.Sprintf("%dx", m.speed))
	if anchor, ok := m.world.Anchor(); ok {
		d := r2.Norm(anchor.Position)
		row("Anchor", fmt.Sprintf("%.3g m", d))
		s.WriteString(st.Label.Render("") + st.ProgressBar(d/m.view.Boundary, 16) + "\n")
	}
	row("Min step", fmt.Sprintf("%.4g s", m.minStep.Value()))
	s.WriteString(st.Label.Render("") + st.Sparkline(m.stepHist, 16) + "\n")
	row("Collisions", fmt.Sprintf("%d", int(m.collisions.Value())))
	row("Escapes", fmt.Sprintf("%d", int(m.escapes.Value())))
	trails := "off"
	if m.persist {
		trails = "on"
	}
	row("Trails", trails)

	if m.drag != nil {
		_, vel := m.view.Sling(m.drag.x0, m.drag.y0, m.drag.x1, m.drag.y1)
		row("Sling", fmt.Sprintf("%.0f m/s", r2.Norm(vel)))
	}
	if m.status != "" {
		s.WriteString("\n" + st.Value.Render(m.status) + "\n")
	}

	s.WriteString("\n" + st.Separator(panelWidth-6) + "\n")
	s.WriteString(st.Help.Render("Drag:Launch  MMB/P:Trails  RMB/Q:Quit\nSP:Pause R:Reset +/-:Speed\nT:Theme  G:Record ?:Help"))
	return s.String()
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Drag     - Sling a new body         ║
║  Middle/P - Toggle trails            ║
║  Right/Q  - Quit                     ║
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  +/-      - Ticks per frame          ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
