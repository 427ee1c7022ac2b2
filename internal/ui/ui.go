// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-galaxy/internal/catalog"
	"github.com/litescript/ls-galaxy/internal/engine"
	"github.com/litescript/ls-galaxy/internal/starfield"
	"github.com/litescript/ls-galaxy/internal/state"
	"github.com/litescript/ls-galaxy/internal/version"
)

const (
	frameInterval = 50 * time.Millisecond
	// maxFrameDelta caps the clock step after a stall.
	maxFrameDelta = 0.25

	// Per-keypress adjustments
	sizeStep    = 1.25
	speedStep   = 5
	densityStep = 0.05
	opacityStep = 0.05
)

// LoadFunc loads and builds a field. It runs off the UI goroutine.
type LoadFunc func(ctx context.Context) (*starfield.Field, *catalog.Result, error)

// Msg types for Bubble Tea
type (
	// FrameMsg triggers one rendered frame.
	FrameMsg time.Time

	// LoadedMsg carries a freshly built field.
	LoadedMsg struct {
		Field  *starfield.Field
		Result *catalog.Result
	}

	// LoadFailedMsg signals a catalog load error.
	LoadFailedMsg struct {
		Source string
		Err    error
	}

	// ReloadMsg asks the model to load the catalog again.
	ReloadMsg struct {
		Reason string
	}
)

// Options configures the root model.
type Options struct {
	Source   string // shown while loading
	Focus    Focus
	Distance float64
	FOV      float64
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	ctx    context.Context
	state  *state.Manager
	engine *engine.Engine
	load   LoadFunc

	// UI state
	width     int
	height    int
	ready     bool
	loading   bool
	pending   bool // reload requested while loading
	source    string
	frame     int
	lastFrame time.Time
	loadErr   error

	view StarfieldViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(ctx context.Context, st *state.Manager, e *engine.Engine, load LoadFunc, opts Options) Model {
	if opts.Distance <= 0 {
		opts.Distance = sunViewDistance
	}
	return Model{
		ctx:      ctx,
		state:    st,
		engine:   e,
		load:     load,
		source:   opts.Source,
		loading:  load != nil,
		view:     NewStarfieldViewModel(e, opts.Focus, opts.Distance, opts.FOV),
		snapshot: st.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), m.loadCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ":
			m.apply(state.Command{Type: state.CmdTogglePause})
		case "]":
			m.apply(state.Command{Type: state.CmdScaleSize, Value: sizeStep})
		case "[":
			m.apply(state.Command{Type: state.CmdScaleSize, Value: 1 / sizeStep})
		case ".":
			m.apply(state.Command{Type: state.CmdAdjustSpeed, Value: speedStep})
		case ",":
			m.apply(state.Command{Type: state.CmdAdjustSpeed, Value: -speedStep})
		case "D":
			m.apply(state.Command{Type: state.CmdAdjustDensity, Value: densityStep})
		case "d":
			m.apply(state.Command{Type: state.CmdAdjustDensity, Value: -densityStep})
		case "B":
			m.apply(state.Command{Type: state.CmdAdjustOpacity, Value: opacityStep})
		case "b":
			m.apply(state.Command{Type: state.CmdAdjustOpacity, Value: -opacityStep})
		case "l":
			m.apply(state.Command{Type: state.CmdToggleLOD})
		case "0":
			m.apply(state.Command{Type: state.CmdResetTime})
		case "r":
			return m.startReload()

		default:
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Title and footer take two lines each
		m.view = m.view.SetSize(msg.Width, msg.Height-4)

	case FrameMsg:
		cmds = append(cmds, frameCmd())
		now := time.Time(msg)
		delta := 0.0
		if !m.lastFrame.IsZero() {
			delta = now.Sub(m.lastFrame).Seconds()
			if delta > maxFrameDelta {
				delta = maxFrameDelta
			}
		}
		m.lastFrame = now
		m.frame++

		if m.ready {
			m.view = m.view.RenderFrame(m.ctx, delta, now)
		}
		m.snapshot = m.state.Snapshot()

	case LoadedMsg:
		m.loading = false
		m.loadErr = nil
		m.engine.SetField(msg.Field)
		if msg.Result != nil {
			m.source = msg.Result.Source
			m.state.RecordLoad(msg.Result.Source, msg.Field.Len(), msg.Result.Duration, nil)
		}
		m.snapshot = m.state.Snapshot()
		return m.reloadPending()

	case LoadFailedMsg:
		m.loading = false
		m.loadErr = msg.Err
		m.state.RecordLoad(msg.Source, 0, 0, msg.Err)
		m.snapshot = m.state.Snapshot()
		return m.reloadPending()

	case ReloadMsg:
		return m.startReload()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) apply(cmd state.Command) {
	// Commands from keys are always well-formed
	_, _ = m.state.Apply(cmd)
	m.snapshot = m.state.Snapshot()
}

func (m Model) startReload() (tea.Model, tea.Cmd) {
	if m.load == nil {
		return m, nil
	}
	if m.loading {
		// Picked up when the current load finishes
		m.pending = true
		return m, nil
	}
	m.loading = true
	return m, m.loadCmd()
}

func (m Model) reloadPending() (tea.Model, tea.Cmd) {
	if !m.pending {
		return m, nil
	}
	m.pending = false
	return m.startReload()
}

func (m Model) loadCmd() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load, ctx, source := m.load, m.ctx, m.source
	return func() tea.Msg {
		field, res, err := load(ctx)
		if err != nil {
			return LoadFailedMsg{Source: source, Err: err}
		}
		return LoadedMsg{Field: field, Result: res}
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderTitle() + "\n" + m.view.View() + "\n" + m.renderFooter()
}

// nebula gradient stops for the title
var titleStops = []colorful.Color{
	{R: 0.23, G: 0.51, B: 0.96},
	{R: 0.55, G: 0.36, B: 0.96},
	{R: 0.85, G: 0.27, B: 0.94},
	{R: 0.93, G: 0.28, B: 0.60},
}

// gradientColor returns the title color at position x in [0, 1].
func gradientColor(x float64) colorful.Color {
	if x <= 0 {
		return titleStops[0]
	}
	if x >= 1 {
		return titleStops[len(titleStops)-1]
	}
	seg := x * float64(len(titleStops)-1)
	i := int(seg)
	return titleStops[i].BlendLab(titleStops[i+1], seg-float64(i)).Clamped()
}

func (m Model) renderTitle() string {
	title := []rune("  ✦ ls-galaxy")
	var b strings.Builder
	for i, r := range title {
		c := gradientColor(float64(i) / float64(len(title)-1))
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Milky Way star field · v%s", version.Version)))
	b.WriteString("\n")
	b.WriteString(m.renderSettings())
	return b.String()
}

func (m Model) renderSettings() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	rc := m.snapshot.Render
	minSpeed, maxSpeed := m.state.SpeedRange()
	parts := []string{
		dimStyle.Render("size ") + valueStyle.Render(fmt.Sprintf("×%.2f", rc.SizeMultiplier)),
		dimStyle.Render("density ") + valueStyle.Render(fmt.Sprintf("%.0f%%", rc.Density*100)),
		dimStyle.Render("haze ") + valueStyle.Render(fmt.Sprintf("%.0f%%", rc.BackgroundOpacity*100)),
		dimStyle.Render("lod ") + valueStyle.Render(rc.LOD.String()),
		dimStyle.Render("speed ") + valueStyle.Render(fmt.Sprintf("%.0f", m.snapshot.Slider)) +
			dimStyle.Render(fmt.Sprintf(" [%s..%s/s]", FormatYears(minSpeed), FormatYears(maxSpeed))),
	}
	return "  " + strings.Join(parts, dimStyle.Render(" · "))
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.frame%len(spinnerFrames)]

	var status string
	switch {
	case m.loading:
		status = accentStyle.Render(spinner) + dimStyle.Render(" loading "+displaySource(m.source)+"...")
	case m.loadErr != nil:
		status = errorStyle.Render("ERROR: " + m.loadErr.Error())
	case m.state.HasCatalog():
		status = dimStyle.Render(fmt.Sprintf("%s · %d stars (%s)",
			displaySource(m.snapshot.Load.Source), m.snapshot.Load.Stars, m.snapshot.Load.Duration.Round(time.Millisecond)))
	default:
		status = dimStyle.Render("no catalog")
	}

	help := dimStyle.Render("arrows: orbit | +/-: zoom | s/g: sun/center | [ ]: size | , .: speed | space: pause | d/D: density | b/B: haze | l: lod | r: reload | q: quit")

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if recent := m.state.RecentEvents(1); len(recent) == 1 {
		footer += "\n  " + dimStyle.Render(describeEvent(recent[0]))
	}
	return footer
}

func displaySource(s string) string {
	if s == "" {
		return catalog.SourceBuiltin
	}
	return s
}

func describeEvent(ev state.Event) string {
	ts := ev.Timestamp.Format("15:04:05")
	switch ev.Type {
	case state.EventCatalogLoaded:
		return fmt.Sprintf("%s loaded %s (%.0f stars)", ts, displaySource(ev.Source), ev.New)
	case state.EventCatalogFailed:
		return fmt.Sprintf("%s load failed: %s", ts, ev.Message)
	default:
		return fmt.Sprintf("%s %s %g → %g", ts, ev.Field, ev.Old, ev.New)
	}
}
