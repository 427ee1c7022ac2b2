package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galaxy/internal/astro"
	"github.com/litescript/ls-galaxy/internal/engine"
	"github.com/litescript/ls-galaxy/internal/render"
	"github.com/litescript/ls-galaxy/internal/starfield"
)

const (
	// Camera steps
	orbitStep   = 5 * math.Pi / 180
	zoomInStep  = 0.8
	zoomOutStep = 1.25

	// Focus transition
	animDuration = 600 * time.Millisecond

	// Default orbit distances per focus, parsecs
	sunViewDistance    = 30
	centerViewDistance = 20000

	homeYaw   = 0
	homePitch = 0.35
)

// Focus selects what the camera orbits.
type Focus int

const (
	FocusSun Focus = iota
	FocusCenter
)

func (f Focus) String() string {
	if f == FocusCenter {
		return "Galactic center"
	}
	return "Sun"
}

// StarfieldViewModel renders the star field through an orbit camera.
type StarfieldViewModel struct {
	width  int
	height int

	engine *engine.Engine
	cam    *render.OrbitCamera
	fb     *render.Framebuffer

	focus Focus

	// Focus transition state
	animating     bool
	animStart     time.Time
	animFromPos   astro.Vec3
	animFromDist  float64
	animToDist    float64
	animFromYaw   float64 // degrees
	animFromPitch float64 // degrees
	animToYaw     float64 // degrees
	animToPitch   float64 // degrees

	stats    engine.FrameStats
	frameErr error
}

// NewStarfieldViewModel creates a view orbiting focus.
func NewStarfieldViewModel(e *engine.Engine, focus Focus, distance, fov float64) StarfieldViewModel {
	m := StarfieldViewModel{
		engine: e,
		focus:  focus,
		fb:     render.NewFramebuffer(0, 0),
	}
	m.cam = render.NewOrbitCamera(m.focusTarget(0), distance)
	if fov > 0 {
		m.cam.FOV = fov
	}
	return m
}

// SetSize updates the viewport size.
func (m StarfieldViewModel) SetSize(width, height int) StarfieldViewModel {
	m.width = width
	m.height = height

	cols, rows := m.canvasSize()
	if cols != m.fb.Width || rows*2 != m.fb.Height {
		m.fb = render.NewFramebuffer(cols, rows)
	}
	// Terminal cells are roughly twice as tall as wide; two pixels per row
	// keeps the pixel aspect square.
	m.cam.SetAspect(m.fb.Width, m.fb.Height)
	return m
}

func (m StarfieldViewModel) canvasSize() (cols, rows int) {
	// header and status lines
	rows = m.height - 2
	if rows < 0 {
		rows = 0
	}
	return m.width, rows
}

// Camera exposes the orbit camera.
func (m StarfieldViewModel) Camera() *render.OrbitCamera {
	return m.cam
}

// Stats returns the last frame's statistics.
func (m StarfieldViewModel) Stats() engine.FrameStats {
	return m.stats
}

// Update handles camera keys.
func (m StarfieldViewModel) Update(msg tea.Msg) (StarfieldViewModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left":
		m.cam.Orbit(-orbitStep, 0)
	case "right":
		m.cam.Orbit(orbitStep, 0)
	case "up":
		m.cam.Orbit(0, orbitStep)
	case "down":
		m.cam.Orbit(0, -orbitStep)
	case "+", "=":
		m.cam.Zoom(zoomInStep)
	case "-", "_":
		m.cam.Zoom(zoomOutStep)
	case "s":
		m = m.setFocus(FocusSun, sunViewDistance)
	case "g":
		m = m.setFocus(FocusCenter, centerViewDistance)
	case "h":
		m = m.startAnimation(m.cam.Distance, homeYaw, homePitch)
	}
	return m, nil
}

func (m StarfieldViewModel) setFocus(f Focus, distance float64) StarfieldViewModel {
	m.focus = f
	return m.startAnimation(distance, m.cam.Yaw, m.cam.Pitch)
}

func (m StarfieldViewModel) startAnimation(toDist, toYaw, toPitch float64) StarfieldViewModel {
	m.animating = true
	m.animStart = time.Now()
	m.animFromPos = m.cam.Target
	m.animFromDist = m.cam.Distance
	m.animToDist = toDist
	m.animFromYaw = m.cam.Yaw * 180 / math.Pi
	m.animFromPitch = m.cam.Pitch * 180 / math.Pi
	m.animToYaw = toYaw * 180 / math.Pi
	m.animToPitch = toPitch * 180 / math.Pi
	return m
}

func (m StarfieldViewModel) focusTarget(simTime float64) astro.Vec3 {
	if m.focus == FocusCenter || m.engine == nil {
		return astro.Vec3{}
	}
	return m.engine.SunPosition(simTime)
}

// updateCamera follows the focus and advances any running transition.
func (m StarfieldViewModel) updateCamera(simTime float64, now time.Time) StarfieldViewModel {
	target := m.focusTarget(simTime)
	if !m.animating {
		m.cam.LookAt(target)
		return m
	}

	t := float64(now.Sub(m.animStart)) / float64(animDuration)
	if t >= 1 {
		m.animating = false
		m.cam.LookAt(target)
		m.cam.SetDistance(m.animToDist)
		m.cam.Yaw = m.animToYaw * math.Pi / 180
		m.cam.Pitch = m.animToPitch * math.Pi / 180
		return m
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	m.cam.LookAt(lerpVec(m.animFromPos, target, t))
	// Log-space distance keeps the zoom rate even across scales
	m.cam.SetDistance(math.Exp(lerp(math.Log(m.animFromDist), math.Log(m.animToDist), t)))
	m.cam.Yaw = lerpAngle(m.animFromYaw, m.animToYaw, t) * math.Pi / 180
	m.cam.Pitch = lerp(m.animFromPitch, m.animToPitch, t) * math.Pi / 180
	return m
}

// RenderFrame advances the clock by delta seconds, moves the camera to the
// focus at the new time, then draws into the view's framebuffer.
func (m StarfieldViewModel) RenderFrame(ctx context.Context, delta float64, now time.Time) StarfieldViewModel {
	if m.engine == nil {
		return m
	}
	sim := m.engine.Advance(delta)
	m = m.updateCamera(sim.Time, now)
	m.stats, m.frameErr = m.engine.Render(ctx, sim, m.cam, m.fb)
	return m
}

// View renders the star field view.
func (m StarfieldViewModel) View() string {
	if m.width < 20 || m.height < 6 {
		return "Star field requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.fb.Render())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m StarfieldViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))               // muted purple
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#d0c8ff"))       // soft purple

	title := titleStyle.Render("Star Field")
	focus := accentStyle.Render("Focus: " + m.focus.String())
	camera := dimStyle.Render(fmt.Sprintf("Yaw:%.0f° Pitch:%.0f° Dist:%s",
		normalizeAngle(m.cam.Yaw*180/math.Pi), m.cam.Pitch*180/math.Pi, starfield.FormatParsecs(m.cam.Distance)))

	return fmt.Sprintf("%s | %s | %s", title, focus, camera)
}

func (m StarfieldViewModel) renderStatus() string {
	if m.frameErr != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
		return errorStyle.Render("Frame error: " + m.frameErr.Error())
	}

	s := m.stats
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	line := fmt.Sprintf(">>> %d/%d stars drawn (%d lit) | t=%s | %s/s",
		s.DrawCount, s.Total, s.Drawn, FormatYears(s.Sim.Time), FormatYears(s.Sim.TimeScale))
	if s.Sim.Paused {
		line += " | PAUSED"
	}
	return accentStyle.Render(line)
}

// FormatYears renders a span of simulation time.
func FormatYears(y float64) string {
	a := math.Abs(y)
	switch {
	case a < 1e3:
		return fmt.Sprintf("%.0f yr", y)
	case a < 1e6:
		return fmt.Sprintf("%.1f kyr", y/1e3)
	case a < 1e9:
		return fmt.Sprintf("%.2f Myr", y/1e6)
	default:
		return fmt.Sprintf("%.2f Gyr", y/1e9)
	}
}

// normalizeAngle wraps degrees into [-180, 180].
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

// lerp linear interpolation
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b astro.Vec3, t float64) astro.Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}
