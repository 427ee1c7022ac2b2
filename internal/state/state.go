// Package state provides thread-safe simulation and render configuration
// state for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-galaxy/internal/lod"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventConfigChanged EventType = "CONFIG_CHANGED"
	EventCatalogLoaded EventType = "CATALOG_LOADED"
	EventCatalogFailed EventType = "CATALOG_FAILED"
)

// Event represents a state change.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Command   CommandType `json:"command,omitempty"`
	Field     string      `json:"field,omitempty"`
	Old       float64     `json:"old"`
	New       float64     `json:"new"`
	Source    string      `json:"source,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// LoadStatus describes the most recent catalog load.
type LoadStatus struct {
	Source    string
	Stars     int
	LoadedAt  time.Time
	Duration  time.Duration
	LastError error
}

// Manager handles shared simulation state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	sim    SimState
	render RenderConfig
	slider float64

	minSpeed, maxSpeed float64

	load LoadStatus

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	listeners  map[int]func(Event)
	nextListen int

	now func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents     int
	MinSpeed      float64 // years per second at slider 0
	MaxSpeed      float64 // years per second at slider 100
	InitialSlider float64
	Paused        bool
	Render        RenderConfig
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:     50,
		MinSpeed:      1e3,
		MaxSpeed:      1e8, // about two seconds per galactic year
		InitialSlider: 50,
		Render: RenderConfig{
			SizeMultiplier:    1,
			BackgroundOpacity: 0.35,
			Density:           1,
			LOD:               lod.PolicyDistance,
		},
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	def := DefaultConfig()
	minSpeed, maxSpeed := cfg.MinSpeed, cfg.MaxSpeed
	if minSpeed <= 0 || maxSpeed <= minSpeed {
		minSpeed, maxSpeed = def.MinSpeed, def.MaxSpeed
	}
	if cfg.Render.SizeMultiplier <= 0 {
		cfg.Render.SizeMultiplier = def.Render.SizeMultiplier
	}

	slider := clampFloat(cfg.InitialSlider, SliderMin, SliderMax)
	return &Manager{
		sim: SimState{
			TimeScale: SpeedFromSlider(slider, minSpeed, maxSpeed),
			Paused:    cfg.Paused,
		},
		render: RenderConfig{
			SizeMultiplier:    clampFloat(cfg.Render.SizeMultiplier, MinSizeMultiplier, MaxSizeMultiplier),
			BackgroundOpacity: clampFloat(cfg.Render.BackgroundOpacity, 0, 1),
			Density:           clampFloat(cfg.Render.Density, 0, 1),
			LOD:               cfg.Render.LOD,
		},
		slider:    slider,
		minSpeed:  minSpeed,
		maxSpeed:  maxSpeed,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		listeners: make(map[int]func(Event)),
		now:       time.Now,
	}
}

// Apply executes a command, records the resulting event and notifies
// subscribers. Listeners run on the caller's goroutine after the lock is
// released.
func (m *Manager) Apply(cmd Command) (Event, error) {
	m.mu.Lock()
	ev, err := m.apply(cmd)
	if err != nil {
		m.mu.Unlock()
		return Event{}, err
	}
	ev.Timestamp = m.now()
	m.addEvent(ev)
	listeners := m.listenersLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
	return ev, nil
}

// Advance moves the simulation clock by delta wall-clock seconds and returns
// the new clock state.
func (m *Manager) Advance(delta float64) SimState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sim = m.sim.Advance(delta)
	return m.sim
}

// RecordLoad stores the outcome of a catalog load and emits an event.
func (m *Manager) RecordLoad(source string, stars int, duration time.Duration, err error) {
	m.mu.Lock()
	now := m.now()
	m.load.Source = source
	m.load.Duration = duration
	m.load.LastError = err

	ev := Event{Timestamp: now, Source: source}
	if err != nil {
		ev.Type = EventCatalogFailed
		ev.Message = err.Error()
	} else {
		m.load.Stars = stars
		m.load.LoadedAt = now
		ev.Type = EventCatalogLoaded
		ev.New = float64(stars)
	}
	m.addEvent(ev)
	listeners := m.listenersLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Subscribe registers fn for every future event. The returned function
// removes the subscription.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListen
	m.nextListen++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) listenersLocked() []func(Event) {
	if len(m.listeners) == 0 {
		return nil
	}
	out := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		out = append(out, fn)
	}
	return out
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Sim    SimState
	Render RenderConfig
	Slider float64
	Load   LoadStatus
	Events []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Sim:    m.sim,
		Render: m.render,
		Slider: m.slider,
		Load:   m.load,
		Events: m.getEventsOrdered(),
	}
}

// Sim returns the current clock state.
func (m *Manager) Sim() SimState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sim
}

// Render returns the current render configuration.
func (m *Manager) Render() RenderConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.render
}

// SpeedRange returns the slider's speed bounds in years per second.
func (m *Manager) SpeedRange() (minSpeed, maxSpeed float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.minSpeed, m.maxSpeed
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasCatalog returns true once at least one catalog load succeeded.
func (m *Manager) HasCatalog() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.load.LoadedAt.IsZero()
}

func lodPolicy(v float64) lod.Policy {
	if v >= 0.5 {
		return lod.PolicyFull
	}
	return lod.PolicyDistance
}
