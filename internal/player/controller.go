package player

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Hexploration-Inc/radio-atlas/internal/models"
)

// State is the playback state of the current session.
type State int

const (
	StateIdle    State = iota // No station selected or stream stopped
	StateLoading              // Session created, stream not yet confirmed playable
	StatePlaying
	StatePaused
	StateError
)

// String returns a short label for display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Status is a read-only snapshot of the controller for the UI to render.
type Status struct {
	Station *models.Station
	State   State
	Volume  float64
	Err     error
}

// Controller owns at most one live engine handle. Every station change tears
// the previous handle down before creating the next one, so two sessions can
// never produce audio at the same time. Engine callbacks are stamped with the
// generation of the session they belong to and dropped once superseded.
type Controller struct {
	engine Engine
	log    zerolog.Logger

	mu         sync.Mutex
	generation uint64
	station    *models.Station
	handle     Handle
	state      State
	volume     float64
	err        error
}

// NewController creates a controller over the given engine. initialVolume is
// clamped to [0,1] and applied to every session until changed.
func NewController(engine Engine, initialVolume float64, log zerolog.Logger) *Controller {
	return &Controller{
		engine: engine,
		log:    log,
		state:  StateIdle,
		volume: clampVolume(initialVolume),
	}
}

// OnStationSelected reacts to the selection changing to s (nil deselects).
// The previous session's resources are always released first; a new session
// is created in Loading state and asked to play immediately.
func (c *Controller) OnStationSelected(s *models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.generation++
	c.err = nil

	if s == nil {
		c.station = nil
		c.state = StateIdle
		return
	}

	c.station = s
	c.state = StateLoading
	gen := c.generation

	c.log.Debug().Str("station", s.Name).Str("url", s.StreamURL).Msg("starting session")

	c.handle = c.engine.Create(s.StreamURL, HandleOptions{
		Volume: c.volume,
		Events: Events{
			OnLoad:      func() { c.onLoad(gen) },
			OnLoadError: func(err error) { c.onLoadError(gen, err) },
			OnPlayError: func(err error) { c.onPlayError(gen, err) },
			OnEnd:       func() { c.onEnd(gen) },
		},
	})
	c.handle.Play()
}

// TogglePlayPause switches between Playing and Paused. It is a no-op when no
// session exists or the session is not in a toggleable state.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		return
	}
	switch c.state {
	case StatePlaying:
		c.handle.Pause()
		c.state = StatePaused
	case StatePaused:
		c.handle.Play()
		c.state = StatePlaying
	}
}

// SetVolume sets the requested volume. It applies to the live handle if one
// exists and is retained for every subsequent session regardless.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = clampVolume(v)
	if c.handle != nil {
		c.handle.SetVolume(c.volume)
	}
}

// Stop releases the current session and returns to Idle. The station stays
// selected for display; selecting it again creates a fresh session.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.generation++
	c.state = StateIdle
	c.err = nil
}

// Close releases all resources. The controller must not be used afterward.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.generation++
	c.station = nil
	c.state = StateIdle
}

// Status returns a snapshot of the current session.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Station: c.station,
		State:   c.state,
		Volume:  c.volume,
		Err:     c.err,
	}
}

// teardownLocked releases the live handle, if any. Safe to call from any
// state, on every exit path.
func (c *Controller) teardownLocked() {
	if c.handle != nil {
		c.handle.Release()
		c.handle = nil
	}
}

func (c *Controller) onLoad(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	if c.state == StateLoading {
		c.state = StatePlaying
	}
}

func (c *Controller) onLoadError(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.log.Warn().Err(err).Msg("stream load failed")
	c.teardownLocked()
	c.state = StateError
	c.err = fmt.Errorf("loading stream: %w", err)
}

func (c *Controller) onPlayError(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.log.Warn().Err(err).Msg("stream playback failed")
	c.teardownLocked()
	c.state = StateError
	c.err = fmt.Errorf("playback failed: %w", err)
}

func (c *Controller) onEnd(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.teardownLocked()
	c.state = StateIdle
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
