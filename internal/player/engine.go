// Package player owns single-station playback: an Engine abstraction over
// the streaming audio backend and a Controller that binds at most one live
// session to the currently selected station.
package player

// Events are the lifecycle notifications an engine handle delivers. They may
// arrive on engine-owned goroutines at any time, including after the handle
// has been released.
type Events struct {
	OnLoad      func()          // Stream confirmed playable, audio started
	OnLoadError func(err error) // Source could not be loaded
	OnPlayError func(err error) // Playback failed after having started
	OnEnd       func()          // Natural end of a finite stream
}

// HandleOptions configure a new engine handle.
type HandleOptions struct {
	Volume float64 // Initial gain in [0,1]
	Events Events
}

// Handle is one live audio session inside the engine. Release is idempotent
// and must silence the handle immediately; callbacks fired after Release are
// the caller's problem (the controller drops them by generation).
type Handle interface {
	Play()
	Pause()
	SetVolume(v float64)
	Release()
}

// Engine creates streaming playback handles. Create starts loading the
// source immediately; readiness and failure are reported through Events.
// Events must be delivered asynchronously, never from inside Create or the
// handle methods.
type Engine interface {
	Create(streamURL string, opts HandleOptions) Handle
}
