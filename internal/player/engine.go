package player

import "flicker/internal/domain"

// Engine constructs playable media instances. The production engine wraps
// an external mpv process; tests substitute a fake.
type Engine interface {
	// Start launches the media engine for the given spec. The returned
	// instance may not be attachable yet; callers wait for Attached.
	Start(spec domain.MediaSpec) (Instance, error)
}

// Instance is one live media engine resource. Exactly one may exist at a
// time, owned exclusively by the Controller.
type Instance interface {
	// Attached reports whether the control surface (IPC socket) is up.
	// Construction is complete only once this returns true.
	Attached() bool

	// Pause halts playback without tearing the instance down.
	Pause() error

	// Dispose fully releases the instance: process, socket, temp state.
	// Dispose must be safe to call on a never-attached instance.
	Dispose() error
}
