package playback

import "context"

// Player owns at most one active synthesized-speech playback at a time.
type Player interface {
	// Play fetches the audio at url and starts playback. The caller is
	// responsible for stopping any prior playback first.
	Play(ctx context.Context, url string) error
	// StopIfActive pauses the active playback, rewinds it and releases the
	// handle. Calling it with no active playback is a no-op.
	StopIfActive()
}
