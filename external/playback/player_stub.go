//go:build !portaudio

package playback

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/hanspeak/hanspeak/internal/playback"
)

// Binaries built without the portaudio tag play nothing, but the stub still
// tracks the zero-or-one handle so mute and stop behave the same.
type stubPlayer struct {
	mu     sync.Mutex
	active bool
}

func NewPlayer(_ *config.Config) playback.Player {
	return &stubPlayer{}
}

func (p *stubPlayer) Play(_ context.Context, url string) error {
	p.mu.Lock()
	p.active = true
	p.mu.Unlock()
	slog.Debug("playback skipped: built without audio output", "url", url)
	return nil
}

func (p *stubPlayer) StopIfActive() {
	p.mu.Lock()
	p.active = false
	p.mu.Unlock()
}
