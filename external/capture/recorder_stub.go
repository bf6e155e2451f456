//go:build !portaudio

package capture

import (
	"context"

	"github.com/hanspeak/hanspeak/internal/capture"
	"github.com/hanspeak/hanspeak/internal/config"
)

// Binaries built without the portaudio tag have no capture capability at
// all; every start attempt reports capture-unavailable.
type stubRecorder struct{}

func NewRecorder(_ *config.Config) capture.Recorder {
	return stubRecorder{}
}

func (stubRecorder) Start(_ context.Context) (capture.Recording, error) {
	return nil, capture.ErrCaptureUnavailable
}
