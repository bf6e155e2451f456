//go:build portaudio

package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"
	"github.com/hanspeak/hanspeak/internal/capture"
	"github.com/hanspeak/hanspeak/internal/config"
)

const framesPerBuffer = 1024

type PortAudioRecorder struct {
	sampleRate int
	channels   int
}

func NewRecorder(cfg *config.Config) capture.Recorder {
	return &PortAudioRecorder{
		sampleRate: cfg.CaptureSampleRate,
		channels:   1,
	}
}

func (r *PortAudioRecorder) Start(_ context.Context) (capture.Recording, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", capture.ErrCaptureUnavailable, err)
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil || device.MaxInputChannels == 0 {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: no input device", capture.ErrCaptureUnavailable)
	}

	rec := &portAudioRecording{
		enc:        negotiateEncoder(r.sampleRate, r.channels),
		sampleRate: r.sampleRate,
		channels:   r.channels,
	}

	// OS-level microphone permission refusals surface as open/start
	// failures on the default stream.
	stream, err := portaudio.OpenDefaultStream(r.channels, 0, float64(r.sampleRate), framesPerBuffer, rec.appendChunk)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", capture.ErrPermissionDenied, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", capture.ErrPermissionDenied, err)
	}

	rec.stream = stream
	slog.Debug("capture started", "device", device.Name, "sample_rate", r.sampleRate)
	return rec, nil
}

type portAudioRecording struct {
	mu         sync.Mutex
	stream     *portaudio.Stream
	samples    []int16
	enc        encoder
	sampleRate int
	channels   int
	stopped    bool
}

func (r *portAudioRecording) appendChunk(in []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.samples = append(r.samples, in...)
}

// Stop releases the device unconditionally; packaging errors do not keep
// the microphone open.
func (r *portAudioRecording) Stop() (capture.Artifact, error) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return capture.Artifact{}, fmt.Errorf("recording already stopped")
	}
	r.stopped = true
	samples := r.samples
	r.mu.Unlock()

	if err := r.stream.Stop(); err != nil {
		slog.Warn("failed to stop capture stream", "error", err)
	}
	if err := r.stream.Close(); err != nil {
		slog.Warn("failed to close capture stream", "error", err)
	}
	portaudio.Terminate()

	data, err := r.enc.Encode(samples, r.sampleRate, r.channels)
	if err != nil {
		return capture.Artifact{}, fmt.Errorf("package capture: %w", err)
	}
	return capture.Artifact{
		Filename:    uuid.NewString() + r.enc.Extension(),
		ContentType: r.enc.ContentType(),
		Data:        data,
	}, nil
}
