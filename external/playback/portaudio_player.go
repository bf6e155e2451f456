//go:build portaudio

package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/hanspeak/hanspeak/internal/playback"
	"github.com/youpy/go-wav"
)

const framesPerBuffer = 1024

type PortAudioPlayer struct {
	client *http.Client

	mu     sync.Mutex
	active *playbackHandle
}

func NewPlayer(cfg *config.Config) playback.Player {
	return &PortAudioPlayer{
		client: &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

// Play fetches the synthesized speech and starts a fresh stream for it.
// Rewinding on a later stop is inherent: every Play decodes from the top.
func (p *PortAudioPlayer) Play(ctx context.Context, url string) error {
	p.StopIfActive()

	data, err := p.fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch audio: %w", err)
	}

	reader := wav.NewReader(bytes.NewReader(data))
	format, err := reader.Format()
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize playback: %w", err)
	}

	h := &playbackHandle{player: p, done: make(chan struct{})}
	stream, err := portaudio.OpenDefaultStream(
		0,
		int(format.NumChannels),
		float64(format.SampleRate),
		framesPerBuffer,
		h.fillOutput(reader),
	)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open playback stream: %w", err)
	}
	h.stream = stream

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start playback stream: %w", err)
	}

	p.mu.Lock()
	p.active = h
	p.mu.Unlock()

	go func() {
		<-h.done
		p.releaseIfActive(h)
	}()
	return nil
}

// StopIfActive pauses and releases the active handle. Calling it with no
// active playback is a no-op.
func (p *PortAudioPlayer) StopIfActive() {
	p.mu.Lock()
	h := p.active
	p.active = nil
	p.mu.Unlock()
	if h != nil {
		h.release()
	}
}

func (p *PortAudioPlayer) releaseIfActive(h *playbackHandle) {
	p.mu.Lock()
	if p.active == h {
		p.active = nil
	}
	p.mu.Unlock()
	h.release()
}

func (p *PortAudioPlayer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("audio fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type playbackHandle struct {
	player   *PortAudioPlayer
	stream   *portaudio.Stream
	done     chan struct{}
	doneOnce sync.Once
	relOnce  sync.Once
}

func (h *playbackHandle) fillOutput(reader *wav.Reader) func(out []int16) {
	return func(out []int16) {
		samples, err := reader.ReadSamples(uint32(len(out)))
		if err == io.EOF {
			for i := range out {
				out[i] = 0
			}
			h.doneOnce.Do(func() { close(h.done) })
			return
		}
		if err != nil {
			slog.Warn("failed to read synthesized audio", "error", err)
			h.doneOnce.Do(func() { close(h.done) })
			return
		}
		for i := 0; i < len(samples) && i < len(out); i++ {
			out[i] = int16(samples[i].Values[0])
		}
		for i := len(samples); i < len(out); i++ {
			out[i] = 0
		}
	}
}

func (h *playbackHandle) release() {
	h.relOnce.Do(func() {
		if err := h.stream.Stop(); err != nil {
			slog.Warn("failed to stop playback stream", "error", err)
		}
		if err := h.stream.Close(); err != nil {
			slog.Warn("failed to close playback stream", "error", err)
		}
		portaudio.Terminate()
	})
}
