//go:build !portaudio

package playback

import (
	"context"
	"testing"

	"github.com/hanspeak/hanspeak/internal/config"
)

func TestStubPlayer_StopIfActiveIsIdempotent(t *testing.T) {
	player := NewPlayer(&config.Config{RequestTimeoutSec: 5})

	if err := player.Play(context.Background(), "https://api.test/conversation/audio/a.wav"); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	player.StopIfActive()
	stub := player.(*stubPlayer)
	if stub.active {
		t.Fatal("expected handle released after stop")
	}

	// Second stop with no active handle must be a no-op.
	player.StopIfActive()
	if stub.active {
		t.Fatal("expected state unchanged after second stop")
	}
}

func TestStubPlayer_PlayTracksSingleHandle(t *testing.T) {
	player := NewPlayer(&config.Config{RequestTimeoutSec: 5}).(*stubPlayer)

	_ = player.Play(context.Background(), "https://api.test/conversation/audio/a.wav")
	_ = player.Play(context.Background(), "https://api.test/conversation/audio/b.wav")
	if !player.active {
		t.Fatal("expected an active handle")
	}
	player.StopIfActive()
	if player.active {
		t.Fatal("expected no active handle after stop")
	}
}
