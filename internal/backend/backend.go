package backend

import (
	"context"

	"github.com/hanspeak/hanspeak/internal/capture"
)

type StartSessionInput struct {
	Topic     string
	UserRole  string
	AIRole    string
	Situation string
}

type Session struct {
	ID              string
	OpeningLine     string
	OpeningAudioRef string
}

type Reply struct {
	Text     string
	AudioRef string
}

type TurnFeedback struct {
	Turn    int
	Comment string
}

type Summary struct {
	Score            int
	TotalSeconds     int64
	TurnCount        int
	Feedback         []TurnFeedback
	CompletionStatus string
}

// Client is the conversation backend. STT, LLM replies, TTS and scoring all
// live behind it; the orchestrator only sequences the calls.
type Client interface {
	StartSession(ctx context.Context, input StartSessionInput) (*Session, error)
	TranscribeTurn(ctx context.Context, sessionID string, artifact capture.Artifact) (string, error)
	SendReply(ctx context.Context, sessionID, transcript string) (*Reply, error)
	Translate(ctx context.Context, text string) (string, error)
	EndSession(ctx context.Context, sessionID string) (*Summary, error)
	// AudioURL resolves a synthesized-speech artifact reference to a playable
	// URL following the backend's audio-serving convention.
	AudioURL(ref string) string
}
