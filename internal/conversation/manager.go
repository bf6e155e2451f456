package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hanspeak/hanspeak/internal/backend"
	"github.com/hanspeak/hanspeak/internal/capture"
	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/hanspeak/hanspeak/internal/notify"
	"github.com/hanspeak/hanspeak/internal/playback"
)

var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionClosed  = errors.New("session is closed")
	ErrTurnInProgress = errors.New("a turn is already in progress")
	ErrNotRecording   = errors.New("not recording")
	ErrEndDeclined    = errors.New("session end declined by user")
	ErrNoSuchMessage  = errors.New("no such message")
)

type phase int

const (
	phaseIdle phase = iota
	phaseRecording
	phaseTranscribing
	phaseAwaitingReply
	phaseEnding
)

// Manager orchestrates one conversation practice session: microphone turns
// through the STT and reply stages, synthesized-speech playback, elapsed
// time, and the end-of-session policy.
type Manager struct {
	cfg      *config.Config
	api      backend.Client
	recorder capture.Recorder
	player   playback.Player
	notifier notify.Notifier

	log *Log

	mu        sync.Mutex
	phase     phase
	sessionID string
	turnCount int
	muted     bool
	closed    bool
	// generation of the current turn; asynchronous completions re-check it
	// before touching state so late resolutions are dropped.
	generation int64
	recording  capture.Recording

	// serializes the check-fetch-set of translations so each message is
	// fetched at most once.
	translateMu sync.Mutex

	elapsedSeconds int64
	tickerStop     chan struct{}
}

func NewManager(cfg *config.Config, api backend.Client, rec capture.Recorder, player playback.Player, notifier notify.Notifier) *Manager {
	return &Manager{
		cfg:      cfg,
		api:      api,
		recorder: rec,
		player:   player,
		notifier: notifier,
		log:      NewLog(),
		muted:    cfg.TTSMuted,
	}
}

// Begin starts the session with the backend and, on success, records the
// opening AI line and starts the elapsed-time ticker.
func (m *Manager) Begin(ctx context.Context, input backend.StartSessionInput) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrSessionClosed
	}
	if m.sessionID != "" {
		m.mu.Unlock()
		return fmt.Errorf("session %s already started", m.sessionID)
	}
	m.mu.Unlock()

	sess, err := m.api.StartSession(ctx, input)
	if err != nil {
		slog.Error("session start failed", "error", err, "topic", input.Topic)
		m.notifier.Alert(messageSessionStartFailed)
		return fmt.Errorf("start session: %w", err)
	}

	stop := make(chan struct{})
	m.mu.Lock()
	m.sessionID = sess.ID
	m.tickerStop = stop
	muted := m.muted
	m.mu.Unlock()

	m.log.Append(SpeakerAI, sess.OpeningLine)
	slog.Info("session started", "session_id", sess.ID, "topic", input.Topic)

	go m.runTicker(stop)
	if sess.OpeningAudioRef != "" && !muted {
		go m.playAudio(sess.OpeningAudioRef)
	}
	return nil
}

func (m *Manager) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			atomic.AddInt64(&m.elapsedSeconds, 1)
		}
	}
}

// StartRecording acquires the microphone for a new turn. Any active
// playback is stopped before the device is opened.
func (m *Manager) StartRecording(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrSessionClosed
	}
	if m.sessionID == "" {
		m.mu.Unlock()
		return ErrNoSession
	}
	if m.phase != phaseIdle {
		m.mu.Unlock()
		return ErrTurnInProgress
	}
	// Reserve the pipeline before touching the device so a slow
	// acquisition does not stall flag readers.
	m.phase = phaseRecording
	sessionID := m.sessionID
	m.mu.Unlock()

	m.player.StopIfActive()
	rec, err := m.recorder.Start(ctx)
	if err != nil {
		m.mu.Lock()
		m.phase = phaseIdle
		m.mu.Unlock()
		switch {
		case errors.Is(err, capture.ErrCaptureUnavailable):
			m.notifier.Alert(messageCaptureUnavailable)
		case errors.Is(err, capture.ErrPermissionDenied):
			m.notifier.Alert(messagePermissionDenied)
		default:
			m.notifier.Alert(messageRecordingFailed)
		}
		slog.Error("failed to start recording", "error", err, "session_id", sessionID)
		return fmt.Errorf("start recording: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		if _, stopErr := rec.Stop(); stopErr != nil {
			slog.Warn("failed to release recording after close", "error", stopErr)
		}
		return ErrSessionClosed
	}
	m.recording = rec
	m.mu.Unlock()
	slog.Info("recording started", "session_id", sessionID)
	return nil
}

// StopRecording packages the captured audio, inserts the user placeholder
// and launches the STT and reply stages for this turn.
func (m *Manager) StopRecording(ctx context.Context) error {
	m.mu.Lock()
	if m.phase != phaseRecording {
		m.mu.Unlock()
		return ErrNotRecording
	}
	rec := m.recording
	m.recording = nil

	artifact, err := rec.Stop()
	if err != nil {
		m.phase = phaseIdle
		m.mu.Unlock()
		slog.Error("failed to stop recording", "error", err, "session_id", m.sessionID)
		m.notifier.Alert(messageRecordingFailed)
		return fmt.Errorf("stop recording: %w", err)
	}

	userID := m.log.Append(SpeakerUser, messageRecognizing)
	m.generation++
	gen := m.generation
	m.phase = phaseTranscribing
	sessionID := m.sessionID
	m.mu.Unlock()

	slog.Info("turn submitted", "session_id", sessionID, "message_id", userID,
		"content_type", artifact.ContentType, "bytes", len(artifact.Data))
	go m.runTurn(gen, sessionID, userID, artifact)
	return nil
}

// runTurn drives one turn through its two sequential stages. The reply call
// is only issued once the transcript is known, because the transcript is
// its input.
func (m *Manager) runTurn(gen int64, sessionID string, userMessageID int64, artifact capture.Artifact) {
	ctx := context.Background()

	transcript, err := m.api.TranscribeTurn(ctx, sessionID, artifact)
	if err != nil {
		m.mu.Lock()
		if !m.isCurrentLocked(gen) {
			m.mu.Unlock()
			slog.Warn("dropping stale transcription failure", "session_id", sessionID, "message_id", userMessageID)
			return
		}
		m.log.ReplaceText(userMessageID, messageRecognitionFailedMarker)
		m.phase = phaseIdle
		m.mu.Unlock()
		slog.Error("transcription failed", "error", err, "session_id", sessionID, "message_id", userMessageID)
		m.notifier.Alert(messageTranscriptionFailed)
		return
	}

	m.mu.Lock()
	if !m.isCurrentLocked(gen) {
		m.mu.Unlock()
		slog.Warn("dropping stale transcript", "session_id", sessionID, "message_id", userMessageID)
		return
	}
	m.log.ReplaceText(userMessageID, transcript)
	aiMessageID := m.log.Append(SpeakerAI, messageThinking)
	m.phase = phaseAwaitingReply
	m.mu.Unlock()
	slog.Info("transcript received", "session_id", sessionID, "message_id", userMessageID)

	reply, err := m.api.SendReply(ctx, sessionID, transcript)
	if err != nil {
		m.mu.Lock()
		if !m.isCurrentLocked(gen) {
			m.mu.Unlock()
			slog.Warn("dropping stale reply failure", "session_id", sessionID, "message_id", aiMessageID)
			return
		}
		m.log.Remove(aiMessageID)
		m.phase = phaseIdle
		m.mu.Unlock()
		slog.Error("reply failed", "error", err, "session_id", sessionID)
		m.notifier.Alert(messageReplyFailed)
		return
	}

	m.mu.Lock()
	if !m.isCurrentLocked(gen) {
		m.mu.Unlock()
		slog.Warn("dropping stale reply", "session_id", sessionID, "message_id", aiMessageID)
		return
	}
	m.log.ReplaceText(aiMessageID, reply.Text)
	m.turnCount++
	m.phase = phaseIdle
	muted := m.muted
	turn := m.turnCount
	m.mu.Unlock()
	slog.Info("turn completed", "session_id", sessionID, "turn", turn)

	if reply.AudioRef != "" && !muted {
		m.playAudio(reply.AudioRef)
	}
}

func (m *Manager) isCurrentLocked(gen int64) bool {
	return !m.closed && m.generation == gen
}

func (m *Manager) playAudio(ref string) {
	if err := m.player.Play(context.Background(), m.api.AudioURL(ref)); err != nil {
		slog.Warn("playback failed", "error", err, "audio_ref", ref)
	}
}

// Translate returns the translation for a message, fetching it from the
// backend on first use and memoizing it on the message afterwards.
func (m *Manager) Translate(ctx context.Context, messageID int64) (string, error) {
	m.translateMu.Lock()
	defer m.translateMu.Unlock()

	msg, ok := m.log.Get(messageID)
	if !ok {
		return "", ErrNoSuchMessage
	}
	if msg.Translation != "" {
		return msg.Translation, nil
	}
	translation, err := m.api.Translate(ctx, msg.Text)
	if err != nil {
		return "", fmt.Errorf("translate message %d: %w", messageID, err)
	}
	m.log.SetTranslation(messageID, translation)
	stored, _ := m.log.Get(messageID)
	return stored.Translation, nil
}

// SetMuted stops any active playback when muting. In-flight reply calls are
// not cancelled; their audio is simply not played.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
	if muted {
		m.player.StopIfActive()
	}
}

func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// End applies the minimum-turns policy and, once past it, closes the
// session with the backend. A backend failure leaves the session exactly as
// it was.
func (m *Manager) End(ctx context.Context) (*backend.Summary, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if m.sessionID == "" {
		m.mu.Unlock()
		return nil, ErrNoSession
	}
	if m.phase != phaseIdle {
		m.mu.Unlock()
		return nil, ErrTurnInProgress
	}
	sessionID := m.sessionID
	turns := m.turnCount
	m.mu.Unlock()

	if turns < m.cfg.MinTurnsToSave {
		if !m.notifier.Confirm(endConfirmMessage(turns, m.cfg.MinTurnsToSave)) {
			slog.Info("session end declined", "session_id", sessionID, "turns", turns)
			return nil, ErrEndDeclined
		}
	}

	m.player.StopIfActive()
	m.mu.Lock()
	m.phase = phaseEnding
	m.mu.Unlock()

	summary, err := m.api.EndSession(ctx, sessionID)
	if err != nil {
		m.mu.Lock()
		m.phase = phaseIdle
		m.mu.Unlock()
		slog.Error("session end failed", "error", err, "session_id", sessionID)
		m.notifier.Alert(messageSessionEndFailed)
		return nil, fmt.Errorf("end session: %w", err)
	}

	m.mu.Lock()
	m.closeLocked()
	m.mu.Unlock()
	slog.Info("session ended", "session_id", sessionID, "turns", turns, "score", summary.Score)
	return summary, nil
}

// Close tears the manager down. Late-resolving turn callbacks become
// no-ops from this point on.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closeLocked()
	m.mu.Unlock()
	m.player.StopIfActive()
}

func (m *Manager) closeLocked() {
	if m.closed {
		return
	}
	m.closed = true
	if m.tickerStop != nil {
		close(m.tickerStop)
	}
	if m.recording != nil {
		if _, err := m.recording.Stop(); err != nil {
			slog.Warn("failed to release recording on close", "error", err)
		}
		m.recording = nil
	}
}

func (m *Manager) Messages() []Message {
	return m.log.Snapshot()
}

func (m *Manager) TurnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnCount
}

func (m *Manager) ElapsedSeconds() int64 {
	return atomic.LoadInt64(&m.elapsedSeconds)
}

func (m *Manager) IsRecording() bool     { return m.inPhase(phaseRecording) }
func (m *Manager) IsTranscribing() bool  { return m.inPhase(phaseTranscribing) }
func (m *Manager) IsAwaitingReply() bool { return m.inPhase(phaseAwaitingReply) }
func (m *Manager) IsEnding() bool        { return m.inPhase(phaseEnding) }

// CanRecord reports whether the record trigger should be enabled.
func (m *Manager) CanRecord() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && m.sessionID != "" && m.phase == phaseIdle
}

func (m *Manager) inPhase(p phase) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == p
}
