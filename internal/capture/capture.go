package capture

import (
	"context"
	"errors"
)

// ErrCaptureUnavailable means the runtime has no audio capture capability.
// There is no retry path for the current attempt.
var ErrCaptureUnavailable = errors.New("audio capture is unavailable")

// ErrPermissionDenied means the user declined microphone access. The user
// may retry after granting permission.
var ErrPermissionDenied = errors.New("microphone permission denied")

// Artifact is one packaged utterance ready for upload. Filename carries the
// extension matching ContentType; the transcription service rejects
// mismatches.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Recording owns one active capture device handle and its accumulating
// buffer. Stop releases the device unconditionally, even when packaging
// fails.
type Recording interface {
	Stop() (Artifact, error)
}

type Recorder interface {
	Start(ctx context.Context) (Recording, error)
}
