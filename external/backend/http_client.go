package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"github.com/hanspeak/hanspeak/internal/backend"
	"github.com/hanspeak/hanspeak/internal/capture"
	"github.com/hanspeak/hanspeak/internal/config"
)

type HTTPClient struct {
	baseURL   string
	authToken string
	client    *http.Client
}

func NewHTTPClient(cfg *config.Config) backend.Client {
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		authToken: cfg.APIAuthToken,
		client:    &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

type startSessionRequest struct {
	Topic     string `json:"topic"`
	UserRole  string `json:"user_role"`
	AIRole    string `json:"ai_role"`
	Situation string `json:"situation,omitempty"`
}

type startSessionResponse struct {
	SessionID       string `json:"session_id"`
	OpeningLine     string `json:"opening_line"`
	OpeningAudioRef string `json:"opening_audio_ref"`
}

func (c *HTTPClient) StartSession(ctx context.Context, input backend.StartSessionInput) (*backend.Session, error) {
	var resp startSessionResponse
	err := c.postJSON(ctx, "/conversation/sessions", startSessionRequest{
		Topic:     input.Topic,
		UserRole:  input.UserRole,
		AIRole:    input.AIRole,
		Situation: input.Situation,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &backend.Session{
		ID:              resp.SessionID,
		OpeningLine:     resp.OpeningLine,
		OpeningAudioRef: resp.OpeningAudioRef,
	}, nil
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

func (c *HTTPClient) TranscribeTurn(ctx context.Context, sessionID string, artifact capture.Artifact) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, artifact.Filename))
	header.Set("Content-Type", artifact.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("transcribe turn: %w", err)
	}
	if _, err := part.Write(artifact.Data); err != nil {
		return "", fmt.Errorf("transcribe turn: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("transcribe turn: %w", err)
	}

	req, err := c.newRequest(ctx, "/conversation/sessions/"+sessionID+"/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("transcribe turn: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp transcribeResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("transcribe turn: %w", err)
	}
	return resp.Transcript, nil
}

type replyRequest struct {
	Text string `json:"text"`
}

type replyResponse struct {
	Reply    string `json:"reply"`
	AudioRef string `json:"audio_ref"`
}

func (c *HTTPClient) SendReply(ctx context.Context, sessionID, transcript string) (*backend.Reply, error) {
	var resp replyResponse
	err := c.postJSON(ctx, "/conversation/sessions/"+sessionID+"/replies", replyRequest{Text: transcript}, &resp)
	if err != nil {
		return nil, fmt.Errorf("send reply: %w", err)
	}
	return &backend.Reply{Text: resp.Reply, AudioRef: resp.AudioRef}, nil
}

type translateRequest struct {
	Text string `json:"text"`
}

type translateResponse struct {
	Translation string `json:"translation"`
}

func (c *HTTPClient) Translate(ctx context.Context, text string) (string, error) {
	var resp translateResponse
	if err := c.postJSON(ctx, "/conversation/translations", translateRequest{Text: text}, &resp); err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return resp.Translation, nil
}

type endSessionResponse struct {
	Score            int    `json:"score"`
	TotalSeconds     int64  `json:"total_time"`
	TurnCount        int    `json:"turn_count"`
	CompletionStatus string `json:"completion_status"`
	Feedback         []struct {
		Turn    int    `json:"turn"`
		Comment string `json:"comment"`
	} `json:"feedback"`
}

func (c *HTTPClient) EndSession(ctx context.Context, sessionID string) (*backend.Summary, error) {
	var resp endSessionResponse
	if err := c.postJSON(ctx, "/conversation/sessions/"+sessionID+"/end", struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}
	summary := &backend.Summary{
		Score:            resp.Score,
		TotalSeconds:     resp.TotalSeconds,
		TurnCount:        resp.TurnCount,
		CompletionStatus: resp.CompletionStatus,
	}
	for _, fb := range resp.Feedback {
		summary.Feedback = append(summary.Feedback, backend.TurnFeedback{Turn: fb.Turn, Comment: fb.Comment})
	}
	return summary, nil
}

// AudioURL follows the backend's audio-serving convention; the path shape
// is owned by the backend, not derived here.
func (c *HTTPClient) AudioURL(ref string) string {
	return c.baseURL + "/conversation/audio/" + ref
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
