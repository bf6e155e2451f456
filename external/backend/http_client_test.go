package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hanspeak/hanspeak/internal/backend"
	"github.com/hanspeak/hanspeak/internal/capture"
	"github.com/hanspeak/hanspeak/internal/config"
)

func testClient(baseURL string) backend.Client {
	return NewHTTPClient(&config.Config{
		APIBaseURL:        baseURL,
		APIAuthToken:      "secret",
		PracticeLanguage:  "ko-KR",
		MinTurnsToSave:    5,
		CaptureSampleRate: 44100,
		RequestTimeoutSec: 5,
	})
}

func TestStartSession_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/conversation/sessions" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected a request id header")
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["topic"] != "카페에서 주문하기" {
			t.Fatalf("unexpected topic: %q", body["topic"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"session_id":        "sess-1",
			"opening_line":      "어서 오세요!",
			"opening_audio_ref": "opening.wav",
		})
	}))
	defer server.Close()

	sess, err := testClient(server.URL).StartSession(context.Background(), backend.StartSessionInput{
		Topic:    "카페에서 주문하기",
		UserRole: "손님",
		AIRole:   "점원",
	})
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	if sess.ID != "sess-1" || sess.OpeningLine != "어서 오세요!" || sess.OpeningAudioRef != "opening.wav" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestTranscribeTurn_UploadsArtifactWithMatchingExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversation/sessions/sess-1/transcriptions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		reader, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("failed to create multipart reader: %v", err)
		}
		part, err := reader.NextPart()
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() != "audio" {
			t.Fatalf("unexpected form name: %s", part.FormName())
		}
		if part.FileName() != "utterance.wav" {
			t.Fatalf("unexpected filename: %s", part.FileName())
		}
		if got := part.Header.Get("Content-Type"); got != "audio/wav" {
			t.Fatalf("unexpected part content type: %s", got)
		}
		content, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("failed to read audio body: %v", err)
		}
		if string(content) != "RIFFdata" {
			t.Fatalf("unexpected audio body: %q", content)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"transcript": "안녕하세요"})
	}))
	defer server.Close()

	transcript, err := testClient(server.URL).TranscribeTurn(context.Background(), "sess-1", capture.Artifact{
		Filename:    "utterance.wav",
		ContentType: "audio/wav",
		Data:        []byte("RIFFdata"),
	})
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if transcript != "안녕하세요" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
}

func TestSendReply_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversation/sessions/sess-1/replies" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "안녕하세요" {
			t.Fatalf("unexpected text: %q", body["text"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"reply":     "반갑습니다",
			"audio_ref": "reply-1.wav",
		})
	}))
	defer server.Close()

	reply, err := testClient(server.URL).SendReply(context.Background(), "sess-1", "안녕하세요")
	if err != nil {
		t.Fatalf("send reply failed: %v", err)
	}
	if reply.Text != "반갑습니다" || reply.AudioRef != "reply-1.wav" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestEndSession_ParsesSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversation/sessions/sess-1/end" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"score":             88,
			"total_time":        312,
			"turn_count":        6,
			"completion_status": "completed",
			"feedback": []map[string]any{
				{"turn": 1, "comment": "자연스러운 인사였어요."},
			},
		})
	}))
	defer server.Close()

	summary, err := testClient(server.URL).EndSession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("end session failed: %v", err)
	}
	if summary.Score != 88 || summary.TotalSeconds != 312 || summary.TurnCount != 6 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Feedback) != 1 || summary.Feedback[0].Turn != 1 {
		t.Fatalf("unexpected feedback: %+v", summary.Feedback)
	}
}

func TestDo_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := testClient(server.URL).SendReply(context.Background(), "sess-1", "text"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestAudioURL_Convention(t *testing.T) {
	client := testClient("https://api.hanspeak.example/")
	got := client.AudioURL("reply-1.wav")
	want := "https://api.hanspeak.example/conversation/audio/reply-1.wav"
	if got != want {
		t.Fatalf("unexpected audio url: %q", got)
	}
	if !strings.HasSuffix(got, ".wav") {
		t.Fatalf("expected extension to survive: %q", got)
	}
}
