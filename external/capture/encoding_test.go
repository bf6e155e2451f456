package capture

import (
	"bytes"
	"strings"
	"testing"

	"github.com/youpy/go-wav"
)

func TestNegotiateEncoder_FallsBackToWAVAt44100(t *testing.T) {
	enc := negotiateEncoder(44100, 1)
	if enc == nil {
		t.Fatal("expected an encoder")
	}
	// opus only handles the opus-native rates, so 44.1kHz always lands on
	// the WAV candidate.
	if enc.ContentType() != "audio/wav" || enc.Extension() != ".wav" {
		t.Fatalf("unexpected encoder: %s %s", enc.ContentType(), enc.Extension())
	}
}

func TestNegotiateEncoder_ExtensionMatchesContentType(t *testing.T) {
	for _, rate := range []int{16000, 44100, 48000} {
		enc := negotiateEncoder(rate, 1)
		if enc == nil {
			t.Fatalf("no encoder for %d", rate)
		}
		ct := enc.ContentType()
		ext := enc.Extension()
		suffix := strings.TrimPrefix(ct, "audio/")
		switch ct {
		case "audio/L16":
			if ext != ".pcm" {
				t.Fatalf("pcm encoder must use .pcm, got %s", ext)
			}
		default:
			if ext != "."+suffix {
				t.Fatalf("extension %s does not agree with content type %s", ext, ct)
			}
		}
	}
}

func TestWAVEncoder_ProducesDecodableWAV(t *testing.T) {
	pcm := []int16{0, 1000, -1000, 32000, -32000, 0, 5, -5}
	data, err := wavEncoder{}.Encode(pcm, 44100, 1)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	reader := wav.NewReader(bytes.NewReader(data))
	format, err := reader.Format()
	if err != nil {
		t.Fatalf("failed to read wav format: %v", err)
	}
	if format.SampleRate != 44100 || format.NumChannels != 1 || format.BitsPerSample != 16 {
		t.Fatalf("unexpected format: %+v", format)
	}
	samples, err := reader.ReadSamples(uint32(len(pcm)))
	if err != nil {
		t.Fatalf("failed to read samples: %v", err)
	}
	if len(samples) != len(pcm) {
		t.Fatalf("expected %d samples, got %d", len(pcm), len(samples))
	}
	for i, s := range samples {
		if int16(s.Values[0]) != pcm[i] {
			t.Fatalf("sample %d mismatch: got %d want %d", i, s.Values[0], pcm[i])
		}
	}
}

func TestWAVEncoder_RejectsBadChannelCount(t *testing.T) {
	if _, err := (wavEncoder{}).Encode([]int16{1, 2, 3}, 44100, 3); err == nil {
		t.Fatal("expected error for unsupported channel count")
	}
}

func TestPCMEncoder_LittleEndianRoundTrip(t *testing.T) {
	pcm := []int16{1, -1, 256, -256}
	data, err := pcmEncoder{}.Encode(pcm, 44100, 1)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(data) != len(pcm)*2 {
		t.Fatalf("unexpected byte length: %d", len(data))
	}
	if data[0] != 0x01 || data[1] != 0x00 {
		t.Fatalf("expected little-endian layout, got % x", data[:2])
	}
}
