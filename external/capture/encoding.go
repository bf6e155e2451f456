package capture

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/youpy/go-wav"
)

type encoder interface {
	ContentType() string
	Extension() string
	supports(sampleRate, channels int) bool
	Encode(pcm []int16, sampleRate, channels int) ([]byte, error)
}

// negotiateEncoder picks the best supported of the ordered candidates:
// opus when compiled in and the rate fits, then WAV, then raw PCM. The
// transcription service matches artifacts by extension, so the chosen
// encoder also decides the filename suffix.
func negotiateEncoder(sampleRate, channels int) encoder {
	for _, enc := range encoderCandidates() {
		if enc == nil {
			continue
		}
		if enc.supports(sampleRate, channels) {
			return enc
		}
	}
	return pcmEncoder{}
}

func encoderCandidates() []encoder {
	return []encoder{newOpusEncoder(), wavEncoder{}, pcmEncoder{}}
}

type wavEncoder struct{}

func (wavEncoder) ContentType() string { return "audio/wav" }
func (wavEncoder) Extension() string   { return ".wav" }

func (wavEncoder) supports(sampleRate, channels int) bool {
	return sampleRate > 0 && channels >= 1 && channels <= 2
}

func (wavEncoder) Encode(pcm []int16, sampleRate, channels int) ([]byte, error) {
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	numSamples := len(pcm) / channels
	var buf bytes.Buffer
	writer := wav.NewWriter(&buf, uint32(numSamples), uint16(channels), uint32(sampleRate), 16)
	samples := make([]wav.Sample, numSamples)
	for i := 0; i < numSamples; i++ {
		for c := 0; c < channels; c++ {
			samples[i].Values[c] = int(pcm[i*channels+c])
		}
	}
	if err := writer.WriteSamples(samples); err != nil {
		return nil, fmt.Errorf("write wav samples: %w", err)
	}
	return buf.Bytes(), nil
}

type pcmEncoder struct{}

func (pcmEncoder) ContentType() string { return "audio/L16" }
func (pcmEncoder) Extension() string   { return ".pcm" }

func (pcmEncoder) supports(_, _ int) bool { return true }

func (pcmEncoder) Encode(pcm []int16, _, _ int) ([]byte, error) {
	out := make([]byte, len(pcm)*2)
	for i, sample := range pcm {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out, nil
}
