//go:build opus

package capture

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hraban/opus"
)

const (
	opusFrameMs      = 20
	opusMaxPacketLen = 4000
)

func newOpusEncoder() encoder {
	return opusEncoder{}
}

type opusEncoder struct{}

func (opusEncoder) ContentType() string { return "audio/opus" }
func (opusEncoder) Extension() string   { return ".opus" }

func (opusEncoder) supports(sampleRate, channels int) bool {
	if channels < 1 || channels > 2 {
		return false
	}
	switch sampleRate {
	case 8000, 12000, 16000, 24000, 48000:
		return true
	}
	return false
}

// Encode packs the capture into length-prefixed opus packets, one 20ms
// frame per packet. The final partial frame is zero-padded.
func (opusEncoder) Encode(pcm []int16, sampleRate, channels int) ([]byte, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}

	frameSamples := sampleRate * opusFrameMs / 1000 * channels
	var buf bytes.Buffer
	packet := make([]byte, opusMaxPacketLen)
	for off := 0; off < len(pcm); off += frameSamples {
		frame := make([]int16, frameSamples)
		copy(frame, pcm[off:min(off+frameSamples, len(pcm))])
		n, err := enc.Encode(frame, packet)
		if err != nil {
			return nil, fmt.Errorf("encode opus frame: %w", err)
		}
		var lenPrefix [2]byte
		binary.BigEndian.PutUint16(lenPrefix[:], uint16(n))
		buf.Write(lenPrefix[:])
		buf.Write(packet[:n])
	}
	return buf.Bytes(), nil
}
