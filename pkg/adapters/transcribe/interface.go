package transcribe

import (
	"bytes"
	"context"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
)

// Transcription is the result of transcribing one utterance.
type Transcription struct {
	Text       string
	Confidence float64
	Language   string
	DurationMS int
}

// Transcriber defines the contract for any speech-to-text vendor
// implementation working on a complete audio buffer.
type Transcriber interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Transcribe converts one utterance of audio into text.
	Transcribe(ctx context.Context, audio []byte) (Transcription, error)
}

// Audio container formats recognized by SniffFormat.
const (
	FormatWAV     = "wav"
	FormatMP3     = "mp3"
	FormatOGG     = "ogg"
	FormatWebM    = "webm"
	FormatFLAC    = "flac"
	FormatUnknown = ""
)

// SniffFormat identifies the audio container from its magic bytes.
func SniffFormat(audio []byte) string {
	switch {
	case len(audio) >= 12 && bytes.Equal(audio[:4], []byte("RIFF")) && bytes.Equal(audio[8:12], []byte("WAVE")):
		return FormatWAV
	case len(audio) >= 3 && bytes.Equal(audio[:3], []byte("ID3")):
		return FormatMP3
	case len(audio) >= 2 && audio[0] == 0xFF && audio[1]&0xE0 == 0xE0:
		return FormatMP3
	case len(audio) >= 4 && bytes.Equal(audio[:4], []byte("OggS")):
		return FormatOGG
	case len(audio) >= 4 && bytes.Equal(audio[:4], []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return FormatWebM
	case len(audio) >= 4 && bytes.Equal(audio[:4], []byte("fLaC")):
		return FormatFLAC
	default:
		return FormatUnknown
	}
}

// ValidateAudio rejects empty buffers and unrecognized containers before
// any network call is attempted.
func ValidateAudio(audio []byte) error {
	if len(audio) == 0 {
		return errorsx.New(errorsx.ReasonValidation, "empty audio buffer")
	}
	if SniffFormat(audio) == FormatUnknown {
		return errorsx.New(errorsx.ReasonValidation, "unrecognized audio container")
	}
	return nil
}
