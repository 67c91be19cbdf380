package transcribe

import (
	"testing"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
)

func TestSniffFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"wav", append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 8)...), FormatWAV},
		{"mp3 id3", []byte("ID3\x04\x00"), FormatMP3},
		{"mp3 frame", []byte{0xFF, 0xFB, 0x90, 0x00}, FormatMP3},
		{"ogg", []byte("OggS\x00"), FormatOGG},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x00}, FormatWebM},
		{"flac", []byte("fLaC\x00"), FormatFLAC},
		{"garbage", []byte{0x00, 0x01, 0x02, 0x03}, FormatUnknown},
	}
	for _, tc := range cases {
		if got := SniffFormat(tc.data); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestValidateAudio(t *testing.T) {
	if err := ValidateAudio(nil); !errorsx.HasReason(err, errorsx.ReasonValidation) {
		t.Fatalf("expected validation error for empty buffer, got %v", err)
	}
	if err := ValidateAudio([]byte{0xDE, 0xAD}); !errorsx.HasReason(err, errorsx.ReasonValidation) {
		t.Fatalf("expected validation error for unknown container, got %v", err)
	}
	if err := ValidateAudio([]byte("OggS rest of stream")); err != nil {
		t.Fatalf("unexpected error for ogg: %v", err)
	}
}
