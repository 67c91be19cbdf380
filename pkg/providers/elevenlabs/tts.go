package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/synth"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/logging"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/resilience"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// outputFormats maps the short audio format names used across the
// assistant onto ElevenLabs output_format identifiers.
var outputFormats = map[string]string{
	"mp3":  "mp3_44100_128",
	"wav":  "pcm_44100",
	"ulaw": "ulaw_8000",
	"opus": "opus_48000_64",
}

type Config struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string
	Client  *http.Client
}

// Synthesizer renders speech through the ElevenLabs text-to-speech REST
// endpoint, one utterance per call.
type Synthesizer struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Synthesizer, error) {
	if cfg.APIKey == "" || cfg.VoiceID == "" {
		return nil, errors.New("missing elevenlabs config")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_turbo_v2_5"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "elevenlabs_tts"),
	}, nil
}

func (s *Synthesizer) Name() string { return "elevenlabs_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, req synth.Request) ([]byte, error) {
	voiceID := s.cfg.VoiceID
	if req.Voice != "" && req.Voice != "default" {
		voiceID = req.Voice
	}

	payload, err := json.Marshal(map[string]any{
		"text":     req.Text,
		"model_id": s.cfg.ModelID,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.8,
		},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.buildURL(voiceID, req.Format), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := s.cfg.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("rate limit exceeded", slog.String("status", resp.Status))
		return nil, resilience.RateLimitError{Provider: "elevenlabs", Message: string(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, body)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, errors.New("elevenlabs: empty audio response")
	}
	s.logger.Debug("synthesized utterance",
		slog.Int("text_len", len(req.Text)),
		slog.Int("audio_bytes", len(audio)))
	return audio, nil
}

func (s *Synthesizer) buildURL(voiceID, format string) string {
	q := url.Values{}
	if of, ok := outputFormats[format]; ok {
		q.Set("output_format", of)
	}
	u := s.cfg.BaseURL + "/text-to-speech/" + url.PathEscape(voiceID)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

var _ synth.Synthesizer = (*Synthesizer)(nil)
