package deepgram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	listenv1rest "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/transcribe"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/logging"
)

type Config struct {
	APIKey   string
	Model    string
	Language string
}

// Transcriber runs prerecorded transcription against the Deepgram REST
// API, one utterance per call.
type Transcriber struct {
	cfg    Config
	api    *listenv1rest.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing deepgram api key")
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := client.NewREST(cfg.APIKey, &interfaces.ClientOptions{})
	return &Transcriber{
		cfg:    cfg,
		api:    listenv1rest.New(c),
		logger: logging.NewComponentLogger(logger, "deepgram_stt"),
	}, nil
}

func (t *Transcriber) Name() string { return "deepgram_stt" }

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (transcribe.Transcription, error) {
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       t.cfg.Model,
		Language:    t.cfg.Language,
		SmartFormat: true,
		Punctuate:   true,
	}

	res, err := t.api.FromStream(ctx, bytes.NewReader(audio), options)
	if err != nil {
		t.logger.Error("transcription request failed", slog.String("error", err.Error()))
		return transcribe.Transcription{}, err
	}

	if res == nil || res.Results == nil || len(res.Results.Channels) == 0 {
		return transcribe.Transcription{}, errors.New("deepgram: empty result")
	}
	alts := res.Results.Channels[0].Alternatives
	if len(alts) == 0 {
		return transcribe.Transcription{}, errors.New("deepgram: no alternatives")
	}
	best := alts[0]

	var durationMS int
	if res.Metadata != nil {
		durationMS = int(res.Metadata.Duration * 1000)
	}
	t.logger.Debug("transcription received",
		slog.Float64("confidence", best.Confidence),
		slog.Int("text_len", len(best.Transcript)))

	return transcribe.Transcription{
		Text:       best.Transcript,
		Confidence: best.Confidence,
		Language:   t.cfg.Language,
		DurationMS: durationMS,
	}, nil
}

var _ transcribe.Transcriber = (*Transcriber)(nil)
