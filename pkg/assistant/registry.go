package assistant

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/agent"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/synth"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/transcribe"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/configutil"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/providers/deepgram"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/providers/elevenlabs"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/providers/mock"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/providers/openai"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/providers/tavily"
)

type STTFactory func(cfg VendorConfig, logger *slog.Logger) (transcribe.Transcriber, error)
type TTSFactory func(cfg VendorConfig, logger *slog.Logger) (synth.Synthesizer, error)
type LLMFactory func(cfg VendorConfig, logger *slog.Logger) (agent.LanguageAgent, error)
type SearchFactory func(cfg VendorConfig, logger *slog.Logger) (search.Provider, error)

// ProviderRegistry maps provider names from config onto constructors.
type ProviderRegistry struct {
	stt    map[string]STTFactory
	tts    map[string]TTSFactory
	llm    map[string]LLMFactory
	search map[string]SearchFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		stt:    make(map[string]STTFactory),
		tts:    make(map[string]TTSFactory),
		llm:    make(map[string]LLMFactory),
		search: make(map[string]SearchFactory),
	}
}

func (r *ProviderRegistry) RegisterSTT(name string, factory STTFactory) {
	r.stt[normalizeName(name)] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) {
	r.tts[normalizeName(name)] = factory
}

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) {
	r.llm[normalizeName(name)] = factory
}

func (r *ProviderRegistry) RegisterSearch(name string, factory SearchFactory) {
	r.search[normalizeName(name)] = factory
}

func (r *ProviderRegistry) BuildSTT(cfg VendorConfig, logger *slog.Logger) (transcribe.Transcriber, error) {
	fn := r.stt[normalizeName(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", cfg.Provider)
	}
	return fn(cfg, logger)
}

func (r *ProviderRegistry) BuildTTS(cfg VendorConfig, logger *slog.Logger) (synth.Synthesizer, error) {
	fn := r.tts[normalizeName(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", cfg.Provider)
	}
	return fn(cfg, logger)
}

func (r *ProviderRegistry) BuildLLM(cfg VendorConfig, logger *slog.Logger) (agent.LanguageAgent, error) {
	fn := r.llm[normalizeName(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("llm provider not registered: %s", cfg.Provider)
	}
	return fn(cfg, logger)
}

func (r *ProviderRegistry) BuildSearch(cfg VendorConfig, logger *slog.Logger) (search.Provider, error) {
	fn := r.search[normalizeName(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("search provider not registered: %s", cfg.Provider)
	}
	return fn(cfg, logger)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultRegistry carries every built-in provider plus the mock vendors
// used in examples and tests.
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()

	r.RegisterSTT("deepgram", func(cfg VendorConfig, logger *slog.Logger) (transcribe.Transcriber, error) {
		var settings struct {
			APIKey   string `mapstructure:"api_key"`
			Model    string `mapstructure:"model"`
			Language string `mapstructure:"language"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return deepgram.New(deepgram.Config{
			APIKey:   settings.APIKey,
			Model:    settings.Model,
			Language: settings.Language,
		}, logger)
	})
	r.RegisterSTT("mock", func(cfg VendorConfig, logger *slog.Logger) (transcribe.Transcriber, error) {
		var settings mock.TranscriberConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewTranscriber(settings), nil
	})

	r.RegisterTTS("elevenlabs", func(cfg VendorConfig, logger *slog.Logger) (synth.Synthesizer, error) {
		var settings struct {
			APIKey  string `mapstructure:"api_key"`
			VoiceID string `mapstructure:"voice_id"`
			ModelID string `mapstructure:"model_id"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return elevenlabs.New(elevenlabs.Config{
			APIKey:  settings.APIKey,
			VoiceID: settings.VoiceID,
			ModelID: settings.ModelID,
		}, logger)
	})
	r.RegisterTTS("mock", func(cfg VendorConfig, logger *slog.Logger) (synth.Synthesizer, error) {
		var settings mock.SynthesizerConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewSynthesizer(settings), nil
	})

	r.RegisterLLM("openai", func(cfg VendorConfig, logger *slog.Logger) (agent.LanguageAgent, error) {
		var settings struct {
			APIKey string `mapstructure:"api_key"`
			Model  string `mapstructure:"model"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		if settings.APIKey == "" {
			return nil, fmt.Errorf("openai: missing api key")
		}
		return openai.NewAdapter(settings.APIKey, settings.Model), nil
	})
	r.RegisterLLM("mock", func(cfg VendorConfig, logger *slog.Logger) (agent.LanguageAgent, error) {
		var settings mock.AgentConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewAgent(settings), nil
	})

	r.RegisterSearch("tavily", func(cfg VendorConfig, logger *slog.Logger) (search.Provider, error) {
		var settings struct {
			APIKey     string `mapstructure:"api_key"`
			MaxResults int    `mapstructure:"max_results"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return tavily.New(tavily.Config{
			APIKey:     settings.APIKey,
			MaxResults: settings.MaxResults,
		}, logger)
	})
	r.RegisterSearch("mock", func(cfg VendorConfig, logger *slog.Logger) (search.Provider, error) {
		var settings mock.SearchConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewSearch(settings), nil
	})

	return r
}
