package assistant

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// VendorConfig names a provider and carries its loosely-typed settings.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	STT    VendorConfig `mapstructure:"stt"`
	TTS    VendorConfig `mapstructure:"tts"`
	LLM    VendorConfig `mapstructure:"llm"`
	Search VendorConfig `mapstructure:"search"`
}

type SessionConfig struct {
	Store           string         `mapstructure:"store"`
	Redis           map[string]any `mapstructure:"redis"`
	TimeoutMS       int            `mapstructure:"timeout_ms"`
	SweepIntervalMS int            `mapstructure:"sweep_interval_ms"`
}

type CacheConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Capacity int  `mapstructure:"capacity"`
	TTLHours int  `mapstructure:"ttl_hours"`
	Prewarm  bool `mapstructure:"prewarm"`
}

type TurnTuning struct {
	Voice               string   `mapstructure:"voice"`
	Format              string   `mapstructure:"format"`
	ConfidenceThreshold float64  `mapstructure:"confidence_threshold"`
	MinMatchConfidence  float64  `mapstructure:"min_match_confidence"`
	IdleThresholdMS     int      `mapstructure:"idle_threshold_ms"`
	ExitPhrases         []string `mapstructure:"exit_phrases"`
}

type ObservabilityConfig struct {
	MetricsFile string `mapstructure:"metrics_file"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

type Config struct {
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Session       SessionConfig       `mapstructure:"session"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Turn          TurnTuning          `mapstructure:"turn"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
}

func (c SessionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMS) * time.Millisecond
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func (c TurnTuning) IdleThreshold() time.Duration {
	return time.Duration(c.IdleThresholdMS) * time.Millisecond
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.timeout_ms", 1800000)
	v.SetDefault("session.sweep_interval_ms", 300000)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.capacity", 200)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.prewarm", true)
	v.SetDefault("turn.voice", "default")
	v.SetDefault("turn.format", "mp3")
	v.SetDefault("turn.confidence_threshold", 0.7)
	v.SetDefault("turn.min_match_confidence", 0.6)
	v.SetDefault("turn.idle_threshold_ms", 30000)
	v.SetDefault("privacy.redact_pii", true)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vendors.STT.Provider) == "" {
		return fmt.Errorf("vendors.stt.provider is required")
	}
	if strings.TrimSpace(c.Vendors.TTS.Provider) == "" {
		return fmt.Errorf("vendors.tts.provider is required")
	}
	if strings.TrimSpace(c.Vendors.LLM.Provider) == "" {
		return fmt.Errorf("vendors.llm.provider is required")
	}
	if strings.TrimSpace(c.Vendors.Search.Provider) == "" {
		return fmt.Errorf("vendors.search.provider is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Session.Store)) {
	case "memory", "redis":
	default:
		return fmt.Errorf("session.store must be memory or redis, got %q", c.Session.Store)
	}
	if c.Turn.ConfidenceThreshold <= 0 || c.Turn.ConfidenceThreshold > 1 {
		return fmt.Errorf("turn.confidence_threshold must be in (0, 1]")
	}
	if c.Turn.MinMatchConfidence < 0 || c.Turn.MinMatchConfidence > 1 {
		return fmt.Errorf("turn.min_match_confidence must be in [0, 1]")
	}
	return nil
}

// expandEnvStrings resolves ${VAR} references so secrets stay out of
// config files.
func expandEnvStrings(cfg *Config) {
	cfg.Vendors.STT.Settings = expandSettings(cfg.Vendors.STT.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.LLM.Settings = expandSettings(cfg.Vendors.LLM.Settings)
	cfg.Vendors.Search.Settings = expandSettings(cfg.Vendors.Search.Settings)
	cfg.Session.Redis = expandSettings(cfg.Session.Redis)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		return expandSettings(val)
	default:
		return v
	}
}
