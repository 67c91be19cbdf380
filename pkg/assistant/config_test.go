package assistant

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
vendors:
  stt:
    provider: mock
  tts:
    provider: mock
  llm:
    provider: mock
  search:
    provider: mock
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Session.Store != "memory" {
		t.Fatalf("session.store = %q, want memory", cfg.Session.Store)
	}
	if cfg.Session.Timeout() != 30*time.Minute {
		t.Fatalf("session timeout = %v, want 30m", cfg.Session.Timeout())
	}
	if cfg.Session.SweepInterval() != 5*time.Minute {
		t.Fatalf("sweep interval = %v, want 5m", cfg.Session.SweepInterval())
	}
	if !cfg.Cache.Enabled || cfg.Cache.Capacity != 200 || cfg.Cache.TTL() != 24*time.Hour {
		t.Fatalf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Turn.ConfidenceThreshold != 0.7 {
		t.Fatalf("confidence threshold = %v, want 0.7", cfg.Turn.ConfidenceThreshold)
	}
	if cfg.Turn.IdleThreshold() != 30*time.Second {
		t.Fatalf("idle threshold = %v, want 30s", cfg.Turn.IdleThreshold())
	}
	if cfg.Turn.Voice != "default" || cfg.Turn.Format != "mp3" {
		t.Fatalf("turn voice/format = %q/%q", cfg.Turn.Voice, cfg.Turn.Format)
	}
	if !cfg.Privacy.RedactPII {
		t.Fatal("privacy.redact_pii default must be true")
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DG_KEY", "dg-secret")
	cfg, err := LoadConfig(writeConfig(t, `
vendors:
  stt:
    provider: deepgram
    settings:
      api_key: ${TEST_DG_KEY}
  tts:
    provider: mock
  llm:
    provider: mock
  search:
    provider: mock
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := cfg.Vendors.STT.Settings["api_key"]; got != "dg-secret" {
		t.Fatalf("api_key = %v, want expanded secret", got)
	}
}

func TestLoadConfigRejectsMissingVendor(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
vendors:
  stt:
    provider: mock
  tts:
    provider: mock
  llm:
    provider: mock
`))
	if err == nil {
		t.Fatal("config without search vendor accepted")
	}
}

func TestLoadConfigRejectsBadStore(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, minimalConfig+`
session:
  store: cassandra
`))
	if err == nil {
		t.Fatal("unknown session store accepted")
	}
}

func TestLoadConfigRejectsBadThreshold(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, minimalConfig+`
turn:
  confidence_threshold: 1.5
`))
	if err == nil {
		t.Fatal("out-of-range confidence threshold accepted")
	}
}
