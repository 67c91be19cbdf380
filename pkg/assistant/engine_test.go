package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/session"
)

func mockConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := LoadConfig(writeConfig(t, `
vendors:
  stt:
    provider: mock
    settings:
      transcript: "find me a macbook"
      confidence: 0.9
  tts:
    provider: mock
  llm:
    provider: mock
    settings:
      reply: "What specs do you need?"
      requiresuserinput: true
  search:
    provider: mock
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestEngineTurnRoundTrip(t *testing.T) {
	engine, err := NewEngine(mockConfig(t), nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer engine.Stop()

	ctx := context.Background()
	id, err := engine.StartSession(ctx)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	audio, err := engine.HandleTurn(ctx, id, []byte("RIFF\x00\x00\x00\x00WAVEfmt "))
	if err != nil {
		t.Fatalf("handle turn: %v", err)
	}
	if want := "audio:What specs do you need?"; string(audio) != want {
		t.Fatalf("audio = %q, want %q", audio, want)
	}

	snap, err := engine.GetState(ctx, id)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if snap.Status != session.StatusWaiting {
		t.Fatalf("status = %s, want %s", snap.Status, session.StatusWaiting)
	}

	if err := engine.EndSession(ctx, id); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := engine.GetState(ctx, id); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("session survives end: err = %v", err)
	}
}

func TestEngineCacheStats(t *testing.T) {
	engine, err := NewEngine(mockConfig(t), nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer engine.Stop()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		id, err := engine.StartSession(ctx)
		if err != nil {
			t.Fatalf("start session: %v", err)
		}
		if _, err := engine.HandleTurn(ctx, id, []byte("RIFF\x00\x00\x00\x00WAVEfmt ")); err != nil {
			t.Fatalf("handle turn: %v", err)
		}
	}

	stats := engine.CacheStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("cache stats = %+v, want one hit and one miss", stats)
	}
}

func TestEngineRejectsUnknownProvider(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Vendors.LLM.Provider = "nonexistent"
	if _, err := NewEngine(cfg, nil); err == nil {
		t.Fatal("unknown llm provider accepted")
	}
}
