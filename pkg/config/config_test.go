// ABOUTME: Tests for environment-driven configuration loading and validation
// ABOUTME: Defaults, overrides, and the invalid-value rejection paths

package config

import "testing"

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Layout.TopPadding != 48 {
		t.Errorf("TopPadding = %d, want 48", cfg.Layout.TopPadding)
	}
	if cfg.Layout.MinBottomPadding != 24 {
		t.Errorf("MinBottomPadding = %d, want 24", cfg.Layout.MinBottomPadding)
	}
	if cfg.Layout.DefaultSidePadding != 56 {
		t.Errorf("DefaultSidePadding = %d, want 56", cfg.Layout.DefaultSidePadding)
	}
	if cfg.Layout.FlipDurationMs != 500 {
		t.Errorf("FlipDurationMs = %d, want 500", cfg.Layout.FlipDurationMs)
	}
	if cfg.Mirror.Type != "sqlite" {
		t.Errorf("Mirror.Type = %q, want sqlite", cfg.Mirror.Type)
	}
	if cfg.Library.BaseURL != "" {
		t.Errorf("Library.BaseURL = %q, want empty (remote disabled)", cfg.Library.BaseURL)
	}
	if cfg.Speech.DefaultRate != 1.0 {
		t.Errorf("Speech.DefaultRate = %v, want 1.0", cfg.Speech.DefaultRate)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("READER_TOP_PADDING", "64")
	t.Setenv("MIRROR_TYPE", "redis")
	t.Setenv("REDIS_ADDRESS", "cache.internal:6379")
	t.Setenv("LIBRARY_BASE_URL", "https://library.test/api")
	t.Setenv("SPEECH_RATE", "1.5")
	t.Setenv("LOG_JSON", "true")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Layout.TopPadding != 64 {
		t.Errorf("TopPadding = %d, want 64", cfg.Layout.TopPadding)
	}
	if cfg.Mirror.Type != "redis" || cfg.Mirror.Redis.Address != "cache.internal:6379" {
		t.Errorf("mirror = %+v, want redis override", cfg.Mirror)
	}
	if cfg.Library.BaseURL != "https://library.test/api" {
		t.Errorf("BaseURL = %q", cfg.Library.BaseURL)
	}
	if cfg.Speech.DefaultRate != 1.5 {
		t.Errorf("DefaultRate = %v, want 1.5", cfg.Speech.DefaultRate)
	}
	if !cfg.Log.JSON {
		t.Error("Log.JSON = false, want true")
	}
}

func TestLoadFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("READER_TOP_PADDING", "not-a-number")
	t.Setenv("SPEECH_RATE", "fast")
	t.Setenv("LOG_JSON", "yes please")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Layout.TopPadding != 48 {
		t.Errorf("TopPadding = %d, want default on parse failure", cfg.Layout.TopPadding)
	}
	if cfg.Speech.DefaultRate != 1.0 {
		t.Errorf("DefaultRate = %v, want default on parse failure", cfg.Speech.DefaultRate)
	}
	if cfg.Log.JSON {
		t.Error("Log.JSON = true, want default on parse failure")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := LoadFromEnv()
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg := base()
	cfg.Layout.TopPadding = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative padding accepted")
	}

	cfg = base()
	cfg.Layout.FlipDurationMs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero flip duration accepted")
	}

	cfg = base()
	cfg.Mirror.Type = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown mirror type accepted")
	}

	cfg = base()
	cfg.Mirror.Type = "redis"
	cfg.Mirror.Redis.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Error("redis mirror without address accepted")
	}

	cfg = base()
	cfg.Speech.DefaultRate = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero speech rate accepted")
	}
}
