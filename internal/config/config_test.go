package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("default port should be 8080, got %s", cfg.Port)
	}
	if cfg.MinMatchScore != 5 {
		t.Errorf("default min match score should be 5, got %d", cfg.MinMatchScore)
	}
	if cfg.SemanticBatchSize != 8 {
		t.Errorf("default semantic batch size should be 8, got %d", cfg.SemanticBatchSize)
	}
	if cfg.SemanticBatchDelay != 150*time.Millisecond {
		t.Errorf("default batch delay should be 150ms, got %v", cfg.SemanticBatchDelay)
	}
	if cfg.UserTextLimit != 500 || cfg.ListingTextLimit != 400 {
		t.Errorf("default text limits should be 500/400, got %d/%d", cfg.UserTextLimit, cfg.ListingTextLimit)
	}
	if cfg.PrefsCacheEnabled {
		t.Error("preference cache must be off by default")
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg = Load()
	cfg.MinMatchScore = 11
	if cfg.Validate() == nil {
		t.Error("min match score above 10 should fail validation")
	}

	cfg = Load()
	cfg.SemanticBatchSize = 0
	if cfg.Validate() == nil {
		t.Error("zero batch size should fail validation")
	}

	cfg = Load()
	cfg.Environment = "production"
	cfg.OpenAIAPIKey = ""
	if cfg.Validate() == nil {
		t.Error("production without an API key should fail validation")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("KIEZSWAP_TEST_STRING", "value")
	if got := getEnv("KIEZSWAP_TEST_STRING", "fallback"); got != "value" {
		t.Errorf("getEnv ignored the environment: %s", got)
	}
	if got := getEnv("KIEZSWAP_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv ignored the default: %s", got)
	}

	t.Setenv("KIEZSWAP_TEST_INT", "not a number")
	if got := getEnvInt("KIEZSWAP_TEST_INT", 7); got != 7 {
		t.Errorf("unparseable int should fall back to the default, got %d", got)
	}

	t.Setenv("KIEZSWAP_TEST_DURATION", "2m")
	if got := getEnvDuration("KIEZSWAP_TEST_DURATION", "1s"); got != 2*time.Minute {
		t.Errorf("getEnvDuration ignored the environment: %v", got)
	}
}
