package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.InjectionSpacing != 6 {
		t.Errorf("Expected default spacing 6, got %d", cfg.InjectionSpacing)
	}
	if cfg.CandidateCount != 3 {
		t.Errorf("Expected default candidate count 3, got %d", cfg.CandidateCount)
	}
	if cfg.HighScoreThreshold != 0.8 || cfg.ModerateScoreThreshold != 0.6 {
		t.Errorf("Expected default thresholds 0.8/0.6, got %v/%v", cfg.HighScoreThreshold, cfg.ModerateScoreThreshold)
	}
	if cfg.ColdStartScore != 0.7 {
		t.Errorf("Expected default cold-start score 0.7, got %v", cfg.ColdStartScore)
	}
	if cfg.UpstreamTimeout != 8*time.Second {
		t.Errorf("Expected default upstream timeout 8s, got %v", cfg.UpstreamTimeout)
	}
	if cfg.DefaultLimit != 20 || cfg.MaxLimit != 40 {
		t.Errorf("Expected default limits 20/40, got %d/%d", cfg.DefaultLimit, cfg.MaxLimit)
	}
	if cfg.SyntheticTimelineSize != 8 {
		t.Errorf("Expected default synthetic size 8, got %d", cfg.SyntheticTimelineSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INJECTION_SPACING", "4")
	t.Setenv("CANDIDATE_COUNT", "5")
	t.Setenv("HIGH_SCORE_THRESHOLD", "0.9")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.Port)
	}
	if cfg.InjectionSpacing != 4 {
		t.Errorf("Expected spacing 4, got %d", cfg.InjectionSpacing)
	}
	if cfg.CandidateCount != 5 {
		t.Errorf("Expected candidate count 5, got %d", cfg.CandidateCount)
	}
	if cfg.HighScoreThreshold != 0.9 {
		t.Errorf("Expected high threshold 0.9, got %v", cfg.HighScoreThreshold)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("Expected upstream timeout 3s, got %v", cfg.UpstreamTimeout)
	}
}

func TestLoadRejectsInvalidSpacing(t *testing.T) {
	t.Setenv("INJECTION_SPACING", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Expected an error for spacing below 1")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	t.Setenv("HIGH_SCORE_THRESHOLD", "0.5")
	t.Setenv("MODERATE_SCORE_THRESHOLD", "0.7")

	if _, err := Load(); err == nil {
		t.Fatal("Expected an error for high threshold below moderate")
	}
}

func TestLoadClampsSyntheticSize(t *testing.T) {
	t.Setenv("SYNTHETIC_TIMELINE_SIZE", "1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SyntheticTimelineSize != 3 {
		t.Errorf("Expected synthetic size clamped to 3, got %d", cfg.SyntheticTimelineSize)
	}

	t.Setenv("SYNTHETIC_TIMELINE_SIZE", "50")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SyntheticTimelineSize != 10 {
		t.Errorf("Expected synthetic size clamped to 10, got %d", cfg.SyntheticTimelineSize)
	}
}
