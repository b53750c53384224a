package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if settings.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", settings.Port)
	}
	if settings.DefaultTenant != "la_redoute" {
		t.Errorf("expected default tenant la_redoute, got %s", settings.DefaultTenant)
	}
	if settings.BackendTimeout != 10*time.Second {
		t.Errorf("expected default backend timeout 10s, got %s", settings.BackendTimeout)
	}
	if !settings.UseFixtures() {
		t.Error("expected fixtures mode when BACKEND_BASE_URL is unset")
	}
}

func TestLoad_BackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://hooks.example.com/")

	settings, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if settings.UseFixtures() {
		t.Error("expected live mode when BACKEND_BASE_URL is set")
	}
	if settings.BackendBaseURL != "https://hooks.example.com" {
		t.Errorf("expected trailing slash to be trimmed, got %s", settings.BackendBaseURL)
	}
}

func TestLoad_RejectsNonHTTPBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "ftp://hooks.example.com")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-http backend URL")
	}
}

func TestApplyDefaults_RepairsZeroValues(t *testing.T) {
	settings := &Settings{DefaultTenant: "t"}
	settings.ApplyDefaults()

	if settings.LookupChunkSize != 50 {
		t.Errorf("expected lookup chunk size 50, got %d", settings.LookupChunkSize)
	}
	if settings.RecoCacheTTL != 2*time.Minute {
		t.Errorf("expected reco cache TTL 2m, got %s", settings.RecoCacheTTL)
	}
	if settings.RateLimitBurst != 100 {
		t.Errorf("expected rate limit burst 100, got %d", settings.RateLimitBurst)
	}
}
