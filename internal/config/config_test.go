package config

import (
	"bytes"
	"log"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGINS", "")

	buf := &bytes.Buffer{}
	cfg := Load(log.New(buf, "", 0))

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 default origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com,")

	cfg := Load(log.New(&bytes.Buffer{}, "", 0))

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test:test@db:5432/test" {
		t.Fatalf("unexpected database URL %q", cfg.DatabaseURL)
	}
	want := []string{"https://app.example.com", "https://admin.example.com"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.CORSOrigins)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cfg.CORSOrigins)
		}
	}
}
