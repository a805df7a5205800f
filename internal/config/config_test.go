package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.WorkingHoursStart != "09:00" || cfg.WorkingHoursEnd != "17:00" {
		t.Errorf("working hours = %s-%s, want 09:00-17:00", cfg.WorkingHoursStart, cfg.WorkingHoursEnd)
	}
	if cfg.SuggestedSlotLimit != 5 {
		t.Errorf("SuggestedSlotLimit = %d, want 5", cfg.SuggestedSlotLimit)
	}
	if cfg.QdrantCollection != "clinic_faq" {
		t.Errorf("QdrantCollection = %q, want clinic_faq", cfg.QdrantCollection)
	}
	if cfg.QdrantTimeout != 10*time.Second {
		t.Errorf("QdrantTimeout = %s, want 10s", cfg.QdrantTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SUGGESTED_SLOT_LIMIT", "3")
	t.Setenv("QDRANT_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SuggestedSlotLimit != 3 {
		t.Errorf("SuggestedSlotLimit = %d, want 3", cfg.SuggestedSlotLimit)
	}
	if cfg.QdrantTimeout != 2*time.Second {
		t.Errorf("QdrantTimeout = %s, want 2s", cfg.QdrantTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS should be true")
	}
}
