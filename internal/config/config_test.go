package config

import (
	"testing"
	"time"

	"github.com/decoynet/decoy/internal/intel"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_KEY", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %s", cfg.Port)
	}
	if cfg.SessionBackend != "memory" {
		t.Errorf("SessionBackend = %s", cfg.SessionBackend)
	}
	if cfg.TurnCap != 25 || cfg.StagnationTurns != 2 {
		t.Errorf("Lifecycle knobs: cap=%d stagnation=%d", cfg.TurnCap, cfg.StagnationTurns)
	}
	if cfg.RiskBands != [3]float64{0.25, 0.5, 0.75} {
		t.Errorf("RiskBands = %v", cfg.RiskBands)
	}
	if len(cfg.Checklist) != 4 || cfg.Checklist[0] != intel.EntityPhone {
		t.Errorf("Checklist = %v", cfg.Checklist)
	}
	if cfg.IdleTimeout != 10*time.Minute {
		t.Errorf("IdleTimeout = %v", cfg.IdleTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("TURN_CAP", "10")
	t.Setenv("RISK_BANDS", "0.2,0.4,0.6")
	t.Setenv("CHECKLIST", "phone,url")
	t.Setenv("IDLE_TIMEOUT", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TurnCap != 10 {
		t.Errorf("TurnCap = %d", cfg.TurnCap)
	}
	if cfg.RiskBands != [3]float64{0.2, 0.4, 0.6} {
		t.Errorf("RiskBands = %v", cfg.RiskBands)
	}
	if len(cfg.Checklist) != 2 || cfg.Checklist[1] != intel.EntityURL {
		t.Errorf("Checklist = %v", cfg.Checklist)
	}
	if cfg.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %v", cfg.IdleTimeout)
	}
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad checklist type", "CHECKLIST", "phone,starsign"},
		{"bad band count", "RISK_BANDS", "0.2,0.4"},
		{"bands not increasing", "RISK_BANDS", "0.5,0.4,0.6"},
		{"bad backend", "SESSION_BACKEND", "etcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("Load accepted empty API_KEY")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{FrontendURL: ""}
	if !cfg.IsDevelopment() {
		t.Error("Empty frontend URL should mean development")
	}
	cfg.FrontendURL = "http://localhost:3000"
	if !cfg.IsDevelopment() {
		t.Error("localhost should mean development")
	}
	cfg.FrontendURL = "https://decoy.example.com"
	if cfg.IsDevelopment() {
		t.Error("Production URL flagged as development")
	}
}
