package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}

	if cfg.ProcessingID != "P" {
		t.Errorf("expected default processing ID P, got %s", cfg.ProcessingID)
	}

	if cfg.DefaultVersion != "2.5.1" {
		t.Errorf("expected default version 2.5.1, got %s", cfg.DefaultVersion)
	}

	if cfg.ValidateMode != "strict" {
		t.Errorf("expected default validate mode strict, got %s", cfg.ValidateMode)
	}

	if cfg.CacheSize != 512 {
		t.Errorf("expected default cache size 512, got %d", cfg.CacheSize)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	os.Setenv("DEFS_DIR", "/opt/hl7kit/defs")
	os.Setenv("SENDING_APP", "LAB1")
	os.Setenv("VALIDATE_MODE", "lenient")
	defer os.Unsetenv("DEFS_DIR")
	defer os.Unsetenv("SENDING_APP")
	defer os.Unsetenv("VALIDATE_MODE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefsDir != "/opt/hl7kit/defs" {
		t.Errorf("expected DEFS_DIR to be set, got %s", cfg.DefsDir)
	}

	if cfg.SendingApp != "LAB1" {
		t.Errorf("expected SENDING_APP to be set, got %s", cfg.SendingApp)
	}

	if cfg.ValidateMode != "lenient" {
		t.Errorf("expected VALIDATE_MODE lenient, got %s", cfg.ValidateMode)
	}
}

func TestLoad_RejectsBadProcessingID(t *testing.T) {
	os.Setenv("PROCESSING_ID", "X")
	defer os.Unsetenv("PROCESSING_ID")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PROCESSING_ID")
	}
}

func TestLoad_RejectsBadValidateMode(t *testing.T) {
	os.Setenv("VALIDATE_MODE", "loose")
	defer os.Unsetenv("VALIDATE_MODE")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid VALIDATE_MODE")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
