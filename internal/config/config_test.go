package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	c := Load()
	if c.Addr == "" {
		t.Error("default Addr is empty")
	}
	if c.MaxUploadBytes != defaultMaxUploadMB*1024*1024 {
		t.Errorf("default MaxUploadBytes = %d, want %d MiB", c.MaxUploadBytes, defaultMaxUploadMB)
	}
}

func TestLoadHonorsEnv(t *testing.T) {
	t.Setenv("HEBREWFONTMAKER_ADDR", "0.0.0.0:9090")
	t.Setenv("HEBREWFONTMAKER_MAX_UPLOAD_MB", "10")

	c := Load()
	if c.Addr != "0.0.0.0:9090" {
		t.Errorf("Addr = %q, want 0.0.0.0:9090", c.Addr)
	}
	if c.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 10 MiB", c.MaxUploadBytes)
	}
}

func TestLoadIgnoresMalformedMB(t *testing.T) {
	t.Setenv("HEBREWFONTMAKER_MAX_UPLOAD_MB", "not-a-number")
	c := Load()
	if c.MaxUploadBytes != defaultMaxUploadMB*1024*1024 {
		t.Errorf("MaxUploadBytes with malformed env = %d, want default", c.MaxUploadBytes)
	}
}
