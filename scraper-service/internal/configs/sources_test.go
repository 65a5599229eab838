package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write sources file: %v", err)
	}
	return path
}

func TestLoadSources(t *testing.T) {
	path := writeSourcesFile(t, `
krisha:
  enabled: true
  base_url: "https://krisha.kz/api/search"
  city: "almaty"
  interval_seconds: 300

gateway_url: "http://tg-gateway:8090"

communities:
  - channel: "rentalmaty"
    session_id: "rentalmaty-main"
    interval_seconds: 120
  - channel: "almaty_arenda"
`)

	cfg, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources returned error: %v", err)
	}

	if !cfg.Krisha.Enabled || cfg.Krisha.City != "almaty" {
		t.Errorf("got krisha config %+v, want enabled almaty", cfg.Krisha)
	}
	if cfg.Krisha.Interval() != 5*time.Minute {
		t.Errorf("got krisha interval %s, want 5m", cfg.Krisha.Interval())
	}
	if len(cfg.Communities) != 2 {
		t.Fatalf("got %d communities, want 2", len(cfg.Communities))
	}
	// session_id по умолчанию равен имени канала
	if cfg.Communities[1].SessionID != "almaty_arenda" {
		t.Errorf("got session_id %q, want %q", cfg.Communities[1].SessionID, "almaty_arenda")
	}
	// интервал по умолчанию
	if cfg.Communities[1].Interval() != 2*time.Minute {
		t.Errorf("got interval %s, want 2m", cfg.Communities[1].Interval())
	}
}

func TestLoadSourcesRequiresGatewayURL(t *testing.T) {
	path := writeSourcesFile(t, `
communities:
  - channel: "rentalmaty"
`)

	if _, err := LoadSources(path); err == nil {
		t.Error("expected error for communities without gateway_url")
	}
}

func TestLoadSourcesRequiresKrishaBaseURL(t *testing.T) {
	path := writeSourcesFile(t, `
krisha:
  enabled: true
`)

	if _, err := LoadSources(path); err == nil {
		t.Error("expected error for enabled krisha without base_url")
	}
}

func TestLoadSourcesMissingFile(t *testing.T) {
	if _, err := LoadSources(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
