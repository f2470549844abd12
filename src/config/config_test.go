package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------

const validYAML = `
name: "price-streamer"
host: "0.0.0.0"
port: 8000
log_level: "INFO"
feed:
  ws_url: "wss://example.test/stream"
  reconcile_interval_seconds: 2
  ping_interval_seconds: 20
  max_retries: 5
  backoff_base_seconds: 3.0
  backoff_cap_seconds: 10.0
catalog:
  exchange_info_url: "https://example.test/api/v3/exchangeInfo"
  refresh_interval_minutes: 60
  fetch_retries: 3
storage:
  db_type: "sqlite"
  db_path: "test.db"
rate_limit:
  requests_per_minute: 60
  burst: 10
`

// -----------------------------------------------------------------------------

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// -----------------------------------------------------------------------------

func TestNewConfigValid(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("port mismatch: %d", cfg.Port)
	}
	if cfg.Feed.MaxRetries != 5 || cfg.Feed.BackoffCapSec != 10.0 {
		t.Errorf("feed config mismatch: %+v", cfg.Feed)
	}
}

// -----------------------------------------------------------------------------

func TestNewConfigMissingFile(t *testing.T) {
	if _, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file must be an error")
	}
}

// -----------------------------------------------------------------------------

func TestValidateCatchesBadValues(t *testing.T) {
	cases := map[string]struct{ find, replace string }{
		"empty name":     {`name: "price-streamer"`, `name: ""`},
		"reserved port":  {`port: 8000`, `port: 80`},
		"no ws url":      {`ws_url: "wss://example.test/stream"`, `ws_url: ""`},
		"zero retries":   {`max_retries: 5`, `max_retries: 0`},
		"cap below base": {`backoff_cap_seconds: 10.0`, `backoff_cap_seconds: 1.0`},
	}

	for name, c := range cases {
		broken := strings.Replace(validYAML, c.find, c.replace, 1)
		if _, err := NewConfig(writeConfig(t, broken)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

// -----------------------------------------------------------------------------

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("FEED_WS_URL", "wss://override.test/stream")

	cfg, err := NewConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("config rejected: %v", err)
	}

	if cfg.Port != 9100 {
		t.Errorf("SERVER_PORT override not applied: %d", cfg.Port)
	}
	if cfg.Feed.WsURL != "wss://override.test/stream" {
		t.Errorf("FEED_WS_URL override not applied: %s", cfg.Feed.WsURL)
	}
}
