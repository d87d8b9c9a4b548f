package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatkit.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIRoot != "http://127.0.0.1:3000" {
		t.Errorf("unexpected api_root %q", cfg.APIRoot)
	}
	if len(cfg.Notifier.Sinks) != 1 || cfg.Notifier.Sinks[0] != SinkConsole {
		t.Errorf("unexpected default sinks %v", cfg.Notifier.Sinks)
	}
	if cfg.WebSocket.Room != "lobby" {
		t.Errorf("unexpected default room %q", cfg.WebSocket.Room)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api_root: https://chat.example.com
log_level: debug
notifier:
  sinks: [log, Telegram]
  async: true
telegram:
  api_base: https://api.telegram.org/botTOKEN
  chat_id: 42
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIRoot != "https://chat.example.com" {
		t.Errorf("unexpected api_root %q", cfg.APIRoot)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("unexpected log_level %q", cfg.LogLevel)
	}
	if got := strings.Join(cfg.Notifier.Sinks, ","); got != "log,telegram" {
		t.Errorf("unexpected sinks %q", got)
	}
	if !cfg.Notifier.Async {
		t.Error("expected async notifier")
	}
	if cfg.Telegram.ChatID != 42 {
		t.Errorf("unexpected chat id %d", cfg.Telegram.ChatID)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHATKIT_API_ROOT", "http://10.0.0.5:3000")
	t.Setenv("CHATKIT_WEBSOCKET_ROOM", "ops")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIRoot != "http://10.0.0.5:3000" {
		t.Errorf("env override ignored, api_root=%q", cfg.APIRoot)
	}
	if cfg.WebSocket.Room != "ops" {
		t.Errorf("env override ignored, room=%q", cfg.WebSocket.Room)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"relative api root", "api_root: /api\n", "absolute URL"},
		{"unknown sink", "notifier:\n  sinks: [pager]\n", "unknown sink"},
		{"telegram without base", "notifier:\n  sinks: [telegram]\ntelegram:\n  chat_id: 1\n", "telegram.api_base"},
		{"telegram without chat", "notifier:\n  sinks: [telegram]\ntelegram:\n  api_base: http://x\n", "telegram.chat_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
