package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default server, got %v", cfg.Bus.Servers)
	}
	if cfg.TTS.BaseURL != "https://api.elevenlabs.io/v1" {
		t.Fatalf("expected default tts base url, got %q", cfg.TTS.BaseURL)
	}
	if cfg.Episode.PauseMS != 300 {
		t.Fatalf("expected default pause 300ms, got %d", cfg.Episode.PauseMS)
	}
	if !cfg.Episode.PreferWAV {
		t.Fatal("expected prefer_wav default true")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podwave.yaml")
	data := []byte(`
runtime_name: test-runtime
script:
  mode: exec
  command: "scriptgen --json"
episode:
  pause_ms: 500
  host_voice: voice-host
  guest_voice: voice-guest
tts:
  model: eleven_turbo_v2
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RuntimeName != "test-runtime" {
		t.Fatalf("expected runtime name override, got %q", cfg.RuntimeName)
	}
	if cfg.Script.Mode != "exec" || cfg.Script.Command != "scriptgen --json" {
		t.Fatalf("expected exec script config, got %+v", cfg.Script)
	}
	if cfg.Episode.PauseMS != 500 {
		t.Fatalf("expected pause override, got %d", cfg.Episode.PauseMS)
	}
	if cfg.TTS.Model != "eleven_turbo_v2" {
		t.Fatalf("expected tts model override, got %q", cfg.TTS.Model)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PODWAVE_BUS_SERVERS", "nats://one:4222, nats://two:4222")
	t.Setenv("PODWAVE_TTS_API_KEY", "xi-secret")
	t.Setenv("PODWAVE_TTS_MAX_RETRIES", "5")
	t.Setenv("PODWAVE_EPISODE_PAUSE_MS", "750")
	t.Setenv("PODWAVE_EPISODE_PREFER_WAV", "false")
	t.Setenv("PODWAVE_SCRIPT_HOST_NAME", "Bruce")
	t.Setenv("PODWAVE_SCRIPT_STYLE", "aussie")
	t.Setenv("PODWAVE_JOB_STORE_PATH", "./tmp.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Bus.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %v", cfg.Bus.Servers)
	}
	if cfg.TTS.APIKey != "xi-secret" {
		t.Fatal("expected tts api key override")
	}
	if cfg.TTS.MaxRetries != 5 {
		t.Fatalf("expected max retries 5, got %d", cfg.TTS.MaxRetries)
	}
	if cfg.Episode.PauseMS != 750 {
		t.Fatalf("expected pause 750, got %d", cfg.Episode.PauseMS)
	}
	if cfg.Episode.PreferWAV {
		t.Fatal("expected prefer_wav override false")
	}
	if cfg.Script.HostName != "Bruce" || cfg.Script.Style != "aussie" {
		t.Fatalf("expected script overrides, got %+v", cfg.Script)
	}
	if cfg.JobStore.Path != "./tmp.db" {
		t.Fatal("expected job store path override")
	}
}

func TestValidateRejectsBadScriptMode(t *testing.T) {
	t.Setenv("PODWAVE_SCRIPT_MODE", "magic")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for unknown script mode")
	}
}

func TestValidateRequiresExecCommand(t *testing.T) {
	t.Setenv("PODWAVE_SCRIPT_MODE", "exec")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for exec mode without command")
	}
}
