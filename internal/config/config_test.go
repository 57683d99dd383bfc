package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"aivideorename/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("AIVIDEORENAME_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(tempHome, ".config", "aivideorename", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, ".local", "state", "aivideorename") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.LockPath() != filepath.Join(cfg.Paths.StateDir, "aivideorename.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Rename.SentinelCaption != "Video" {
		t.Fatalf("unexpected sentinel: %q", cfg.Rename.SentinelCaption)
	}
	if !cfg.Date.FallbackMtime {
		t.Fatal("expected mtime fallback enabled by default")
	}
	if cfg.Caption.Online {
		t.Fatal("expected offline captioning by default")
	}
	if !slices.Contains(cfg.Rename.Extensions, ".webm") {
		t.Fatalf("expected default extensions, got %v", cfg.Rename.Extensions)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("AIVIDEORENAME_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "router-key")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := `
[paths]
state_dir = "~/state"

[rename]
sentinel_caption = " Clip "
stop_words = ["The", "the", " A "]
extensions = ["MP4", ".Mov", "mp4"]
max_caption_words = -3

[logging]
level = "DEBUG"
format = "JSON"
file = "~/logs/run.log"
`
	if err := os.WriteFile(configPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Rename.SentinelCaption != "Clip" {
		t.Fatalf("expected trimmed sentinel, got %q", cfg.Rename.SentinelCaption)
	}
	if !slices.Equal(cfg.Rename.StopWords, []string{"the", "a"}) {
		t.Fatalf("unexpected stop words: %v", cfg.Rename.StopWords)
	}
	if !slices.Equal(cfg.Rename.Extensions, []string{".mp4", ".mov"}) {
		t.Fatalf("unexpected extensions: %v", cfg.Rename.Extensions)
	}
	if cfg.Rename.MaxCaptionWords != 0 {
		t.Fatalf("expected negative word limit clamped to 0, got %d", cfg.Rename.MaxCaptionWords)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Logging.File != filepath.Join(tempHome, "logs", "run.log") {
		t.Fatalf("unexpected log file: %q", cfg.Logging.File)
	}
	if cfg.LLM.APIKey != "router-key" {
		t.Fatalf("expected API key from OPENROUTER_API_KEY, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadPrefersToolSpecificAPIKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AIVIDEORENAME_LLM_API_KEY", "tool-key")
	t.Setenv("OPENROUTER_API_KEY", "router-key")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "tool-key" {
		t.Fatalf("expected tool-specific key, got %q", cfg.LLM.APIKey)
	}
	if err := cfg.ValidateOnline(); err != nil {
		t.Fatalf("ValidateOnline returned error: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "lowercase sentinel", payload: "[rename]\nsentinel_caption = \"video\"\n", want: "sentinel_caption"},
		{name: "non ascii sentinel", payload: "[rename]\nsentinel_caption = \"Vidéo\"\n", want: "sentinel_caption"},
		{name: "empty extensions", payload: "[rename]\nextensions = []\n", want: "extensions"},
		{name: "zero date timeout", payload: "[date]\ntimeout_seconds = 0\n", want: "date.timeout_seconds"},
		{name: "negative frame offset", payload: "[caption]\nframe_offset_seconds = -1.0\n", want: "frame_offset_seconds"},
		{name: "bad level", payload: "[logging]\nlevel = \"loud\"\n", want: "logging.level"},
		{name: "unknown key", payload: "[rename]\nbogus = 1\n", want: "parse config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.payload), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateOnlineRequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = ""
	if err := cfg.ValidateOnline(); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestCreateSampleMatchesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AIVIDEORENAME_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	defaults := config.Default()
	if !slices.Equal(decoded.Rename.StopWords, defaults.Rename.StopWords) {
		t.Fatalf("sample stop words drifted from defaults: %v", decoded.Rename.StopWords)
	}
	if !slices.Equal(decoded.Rename.Extensions, defaults.Rename.Extensions) {
		t.Fatalf("sample extensions drifted from defaults: %v", decoded.Rename.Extensions)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestFrameOffsetConversion(t *testing.T) {
	cfg := config.Default()
	cfg.Caption.FrameOffsetSeconds = 2.5
	if got := cfg.FrameOffset().Milliseconds(); got != 2500 {
		t.Fatalf("expected 2500ms, got %d", got)
	}
}
