package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[engine]
max_tags = 16
fixed_step = "20ms"

[audio]
enabled = true
`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Engine.MaxTags != 16 {
		t.Errorf("Expected max_tags 16, got %d", cfg.Engine.MaxTags)
	}
	if cfg.Engine.FixedStep != 20*time.Millisecond {
		t.Errorf("Expected 20ms fixed step, got %v", cfg.Engine.FixedStep)
	}
	if cfg.Engine.LinePrecision != 1.0 || cfg.Engine.MaxStep != 100*time.Millisecond {
		t.Errorf("Expected engine defaults kept, got %+v", cfg.Engine)
	}
	if !cfg.Audio.Enabled || cfg.Audio.SampleRate != 44100 {
		t.Errorf("Expected audio enabled at default rate, got %+v", cfg.Audio)
	}
	if cfg.Logging.Format != "console" || cfg.Scripts.Dir != "scripts" {
		t.Errorf("Expected untouched sections at defaults, got %+v %+v", cfg.Logging, cfg.Scripts)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		toml string
		want string
	}{
		{"zero tags", "[engine]\nmax_tags = 0", "max_tags"},
		{"too many tags", "[engine]\nmax_tags = 65", "max_tags"},
		{"zero precision", "[engine]\nline_precision = 0.0", "line_precision"},
		{"bad format", "[logging]\nformat = \"xml\"", "logging.format"},
		{"zero frame rate", "[terminal]\nframe_rate = 0", "frame_rate"},
		{"syntax", "[engine\n", "parse config"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.toml))
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte("[terminal]\nframe_rate = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.FrameInterval() != time.Second/30 {
		t.Errorf("Expected 30 fps interval, got %v", cfg.FrameInterval())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}
