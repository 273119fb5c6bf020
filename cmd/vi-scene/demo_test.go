package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/config"
	"github.com/lixenwraith/vi-scene/script"
)

func newTestDemo(t *testing.T) (*demo, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 12)

	cfg := config.Default()
	cfg.Engine.FixedStep = 50 * time.Millisecond

	reg, tags, err := loadTags(filepath.Join(t.TempDir(), "none.yaml"), cfg.Engine.MaxTags)
	if err != nil {
		t.Fatalf("Failed to load tags: %v", err)
	}
	vm, err := script.NewEngine("../../scripts", reg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to load scripts: %v", err)
	}
	t.Cleanup(vm.Close)

	return newDemo(screen, cfg, tags, vm, zap.NewNop()), screen
}

func rowText(screen tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestDemoDrawsArenaAndStatus(t *testing.T) {
	d, screen := newTestDemo(t)
	d.scene.Begin()
	d.frame()

	if got := rowText(screen, 0, 40); !strings.Contains(got, "vi-scene") {
		t.Errorf("Expected status line on row 0, got %q", got)
	}
	if r, _, _, _ := screen.GetContent(0, 5); r != '│' {
		t.Errorf("Expected left wall at (0,5), got %q", r)
	}
	if r, _, _, _ := screen.GetContent(10, 11); r != '─' {
		t.Errorf("Expected bottom wall at (10,11), got %q", r)
	}
}

func TestDemoWalkersStayInArena(t *testing.T) {
	d, _ := newTestDemo(t)
	d.scene.Begin()
	for i := 0; i < 200; i++ {
		d.frame()
	}

	count := 0
	for e := range d.scene.Tagged(d.tags.actor) {
		p := e.Core().Position
		if p.X < 1 || p.X >= 39 || p.Y < 2 || p.Y >= 11 {
			t.Errorf("Expected walker inside arena, got %v", p)
		}
		count++
	}
	if count != walkerCount {
		t.Errorf("Expected %d walkers, got %d", walkerCount, count)
	}
}

func TestDemoHandleEvent(t *testing.T) {
	d, _ := newTestDemo(t)

	if !d.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)) {
		t.Fatal("Expected pause key to keep running")
	}
	if !d.scene.Paused || !strings.Contains(d.status.Text, "paused") {
		t.Errorf("Expected paused scene and status, got %q", d.status.Text)
	}

	before := d.scene.TimeActive()
	d.frame()
	if d.scene.TimeActive() != before {
		t.Error("Expected paused frame to hold game time")
	}

	if d.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("Expected q to quit")
	}
	if d.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Expected Esc to quit")
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got %v", err)
	}
	if cfg.Terminal.FrameRate != config.Default().Terminal.FrameRate {
		t.Errorf("Expected default frame rate, got %d", cfg.Terminal.FrameRate)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[engine]\nmax_tags = 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(bad); err == nil {
		t.Error("Expected invalid config to fail")
	}
}

func TestLoadTagsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.yaml")
	if err := os.WriteFile(path, []byte("tags: [pickup, solid]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, tags, err := loadTags(path, 8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tags.solid != 1 {
		t.Errorf("Expected file order to assign solid id 1, got %d", tags.solid)
	}
	if reg.Len() != 5 {
		t.Errorf("Expected pickup plus 4 demo tags, got %d", reg.Len())
	}
}
