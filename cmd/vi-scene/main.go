package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/audio"
	"github.com/lixenwraith/vi-scene/config"
	"github.com/lixenwraith/vi-scene/core"
	"github.com/lixenwraith/vi-scene/script"
)

var (
	configFlag  = flag.String("config", "vi-scene.toml", "Path to TOML config, a missing file uses defaults")
	profileFlag = flag.String("profile", "", "Write a profile to the working directory: cpu, mem")
	debugFlag   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the scene crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	switch *profileFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vi-scene: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func run() error {
	cfg, err := loadConfig(*configFlag)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging, *debugFlag)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	reg, tags, err := loadTags(cfg.Tags.File, cfg.Engine.MaxTags)
	if err != nil {
		return err
	}

	vm, err := script.NewEngine(cfg.Scripts.Dir, reg, log.Named("script"))
	if err != nil {
		return err
	}
	defer vm.Close()
	vm.SetLinePrecision(cfg.Engine.LinePrecision)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.RegisterTerminal(screen)
	// Normal exit terminal cleanup
	defer func() {
		core.RegisterTerminal(nil)
		screen.Fini()
	}()

	d := newDemo(screen, cfg, tags, vm, log)

	if d.sound != nil {
		var out audio.Output
		if err := out.Start(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Buffer, d.sound); err != nil {
			log.Warn("audio unavailable, continuing muted", zap.Error(err))
			d.sound.SetMuted(true)
		} else {
			defer out.Close()
		}
	}

	log.Info("scene started",
		zap.Int("entities", d.scene.Entities().Len()),
		zap.Int("tags", reg.Len()),
		zap.Duration("frame", cfg.FrameInterval()))

	d.scene.Begin()
	defer d.scene.End()

	events := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
			}
			if !d.handleEvent(ev) {
				log.Info("scene stopped", zap.Float64("time_active", d.scene.TimeActive()))
				return nil
			}
		case <-ticker.C:
			d.frame()
		}
	}
}
