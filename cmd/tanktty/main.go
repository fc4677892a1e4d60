// Command tanktty runs the tank in a terminal. Click the water or press f
// to feed, space to pause, q to quit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/sysinfo"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	synthetic := flag.Bool("synthetic", false, "Drive the tank from generated telemetry instead of the host")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	flag.Parse()

	// The terminal owns stdout, so logs go to a file or nowhere
	logOut := os.Stderr
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	level := slog.LevelError
	if *logPath != "" {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var source sysinfo.Source
	name := "host"
	if *synthetic {
		source = sysinfo.NewSynthetic(0)
		name = "synthetic"
	} else {
		reg := sysinfo.NewRegistry(cfg.Probes)
		reg.Start(ctx)
		defer func() {
			stop()
			reg.Wait()
		}()
		source = reg
	}

	eco, err := game.New(game.Options{Config: cfg, Seed: rngSeed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create ecosystem: %v\n", err)
		os.Exit(1)
	}
	defer eco.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()

	t := &tty{
		screen: screen,
		eco:    eco,
		source: source,
		name:   name,
		rng:    rand.New(rand.NewSource(rngSeed ^ 0x5eed)),
		fps:    max(cfg.Screen.TargetFPS, 1),
	}
	t.run(ctx)
}

// tty drives the ecosystem from the terminal event loop.
type tty struct {
	screen tcell.Screen
	eco    *game.Ecosystem
	source sysinfo.Source
	name   string
	rng    *rand.Rand
	fps    int
	paused bool

	// Mouse reports repeat while a button is held; feed once per press
	button1 bool
}

func (t *tty) view() view {
	cols, rows := t.screen.Size()
	return newView(cols, rows, t.eco.Tank().Width(), t.eco.Tank().Height())
}

func (t *tty) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(t.fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !t.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			if !t.paused {
				t.eco.Tick(t.source.Snapshot())
			}
			t.view().draw(t.screen, t.eco.Snapshot(), t.paused, t.name)
			t.screen.Show()
		}
	}
}

// handleEvent applies one terminal event. It returns false to quit.
func (t *tty) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			t.paused = !t.paused
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'f':
			t.eco.AddFood(t.rng.Float64() * float64(t.eco.Tank().Width()))
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !t.button1 {
			col, row := ev.Position()
			if x, ok := t.view().tankX(col, row); ok {
				t.eco.FeedAt(x, t.rng)
			}
		}
		t.button1 = down
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}
