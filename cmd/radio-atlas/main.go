package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Hexploration-Inc/radio-atlas/internal/assembler"
	"github.com/Hexploration-Inc/radio-atlas/internal/config"
	"github.com/Hexploration-Inc/radio-atlas/internal/player"
	"github.com/Hexploration-Inc/radio-atlas/internal/radiobrowser"
	"github.com/Hexploration-Inc/radio-atlas/internal/ui"
)

func main() {
	stations := flag.Int("stations", 0, "Number of stations to request from the directory (overrides config)")
	mute := flag.Bool("mute", false, "Start muted")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *stations > 0 {
		cfg.StationTarget = *stations
	}
	if *mute {
		cfg.Volume = 0
	}

	log, logFile, err := setupLogger(cfg)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	client := radiobrowser.NewClient(cfg.DirectoryURL, log)
	asm := assembler.New(client, assembler.Options{}, log)

	engine, err := player.NewBeepEngine(log)
	if err != nil {
		fmt.Printf("Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	controller := player.NewController(engine, cfg.Volume, log)

	p := tea.NewProgram(ui.NewModel(asm, controller, cfg.StationTarget), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger writes structured logs to a file; the TUI owns the terminal.
func setupLogger(cfg config.Config) (zerolog.Logger, *os.File, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}

	log := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return log, f, nil
}
