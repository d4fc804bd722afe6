package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hexploration-Inc/radio-atlas/internal/assembler"
	"github.com/Hexploration-Inc/radio-atlas/internal/models"
)

// Message types for async operations

// stationsAssembledMsg is sent when the station snapshot is ready. Assembly
// never fails; an empty snapshot means the directory was unreachable.
type stationsAssembledMsg struct {
	stations []models.Station
}

// statusTickMsg drives the periodic refresh of the now-playing footer.
type statusTickMsg struct{}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// assembleStations runs the dataset assembly in the background.
func assembleStations(a *assembler.Assembler, targetCount int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		return stationsAssembledMsg{stations: a.Assemble(ctx, targetCount)}
	}
}

// pollStatus schedules the next playback status refresh.
func pollStatus() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}
