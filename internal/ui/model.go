package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hexploration-Inc/radio-atlas/internal/assembler"
	"github.com/Hexploration-Inc/radio-atlas/internal/models"
	"github.com/Hexploration-Inc/radio-atlas/internal/player"
)

// AppState represents the current state of the application
type AppState int

const (
	StateAssembling AppState = iota // Building the station snapshot
	StateBrowse                     // Map + station list, playback available
	StateError                      // Unrecoverable startup error
)

const (
	listWidth    = 44
	volumeStep   = 0.05
	footerHeight = 4
	headerHeight = 2
)

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	// Core components
	asm        *assembler.Assembler
	controller *player.Controller
	target     int

	// Data
	stations []models.Station

	// Playback view
	status player.Status

	// Components
	stationList list.Model
	spinner     spinner.Model
}

// NewModel creates a new application model
func NewModel(asm *assembler.Assembler, controller *player.Controller, targetCount int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		state:      StateAssembling,
		asm:        asm,
		controller: controller,
		target:     targetCount,
		spinner:    s,
	}
}

// Init kicks off dataset assembly and the status poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		assembleStations(m.asm, m.target),
		pollStatus(),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateBrowse {
			m.stationList.SetSize(listWidth, m.contentHeight())
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case stationsAssembledMsg:
		m.stations = msg.stations
		m.stationList = createStationList(msg.stations, listWidth, m.contentHeight())
		m.state = StateBrowse
		return m, nil

	case statusTickMsg:
		m.status = m.controller.Status()
		return m, pollStatus()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" || keyMsg.String() == "q" {
			m.controller.Close()
			return m, tea.Quit
		}

		if m.state == StateBrowse {
			return m.handleBrowseKeys(keyMsg)
		}
	}

	switch m.state {
	case StateAssembling:
		m.spinner, cmd = m.spinner.Update(msg)
	case StateBrowse:
		m.stationList, cmd = m.stationList.Update(msg)
	}

	return m, cmd
}

// handleBrowseKeys handles keyboard input while browsing the map
func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Filtering gets every key except enter
	if m.stationList.FilterState() == list.Filtering && msg.Type != tea.KeyEnter {
		m.stationList, cmd = m.stationList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if item, ok := m.stationList.SelectedItem().(stationItem); ok {
			st := item.station
			m.controller.OnStationSelected(&st)
			m.status = m.controller.Status()
		}
		return m, nil

	case " ":
		m.controller.TogglePlayPause()
		m.status = m.controller.Status()
		return m, nil

	case "x":
		m.controller.Stop()
		m.status = m.controller.Status()
		return m, nil

	case "+", "=":
		m.controller.SetVolume(m.status.Volume + volumeStep)
		m.status = m.controller.Status()
		return m, nil

	case "-":
		m.controller.SetVolume(m.status.Volume - volumeStep)
		m.status = m.controller.Status()
		return m, nil
	}

	m.stationList, cmd = m.stationList.Update(msg)
	return m, cmd
}

func (m Model) contentHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 5 {
		h = 5
	}
	return h
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateAssembling:
		return m.viewAssembling()
	case StateBrowse:
		return m.viewBrowse()
	case StateError:
		return m.viewError()
	}
	return ""
}

// viewAssembling renders the startup screen while the snapshot builds
func (m Model) viewAssembling() string {
	title := titleStyle.Render("📻 Radio Atlas")
	status := mutedStyle.Render("Assembling world station snapshot...")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), status),
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	var errorMsg string
	if m.err != nil {
		errorMsg = m.err.Error()
	} else {
		errorMsg = "An unknown error occurred"
	}

	help := helpStyle.Render("Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

// viewBrowse renders the map, station list, and now-playing footer
func (m Model) viewBrowse() string {
	header := lipgloss.JoinHorizontal(
		lipgloss.Left,
		titleStyle.Render("📻 Radio Atlas"),
		mutedStyle.Render(fmt.Sprintf("  %d stations", len(m.stations))),
	)

	mapWidth := m.width - listWidth - 8
	mapHeight := m.contentHeight() - 2

	var hovered *models.Station
	if item, ok := m.stationList.SelectedItem().(stationItem); ok {
		st := item.station
		hovered = &st
	}

	mapPane := paneStyle.Render(renderMap(m.stations, hovered, mapWidth, mapHeight))
	listPane := m.stationList.View()

	content := lipgloss.JoinHorizontal(lipgloss.Top, mapPane, " ", listPane)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.viewFooter())
}

// viewFooter renders the now-playing bar
func (m Model) viewFooter() string {
	var line string
	switch {
	case m.status.Station == nil:
		line = mutedStyle.Render("Nothing playing. Enter to tune in")
	case m.status.State == player.StateLoading:
		line = mutedStyle.Render("⏳ Loading " + m.status.Station.Name + "...")
	case m.status.State == player.StateError:
		msg := "stream failed"
		if m.status.Err != nil {
			msg = m.status.Err.Error()
		}
		line = errorStyle.Render("✗ " + m.status.Station.Name + ": " + msg)
	case m.status.State == player.StatePlaying:
		line = playingStyle.Render("▶ " + m.status.Station.Name)
		if m.status.Station.Codec != "" {
			line += mutedStyle.Render(fmt.Sprintf("  %s %dkbps", m.status.Station.Codec, m.status.Station.BitrateKbps))
		}
	case m.status.State == player.StatePaused:
		line = mutedStyle.Render("⏸ " + m.status.Station.Name)
	default:
		line = mutedStyle.Render("■ " + m.status.Station.Name)
	}

	volume := volumeStyle.Render(fmt.Sprintf("Vol %s %3.0f%%", volumeBar(m.status.Volume), m.status.Volume*100))
	help := helpStyle.Render("Enter: Play • Space: Pause • X: Stop • +/-: Volume • /: Filter • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Left, line, "   ", volume), help)
}

// volumeBar renders a ten-segment volume gauge.
func volumeBar(v float64) string {
	filled := int(v*10 + 0.5)
	bar := ""
	for i := 0; i < 10; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}
