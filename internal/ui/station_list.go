package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/Hexploration-Inc/radio-atlas/internal/models"
)

// stationItem adapts a station record to the bubbles list.
type stationItem struct {
	station models.Station
}

func (i stationItem) Title() string {
	name := i.station.Name
	if name == "" {
		name = "(unnamed station)"
	}
	return name
}

func (i stationItem) Description() string {
	parts := []string{}
	if i.station.Country != "" {
		parts = append(parts, i.station.Country)
	}
	if i.station.Codec != "" {
		codec := i.station.Codec
		if i.station.BitrateKbps > 0 {
			codec = fmt.Sprintf("%s %dkbps", codec, i.station.BitrateKbps)
		}
		parts = append(parts, codec)
	}
	if i.station.Votes > 0 {
		parts = append(parts, fmt.Sprintf("%d votes", i.station.Votes))
	}
	if i.station.GeoSynthesized {
		parts = append(parts, "approx. location")
	}
	return strings.Join(parts, " • ")
}

func (i stationItem) FilterValue() string {
	return i.station.Name + " " + i.station.Country
}

// createStationList builds the list component over the assembled snapshot.
// The assembler already orders by votes within each query, so no re-sort.
func createStationList(stations []models.Station, width, height int) list.Model {
	items := make([]list.Item, 0, len(stations))
	for _, s := range stations {
		items = append(items, stationItem{station: s})
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, width, height)
	l.Title = "Stations"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}
