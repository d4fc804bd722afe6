package ui

import (
	"strings"

	"github.com/Hexploration-Inc/radio-atlas/internal/models"
)

// renderMap projects stations onto a character grid with an equirectangular
// projection. Stations cluster on land, so the density map sketches the
// continents by itself. The focused station is drawn on top so it is never
// hidden under a denser cell.
func renderMap(stations []models.Station, focus *models.Station, width, height int) string {
	if width < 10 || height < 5 {
		return ""
	}

	counts := make([][]int, height)
	for y := range counts {
		counts[y] = make([]int, width)
	}
	for _, s := range stations {
		x, y := project(s.Latitude, s.Longitude, width, height)
		counts[y][x]++
	}

	fx, fy := -1, -1
	if focus != nil {
		fx, fy = project(focus.Latitude, focus.Longitude, width, height)
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x == fx && y == fy {
				b.WriteString(markerFocus.Render("◉"))
				continue
			}
			b.WriteString(markerFor(counts[y][x]))
		}
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// project maps lat/lon to grid coordinates, clamped to the grid.
func project(lat, lon float64, width, height int) (x, y int) {
	x = int((lon + 180) / 360 * float64(width))
	y = int((90 - lat) / 180 * float64(height))
	if x < 0 {
		x = 0
	}
	if x >= width {
		x = width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= height {
		y = height - 1
	}
	return x, y
}

func markerFor(count int) string {
	switch {
	case count == 0:
		return " "
	case count <= 2:
		return markerSparse.Render("·")
	case count <= 5:
		return markerMedium.Render("•")
	default:
		return markerDense.Render("●")
	}
}
