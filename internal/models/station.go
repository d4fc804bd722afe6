package models

import "math"

// Station represents one discoverable radio stream from the directory service.
// Instances are built by the assembler and are read-only afterward; the UI and
// the player never modify them.
type Station struct {
	ID          string   `json:"id"`           // Directory UUID, stable across queries
	Name        string   `json:"name"`         // Display name
	Country     string   `json:"country"`      // Country name (e.g. "Japan")
	CountryCode string   `json:"country_code"` // ISO-3166 alpha-2 (e.g. "JP")
	State       string   `json:"state"`        // Subdivision, often empty
	Languages   []string `json:"languages"`    // Spoken languages
	Favicon     string   `json:"favicon"`      // Icon URL, optional
	StreamURL   string   `json:"stream_url"`   // Playable stream URL
	Codec       string   `json:"codec"`        // e.g. "MP3", "AAC"
	BitrateKbps int      `json:"bitrate_kbps"` // 0 when unknown
	Votes       int      `json:"votes"`        // Community votes, display only
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`

	// GeoSynthesized marks coordinates drawn from a country bounding box
	// rather than reported by the directory service.
	GeoSynthesized bool `json:"geo_synthesized"`
}

// HasValidCoordinates reports whether both coordinates are finite and within
// valid ranges. Every station in an assembled snapshot satisfies this.
func (s Station) HasValidCoordinates() bool {
	return ValidCoordinates(s.Latitude, s.Longitude)
}

// ValidCoordinates reports whether lat/lon are finite numbers inside
// [-90,90] and [-180,180].
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
