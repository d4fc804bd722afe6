package radiobrowser

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hexploration-Inc/radio-atlas/internal/models"
)

const (
	// DefaultBaseURL points at the round-robin Radio Browser mirror.
	DefaultBaseURL = "https://all.api.radio-browser.info"
	// userAgent identifies the app as required by the Radio Browser usage policy.
	userAgent = "RadioAtlas/1.0"
)

// SearchFilter describes a station search against the directory service.
// Zero values mean "not filtered".
type SearchFilter struct {
	Limit       int    // Maximum number of stations to return
	HasGeoInfo  bool   // Only stations reporting coordinates
	CountryCode string // ISO-3166 alpha-2 filter
}

// Directory is the query surface the assembler depends on.
type Directory interface {
	Search(ctx context.Context, filter SearchFilter) ([]models.Station, error)
}

// Client queries the Radio Browser HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	cache     map[string][]models.Station
	cacheTime map[string]time.Time
	cacheTTL  time.Duration
	cacheMu   sync.RWMutex
}

// NewClient creates a directory client. An empty baseURL selects the default
// public mirror.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
		cache:      make(map[string][]models.Station),
		cacheTime:  make(map[string]time.Time),
		cacheTTL:   10 * time.Minute, // Directory contents churn slowly
	}
}

// rawStation mirrors the directory service's own field names.
type rawStation struct {
	StationUUID string   `json:"stationuuid"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	URLResolved string   `json:"url_resolved"`
	Favicon     string   `json:"favicon"`
	Country     string   `json:"country"`
	CountryCode string   `json:"countrycode"`
	State       string   `json:"state"`
	Language    string   `json:"language"`
	Codec       string   `json:"codec"`
	Bitrate     int      `json:"bitrate"`
	Votes       int      `json:"votes"`
	GeoLat      *float64 `json:"geo_lat"`
	GeoLong     *float64 `json:"geo_long"`
}

// Search queries the directory for stations matching the filter and
// normalizes the response. Entries without a usable identifier or stream URL
// are dropped; coordinates are carried over only when the service reports
// both, otherwise the station is returned without valid coordinates and it is
// the caller's job to synthesize or discard.
func (c *Client) Search(ctx context.Context, filter SearchFilter) ([]models.Station, error) {
	key := cacheKey(filter)

	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok {
		if time.Since(c.cacheTime[key]) < c.cacheTTL {
			c.cacheMu.RUnlock()
			return cached, nil
		}
	}
	c.cacheMu.RUnlock()

	params := url.Values{}
	params.Set("limit", strconv.Itoa(filter.Limit))
	params.Set("hidebroken", "true")
	params.Set("order", "votes")
	params.Set("reverse", "true")
	if filter.HasGeoInfo {
		params.Set("has_geo_info", "true")
	}
	if filter.CountryCode != "" {
		params.Set("countrycode", filter.CountryCode)
	}

	apiURL := fmt.Sprintf("%s/json/stations/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var raw []rawStation
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	stations := normalize(raw)
	c.log.Debug().
		Int("requested", filter.Limit).
		Int("received", len(raw)).
		Int("normalized", len(stations)).
		Str("country", filter.CountryCode).
		Msg("directory search")

	c.cacheMu.Lock()
	c.cache[key] = stations
	c.cacheTime[key] = time.Now()
	c.cacheMu.Unlock()

	return stations, nil
}

func cacheKey(f SearchFilter) string {
	return fmt.Sprintf("%d|%t|%s", f.Limit, f.HasGeoInfo, strings.ToUpper(f.CountryCode))
}

// normalize converts raw directory entries into station records. Stations
// missing an identifier or a stream URL can never be rendered or played and
// are filtered here.
func normalize(raw []rawStation) []models.Station {
	stations := make([]models.Station, 0, len(raw))
	for _, r := range raw {
		streamURL := r.URLResolved
		if streamURL == "" {
			streamURL = r.URL
		}
		if r.StationUUID == "" || streamURL == "" {
			continue
		}

		s := models.Station{
			ID:          r.StationUUID,
			Name:        strings.TrimSpace(r.Name),
			Country:     r.Country,
			CountryCode: strings.ToUpper(r.CountryCode),
			State:       r.State,
			Languages:   splitLanguages(r.Language),
			Favicon:     r.Favicon,
			StreamURL:   streamURL,
			Codec:       r.Codec,
			BitrateKbps: r.Bitrate,
			Votes:       r.Votes,
		}
		if r.GeoLat != nil && r.GeoLong != nil {
			s.Latitude = *r.GeoLat
			s.Longitude = *r.GeoLong
		} else {
			// NaN marks "no coordinates reported"; assemblers either
			// synthesize a replacement or drop the station.
			s.Latitude = math.NaN()
			s.Longitude = math.NaN()
		}
		stations = append(stations, s)
	}
	return stations
}

func splitLanguages(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}
