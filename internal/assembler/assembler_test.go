package assembler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Hexploration-Inc/radio-atlas/internal/models"
	"github.com/Hexploration-Inc/radio-atlas/internal/radiobrowser"
)

// fakeDirectory is a deterministic Directory for pipeline tests.
type fakeDirectory struct {
	mu    sync.Mutex
	calls []radiobrowser.SearchFilter

	primary       []models.Station
	primaryErr    error
	byCountry     map[string][]models.Station
	countryErrors map[string]error
}

func (d *fakeDirectory) Search(_ context.Context, f radiobrowser.SearchFilter) ([]models.Station, error) {
	d.mu.Lock()
	d.calls = append(d.calls, f)
	d.mu.Unlock()

	if f.CountryCode == "" {
		return d.primary, d.primaryErr
	}
	if err := d.countryErrors[f.CountryCode]; err != nil {
		return nil, err
	}
	return d.byCountry[f.CountryCode], nil
}

func (d *fakeDirectory) countryQueries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var codes []string
	for _, c := range d.calls {
		if c.CountryCode != "" {
			codes = append(codes, c.CountryCode)
		}
	}
	return codes
}

func geoStation(id, cc string, lat, lon float64) models.Station {
	return models.Station{
		ID:          id,
		Name:        "Station " + id,
		CountryCode: cc,
		StreamURL:   "http://example.com/" + id,
		Latitude:    lat,
		Longitude:   lon,
	}
}

func noGeoStation(id, cc string) models.Station {
	s := geoStation(id, cc, math.NaN(), math.NaN())
	return s
}

// stationsFor builds n distinct valid-geo stations for a country.
func stationsFor(cc string, n int, lat, lon float64) []models.Station {
	stations := make([]models.Station, 0, n)
	for i := 0; i < n; i++ {
		stations = append(stations, geoStation(fmt.Sprintf("%s-%d", cc, i), cc, lat, lon))
	}
	return stations
}

func newTestAssembler(dir radiobrowser.Directory, opts Options) *Assembler {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	return New(dir, opts, zerolog.Nop())
}

func TestAssemble_CoordinateInvariantAndUniqueness(t *testing.T) {
	dir := &fakeDirectory{
		primary: append(stationsFor("DE", 6, 51.0, 10.0), noGeoStation("bad-1", "DE")),
		byCountry: map[string][]models.Station{
			"JP": append(stationsFor("JP", 2, 35.0, 139.0), noGeoStation("jp-nogeo", "JP")),
			"IN": {noGeoStation("in-nogeo", "IN")},
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"JP", "IN"}})

	result := a.Assemble(context.Background(), 100)

	seen := make(map[string]bool)
	for _, s := range result {
		if !s.HasValidCoordinates() {
			t.Errorf("station %s has invalid coordinates: %v, %v", s.ID, s.Latitude, s.Longitude)
		}
		if seen[s.ID] {
			t.Errorf("duplicate identifier in output: %s", s.ID)
		}
		seen[s.ID] = true
	}

	// The invalid-geo primary entry must have been discarded.
	if seen["bad-1"] {
		t.Error("primary station without coordinates leaked into the output")
	}
	// Backfill stations without geo get synthesized coordinates and stay.
	if !seen["jp-nogeo"] {
		t.Error("expected JP backfill station to survive via synthesized coordinates")
	}
	if !seen["in-nogeo"] {
		t.Error("expected IN backfill station to survive via synthesized coordinates")
	}
}

func TestAssemble_BackfillThreshold(t *testing.T) {
	// IN has zero geo-tagged stations, JP is already at the threshold.
	dir := &fakeDirectory{
		primary: stationsFor("JP", 5, 35.0, 139.0),
		byCountry: map[string][]models.Station{
			"IN": stationsFor("IN", 3, 20.0, 78.0),
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"JP", "IN"}})

	result := a.Assemble(context.Background(), 100)

	queried := dir.countryQueries()
	if len(queried) != 1 || queried[0] != "IN" {
		t.Fatalf("expected exactly one supplementary query for IN, got %v", queried)
	}

	var gotIN bool
	for _, s := range result {
		if s.CountryCode == "IN" {
			gotIN = true
		}
	}
	if !gotIN {
		t.Error("expected supplementary IN stations in the output")
	}
}

func TestAssemble_SynthesisWithinBounds(t *testing.T) {
	dir := &fakeDirectory{
		byCountry: map[string][]models.Station{
			"JP": {noGeoStation("jp-1", "JP"), noGeoStation("jp-2", "JP")},
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"JP"}})

	result := a.Assemble(context.Background(), 10)

	if len(result) != 2 {
		t.Fatalf("expected 2 synthesized stations, got %d", len(result))
	}
	for _, s := range result {
		if s.Latitude < 30 || s.Latitude > 46 {
			t.Errorf("synthesized latitude %v outside Japan bounds [30,46]", s.Latitude)
		}
		if s.Longitude < 129 || s.Longitude > 146 {
			t.Errorf("synthesized longitude %v outside Japan bounds [129,146]", s.Longitude)
		}
		if !s.GeoSynthesized {
			t.Errorf("station %s should be marked GeoSynthesized", s.ID)
		}
		// Six decimal places: scaling by 1e6 yields an integer.
		if scaled := s.Latitude * 1e6; scaled != math.Trunc(scaled) {
			t.Errorf("latitude %v not rounded to 6 decimals", s.Latitude)
		}
	}
}

func TestAssemble_UnknownCountryDropped(t *testing.T) {
	// "ZZ" has no bounds entry; its no-geo stations cannot be synthesized.
	dir := &fakeDirectory{
		byCountry: map[string][]models.Station{
			"ZZ": {noGeoStation("zz-1", "ZZ")},
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"ZZ"}})

	result := a.Assemble(context.Background(), 10)
	if len(result) != 0 {
		t.Errorf("expected stations without bounds to be dropped, got %d", len(result))
	}
}

func TestAssemble_DedupAcrossQueries(t *testing.T) {
	shared := geoStation("shared-1", "IN", 20.0, 78.0)
	dir := &fakeDirectory{
		primary: []models.Station{shared, geoStation("p-1", "US", 40.0, -100.0)},
		byCountry: map[string][]models.Station{
			"IN": {shared, geoStation("in-1", "IN", 21.0, 79.0)},
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"IN"}})

	result := a.Assemble(context.Background(), 10)

	count := 0
	for _, s := range result {
		if s.ID == "shared-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected shared identifier exactly once, got %d", count)
	}
}

func TestAssemble_DedupIdempotence(t *testing.T) {
	dir := &fakeDirectory{
		primary: stationsFor("US", 3, 40.0, -100.0),
		byCountry: map[string][]models.Station{
			"IN": stationsFor("IN", 4, 20.0, 78.0),
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"IN"}})

	first := a.Assemble(context.Background(), 10)
	second := a.Assemble(context.Background(), 10)

	merged := append(append([]models.Station{}, first...), second...)
	byID := make(map[string]int)
	for _, s := range merged {
		byID[s.ID]++
	}
	for id, n := range byID {
		if n != 2 {
			t.Errorf("station %s appeared %d times across two identical runs, want 2", id, n)
		}
	}
	if len(first) != len(second) {
		t.Errorf("identical runs produced different sizes: %d vs %d", len(first), len(second))
	}
}

func TestAssemble_QueryFailureIsolation(t *testing.T) {
	dir := &fakeDirectory{
		byCountry: map[string][]models.Station{
			"JP": stationsFor("JP", 2, 35.0, 139.0),
		},
		countryErrors: map[string]error{
			"IN": errors.New("directory unavailable"),
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"IN", "JP"}})

	result := a.Assemble(context.Background(), 10)

	if len(result) != 2 {
		t.Fatalf("expected the JP batch despite the IN failure, got %d stations", len(result))
	}
	for _, s := range result {
		if s.CountryCode != "JP" {
			t.Errorf("unexpected station %s from country %s", s.ID, s.CountryCode)
		}
	}
}

func TestAssemble_PrimaryFailureDegradesToBackfill(t *testing.T) {
	dir := &fakeDirectory{
		primaryErr: errors.New("mirror down"),
		byCountry: map[string][]models.Station{
			"JP": stationsFor("JP", 1, 35.0, 139.0),
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"JP"}})

	result := a.Assemble(context.Background(), 10)
	if len(result) != 1 {
		t.Fatalf("expected backfill-only snapshot after primary failure, got %d", len(result))
	}
}

func TestAssemble_EndToEndScenario(t *testing.T) {
	// Directory has 3 US stations with geo data and none for IN; the IN
	// supplementary query returns a batch without coordinates.
	inBatch := make([]models.Station, 0, 20)
	for i := 0; i < 20; i++ {
		inBatch = append(inBatch, noGeoStation(fmt.Sprintf("in-%d", i), "IN"))
	}
	dir := &fakeDirectory{
		primary:   stationsFor("US", 3, 40.0, -100.0),
		byCountry: map[string][]models.Station{"IN": inBatch},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"IN"}})

	result := a.Assemble(context.Background(), 3)

	queried := dir.countryQueries()
	if len(queried) != 1 || queried[0] != "IN" {
		t.Fatalf("expected one supplementary IN query, got %v", queried)
	}

	var us, in int
	seen := make(map[string]bool)
	inBounds, _ := BoundsFor("IN")
	for _, s := range result {
		if seen[s.ID] {
			t.Errorf("duplicate identifier %s", s.ID)
		}
		seen[s.ID] = true

		switch s.CountryCode {
		case "US":
			us++
		case "IN":
			in++
			if s.Latitude < inBounds.MinLat || s.Latitude > inBounds.MaxLat ||
				s.Longitude < inBounds.MinLon || s.Longitude > inBounds.MaxLon {
				t.Errorf("IN station %s outside India bounds: %v, %v", s.ID, s.Latitude, s.Longitude)
			}
		}
	}

	if us != 3 {
		t.Errorf("expected the 3 US primary stations, got %d", us)
	}
	if in == 0 || in > 20 {
		t.Errorf("expected up to 20 IN backfill stations, got %d", in)
	}
}

func TestAssemble_OutputOrderIsPrimaryThenPriorityList(t *testing.T) {
	dir := &fakeDirectory{
		primary: stationsFor("US", 2, 40.0, -100.0),
		byCountry: map[string][]models.Station{
			"IN": stationsFor("IN", 1, 20.0, 78.0),
			"JP": stationsFor("JP", 1, 35.0, 139.0),
		},
	}
	a := newTestAssembler(dir, Options{PriorityCountries: []string{"IN", "JP"}})

	result := a.Assemble(context.Background(), 10)

	want := []string{"US-0", "US-1", "IN-0", "JP-0"}
	if len(result) != len(want) {
		t.Fatalf("expected %d stations, got %d", len(want), len(result))
	}
	for i, id := range want {
		if result[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, result[i].ID, id)
		}
	}
}
