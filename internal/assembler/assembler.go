// Package assembler builds the station snapshot rendered on the map: it
// fetches geo-tagged stations from the directory service, backfills coverage
// gaps for under-represented priority countries, synthesizes plausible
// coordinates where the directory has none, and deduplicates the result.
package assembler

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Hexploration-Inc/radio-atlas/internal/models"
	"github.com/Hexploration-Inc/radio-atlas/internal/radiobrowser"
)

const (
	// unknownCountry buckets stations whose country code is missing.
	unknownCountry = "??"

	defaultCoverageThreshold = 5
	defaultBackfillBatch     = 20
)

// Options tune the assembly pipeline. The zero value selects the defaults;
// tests override to make the pipeline deterministic.
type Options struct {
	CoverageThreshold int      // Minimum stations per priority country before backfill
	BackfillBatch     int      // Stations requested per supplementary query
	PriorityCountries []string // Country codes eligible for backfill
	Rand              *rand.Rand
}

// Assembler produces ordered station snapshots from a directory service.
// Each Assemble call uses its own intermediate state; a single Assembler may
// serve independent concurrent calls.
type Assembler struct {
	dir  radiobrowser.Directory
	opts Options
	log  zerolog.Logger
}

// New creates an assembler over the given directory.
func New(dir radiobrowser.Directory, opts Options, log zerolog.Logger) *Assembler {
	if opts.CoverageThreshold == 0 {
		opts.CoverageThreshold = defaultCoverageThreshold
	}
	if opts.BackfillBatch == 0 {
		opts.BackfillBatch = defaultBackfillBatch
	}
	if opts.PriorityCountries == nil {
		opts.PriorityCountries = priorityCountries
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Assembler{dir: dir, opts: opts, log: log}
}

// Assemble returns up to targetCount primary stations plus backfill, every
// one carrying valid coordinates and a unique identifier. It never fails:
// directory errors degrade to a smaller (possibly empty) snapshot and are
// only logged.
func (a *Assembler) Assemble(ctx context.Context, targetCount int) []models.Station {
	primary := a.fetchPrimary(ctx, targetCount)
	coverage := countCoverage(primary)

	supplementary := a.backfill(ctx, coverage)

	merged := make([]models.Station, 0, len(primary)+len(supplementary))
	seen := make(map[string]struct{}, len(primary)+len(supplementary))
	for _, s := range primary {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		merged = append(merged, s)
	}
	for _, s := range supplementary {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		if !s.HasValidCoordinates() {
			continue
		}
		seen[s.ID] = struct{}{}
		merged = append(merged, s)
	}

	a.log.Info().
		Int("primary", len(primary)).
		Int("supplementary", len(supplementary)).
		Int("total", len(merged)).
		Msg("station snapshot assembled")

	return merged
}

// fetchPrimary runs the global has-geo-info query and keeps only stations
// whose reported coordinates are actually usable.
func (a *Assembler) fetchPrimary(ctx context.Context, targetCount int) []models.Station {
	stations, err := a.dir.Search(ctx, radiobrowser.SearchFilter{
		Limit:      targetCount,
		HasGeoInfo: true,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("primary directory query failed")
		return nil
	}

	valid := make([]models.Station, 0, len(stations))
	for _, s := range stations {
		if s.HasValidCoordinates() {
			valid = append(valid, s)
		}
	}
	return valid
}

// countCoverage maps country code to the number of valid stations seen.
func countCoverage(stations []models.Station) map[string]int {
	coverage := make(map[string]int)
	for _, s := range stations {
		code := strings.ToUpper(s.CountryCode)
		if code == "" {
			code = unknownCountry
		}
		coverage[code]++
	}
	return coverage
}

// backfill issues one supplementary query per under-covered priority country,
// in parallel, and synthesizes coordinates for stations the directory returns
// without any. A failed query contributes nothing; it never cancels its
// siblings. Results are ordered by the priority list, so the merge is
// reproducible for identical responses.
func (a *Assembler) backfill(ctx context.Context, coverage map[string]int) []models.Station {
	var under []string
	for _, code := range a.opts.PriorityCountries {
		if coverage[code] < a.opts.CoverageThreshold {
			under = append(under, code)
		}
	}
	if len(under) == 0 {
		return nil
	}

	results := make([][]models.Station, len(under))
	var wg sync.WaitGroup
	for i, code := range under {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			stations, err := a.dir.Search(ctx, radiobrowser.SearchFilter{
				Limit:       a.opts.BackfillBatch,
				CountryCode: code,
			})
			if err != nil {
				a.log.Warn().Err(err).Str("country", code).Msg("backfill query failed")
				return
			}
			results[i] = stations
		}(i, code)
	}
	wg.Wait()

	var supplementary []models.Station
	for _, batch := range results {
		for _, s := range batch {
			if !s.HasValidCoordinates() {
				s = a.synthesizeCoordinates(s)
			}
			supplementary = append(supplementary, s)
		}
	}
	return supplementary
}

// synthesizeCoordinates returns a copy of the station with coordinates drawn
// uniformly from its country's bounding rectangle. Stations from countries
// without a bounds entry are returned unchanged and dropped by the merge.
func (a *Assembler) synthesizeCoordinates(s models.Station) models.Station {
	bounds, ok := BoundsFor(strings.ToUpper(s.CountryCode))
	if !ok {
		return s
	}
	s.Latitude = round6(bounds.MinLat + a.opts.Rand.Float64()*(bounds.MaxLat-bounds.MinLat))
	s.Longitude = round6(bounds.MinLon + a.opts.Rand.Float64()*(bounds.MaxLon-bounds.MinLon))
	s.GeoSynthesized = true
	return s
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
