// Command genmock generates detonation request and effect report fixtures.
// Every preset is paired with every sample site, and the reports are produced
// by the real domain package so they match pipeline output byte for byte.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -requests-out data/mock/detonation_requests.json \
//	  -reports-out data/mock/effect_reports.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/blast-effects-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixtureTime is the ProcessedAt stamp shared with cmd/validate.
var fixtureTime = time.Date(2024, time.October, 5, 12, 0, 0, 0, time.UTC)

type site struct {
	slug     string
	lat, lon float64
	location domain.Location
}

var sites = []site{
	{slug: "hiroshima", lat: 34.3853, lon: 132.4553, location: domain.Location{Name: "Hiroshima", Region: "Japan"}},
	{slug: "nagasaki", lat: 32.7737, lon: 129.8633, location: domain.Location{Name: "Nagasaki", Region: "Japan"}},
	{slug: "nevada", lat: 37.1164, lon: -116.0500, location: domain.Location{Name: "Nevada Test Site", Region: "NV"}},
	{slug: "bikini", lat: 11.5833, lon: 165.3833, location: domain.Location{Name: "Bikini Atoll", Region: "Marshall Islands"}},
	{slug: "trinity", location: domain.Location{Name: "Trinity Site", Region: "NM"}},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	requestsOut := flag.String("requests-out", "", "output path for detonation request fixture")
	reportsOut := flag.String("reports-out", "", "output path for effect report fixture")
	lawsFile := flag.String("laws-file", "", "optional YAML scaling-law table")
	presetsFile := flag.String("presets-file", "", "optional YAML preset table")
	law := flag.String("law", domain.DefaultLawName, "scaling law applied to every request")
	flag.Parse()

	if *requestsOut == "" || *reportsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -requests-out, -reports-out")
	}

	catalog, err := domain.LoadCatalog(*lawsFile, *presetsFile)
	if err != nil {
		return err
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	requests := buildRequests(catalog.Presets(), *law)
	reports := make([]domain.EffectReport, 0, len(requests))
	for _, req := range requests {
		report, err := domain.BuildReport(req, catalog, *law)
		if err != nil {
			return fmt.Errorf("request %s: %w", req.ID, err)
		}
		reports = append(reports, report)
	}
	log.Printf("generated %d requests", len(requests))

	if err := writeJSON(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote request fixture: %s", *requestsOut)

	if err := writeJSON(*reportsOut, reports); err != nil {
		return fmt.Errorf("writing report fixture: %w", err)
	}
	log.Printf("wrote report fixture: %s", *reportsOut)

	printStats(reports)
	return nil
}

func buildRequests(presets []domain.Preset, law string) []domain.DetonationRequest {
	requests := make([]domain.DetonationRequest, 0, len(presets)*len(sites))
	for _, p := range presets {
		for _, s := range sites {
			requests = append(requests, domain.DetonationRequest{
				ID:       fmt.Sprintf("%s-%s", p.Name, s.slug),
				Preset:   p.Name,
				Law:      law,
				Lat:      s.lat,
				Lon:      s.lon,
				Location: s.location,
			})
		}
	}
	return requests
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type bandCount struct {
	band  domain.Band
	count int
}

func printStats(reports []domain.EffectReport) {
	perKind := map[domain.EffectKind]map[domain.Band]int{}
	severities := map[domain.Severity]int{}
	for i := range reports {
		for _, e := range reports[i].Effects {
			if perKind[e.Kind] == nil {
				perKind[e.Kind] = map[domain.Band]int{}
			}
			perKind[e.Kind][e.Narrative.Band]++
			severities[e.Narrative.Severity]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Reports: %d\n", len(reports))
	fmt.Printf("By severity: minor=%d, moderate=%d, severe=%d, extreme=%d\n",
		severities[domain.SeverityMinor], severities[domain.SeverityModerate],
		severities[domain.SeveritySevere], severities[domain.SeverityExtreme])

	for _, kind := range domain.AllEffectKinds() {
		counts := make([]bandCount, 0, len(perKind[kind]))
		for b, c := range perKind[kind] {
			counts = append(counts, bandCount{b, c})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].band < counts[j].band
		})
		fmt.Printf("  %-18s", kind)
		for _, c := range counts {
			fmt.Printf(" %s=%d", c.band, c.count)
		}
		fmt.Println()
	}

	if len(reports) > 0 {
		first := reports[0]
		fmt.Printf("\nFirst report:\n")
		fmt.Printf("  ID: %s (request %s)\n", first.ID, first.RequestID)
		fmt.Printf("  Yield: %g kt (%s), law %s\n", first.YieldKt, first.Preset, first.Law)
		for _, e := range first.Effects {
			fmt.Printf("  %s\n", e.Summary())
		}
	}
}
