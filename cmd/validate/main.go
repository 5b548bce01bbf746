// Command validate checks a pair of genmock fixtures against the calculator:
// request/report parity, effect ordering and area consistency, narrative
// banding, and byte-for-byte recomputation of every report.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -requests data/mock/detonation_requests.json \
//	  -reports data/mock/effect_reports.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/blast-effects-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
)

// fixtureTime must match cmd/genmock.
var fixtureTime = time.Date(2024, time.October, 5, 12, 0, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	requestsPath := flag.String("requests", "", "path to detonation request fixture")
	reportsPath := flag.String("reports", "", "path to effect report fixture")
	lawsFile := flag.String("laws-file", "", "optional YAML scaling-law table")
	presetsFile := flag.String("presets-file", "", "optional YAML preset table")
	defaultLaw := flag.String("law", domain.DefaultLawName, "law applied to requests without one")
	flag.Parse()

	if *requestsPath == "" || *reportsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	catalog, err := domain.LoadCatalog(*lawsFile, *presetsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load catalog: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(catalog, *defaultLaw, *requestsPath, *reportsPath))
}

func run(catalog *domain.Catalog, defaultLaw, requestsPath, reportsPath string) int {
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	fmt.Println("=== Blast Effect Fixture Validation ===")
	fmt.Println()

	requests, err := loadJSON[domain.DetonationRequest](requestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load requests: %v\n", err)
		return 1
	}
	reports, err := loadJSON[domain.EffectReport](reportsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reports: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateParity(requests, reports),
		validateEffects(reports),
		validateNarratives(reports),
		validateRecomputation(catalog, defaultLaw, requests, reports),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d requests, %d reports\n", len(requests), len(reports))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Parity ──

func validateParity(requests []domain.DetonationRequest, reports []domain.EffectReport) *phase {
	p := &phase{name: "Phase 1: Parity (requests vs reports)"}

	if len(requests) != len(reports) {
		p.errorf("count: %d requests, %d reports", len(requests), len(reports))
	}

	byRequest := make(map[string]int, len(reports))
	for i := range reports {
		if reports[i].ID == "" {
			p.errorf("report %d: missing ID", i)
		}
		byRequest[reports[i].RequestID]++
	}
	for i := range requests {
		switch n := byRequest[requests[i].ID]; n {
		case 1:
		case 0:
			p.errorf("request %q: no report", requests[i].ID)
		default:
			p.errorf("request %q: %d reports", requests[i].ID, n)
		}
	}
	return p
}

// ── Phase 2: Effects ──

func validateEffects(reports []domain.EffectReport) *phase {
	p := &phase{name: "Phase 2: Effects (ordering, area)"}
	kinds := domain.AllEffectKinds()

	for i := range reports {
		r := &reports[i]
		if err := domain.ValidateYield(r.YieldKt); err != nil {
			p.errorf("report %s: %v", r.ID, err)
		}
		if len(r.Effects) != len(kinds) {
			p.errorf("report %s: %d effects, want %d", r.ID, len(r.Effects), len(kinds))
			continue
		}
		for j, e := range r.Effects {
			if e.Kind != kinds[j] {
				p.errorf("report %s: effect %d is %s, want %s", r.ID, j, e.Kind, kinds[j])
			}
			if math.IsNaN(e.RadiusMeters) || math.IsInf(e.RadiusMeters, 0) || e.RadiusMeters < 0 {
				p.errorf("report %s: %s radius %g not finite and non-negative", r.ID, e.Kind, e.RadiusMeters)
			}
			if j > 0 && e.RadiusMeters < r.Effects[j-1].RadiusMeters {
				p.errorf("report %s: %s radius %g below %s radius %g",
					r.ID, e.Kind, e.RadiusMeters, r.Effects[j-1].Kind, r.Effects[j-1].RadiusMeters)
			}
			if want := domain.ComputeArea(e.RadiusMeters); e.AreaKm2 != want {
				p.errorf("report %s: %s area %g, want %g", r.ID, e.Kind, e.AreaKm2, want)
			}
			if e.Label != e.Kind.Label() {
				p.errorf("report %s: %s label %q", r.ID, e.Kind, e.Label)
			}
		}
	}
	return p
}

// ── Phase 3: Narratives ──

func validateNarratives(reports []domain.EffectReport) *phase {
	p := &phase{name: "Phase 3: Narratives (banding)"}

	for i := range reports {
		r := &reports[i]
		for _, e := range r.Effects {
			want, err := domain.DescribeEffect(e.Kind, e.RadiusMeters, r.YieldKt)
			if err != nil {
				p.errorf("report %s: describe %s: %v", r.ID, e.Kind, err)
				continue
			}
			if e.Narrative != want {
				p.errorf("report %s: %s narrative %s/%s, want %s/%s",
					r.ID, e.Kind, e.Narrative.Band, e.Narrative.Severity, want.Band, want.Severity)
			}
		}
	}
	return p
}

// ── Phase 4: Recomputation ──

func validateRecomputation(catalog *domain.Catalog, defaultLaw string, requests []domain.DetonationRequest, reports []domain.EffectReport) *phase {
	p := &phase{name: "Phase 4: Recomputation (domain.BuildReport)"}

	byRequest := make(map[string]*domain.EffectReport, len(reports))
	for i := range reports {
		byRequest[reports[i].RequestID] = &reports[i]
	}

	for _, req := range requests {
		got, ok := byRequest[req.ID]
		if !ok {
			continue
		}
		want, err := domain.BuildReport(req, catalog, defaultLaw)
		if err != nil {
			p.errorf("request %q: %v", req.ID, err)
			continue
		}
		if diff := cmp.Diff(want, *got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			p.errorf("request %q: report mismatch (-recomputed +fixture):\n%s", req.ID, diff)
		}
	}
	return p
}
