package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/blast-effects-service/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAssessment(w io.Writer, a domain.Assessment) {
	fmt.Fprintf(w, "Yield: %g kt (%s)\n\n", a.YieldKt, a.Law)
	for _, e := range a.Effects {
		fmt.Fprintln(w, e.Summary())
		fmt.Fprintf(w, "  [%s] %s\n", e.Narrative.Severity, e.Narrative.Text)
	}
}

func printNarrative(w io.Writer, n domain.SeverityNarrative) {
	fmt.Fprintf(w, "%s: %s band, %s\n", n.Kind.Label(), n.Band, n.Severity)
	fmt.Fprintln(w, n.Text)
}

func printLaws(w io.Writer, laws []domain.ScalingLaw) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "NAME\tROOT")
	for _, k := range domain.AllEffectKinds() {
		fmt.Fprintf(tw, "\t%s", k)
	}
	fmt.Fprintln(tw)
	for _, l := range laws {
		fmt.Fprintf(tw, "%s\t%s", l.Name, l.Root)
		for _, k := range domain.AllEffectKinds() {
			c := l.Coefficients[k]
			fmt.Fprintf(tw, "\t%g m @ %g kt", c.Meters, c.ReferenceKt)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func printPresets(w io.Writer, presets []domain.Preset) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tYIELD (kt)")
	for _, p := range presets {
		fmt.Fprintf(tw, "%s\t%g\n", p.Name, p.YieldKt)
	}
	tw.Flush()
}
