package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/blast-effects-service/internal/domain"
	"github.com/spf13/cobra"
)

type catalogFlags struct {
	lawsFile    string
	presetsFile string
}

func (f *catalogFlags) load() (*domain.Catalog, error) {
	return domain.LoadCatalog(f.lawsFile, f.presetsFile)
}

func newRootCmd() *cobra.Command {
	var cf catalogFlags

	rootCmd := &cobra.Command{
		Use:          "blastcalc",
		Short:        "Estimate blast effect radii for a given yield",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cf.lawsFile, "laws-file", "", "YAML scaling-law table replacing the built-in laws")
	rootCmd.PersistentFlags().StringVar(&cf.presetsFile, "presets-file", "", "YAML preset table replacing the built-in presets")

	rootCmd.AddCommand(assessCmd(&cf))
	rootCmd.AddCommand(describeCmd())
	rootCmd.AddCommand(areaCmd())
	rootCmd.AddCommand(lawsCmd(&cf))
	rootCmd.AddCommand(presetsCmd(&cf))

	return rootCmd
}

func assessCmd(cf *catalogFlags) *cobra.Command {
	var (
		yield  string
		preset string
		law    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Compute every effect radius, area, and narrative for a yield",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (yield == "") == (preset == "") {
				return errors.New("exactly one of --yield or --preset is required")
			}
			catalog, err := cf.load()
			if err != nil {
				return err
			}

			var yieldKt float64
			if yield != "" {
				yieldKt, err = domain.ParseYield(yield)
			} else {
				yieldKt, err = catalog.Preset(strings.ToLower(preset))
			}
			if err != nil {
				return err
			}

			l, err := catalog.Law(law)
			if err != nil {
				return err
			}
			assessment, err := domain.Assess(yieldKt, l)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), assessment)
			}
			printAssessment(cmd.OutOrStdout(), assessment)
			return nil
		},
	}

	cmd.Flags().StringVarP(&yield, "yield", "y", "", "yield in kilotons")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "named yield, see 'blastcalc presets'")
	cmd.Flags().StringVarP(&law, "law", "l", domain.DefaultLawName, "scaling law")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the assessment as JSON")
	return cmd
}

func describeCmd() *cobra.Command {
	var yield string

	cmd := &cobra.Command{
		Use:   "describe KIND RADIUS",
		Short: "Print the severity narrative for one effect ring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseEffectKind(args[0])
			if err != nil {
				return err
			}
			radius, err := parseRadius(args[1])
			if err != nil {
				return err
			}
			yieldKt, err := domain.ParseYield(yield)
			if err != nil {
				return err
			}
			n, err := domain.DescribeEffect(kind, radius, yieldKt)
			if err != nil {
				return err
			}
			printNarrative(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&yield, "yield", "y", "", "yield in kilotons")
	_ = cmd.MarkFlagRequired("yield")
	return cmd
}

func areaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "area RADIUS",
		Short: "Convert a radius in meters to a circular area in km²",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			radius, err := parseRadius(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f km²\n", domain.ComputeArea(radius))
			return nil
		},
	}
}

func lawsCmd(cf *catalogFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "laws",
		Short: "List the available scaling laws",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := cf.load()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), catalog.Laws())
			}
			printLaws(cmd.OutOrStdout(), catalog.Laws())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the laws as JSON")
	return cmd
}

func presetsCmd(cf *catalogFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the named yields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := cf.load()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), catalog.Presets())
			}
			printPresets(cmd.OutOrStdout(), catalog.Presets())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the presets as JSON")
	return cmd
}

func parseRadius(s string) (float64, error) {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRadius, s)
	}
	return r, nil
}
