package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chromalab/go-chroma/results"
)

func compare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	tolerance := fs.Float64("tolerance", 5.0, "Retention time match tolerance in seconds")
	outputJSON := fs.Bool("json", false, "Output comparison as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma compare <baseline.json> <variant.json> [options]

Align the peak tables of two run results channel by channel and report
retention time, area and height deltas.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("two result files required")
	}

	a, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}
	b, err := results.ReadJSON(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("read variant: %w", err)
	}

	comparisons := results.Compare(a, b, *tolerance)

	if *outputJSON {
		data, err := json.MarshalIndent(comparisons, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("=== Comparison: %s vs %s ===\n", fs.Arg(0), fs.Arg(1))
	for _, c := range comparisons {
		fmt.Printf("\nDetector %s: %d matched, %d only in A, %d only in B\n",
			c.DetectorID, len(c.Matched), len(c.OnlyA), len(c.OnlyB))
		for _, d := range c.Matched {
			name := d.Analyte
			if name == "" {
				name = "(unlabeled)"
			}
			fmt.Printf("  %-20s rt %7.1fs -> %7.1fs (%+.2fs)  area %+.3g  height %+.3g\n",
				name, d.RTa, d.RTb, d.DeltaRT, d.DeltaArea, d.DeltaHeight)
		}
	}
	return nil
}
