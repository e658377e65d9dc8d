package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chromalab/go-chroma/export"
	"github.com/chromalab/go-chroma/results"
)

func exportCmd(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "Export format: csv, png, oven-png")
	output := fs.String("output", "", "Output file (default derives from result filename)")
	width := fs.Int("width", 1024, "Chart width in pixels (png formats)")
	height := fs.Int("height", 512, "Chart height in pixels (png formats)")
	detector := fs.String("detector", "", "Export a single detector trace as CSV instead of the KPI table")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma export <result.json> [options]

Export a stored run result as a CSV table or PNG chart.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # KPI table
  chroma export result.json --format csv --output kpi.csv

  # Raw trace of one detector
  chroma export result.json --format csv --detector FID1 --output trace.csv

  # Chromatogram chart
  chroma export result.json --format png --output chromatogram.png
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("result file required")
	}

	result, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read result: %w", err)
	}

	out := *output
	if out == "" {
		base := strings.TrimSuffix(fs.Arg(0), filepath.Ext(fs.Arg(0)))
		switch *format {
		case "csv":
			out = base + ".csv"
		case "png", "oven-png":
			out = base + ".png"
		default:
			return fmt.Errorf("unknown format %q", *format)
		}
	}

	switch *format {
	case "csv":
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create file: %w", err)
		}
		defer f.Close()
		if *detector != "" {
			c, ok := findChromatogram(result, *detector)
			if !ok {
				return fmt.Errorf("detector %q not in result", *detector)
			}
			if err := export.WriteChromatogramCSV(c, f); err != nil {
				return err
			}
		} else if err := export.WriteKpiCSV(result, f); err != nil {
			return err
		}
	case "png":
		if err := export.SaveChromatogramPNG(result, out, *width, *height); err != nil {
			return err
		}
	case "oven-png":
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create file: %w", err)
		}
		defer f.Close()
		if err := export.WriteOvenPNG(result, f, *width, *height); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	fmt.Printf("Exported to %s\n", out)
	return nil
}

func findChromatogram(r *results.RunResult, detectorID string) (results.Chromatogram, bool) {
	for _, c := range r.Chromatograms {
		if c.DetectorID == detectorID {
			return c, true
		}
	}
	return results.Chromatogram{}, false
}
