package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chromalab/go-chroma/plotter"
	"github.com/chromalab/go-chroma/results"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	output := fs.String("output", "", "Output SVG file (required)")
	width := fs.Float64("width", 800, "Plot width in pixels")
	height := fs.Float64("height", 400, "Plot height in pixels")
	oven := fs.Bool("oven", false, "Plot the oven program instead of the chromatograms")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma plot <result.json> [options]

Generate an SVG visualization from a stored run result.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Chromatogram plot
  chroma plot result.json --output chromatogram.svg

  # Oven temperature program
  chroma plot result.json --oven --output oven.svg
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("result file required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	result, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read result: %w", err)
	}

	var svg string
	if *oven {
		svg = plotter.PlotOvenProgram(result, *width, *height)
	} else {
		svg = plotter.PlotChromatograms(result, *width, *height)
	}

	if err := os.WriteFile(*output, []byte(svg), 0644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	fmt.Printf("Plot written to %s\n", *output)
	return nil
}
