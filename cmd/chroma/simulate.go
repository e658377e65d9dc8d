package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chromalab/go-chroma/export"
	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/results"
	"github.com/chromalab/go-chroma/simulator"
)

func simulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	samplePath := fs.String("sample", "", "Sample profile file (required)")
	output := fs.String("output", "", "Output file for the run result (required)")
	seed := fs.Int64("seed", 0, "Noise seed (0 uses the method options)")
	noise := fs.Bool("noise", true, "Add detector noise")
	drift := fs.Bool("drift", true, "Add baseline drift")
	csvOut := fs.Bool("csv", false, "Also write a KPI table next to the result")
	pngOut := fs.Bool("png", false, "Also write a chromatogram PNG next to the result")
	downsample := fs.Int("downsample", 0, "Target points per chromatogram in the output (0 keeps all)")
	quiet := fs.Bool("quiet", false, "Suppress stage progress")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma simulate <method.json> [options]

Run a method and sample through the instrument model.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Basic run
  chroma simulate method.json --sample sample.json --output result.json

  # Deterministic replay with a fixed seed
  chroma simulate method.json --sample sample.json --seed 12345 --output result.json

  # Noise-free ideal trace
  chroma simulate method.json --sample sample.json --noise=false --drift=false --output result.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("method file required")
	}
	if *samplePath == "" {
		fs.Usage()
		return fmt.Errorf("--sample required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	params, err := loadParameters(fs.Arg(0))
	if err != nil {
		return err
	}
	profile, err := loadProfile(*samplePath)
	if err != nil {
		return err
	}

	opts := method.Options{
		IncludeNoise:         *noise,
		IncludeBaselineDrift: *drift,
	}
	if *seed != 0 {
		opts.Seed = *seed
	}

	sim := simulator.New()
	if !*quiet {
		sim.OnStage = func(stage simulator.Stage) {
			fmt.Fprintf(os.Stderr, "  %s\n", stage)
		}
	}

	result, err := sim.Run(context.Background(), params, profile, opts)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	if *downsample > 0 {
		for i := range result.Chromatograms {
			result.Chromatograms[i] = results.Downsample(result.Chromatograms[i], *downsample)
		}
	}

	if err := results.WriteJSON(result, *output); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Printf("Result written to %s (run %s, %.1f ms)\n",
		*output, result.RunID, result.SimulationTimeMs)

	base := strings.TrimSuffix(*output, filepath.Ext(*output))
	if *csvOut {
		name := base + "_kpi.csv"
		if err := export.SaveKpiCSV(result, name); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("KPI table written to %s\n", name)
	}
	if *pngOut {
		name := base + ".png"
		if err := export.SaveChromatogramPNG(result, name, 1024, 512); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		fmt.Printf("Chromatogram written to %s\n", name)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning [%s] %s: %s\n", w.Stage, w.Subject, w.Message)
	}
	return nil
}

func loadParameters(path string) (*method.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read method: %w", err)
	}
	params, err := method.ParseParameters(data)
	if err != nil {
		return nil, fmt.Errorf("parse method: %w", err)
	}
	return params, nil
}

func loadProfile(path string) (*method.SampleProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	profile, err := method.ParseSampleProfile(data)
	if err != nil {
		return nil, fmt.Errorf("parse sample: %w", err)
	}
	return profile, nil
}
