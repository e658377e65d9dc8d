package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/simulator"
)

func sweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	samplePath := fs.String("sample", "", "Sample profile file (required)")
	param := fs.String("param", "", "Parameter to sweep: flow, split, ramp (required)")
	valueList := fs.String("values", "", "Comma-separated values to sweep (required)")
	metric := fs.String("metric", "resolution", "Score metric: resolution, peaks")
	output := fs.String("output", "", "Write sweep result JSON to file")
	seed := fs.Int64("seed", 1, "Noise seed shared by every run")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma sweep <method.json> [options]

Run the simulation once per value of one method parameter and score
each run, reporting the best value.

Parameters:
  flow    Column flow rate in mL/min (first column, constant flow mode)
  split   Split ratio (first inlet, split mode)
  ramp    Ramp rate in C/min (first ramped oven step)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  chroma sweep method.json --sample sample.json --param flow --values 0.5,1.0,1.5,2.0
  chroma sweep method.json --sample sample.json --param ramp --values 5,10,20 --metric peaks
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("method file required")
	}
	if *samplePath == "" || *param == "" || *valueList == "" {
		fs.Usage()
		return fmt.Errorf("--sample, --param and --values required")
	}

	params, err := loadParameters(fs.Arg(0))
	if err != nil {
		return err
	}
	profile, err := loadProfile(*samplePath)
	if err != nil {
		return err
	}

	values, err := parseValues(*valueList)
	if err != nil {
		return err
	}

	mutate, err := mutatorFor(*param)
	if err != nil {
		return err
	}

	var score simulator.Scorer
	switch *metric {
	case "resolution":
		score = simulator.AverageResolutionScorer()
	case "peaks":
		score = simulator.TotalPeaksScorer()
	default:
		return fmt.Errorf("unknown metric %q", *metric)
	}

	opts := method.Options{IncludeNoise: true, IncludeBaselineDrift: true, Seed: *seed}
	sim := simulator.New()

	result, err := sim.Sweep(context.Background(), params, profile, opts, *param, values, mutate, score)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fmt.Printf("=== Sweep: %s (%s) ===\n", *param, *metric)
	for i := range result.Values {
		marker := " "
		if result.Values[i] == result.Best.Value {
			marker = "*"
		}
		fmt.Printf(" %s %10.4g -> %.4g\n", marker, result.Values[i], result.Scores[i])
	}
	fmt.Printf("Best: %s = %.4g (score %.4g)\n", *param, result.Best.Value, result.Best.Score)

	if *output != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		if err := os.WriteFile(*output, data, 0644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Printf("Sweep result written to %s\n", *output)
	}
	return nil
}

func parseValues(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", p, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no values given")
	}
	return values, nil
}

func mutatorFor(name string) (simulator.Mutator, error) {
	switch name {
	case "flow":
		return func(p *method.Parameters, v float64) {
			if len(p.Columns) == 0 {
				return
			}
			p.Columns[0].FlowMode = method.ConstantFlow{FlowRate: v}
		}, nil
	case "split":
		return func(p *method.Parameters, v float64) {
			if len(p.Inlets) == 0 {
				return
			}
			if m, ok := p.Inlets[0].Mode.(method.SplitMode); ok {
				m.Ratio = v
				p.Inlets[0].Mode = m
			}
		}, nil
	case "ramp":
		return func(p *method.Parameters, v float64) {
			for i := range p.OvenProgram {
				if p.OvenProgram[i].RampRate != 0 {
					p.OvenProgram[i].RampRate = v
					return
				}
			}
		}, nil
	default:
		return nil, fmt.Errorf("unknown parameter %q", name)
	}
}
