package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/validation"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	samplePath := fs.String("sample", "", "Sample profile file (optional)")
	outputJSON := fs.Bool("json", false, "Output results as JSON")
	outputFile := fs.String("output", "", "Write JSON results to file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma validate <method.json> [options]

Validate method and sample documents without running a simulation.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Checks performed:
  - Structural integrity (inlets, columns, detectors, oven program present)
  - Oven program (hold times, ramp direction, step contiguity)
  - Inlet modes (split ratio, purge time, total flow)
  - Column geometry and flow mode parameters
  - Detector types and acquisition rates
  - Sample profile (with --sample: analyte names, concentrations)

Examples:
  # Method only
  chroma validate method.json

  # Method plus sample
  chroma validate method.json --sample sample.json

  # Save validation report
  chroma validate method.json --json --output validation.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("method file required")
	}

	params, err := loadParameters(fs.Arg(0))
	if err != nil {
		return err
	}

	var profile *method.SampleProfile
	if *samplePath != "" {
		profile, err = loadProfile(*samplePath)
		if err != nil {
			return err
		}
	}

	result := validation.NewValidator(params, profile).Validate()

	if *outputJSON || *outputFile != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		if *outputFile != "" {
			if err := os.WriteFile(*outputFile, data, 0644); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Validation results written to %s\n", *outputFile)
		} else {
			fmt.Println(string(data))
		}
	} else {
		printValidationResults(result)
	}

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func printValidationResults(result *validation.Result) {
	fmt.Println("=== Method Validation ===")
	fmt.Printf("Inlets: %d  Columns: %d  Detectors: %d  Oven steps: %d",
		result.Summary.Inlets, result.Summary.Columns,
		result.Summary.Detectors, result.Summary.OvenSteps)
	if result.Summary.Analytes > 0 {
		fmt.Printf("  Analytes: %d", result.Summary.Analytes)
	}
	fmt.Println()

	for _, issue := range result.Errors {
		fmt.Printf("  ERROR [%s] %s: %s\n", issue.Category, issue.Field, issue.Message)
		if issue.Suggestion != "" {
			fmt.Printf("        hint: %s\n", issue.Suggestion)
		}
	}
	for _, issue := range result.Warnings {
		fmt.Printf("  WARN  [%s] %s: %s\n", issue.Category, issue.Field, issue.Message)
		if issue.Suggestion != "" {
			fmt.Printf("        hint: %s\n", issue.Suggestion)
		}
	}

	if result.Valid {
		fmt.Println("Method is valid")
	} else {
		fmt.Printf("Method is invalid (%d errors, %d warnings)\n",
			result.Summary.Errors, result.Summary.Warnings)
	}
}
