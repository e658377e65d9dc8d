package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "simulate":
		if err := simulate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := exportCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "compare":
		if err := compare(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweep(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "preset":
		if err := preset(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("chroma version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`chroma - virtual gas chromatograph

Usage:
  chroma <command> [options]

Commands:
  simulate   Run a method and sample through the instrument model
  validate   Validate method and sample documents
  plot       Generate SVG chromatogram from a run result
  export     Export a run result as CSV tables or PNG charts
  compare    Compare the peak tables of two run results
  sweep      Sweep one method parameter and score each run
  preset     Manage stored method presets
  serve      Start the HTTP API server
  help       Show this help message
  version    Show version information

Examples:
  # Run a simulation
  chroma simulate method.json --sample sample.json --output result.json

  # Validate a method without running it
  chroma validate method.json --sample sample.json

  # Plot a stored result
  chroma plot result.json --output chromatogram.svg

  # Compare two runs
  chroma compare baseline.json variant.json

For command-specific help, run:
  chroma <command> --help`)
}
