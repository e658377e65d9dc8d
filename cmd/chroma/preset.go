package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/store"
)

const defaultDBPath = "chroma.db"

func preset(args []string) error {
	fs := flag.NewFlagSet("preset", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "Preset database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma preset <subcommand> [options]

Manage stored method presets.

Subcommands:
  list                       List preset names
  save <name> <method.json>  Save or replace a preset (--sample optional)
  show <name>                Print a preset as JSON
  delete <name>              Remove a preset

Options:
`)
		fs.PrintDefaults()
	}

	if len(args) < 1 {
		fs.Usage()
		return fmt.Errorf("subcommand required")
	}
	sub := args[0]

	// The sample flag only applies to save but parsing it up front keeps
	// one flag set for every subcommand.
	samplePath := fs.String("sample", "", "Sample profile to store with the preset (save only)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	switch sub {
	case "list":
		names, err := st.ListPresets()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No presets stored")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil

	case "save":
		if fs.NArg() < 2 {
			return fmt.Errorf("usage: chroma preset save <name> <method.json>")
		}
		name := fs.Arg(0)
		params, err := loadParameters(fs.Arg(1))
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
		if err := st.SavePreset(&store.Preset{Name: name, Params: params, Profile: profile}); err != nil {
			return fmt.Errorf("save preset: %w", err)
		}
		fmt.Printf("Preset %q saved\n", name)
		return nil

	case "show":
		if fs.NArg() < 1 {
			return fmt.Errorf("usage: chroma preset show <name>")
		}
		p, err := st.GetPreset(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("get preset: %w", err)
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil

	case "delete":
		if fs.NArg() < 1 {
			return fmt.Errorf("usage: chroma preset delete <name>")
		}
		if err := st.DeletePreset(fs.Arg(0)); err != nil {
			return fmt.Errorf("delete preset: %w", err)
		}
		fmt.Printf("Preset %q deleted\n", fs.Arg(0))
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}
