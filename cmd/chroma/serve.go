package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/chromalab/go-chroma/server"
	"github.com/chromalab/go-chroma/store"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	dbPath := fs.String("db", defaultDBPath, "Preset and run history database ('' disables persistence)")
	dev := fs.Bool("dev", false, "Development logging (human-readable, debug level)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: chroma serve [options]

Start the HTTP API server. Simulations run per request; stage progress
streams to websocket clients on /ws.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	var logger *zap.Logger
	var err error
	if *dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	var st *store.Store
	if *dbPath != "" {
		st, err = store.Open(*dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	srv := server.New(st, logger)
	logger.Info("listening", zap.String("addr", *addr), zap.Bool("persistence", st != nil))
	return http.ListenAndServe(*addr, srv.Router)
}
