// Command sheetd serves the collaborative spreadsheet evaluation core over
// WebSocket: one exclusive grid per connection, JSON messages in, JSON
// messages out.
package main

import (
	"fmt"
	"net/http"
	"os"

	"sheetd/config"
	"sheetd/logging"
	"sheetd/seed"
	"sheetd/transport"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	log := logging.New(logging.ParseLevel(cfg.LogLevel))
	srv := transport.NewServer(log)

	if cfg.SeedPath != "" {
		cells, err := seed.LoadXLSB(cfg.SeedPath)
		if err != nil {
			log.Errorf("seed failed: %v", err)
		} else {
			log.Infof("seeded %d cells from %s", len(cells), cfg.SeedPath)
			srv.SetSeed(cells)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.HandleWebSocket)

	log.Infof("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Errorf("server exited: %v", err)
		return 1
	}
	return 0
}
