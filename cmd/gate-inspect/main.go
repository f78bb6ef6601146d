package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/statemux/gated/pkg/journal"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to action journal DB")
	last := flag.Int("last", 20, "show N most recent entries")
	phase := flag.String("phase", "", "filter to one phase (handled|dispatched)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gate-inspect --db path/to/journal.db [--last N] [--phase handled|dispatched] [--json]")
		os.Exit(2)
	}

	store, err := journal.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(store, *phase, *last, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list

type row struct {
	Seq       int64  `json:"seq"`
	Kind      string `json:"kind"`
	Phase     string `json:"phase"`
	Origin    string `json:"origin,omitempty"`
	Payload   string `json:"payload,omitempty"`
	CreatedAt string `json:"created_at"`
}

func run(store *journal.Store, phase string, last int, jsonOut bool) error {
	entries, err := store.List(phase, last)
	if err != nil {
		return err
	}

	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{
			Seq:       e.Seq,
			Kind:      e.Kind,
			Phase:     e.Phase,
			Origin:    e.Origin,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	fmt.Printf("%-6s %-24s %-11s %-16s %s\n", "seq", "kind", "phase", "origin", "created_at")
	for _, r := range rows {
		fmt.Printf("%-6d %-24s %-11s %-16s %s\n", r.Seq, r.Kind, r.Phase, r.Origin, r.CreatedAt)
	}
	fmt.Printf("%d entries\n", len(rows))
	return nil
}

// #endregion list
