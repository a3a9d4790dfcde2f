package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jasontally/semdiff/internal/format"
	"github.com/jasontally/semdiff/internal/history"
	"github.com/jasontally/semdiff/internal/project"
)

// RunHistory handles the "history" subcommand.
func RunHistory(args []string) {
	fs := flag.NewFlagSet("semdiff history", flag.ExitOnError)
	limit := fs.Int("n", 20, "Number of runs to show")
	stats := fs.Bool("stats", false, "Aggregate statistics instead of a run list")
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Parse(reorderArgs(args))

	paths := project.NewPaths()
	db, err := history.Open(paths.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history at %s: %v\n", paths.HistoryDB, err)
		os.Exit(1)
	}
	defer db.Close()

	if *stats {
		summary, err := history.Summarize(db)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		if *jsonOut {
			b, _ := json.MarshalIndent(summary, "", "  ")
			fmt.Println(string(b))
			return
		}
		fmt.Println(format.SummaryBox(summary))
		return
	}

	runs, err := history.Recent(db, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if *jsonOut {
		b, _ := json.MarshalIndent(runs, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Println(format.HistoryTable(runs))
}
