package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jasontally/semdiff/internal/debug"
	"github.com/jasontally/semdiff/internal/format"
	"github.com/jasontally/semdiff/internal/history"
	"github.com/jasontally/semdiff/internal/lang"
	"github.com/jasontally/semdiff/internal/pipeline"
	"github.com/jasontally/semdiff/internal/project"
	"github.com/jasontally/semdiff/internal/textdiff"
)

// RunDiff handles the default diff mode (no subcommand).
func RunDiff(args []string) {
	fs := flag.NewFlagSet("semdiff", flag.ExitOnError)

	langFlag := fs.String("lang", "", "Language tag override (e.g. python, go, cisco-ios)")
	unified := fs.Bool("unified", false, "Unified single-column output")
	jsonOut := fs.Bool("json", false, "Output results as JSON")
	fast := fs.Bool("fast", false, "Force the degraded fast path")
	noSliders := fs.Bool("no-sliders", false, "Disable slider correction")
	noMoves := fs.Bool("no-moves", false, "Disable block-move detection")
	noWords := fs.Bool("no-words", false, "Suppress word-level sub-diffs")
	noChars := fs.Bool("no-chars", false, "Suppress character-level sub-diffs")
	noHistory := fs.Bool("no-history", false, "Do not record this run")
	debugFlag := fs.Bool("debug", false, "Write a pipeline trace to the log dir")
	maxRows := fs.Int("max-rows", 200, "Side-by-side row limit (0 = unlimited)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `semdiff: semantic line-by-line diff.

Usage:
    semdiff <old-file> <new-file>       # side-by-side diff
    semdiff --unified <old> <new>       # unified view
    semdiff --json <old> <new>          # machine-readable output
    semdiff --lang go <old> <new>       # language override
    semdiff --fast <old> <new>          # degraded index pairing
    semdiff history [-n 20] [--stats]   # past runs
    semdiff --version

Use "-" for either file to read stdin.
`)
	}

	fs.Parse(reorderArgs(args))

	if fs.NArg() < 2 {
		fs.Usage()
		os.Exit(2)
	}
	oldPath, newPath := fs.Arg(0), fs.Arg(1)

	oldText, err := readInput(oldPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	newText, err := readInput(newPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	paths := project.NewPaths()
	cfg, err := project.LoadConfig(paths.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if *fast {
		// Forcing the degraded path: any input pair with two or more lines
		// in total exceeds a one-line limit.
		cfg.MaxLines = 1
	}
	if *noSliders {
		cfg.CorrectSliders = false
	}
	if *noMoves {
		cfg.MinLinesForMoveDetection = 0
		cfg.MaxLinesForMoveDetection = 0
	}

	language := *langFlag
	if language == "" {
		language = lang.DetectFileType(oldText, oldPath)
	}

	prims := pipeline.Primitives{
		Lines: textdiff.Lines,
		Words: textdiff.Words,
		Chars: textdiff.Chars,
		Parse: lang.StructuralParser(language),
	}
	opts := pipeline.Options{
		Config:   &cfg,
		Modes:    pipeline.ModeToggles{Lines: true, Words: !*noWords, Chars: !*noChars},
		Language: language,
	}
	if *debugFlag {
		tracer := debug.NewTracer(paths.LogDir, "pipeline.log")
		opts.Trace = tracer.Trace
	}

	started := time.Now()
	result, err := pipeline.Run(oldText, newText, prims, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	switch {
	case *jsonOut:
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
	case *unified:
		fmt.Println(format.Unified(result.Results))
		fmt.Println(format.StatsLine(result))
	default:
		fmt.Println(format.SideBySide(result.Results, *maxRows))
		fmt.Println(format.StatsLine(result))
	}

	if !*noHistory {
		recordRun(paths, oldPath, newPath, result, time.Since(started))
	}
}

// recordRun appends this invocation to the history database. Failures are
// silent: history is a convenience, never a reason to fail a diff.
func recordRun(paths project.Paths, oldPath, newPath string, result *pipeline.Result, elapsed time.Duration) {
	if err := paths.EnsureCacheDir(); err != nil {
		return
	}
	db, err := history.Open(paths.HistoryDB)
	if err != nil {
		return
	}
	defer db.Close()
	_ = history.Record(db, history.Run{
		OldFile:    oldPath,
		NewFile:    newPath,
		Language:   result.Language,
		Stats:      result.Stats,
		FastMode:   result.Limit.FastMode,
		Reason:     string(result.Limit.Reason),
		DurationMS: elapsed.Milliseconds(),
	})
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// reorderArgs moves flags before positional args so flag.Parse works
// regardless of argument order (e.g. "old new --json" → "--json old new").
func reorderArgs(args []string) []string {
	var flags, positional []string
	i := 0
	for i < len(args) {
		a := args[i]
		if len(a) > 0 && a[0] == '-' && a != "-" {
			flags = append(flags, a)
			if i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
				// Known boolean flags that don't take a value
				switch a {
				case "--unified", "--json", "--fast", "--no-sliders", "--no-moves",
					"--no-words", "--no-chars", "--no-history", "--debug", "--stats":
					// no value
				default:
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			positional = append(positional, a)
		}
		i++
	}
	return append(flags, positional...)
}
