package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "trim":
		err = cmdTrim(os.Args[2:])
	case "sanitize":
		err = cmdSanitize(os.Args[2:])
	case "tree":
		err = cmdTree(os.Args[2:])
	case "batch":
		err = cmdBatch(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs the structured logger on stderr.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func usage() { writeUsage(os.Stderr) }

func writeUsage(w io.Writer) {
	fmt.Fprintf(w, `hotpath — call trees from kernel debugger disassembly captures

Usage:
  hotpath trim     --in <log> --from <marker> [--after] --to <marker> --out <file>
                                                Cut a region out of a debugger log
  hotpath sanitize --in <file> [--delimiter <s>]  Drop failed blocks, strip address column
  hotpath tree     --in <file> --key <symbol>     Build one call tree
  hotpath batch    --in <file> --keys a,b --out <dir>
                                                Build trees for several keys concurrently

Tree and batch flags:
  --delimiter <s>    Block delimiter (default "====\n")
  --depth <n>        Expanded levels (default 3)
  --upcall           Expand callers instead of callees
  --config <file>    YAML settings (delimiter, depth, upcall, stop_symbols, retpoline)
  --stop <re>        Stop symbol pattern, repeatable
  --verbose          Debug logging

Tree outputs:
  --json <file>      Write the report as JSON
  --dot <file>       Write the tree as Graphviz DOT
  --svg              Render the --dot output to SVG with graphviz
  --lattice <file>   Write the folded call graph as DOT
  --callsites <file> Write per-function call sites as DOT
  --html <file>      Write an HTML summary

Batch flags:
  --jobs <n>         Concurrent builds (default: number of CPUs)

Sanitize flags:
  --delimiter <s>    Block delimiter (default "====\n")
`)
}
