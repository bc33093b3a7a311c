package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"hotpath/internal/capture"
	"hotpath/internal/config"
)

func cmdTrim(args []string) error {
	fs := flag.NewFlagSet("trim", flag.ExitOnError)
	in := fs.String("in", "", "debugger log")
	from := fs.String("from", "", "start marker (line prefix)")
	after := fs.Bool("after", false, "skip the start marker line itself")
	to := fs.String("to", "", "end marker (line prefix)")
	out := fs.String("out", "", "output file")
	verbose := fs.Bool("verbose", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("--in and --out are required")
	}
	if *from == "" || *to == "" {
		return fmt.Errorf("--from and --to are required")
	}
	setupLogging(*verbose)

	if err := capture.Trim(*in, *from, *after, *to, *out); err != nil {
		return err
	}
	fi, err := os.Stat(*out)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", *out, fi.Size())
	return nil
}

func cmdSanitize(args []string) error {
	fs := flag.NewFlagSet("sanitize", flag.ExitOnError)
	in := fs.String("in", "", "capture file, rewritten in place")
	delimiter := fs.String("delimiter", config.DefaultDelimiter, "block delimiter")
	verbose := fs.Bool("verbose", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}
	setupLogging(*verbose)

	stats, err := capture.Sanitize(*delimiter, *in)
	if err != nil {
		return err
	}
	slog.Info("sanitize.done", "path", *in, "kept", stats.Kept, "dropped", stats.Dropped)
	fmt.Fprintf(os.Stderr, "wrote %s (%d blocks kept, %d dropped)\n", *in, stats.Kept, stats.Dropped)
	return nil
}
