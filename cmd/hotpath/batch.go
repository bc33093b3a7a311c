package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"hotpath/internal/calltree"
	"hotpath/internal/output"
	"hotpath/internal/section"
)

func cmdBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	in := fs.String("in", "", "sanitized capture file")
	keys := fs.String("keys", "", "comma-separated root symbols")
	outDir := fs.String("out", "", "output directory")
	jobs := fs.Int("jobs", runtime.NumCPU(), "concurrent builds")
	tf := addTreeFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *keys == "" || *outDir == "" {
		return fmt.Errorf("--in, --keys and --out are required")
	}
	setupLogging(*tf.verbose)

	delimiter, opts, err := tf.resolve()
	if err != nil {
		return err
	}
	corpus, err := section.Load(*in, delimiter)
	if err != nil {
		return err
	}
	slog.Info("batch.load.done", "path", *in, "blocks", corpus.Len(), "digest", corpus.Digest())

	var list []string
	listed := make(map[string]bool)
	for _, k := range strings.Split(*keys, ",") {
		if k = strings.TrimSpace(k); k != "" && !listed[k] {
			listed[k] = true
			list = append(list, k)
		}
	}

	bases := artifactBases(list)

	var built, missing atomic.Int32
	g := new(errgroup.Group)
	g.SetLimit(max(*jobs, 1))
	for i, key := range list {
		g.Go(func() error {
			b, err := calltree.NewBuilder(corpus, opts)
			if err != nil {
				return err
			}
			root, err := b.Build(key)
			if errors.Is(err, calltree.ErrKeyNotFound) {
				slog.Warn("batch.key.missing", "key", key)
				missing.Add(1)
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			res := &calltree.Result{
				Root:       root,
				Unreliable: b.Unreliable(),
				Digest:     corpus.Digest(),
				Blocks:     corpus.Len(),
			}
			report := output.NewReport(key, opts, res)
			base := filepath.Join(*outDir, bases[i])
			if err := writeArtifacts(report, artifactPaths{
				json: base + ".json",
				text: base + ".txt",
				dot:  base + ".dot",
			}); err != nil {
				return err
			}
			slog.Debug("batch.key.done", "key", key, "dependencies", report.Dependencies)
			built.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("batch.done", "built", built.Load(), "missing", missing.Load())
	fmt.Fprintf(os.Stderr, "built %d trees in %s (%d keys not found)\n", built.Load(), *outDir, missing.Load())
	return nil
}

// artifactBases returns one distinct file base name per key. Keys that
// sanitize to the same name get a numeric suffix in input order.
func artifactBases(keys []string) []string {
	out := make([]string, len(keys))
	used := make(map[string]bool, len(keys))
	for i, k := range keys {
		base := safeFileName(k)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// safeFileName converts a symbol to a safe filename.
func safeFileName(name string) string {
	r := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
		"!", "_",
		"`", "_",
	)
	s := r.Replace(name)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
