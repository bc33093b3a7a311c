package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"hotpath/internal/callgraph"
	"hotpath/internal/calltree"
	"hotpath/internal/config"
	"hotpath/internal/output"
	"hotpath/internal/render"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

// treeFlags are the settings shared by tree and batch.
type treeFlags struct {
	fs         *flag.FlagSet
	configPath *string
	delimiter  *string
	depth      *uint
	upcall     *bool
	stops      stringList
	verbose    *bool
}

func addTreeFlags(fs *flag.FlagSet) *treeFlags {
	tf := &treeFlags{fs: fs}
	tf.configPath = fs.String("config", "", "YAML settings file")
	tf.delimiter = fs.String("delimiter", config.DefaultDelimiter, "block delimiter")
	tf.depth = fs.Uint("depth", config.DefaultDepth, "expanded levels")
	tf.upcall = fs.Bool("upcall", false, "expand callers instead of callees")
	fs.Var(&tf.stops, "stop", "stop symbol pattern (repeatable)")
	tf.verbose = fs.Bool("verbose", false, "debug logging")
	return tf
}

// resolve merges the config file with the flags set on the command line.
// Explicit flags win; stop patterns from both are combined.
func (tf *treeFlags) resolve() (delimiter string, opts calltree.Options, err error) {
	cfg, err := config.Load(*tf.configPath)
	if err != nil {
		return "", opts, err
	}
	delimiter = cfg.EffectiveDelimiter()
	opts = cfg.Options()

	tf.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delimiter":
			delimiter = *tf.delimiter
		case "depth":
			opts.Depth = *tf.depth
		case "upcall":
			opts.Upcall = *tf.upcall
		}
	})
	opts.StopSymbols = append(opts.StopSymbols, tf.stops...)
	return delimiter, opts, nil
}

func cmdTree(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	in := fs.String("in", "", "sanitized capture file")
	key := fs.String("key", "", "root symbol (exact, else substring)")
	jsonOut := fs.String("json", "", "write the report as JSON")
	dotOut := fs.String("dot", "", "write the tree as DOT")
	latticeOut := fs.String("lattice", "", "write the folded call graph as DOT")
	sitesOut := fs.String("callsites", "", "write per-function call sites as DOT")
	htmlOut := fs.String("html", "", "write an HTML summary")
	svg := fs.Bool("svg", false, "render the --dot output to SVG with graphviz")
	tf := addTreeFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *key == "" {
		return fmt.Errorf("--in and --key are required")
	}
	setupLogging(*tf.verbose)

	delimiter, opts, err := tf.resolve()
	if err != nil {
		return err
	}

	res, err := calltree.CreateTree(*in, delimiter, *key, opts)
	if err != nil {
		return err
	}
	report := output.NewReport(*key, opts, res)
	slog.Info("tree.done", "key", *key, "mode", report.Mode, "depth", opts.Depth,
		"blocks", res.Blocks, "dependencies", report.Dependencies, "unreliable", res.Unreliable)

	if err := render.Text(os.Stdout, res.Root); err != nil {
		return err
	}
	fmt.Printf("\ncumulated dependencies: %d\n", report.Dependencies)
	if res.Unreliable {
		fmt.Fprintln(os.Stderr, "warning: some indirect call arguments may be unreliable")
	}

	return writeArtifacts(report, artifactPaths{
		json:      *jsonOut,
		dot:       *dotOut,
		lattice:   *latticeOut,
		callsites: *sitesOut,
		html:      *htmlOut,
		svg:       *svg,
	})
}

// artifactPaths names the optional outputs of one tree; empty means skip.
type artifactPaths struct {
	json, dot, lattice, callsites, html, text string
	svg                                       bool
}

func writeArtifacts(r *output.Report, p artifactPaths) error {
	title := fmt.Sprintf("%s (%s)", r.Key, r.Mode)
	if p.json != "" {
		if err := output.WriteTreeJSON(p.json, r); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", p.json)
	}
	texts := []struct {
		path string
		gen  func() string
	}{
		{p.text, func() string { return render.TextString(r.Root) }},
		{p.dot, func() string { return render.TreeDOT(r.Root, title, render.NASA) }},
		{p.lattice, func() string { return callgraph.DOT(callgraph.Build(r.Root, r.Mode == output.ModeUpcall), title) }},
		{p.callsites, func() string { return callgraph.CallSitesDOT(r.Root, title) }},
	}
	for _, t := range texts {
		if t.path == "" {
			continue
		}
		text := t.gen()
		if err := output.WriteText(t.path, text); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", t.path, len(text))
	}
	svgLink := ""
	if p.svg && p.dot != "" {
		svgPath := strings.TrimSuffix(p.dot, filepath.Ext(p.dot)) + ".svg"
		if err := runDot(p.dot, svgPath, "svg"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: SVG failed: %v\n", err)
		} else {
			svgLink = filepath.Base(svgPath)
			fmt.Fprintf(os.Stderr, "wrote %s\n", svgPath)
		}
	}
	if p.html != "" {
		var buf bytes.Buffer
		if err := render.WriteHTML(&buf, r, svgLink); err != nil {
			return err
		}
		if err := output.WriteText(p.html, buf.String()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", p.html, buf.Len())
	}
	return nil
}

func runDot(dotPath, outPath, format string) error {
	cmd := exec.Command("dot", "-T"+format, "-o", outPath, dotPath)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
