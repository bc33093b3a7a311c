package render

import (
	"fmt"
	"io"

	"hotpath/internal/calltree"
	"hotpath/internal/output"
)

var classLabels = map[calltree.Class]string{
	calltree.HasDependency:      "Expanded dependency",
	calltree.Retpoline:          "Retpoline dispatch",
	calltree.AtEnd:              "Depth bound",
	calltree.StopDisassembly:    "Stop symbol",
	calltree.BodyNotFound:       "Body not found",
	calltree.ImportAddressTable: "Import address table",
	calltree.Indirect:           "Indirect (decoded)",
}

// WriteHTML writes a small HTML page summarizing one tree report.
// svgLink, when set, is linked as the rendered graph.
func WriteHTML(w io.Writer, r *output.Report, svgLink string) error {
	ew := &errWriter{w: w}
	title := fmt.Sprintf("%s (%s, depth %d)", r.Key, r.Mode, r.Depth)

	ew.printf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: "Helvetica Neue", Helvetica, Arial, sans-serif; font-size: 14px; color: #1A1A1A; background: #F5F5F5; margin: 2em; max-width: 900px; }
h1 { font-size: 18px; font-weight: 600; margin-bottom: 0.5em; }
h2 { font-size: 14px; font-weight: 600; margin-top: 1.5em; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
table { border-collapse: collapse; margin: 0.5em 0; }
th, td { text-align: left; padding: 3px 12px 3px 0; font-size: 13px; }
th { font-weight: 600; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.cls { display: inline-block; width: 10px; height: 10px; border-radius: 2px; margin-right: 4px; vertical-align: middle; }
.bar { height: 8px; border-radius: 2px; display: inline-block; vertical-align: middle; }
.warn { color: %s; font-weight: 600; }
a { color: #0B3D91; }
pre { font-family: "Courier New", monospace; font-size: 12px; background: white; padding: 1em; overflow-x: auto; }
</style>
</head>
<body>
`, htmlEscape(title), NASA.UnreliableText)

	ew.printf("<h1>%s</h1>\n", htmlEscape(title))
	if r.Unreliable {
		ew.printf("<p class=\"warn\">Some indirect call arguments were decoded from immediates that may alias unrelated constants.</p>\n")
	}

	// Summary table.
	ew.printf("<h2>Summary</h2>\n<table>\n")
	ew.printf("<tr><td>Blocks in capture</td><td class=\"num\">%d</td></tr>\n", r.Blocks)
	ew.printf("<tr><td>Cumulated dependencies</td><td class=\"num\">%d</td></tr>\n", r.Dependencies)
	if r.Digest != "" {
		ew.printf("<tr><td>Capture digest</td><td class=\"num\">%s</td></tr>\n", htmlEscape(r.Digest))
	}
	ew.printf("</table>\n")

	// Classification breakdown.
	total := 0
	for _, n := range r.Classes {
		total += n
	}
	ew.printf("<h2>Classification</h2>\n<table>\n")
	ew.printf("<tr><th></th><th>Class</th><th>Nodes</th><th></th></tr>\n")
	for _, c := range calltree.Classes() {
		count := r.Classes[c.String()]
		if count == 0 {
			continue
		}
		color := classColor(c, NASA)
		if color == "" {
			color = NASA.EdgeColor
		}
		barW := count * 200 / total
		if barW < 2 {
			barW = 2
		}
		ew.printf("<tr><td><span class=\"cls\" style=\"background:%s\"></span></td><td>%s</td><td class=\"num\">%d</td><td><span class=\"bar\" style=\"width:%dpx;background:%s\"></span></td></tr>\n",
			color, classLabels[c], count, barW, color)
	}
	ew.printf("</table>\n")

	if svgLink != "" {
		ew.printf("<h2>Graph</h2>\n<p><a href=\"%s\">Call tree</a></p>\n", htmlEscape(svgLink))
	}

	ew.printf("<h2>Tree</h2>\n<pre>%s</pre>\n", htmlEscape(TextString(r.Root)))
	ew.printf("</body></html>\n")
	return ew.err
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
