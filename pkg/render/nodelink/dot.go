package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridtrace/pkg/network"
	"github.com/matzehuels/gridtrace/pkg/trace"
)

// Options configures network diagram rendering.
type Options struct {
	// Detailed includes kind, name and metadata in equipment labels and
	// terminal numbers on edges. When false, only the equipment ID is shown.
	Detailed bool
	// State decides which switches are drawn open.
	State trace.NetworkState
	// Visited highlights equipment reached by a trace, keyed by ID.
	Visited map[string]bool
	// Starts draws the trace's start equipment with a heavy outline.
	Starts []string
}

// ToDOT converts a network to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Equipment becomes a box and each connectivity node a point joined to the
// terminals attached to it. Equipment open in opts.State has a dashed
// outline; visited equipment is filled.
func ToDOT(n *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	starts := make(map[string]bool, len(opts.Starts))
	for _, id := range opts.Starts {
		starts[id] = true
	}

	for _, e := range n.Equipments() {
		label := fmtLabel(e, opts.Detailed)
		attrs := fmtAttrs(e, label, opts, starts[e.ID()])
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range n.Nodes() {
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.08, label=\"\"];\n", nodeName(c))
		for _, t := range c.Terminals() {
			attrs := []string{}
			if opts.Detailed {
				attrs = append(attrs, fmt.Sprintf("taillabel=%q", strconv.Itoa(t.Sequence())))
			}
			if !t.Connected() {
				attrs = append(attrs, "style=dotted")
			}
			if len(attrs) == 0 {
				fmt.Fprintf(&buf, "  %q -- %q;\n", t.Equipment().ID(), nodeName(c))
				continue
			}
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", t.Equipment().ID(), nodeName(c), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(c *network.ConnectivityNode) string { return "cn:" + c.ID() }

func fmtLabel(e *network.Equipment, detailed bool) string {
	if !detailed {
		return e.ID()
	}

	var parts []string
	if e.Kind != "" {
		parts = append(parts, "kind: "+e.Kind)
	}
	if e.Name != "" {
		parts = append(parts, "name: "+e.Name)
	}
	for _, k := range slices.Sorted(maps.Keys(e.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, e.Meta[k]))
	}
	if len(parts) == 0 {
		return e.ID()
	}
	return e.ID() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(e *network.Equipment, label string, opts Options, start bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	style := "rounded,filled"
	if e.Open(opts.State) {
		style += ",dashed"
	}
	attrs = append(attrs, fmt.Sprintf("style=%q", style))
	if opts.Visited[e.ID()] {
		attrs = append(attrs, "fillcolor=\"#c6f6d5\"")
	}
	if start {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching width and height, so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
