// Package nodelink renders networks and trace results as node-link diagrams.
//
// # Overview
//
// This package produces undirected graph drawings using Graphviz. Equipment
// appears as boxes; connectivity nodes appear as small points joined to the
// terminals attached to them. A trace result can be overlaid: visited
// equipment is filled, start equipment is outlined, and equipment that is
// open in the chosen network state is dashed.
//
// # Usage
//
// Convert a network to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(n, nodelink.Options{Visited: visited})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: equipment labels include kind, name and metadata, and edges
//     carry terminal numbers
//   - State: which switch positions count as open
//   - Visited, Starts: the trace overlay
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be saved with
// a .dot extension and processed by any Graphviz tool, or rendered in
// process with [RenderSVG].
package nodelink
