// Package render groups the diagram renderers.
//
// The [nodelink] subpackage draws a network as an undirected node-link
// diagram in Graphviz DOT, optionally rendered to SVG in process. Visited
// and start equipment from a trace are highlighted.
//
// Only SVG and DOT output are produced.
package render
