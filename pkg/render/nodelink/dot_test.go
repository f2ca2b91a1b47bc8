package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/gridtrace/pkg/network"
	"github.com/matzehuels/gridtrace/pkg/trace"
)

func testNetwork(t *testing.T) *network.Network {
	t.Helper()
	n := network.New()
	for _, spec := range []struct {
		id, kind string
		nodes    []string
	}{
		{"src", "source", []string{"n1"}},
		{"sw1", "switch", []string{"n1", "n2"}},
		{"load", "load", []string{"n2"}},
	} {
		if _, err := n.AddEquipment(spec.id, spec.kind, len(spec.nodes)); err != nil {
			t.Fatalf("AddEquipment(%q) error = %v", spec.id, err)
		}
		for i, node := range spec.nodes {
			if err := n.Connect(spec.id, i+1, node); err != nil {
				t.Fatalf("Connect(%q, %d) error = %v", spec.id, i+1, err)
			}
		}
	}
	sw, _ := n.Equipment("sw1")
	sw.NormalOpen = true
	return n
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testNetwork(t), Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("ToDOT() output missing graph declaration")
	}
	for _, want := range []string{`"src" [`, `"load" [`, `"cn:n1" [shape=point`, `"src" -- "cn:n1";`, `"sw1" -- "cn:n2";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, "taillabel") {
		t.Error("ToDOT() simple output should not label terminals")
	}
}

func TestToDOT_OpenSwitch(t *testing.T) {
	n := testNetwork(t)

	dot := ToDOT(n, Options{State: trace.NormalState})
	if !strings.Contains(dot, `"sw1" [label="sw1", style="rounded,filled,dashed"]`) {
		t.Errorf("ToDOT() normally open switch not dashed:\n%s", dot)
	}

	dot = ToDOT(n, Options{State: trace.CurrentState})
	if strings.Contains(dot, "dashed") {
		t.Error("ToDOT() currently closed switch drawn dashed")
	}
}

func TestToDOT_Overlay(t *testing.T) {
	dot := ToDOT(testNetwork(t), Options{
		Visited: map[string]bool{"src": true, "sw1": true},
		Starts:  []string{"src"},
	})

	if got := strings.Count(dot, "#c6f6d5"); got != 2 {
		t.Errorf("ToDOT() filled %d equipment, want 2", got)
	}
	if !strings.Contains(dot, `"src" [label="src", style="rounded,filled", fillcolor="#c6f6d5", penwidth=3]`) {
		t.Errorf("ToDOT() start equipment not outlined:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	n := testNetwork(t)
	load, _ := n.Equipment("load")
	load.Name = "Pump"
	load.Meta["rating_kw"] = 75
	load.Terminal(1).SetConnected(false)

	dot := ToDOT(n, Options{Detailed: true})

	if !strings.Contains(dot, `taillabel="2"`) {
		t.Error("ToDOT() detailed output missing terminal numbers")
	}
	if !strings.Contains(dot, `"load" -- "cn:n2" [taillabel="1", style=dotted]`) {
		t.Errorf("ToDOT() disconnected terminal not dotted:\n%s", dot)
	}
	if !strings.Contains(dot, `kind: load\nname: Pump\nrating_kw: 75`) {
		t.Errorf("ToDOT() detailed label wrong:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	n := testNetwork(t)
	src, _ := n.Equipment("src")

	if got := fmtLabel(src, false); got != "src" {
		t.Errorf("fmtLabel() simple = %q, want %q", got, "src")
	}
	if got := fmtLabel(src, true); got != "src\nkind: source" {
		t.Errorf("fmtLabel() detailed = %q", got)
	}

	bare, _ := network.New().AddEquipment("x", "", 0)
	if got := fmtLabel(bare, true); got != "x" {
		t.Errorf("fmtLabel() detailed without fields = %q, want %q", got, "x")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="83pt" height="44pt" viewBox="0.00 0.00 83.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 83.00 44.00" width="83" height="44">`
	if !strings.Contains(got, want) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if !strings.HasSuffix(got, "<g/></svg>") {
		t.Error("normalizeViewBox() dropped content")
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed svg without viewBox")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(t.Context(), ToDOT(testNetwork(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not svg")
	}

	if _, err := RenderSVG(t.Context(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() expected error for malformed DOT")
	}
}
