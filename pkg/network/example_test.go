package network_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/gridtrace/pkg/network"
	"github.com/matzehuels/gridtrace/pkg/trace"
)

func ExampleDecode() {
	doc := `
equipment:
  - id: src
    kind: source
    terminals: [n1]
  - id: cb1
    kind: breaker
    terminals: [n1, n2]
  - id: sw1
    kind: switch
    terminals: [n2, n3]
    normally_open: true
  - id: load
    kind: load
    terminals: [n3]
`
	n, err := network.Decode(strings.NewReader(doc), network.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}

	src, _ := n.Equipment("src")
	tr, _ := trace.NewEquipmentTrace(trace.BreadthFirst, trace.NormalState)
	tr.AddStepAction(func(s trace.Step, _ bool) { fmt.Println(s) })
	_ = tr.AddStart(trace.StartStep(src))
	_ = tr.Run(context.Background())
	// Output:
	// src@0
	// cb1@1
	// sw1@2
}
