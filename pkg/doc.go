// Package pkg provides the libraries behind gridtrace, a traversal engine
// for electrical network models.
//
// # Overview
//
// The pkg directory is organized into these areas:
//
//  1. [trace] - The generic traversal engine: search order, visit tracking,
//     stop conditions, callbacks and branch traversals, plus the
//     connected-equipment trace over [trace.Equipment]
//  2. [network] - An in-memory network model (equipment, terminals,
//     connectivity nodes) with JSON, TOML and YAML files
//  3. [render/nodelink] - Graphviz diagrams of a network with a trace overlay
//  4. [observability] - Hooks for trace and load events, with a Prometheus
//     implementation in [observability/promhooks]
//  5. [errors] - Coded errors shared by all packages
//
// # Architecture
//
// The typical data flow through gridtrace:
//
//	network file (.json/.toml/.yaml)
//	         ↓
//	    [network] package (load + validate)
//	         ↓
//	    [trace] package (walk from start equipment)
//	         ↓
//	    visited equipment, callbacks, DOT/SVG diagram
//
// # Quick Start
//
//	n, err := network.ReadFile("feeder.yaml")
//	if err != nil {
//	    return err
//	}
//	src, _ := n.Equipment("src")
//
//	tr, err := trace.NewEquipmentTrace(trace.BreadthFirst, trace.CurrentState)
//	if err != nil {
//	    return err
//	}
//	tr.AddStopCondition(func(s trace.Step) bool { return s.Equipment.ID() == "cb7" })
//	if err := tr.AddStart(trace.StartStep(src)); err != nil {
//	    return err
//	}
//	err = tr.Run(ctx)
//
// Traversals are not tied to the network model: [trace.New] walks any item
// type given a neighbour function.
package pkg
