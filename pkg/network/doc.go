// Package network provides an in-memory electrical network model.
//
// # Overview
//
// A [Network] holds [Equipment] joined through [ConnectivityNode] values.
// Each piece of equipment has numbered [Terminal] connection points; every
// terminal attached to the same connectivity node is connected to every
// other. Equipment implements [trace.Equipment], so a network can be walked
// directly by the traversal engine:
//
//	n := network.New()
//	n.AddEquipment("src", "source", 1)
//	n.AddEquipment("cb1", "breaker", 2)
//	n.Connect("src", 1, "n1")
//	n.Connect("cb1", 1, "n1")
//
//	cb1, _ := n.Equipment("cb1")
//	tr, _ := trace.NewEquipmentTrace(trace.BreadthFirst, trace.NormalState)
//	tr.AddStart(trace.StartStep(cb1))
//	tr.Run(ctx)
//
// # Switch State
//
// Equipment carries both its designed (normal) and live (current) switch
// position and service status. [Equipment.Open] reports the position for a
// [trace.NetworkState]; traversals reach open equipment but do not cross it.
//
// # Files
//
// Networks serialize to JSON, TOML or YAML (see [File]). The format is
// chosen from the file extension:
//
//	n, err := network.ReadFile("feeder.yaml")
//	err = network.WriteFile(n, "feeder.json")
//
// # Concurrency
//
// A Network is not safe for concurrent mutation. Traversals only read it,
// and may run in parallel over the same network.
//
// [trace.Equipment]: github.com/matzehuels/gridtrace/pkg/trace.Equipment
// [trace.NetworkState]: github.com/matzehuels/gridtrace/pkg/trace.NetworkState
package network
