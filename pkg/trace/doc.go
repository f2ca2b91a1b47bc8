// Package trace walks equipment networks.
//
// The engine is generic over the item type it visits. A caller chooses a
// frontier discipline ([SearchType]), supplies a [QueueNext] function that
// yields the neighbours of an item, seeds the traversal with one or more start
// items and runs it. Registered callbacks observe every visited item:
//
//   - [StopCondition] decides whether expansion stops at an item
//   - [StepAction] runs for every visited item, told whether it is stopping
//   - [BranchAction] runs when a [BranchTraversal] forks
//
// A [Tracker] records visited items so cycles terminate and every reachable
// item is processed once per run. A single tracker is shared by reference
// across every branch of a branch traversal; its Visit method is an atomic
// test-and-set and is the only synchronisation point between branches.
//
// # Equipment traces
//
// Networks plug in through the [Equipment] interface. [QueueNextEquipment]
// adapts any Equipment into a [QueueNext] over [Step] items, excluding the
// edge a step arrived through and honouring open switches for the
// requested [NetworkState]:
//
//	tr, _ := trace.NewEquipmentTrace(trace.BreadthFirst, trace.NormalState)
//	tr.AddStepAction(func(s trace.Step, _ bool) { fmt.Println(s.Equipment.ID()) })
//	_ = tr.AddStart(trace.StartStep(breaker))
//	err := tr.Run(ctx)
//
// # Run states
//
// A traversal moves through [Created], [Seeded] and [Running] and ends in
// [Stopped], [Completed] or [Failed]. A stopped [Traversal] keeps its frontier,
// so calling Run again resumes where it halted. [Traversal.Reset] clears the
// tracker, frontier and seeds while keeping registered callbacks.
//
// # Logging
//
// The engine logs through the charmbracelet logger carried by the context
// (see [WithLogger]). Runs are tagged with a random run id.
package trace
