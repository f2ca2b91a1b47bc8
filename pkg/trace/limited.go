package trace

import "context"

// Step limits for [LimitedConnected].
const (
	MinLimitedSteps = 1
	MaxLimitedSteps = 100
)

// LimitedConnected finds the equipment within maxSteps connections of any of
// the start equipment. maxSteps is clamped to [MinLimitedSteps,
// MaxLimitedSteps]. The result maps each reached equipment ID to the fewest
// steps needed to reach it; start equipment map to 0.
func LimitedConnected(ctx context.Context, starts []Equipment, maxSteps int, state NetworkState) (map[string]int, error) {
	maxSteps = min(max(maxSteps, MinLimitedSteps), MaxLimitedSteps)

	tr, err := New(QueueNextEquipment(state, QueueOptions{}), Options[Step]{
		Search:            BreadthFirst,
		Tracker:           NewStepTracker(),
		Name:              "limited-connected",
		IgnoreStopOnStart: true,
		ContinueOnStop:    true,
	})
	if err != nil {
		return nil, err
	}

	steps := make(map[string]int)
	tr.AddStopCondition(func(s Step) bool { return s.Depth >= maxSteps })
	tr.AddStepAction(func(s Step, _ bool) {
		id := s.Equipment.ID()
		if d, ok := steps[id]; !ok || s.Depth < d {
			steps[id] = s.Depth
		}
	})

	for _, start := range starts {
		if start == nil {
			continue
		}
		if err := tr.Reset(); err != nil {
			return nil, err
		}
		if err := tr.AddStart(StartStep(start)); err != nil {
			return nil, err
		}
		if err := tr.Run(ctx); err != nil {
			return nil, err
		}
	}
	return steps, nil
}
