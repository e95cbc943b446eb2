package scenarios

import (
	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/logger"
	"github.com/kpushkaryov/evader/pkg/scenario"
)

// MaxNextDistanceScenario flies the optimizing pilot that maximizes
// the missile separation one tick ahead only. Cheaper and more myopic
// than max-min-distance; the difference between the two is the point
// of running both.
type MaxNextDistanceScenario struct {
	evadingEngagement
}

// NewMaxNextDistanceScenario creates the scenario.
func NewMaxNextDistanceScenario() scenario.Scenario {
	return &MaxNextDistanceScenario{evadingEngagement: evadingEngagement{
		engagement: engagement{
			name:        "max-next-distance",
			description: "Evading pilot maximizes next-tick missile separation, the reactive variant",
		},
	}}
}

// Parameters returns the clock and optimizer knobs.
func (s *MaxNextDistanceScenario) Parameters() []scenario.Parameter {
	return append(controllerParameters(), commonParameters()...)
}

// Configure applies the parameters.
func (s *MaxNextDistanceScenario) Configure(params map[string]interface{}) error {
	return s.configureController(params, control.ObjectiveNextDistance, 0)
}

// init registers the scenario
func init() {
	if err := scenario.DefaultRegistry.Register("max-next-distance", NewMaxNextDistanceScenario); err != nil {
		logger.Errorf("Failed to register scenario: %v", err)
	}
}
