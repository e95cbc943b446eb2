package scenarios

import (
	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/logger"
	"github.com/kpushkaryov/evader/pkg/scenario"
)

// MaxMinDistanceScenario flies the optimizing pilot that maximizes the
// worst-case missile separation anywhere in the planning horizon.
type MaxMinDistanceScenario struct {
	evadingEngagement
}

// NewMaxMinDistanceScenario creates the scenario.
func NewMaxMinDistanceScenario() scenario.Scenario {
	return &MaxMinDistanceScenario{evadingEngagement: evadingEngagement{
		engagement: engagement{
			name:        "max-min-distance",
			description: "Evading pilot maximizes the worst-case missile separation over the horizon",
		},
	}}
}

// Parameters returns the clock and optimizer knobs.
func (s *MaxMinDistanceScenario) Parameters() []scenario.Parameter {
	return append(controllerParameters(), commonParameters()...)
}

// Configure applies the parameters.
func (s *MaxMinDistanceScenario) Configure(params map[string]interface{}) error {
	return s.configureController(params, control.ObjectiveMinDistance, 0)
}

// init registers the scenario
func init() {
	if err := scenario.DefaultRegistry.Register("max-min-distance", NewMaxMinDistanceScenario); err != nil {
		logger.Errorf("Failed to register scenario: %v", err)
	}
}
