package scenarios

import (
	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/logger"
	"github.com/kpushkaryov/evader/pkg/scenario"
)

// defaultSurvivalRadius keeps min-fuel solutions one explosion range
// plus a margin away from every missile.
const defaultSurvivalRadius = 6.0

// MinFuelScenario flies the optimizing pilot that spends the least
// fuel while keeping every missile outside the survival radius.
type MinFuelScenario struct {
	evadingEngagement
}

// NewMinFuelScenario creates the scenario.
func NewMinFuelScenario() scenario.Scenario {
	return &MinFuelScenario{evadingEngagement: evadingEngagement{
		engagement: engagement{
			name:        "min-fuel",
			description: "Evading pilot spends minimum fuel while honoring a survival radius",
		},
	}}
}

// Parameters returns the clock and optimizer knobs plus the survival
// radius.
func (s *MinFuelScenario) Parameters() []scenario.Parameter {
	params := []scenario.Parameter{survivalRadiusParameter(defaultSurvivalRadius)}
	params = append(params, controllerParameters()...)
	return append(params, commonParameters()...)
}

// Configure applies the parameters.
func (s *MinFuelScenario) Configure(params map[string]interface{}) error {
	return s.configureController(params, control.ObjectiveFuel, defaultSurvivalRadius)
}

// init registers the scenario
func init() {
	if err := scenario.DefaultRegistry.Register("min-fuel", NewMinFuelScenario); err != nil {
		logger.Errorf("Failed to register scenario: %v", err)
	}
}
