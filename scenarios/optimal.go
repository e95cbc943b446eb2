package scenarios

import (
	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/logger"
	"github.com/kpushkaryov/evader/pkg/scenario"
)

// OptimalScenario is the workbench variant: the optimizing pilot with
// the objective selectable as a parameter, for comparing strategies on
// the same layout without editing code.
type OptimalScenario struct {
	evadingEngagement
}

// NewOptimalScenario creates the scenario.
func NewOptimalScenario() scenario.Scenario {
	return &OptimalScenario{evadingEngagement: evadingEngagement{
		engagement: engagement{
			name:        "optimal",
			description: "Evading pilot with a selectable objective and solver knobs",
		},
	}}
}

// Parameters returns the objective selector plus every shared knob.
func (s *OptimalScenario) Parameters() []scenario.Parameter {
	params := []scenario.Parameter{
		{
			Name:        "objective",
			Type:        "string",
			Description: "Objective the solver minimizes",
			Default:     control.ObjectiveMinDistance.String(),
			Options: []string{
				control.ObjectiveFuel.String(),
				control.ObjectiveMinDistance.String(),
				control.ObjectiveNextDistance.String(),
			},
		},
		survivalRadiusParameter(0),
	}
	params = append(params, controllerParameters()...)
	return append(params, commonParameters()...)
}

// Configure applies the parameters, parsing the objective name.
func (s *OptimalScenario) Configure(params map[string]interface{}) error {
	objective := control.ObjectiveMinDistance
	if name, ok := stringParam(params, "objective"); ok {
		parsed, err := control.ParseObjective(name)
		if err != nil {
			return err
		}
		objective = parsed
	}
	return s.configureController(params, objective, 0)
}

// init registers the scenario
func init() {
	if err := scenario.DefaultRegistry.Register("optimal", NewOptimalScenario); err != nil {
		logger.Errorf("Failed to register scenario: %v", err)
	}
}
