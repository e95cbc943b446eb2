package scenarios

import (
	"context"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/report"
	"github.com/kpushkaryov/evader/pkg/scenario"
)

// evadingEngagement is the chassis of the optimizing scenarios: the
// reference layout flown by the receding-horizon controller with some
// fixed or selectable objective.
type evadingEngagement struct {
	engagement
	ctrlCfg control.Config
}

// controllerParameters are the optimizer knobs the evading scenarios
// expose on top of the clock parameters.
func controllerParameters() []scenario.Parameter {
	defaults := control.DefaultConfig()
	return []scenario.Parameter{
		{
			Name:        "horizon",
			Type:        "integer",
			Description: "Planning horizon in ticks",
			Default:     defaults.Horizon,
			Min:         1,
			Max:         50,
		},
		{
			Name:        "target_weight",
			Type:        "float",
			Description: "Weight of target progress against evasion",
			Default:     defaults.TargetWeight,
			Min:         0.0,
			Max:         10.0,
		},
	}
}

// survivalRadiusParameter exposes the hard separation constraint with a
// scenario-specific default.
func survivalRadiusParameter(def float64) scenario.Parameter {
	return scenario.Parameter{
		Name:        "survival_radius",
		Type:        "float",
		Description: "Minimum missile separation enforced on solutions, 0 disables",
		Default:     def,
		Min:         0.0,
		Max:         50.0,
	}
}

// configureController applies the clock parameters, then builds the
// controller configuration for the given objective.
func (e *evadingEngagement) configureController(params map[string]interface{}, objective control.Objective, survivalRadius float64) error {
	if err := e.engagement.configure(params); err != nil {
		return err
	}

	cfg := control.DefaultConfig()
	cfg.Objective = objective
	cfg.TimeStep = e.timeStep
	cfg.MaxAccel = aircraftMaxAccel
	cfg.MaxSpeed = aircraftMaxSpeed
	cfg.SurvivalRadius = survivalRadius

	if v, ok := intParam(params, "horizon"); ok {
		cfg.Horizon = v
	}
	if v, ok := floatParam(params, "target_weight"); ok {
		cfg.TargetWeight = v
	}
	if v, ok := floatParam(params, "survival_radius"); ok {
		cfg.SurvivalRadius = v
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	e.ctrlCfg = cfg
	return nil
}

// Run flies the engagement with a fresh controller.
func (e *evadingEngagement) Run(ctx context.Context, rec *report.Recorder) error {
	pilot, err := control.New(e.ctrlCfg)
	if err != nil {
		return err
	}
	return e.run(ctx, rec, pilot)
}
