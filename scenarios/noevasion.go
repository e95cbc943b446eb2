package scenarios

import (
	"context"

	"github.com/kpushkaryov/evader/pkg/logger"
	"github.com/kpushkaryov/evader/pkg/report"
	"github.com/kpushkaryov/evader/pkg/scenario"
	"github.com/kpushkaryov/evader/pkg/sim"
)

// NoEvasionScenario flies the homing pilot straight for the target
// with no regard for the launchers underneath. It is the baseline the
// evading scenarios are measured against.
type NoEvasionScenario struct {
	engagement
}

// NewNoEvasionScenario creates the baseline scenario.
func NewNoEvasionScenario() scenario.Scenario {
	return &NoEvasionScenario{engagement: engagement{
		name:        "no-evasion",
		description: "Homing pilot flies straight for the target and ignores missiles",
	}}
}

// Parameters returns the clock knobs.
func (s *NoEvasionScenario) Parameters() []scenario.Parameter {
	return commonParameters()
}

// Configure applies the parameters.
func (s *NoEvasionScenario) Configure(params map[string]interface{}) error {
	return s.configure(params)
}

// Run flies the engagement with the homing pilot.
func (s *NoEvasionScenario) Run(ctx context.Context, rec *report.Recorder) error {
	pilot, err := sim.NewHomingPilot(aircraftMaxAccel, s.timeStep)
	if err != nil {
		return err
	}
	return s.run(ctx, rec, pilot)
}

// init registers the scenario
func init() {
	if err := scenario.DefaultRegistry.Register("no-evasion", NewNoEvasionScenario); err != nil {
		logger.Errorf("Failed to register scenario: %v", err)
	}
}
