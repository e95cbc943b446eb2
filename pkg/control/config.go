package control

import (
	"fmt"
	"time"
)

// Config is the controller's configuration surface. It is fixed at
// construction time and never mutated afterwards.
type Config struct {
	// Objective selects the scoring strategy.
	Objective Objective
	// Horizon is the number of ticks the optimizer plans over.
	Horizon int
	// TimeStep is the simulation tick length in model seconds.
	TimeStep float64
	// MaxAccel bounds the magnitude of every per-tick acceleration.
	MaxAccel float64
	// MaxSpeed bounds the aircraft speed after every integration step.
	MaxSpeed float64
	// SurvivalRadius is the minimum separation from threats enforced on
	// solutions. Zero disables the constraint.
	SurvivalRadius float64
	// TargetWeight scales the final-horizon target distance term every
	// objective carries.
	TargetWeight float64
	// SolverTolerance is the convergence tolerance; candidate scores within
	// it are treated as ties.
	SolverTolerance float64
	// MaxRestarts is the number of perturbed restart points tried beyond
	// the warm and zero starts.
	MaxRestarts int
	// TimeBudget caps one solve call. Zero means no limit.
	TimeBudget time.Duration
}

// DefaultConfig returns a configuration tuned for the bundled scenarios.
func DefaultConfig() Config {
	return Config{
		Objective:       ObjectiveMinDistance,
		Horizon:         5,
		TimeStep:        0.05,
		MaxAccel:        15,
		MaxSpeed:        20,
		SurvivalRadius:  0,
		TargetWeight:    0.3,
		SolverTolerance: 1e-6,
		MaxRestarts:     4,
		TimeBudget:      50 * time.Millisecond,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	switch c.Objective {
	case ObjectiveFuel, ObjectiveMinDistance, ObjectiveNextDistance:
	default:
		return fmt.Errorf("%w: unknown objective %d", ErrInvalidArgument, int(c.Objective))
	}
	if c.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be at least 1, got %d", ErrInvalidArgument, c.Horizon)
	}
	if !isFiniteScalar(c.TimeStep) || c.TimeStep <= 0 {
		return fmt.Errorf("%w: time step must be positive and finite, got %g", ErrInvalidArgument, c.TimeStep)
	}
	if !isFiniteScalar(c.MaxAccel) || c.MaxAccel <= 0 {
		return fmt.Errorf("%w: max acceleration must be positive and finite, got %g", ErrInvalidArgument, c.MaxAccel)
	}
	if !isFiniteScalar(c.MaxSpeed) || c.MaxSpeed <= 0 {
		return fmt.Errorf("%w: max speed must be positive and finite, got %g", ErrInvalidArgument, c.MaxSpeed)
	}
	if !isFiniteScalar(c.SurvivalRadius) || c.SurvivalRadius < 0 {
		return fmt.Errorf("%w: survival radius must be non-negative and finite, got %g", ErrInvalidArgument, c.SurvivalRadius)
	}
	if !isFiniteScalar(c.TargetWeight) || c.TargetWeight < 0 {
		return fmt.Errorf("%w: target weight must be non-negative and finite, got %g", ErrInvalidArgument, c.TargetWeight)
	}
	if !isFiniteScalar(c.SolverTolerance) || c.SolverTolerance <= 0 {
		return fmt.Errorf("%w: solver tolerance must be positive and finite, got %g", ErrInvalidArgument, c.SolverTolerance)
	}
	if c.MaxRestarts < 0 {
		return fmt.Errorf("%w: max restarts must be non-negative, got %d", ErrInvalidArgument, c.MaxRestarts)
	}
	if c.TimeBudget < 0 {
		return fmt.Errorf("%w: time budget must be non-negative, got %v", ErrInvalidArgument, c.TimeBudget)
	}
	return nil
}
