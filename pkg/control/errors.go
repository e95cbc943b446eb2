package control

import "errors"

// Sentinel errors of the controller core. ErrInvalidArgument reports
// malformed inputs and is fatal for the tick. ErrOptimizationFailed reports
// a solver that exhausted its restarts or time budget without a feasible
// trajectory; the facade always recovers it with the fallback maneuver.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOptimizationFailed = errors.New("optimization failed")
)
