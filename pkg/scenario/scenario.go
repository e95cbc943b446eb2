// Package scenario defines the pluggable engagement scenarios the CLI
// runs: the scenario contract, a registry of named factories, and the
// parameter schema used to prompt for or validate scenario settings.
package scenario

import (
	"context"

	"github.com/kpushkaryov/evader/pkg/report"
)

// Scenario defines the interface that all engagement scenarios must implement
type Scenario interface {
	// Name returns the registry name of the scenario
	Name() string

	// Description returns a brief description of what the scenario demonstrates
	Description() string

	// Parameters returns the schema of the scenario's tunable parameters
	Parameters() []Parameter

	// Configure sets up the scenario with the provided parameters
	Configure(params map[string]interface{}) error

	// Run executes the scenario, recording events and metrics
	Run(ctx context.Context, rec *report.Recorder) error

	// Stop ends a running scenario at the next tick boundary
	Stop()
}

// Parameter defines a configurable parameter for a scenario
type Parameter struct {
	Name        string
	Type        string // integer, float, string, duration, boolean
	Description string
	Default     interface{}
	Required    bool
	Min         interface{}
	Max         interface{}
	Options     []string // for string enums
}
