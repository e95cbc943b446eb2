package control

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Objective:       ObjectiveMinDistance,
		Horizon:         5,
		TimeStep:        0.1,
		MaxAccel:        5,
		MaxSpeed:        20,
		SurvivalRadius:  2,
		TargetWeight:    0.3,
		SolverTolerance: 1e-6,
		MaxRestarts:     2,
		TimeBudget:      10 * time.Millisecond,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		hasErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero target weight", func(c *Config) { c.TargetWeight = 0 }, false},
		{"zero survival radius", func(c *Config) { c.SurvivalRadius = 0 }, false},
		{"zero time budget", func(c *Config) { c.TimeBudget = 0 }, false},
		{"zero restarts", func(c *Config) { c.MaxRestarts = 0 }, false},
		{"unknown objective", func(c *Config) { c.Objective = Objective(99) }, true},
		{"zero horizon", func(c *Config) { c.Horizon = 0 }, true},
		{"negative horizon", func(c *Config) { c.Horizon = -3 }, true},
		{"zero time step", func(c *Config) { c.TimeStep = 0 }, true},
		{"infinite time step", func(c *Config) { c.TimeStep = math.Inf(1) }, true},
		{"zero max accel", func(c *Config) { c.MaxAccel = 0 }, true},
		{"NaN max speed", func(c *Config) { c.MaxSpeed = math.NaN() }, true},
		{"negative survival radius", func(c *Config) { c.SurvivalRadius = -1 }, true},
		{"negative target weight", func(c *Config) { c.TargetWeight = -0.5 }, true},
		{"zero solver tolerance", func(c *Config) { c.SolverTolerance = 0 }, true},
		{"negative restarts", func(c *Config) { c.MaxRestarts = -1 }, true},
		{"negative time budget", func(c *Config) { c.TimeBudget = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.hasErr {
				t.Errorf("Validate() error = %v, hasErr %v", err, tt.hasErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Objective != ObjectiveMinDistance {
		t.Errorf("Got objective %v, want %v", cfg.Objective, ObjectiveMinDistance)
	}
	if cfg.Horizon < 1 {
		t.Errorf("Got horizon %d, want at least 1", cfg.Horizon)
	}
}

func TestParseObjective(t *testing.T) {
	tests := []struct {
		name   string
		want   Objective
		hasErr bool
	}{
		{"fuel", ObjectiveFuel, false},
		{"min_distance", ObjectiveMinDistance, false},
		{"next_distance", ObjectiveNextDistance, false},
		{"shortest_path", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObjective(tt.name)
			if (err != nil) != tt.hasErr {
				t.Fatalf("ParseObjective(%q) error = %v, hasErr %v", tt.name, err, tt.hasErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("ParseObjective(%q) error = %v, want ErrInvalidArgument", tt.name, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseObjective(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}
