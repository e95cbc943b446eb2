package scenarios

import (
	"context"
	"errors"
	"testing"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/report"
	"github.com/kpushkaryov/evader/pkg/scenario"
)

func TestAllScenariosRegistered(t *testing.T) {
	want := []string{
		"max-min-distance",
		"max-next-distance",
		"min-fuel",
		"no-evasion",
		"optimal",
	}

	got := scenario.DefaultRegistry.List()
	if len(got) != len(want) {
		t.Fatalf("expected %d scenarios, got %v", len(want), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("List[%d] = %s, want %s", i, got[i], name)
		}
	}
}

func TestScenarioParametersWellFormed(t *testing.T) {
	knownTypes := map[string]bool{
		"integer": true, "float": true, "string": true,
		"boolean": true, "duration": true,
	}

	for _, name := range scenario.DefaultRegistry.List() {
		t.Run(name, func(t *testing.T) {
			s, err := scenario.DefaultRegistry.Get(name)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			seen := make(map[string]bool)
			for _, p := range s.Parameters() {
				if seen[p.Name] {
					t.Errorf("duplicate parameter %s", p.Name)
				}
				seen[p.Name] = true
				if !knownTypes[p.Type] {
					t.Errorf("parameter %s has unknown type %s", p.Name, p.Type)
				}
				if p.Default == nil {
					t.Errorf("parameter %s has no default", p.Name)
				}
			}
		})
	}
}

func TestScenarioConfigureDefaults(t *testing.T) {
	for _, name := range scenario.DefaultRegistry.List() {
		t.Run(name, func(t *testing.T) {
			s, err := scenario.DefaultRegistry.Get(name)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if err := s.Configure(map[string]interface{}{}); err != nil {
				t.Errorf("Configure with defaults failed: %v", err)
			}
		})
	}
}

func TestMaxMinDistanceConfigure(t *testing.T) {
	s := NewMaxMinDistanceScenario().(*MaxMinDistanceScenario)

	if err := s.Configure(map[string]interface{}{}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if s.ctrlCfg.Objective != control.ObjectiveMinDistance {
		t.Errorf("expected min_distance objective, got %s", s.ctrlCfg.Objective)
	}
	if s.ctrlCfg.SurvivalRadius != 0 {
		t.Errorf("expected no survival radius, got %g", s.ctrlCfg.SurvivalRadius)
	}
	if s.tmax != defaultTMax || s.timeStep != defaultTimeStep {
		t.Errorf("expected default clock %.0f/%.2f, got %g/%g",
			defaultTMax, defaultTimeStep, s.tmax, s.timeStep)
	}

	// Overrides, including YAML-typed ints for float knobs.
	err := s.Configure(map[string]interface{}{
		"tmax":          30,
		"time_step":     0.1,
		"horizon":       8,
		"target_weight": 0.5,
	})
	if err != nil {
		t.Fatalf("Configure with overrides failed: %v", err)
	}
	if s.tmax != 30 || s.timeStep != 0.1 {
		t.Errorf("expected clock 30/0.1, got %g/%g", s.tmax, s.timeStep)
	}
	if s.ctrlCfg.Horizon != 8 {
		t.Errorf("expected horizon 8, got %d", s.ctrlCfg.Horizon)
	}
	if s.ctrlCfg.TargetWeight != 0.5 {
		t.Errorf("expected target weight 0.5, got %g", s.ctrlCfg.TargetWeight)
	}
	if s.ctrlCfg.TimeStep != 0.1 {
		t.Errorf("controller time step should track the clock, got %g", s.ctrlCfg.TimeStep)
	}
}

func TestMinFuelDefaultSurvivalRadius(t *testing.T) {
	s := NewMinFuelScenario().(*MinFuelScenario)

	if err := s.Configure(map[string]interface{}{}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if s.ctrlCfg.Objective != control.ObjectiveFuel {
		t.Errorf("expected fuel objective, got %s", s.ctrlCfg.Objective)
	}
	if s.ctrlCfg.SurvivalRadius != defaultSurvivalRadius {
		t.Errorf("expected survival radius %g, got %g", defaultSurvivalRadius, s.ctrlCfg.SurvivalRadius)
	}

	if err := s.Configure(map[string]interface{}{"survival_radius": 3.0}); err != nil {
		t.Fatalf("Configure with override failed: %v", err)
	}
	if s.ctrlCfg.SurvivalRadius != 3 {
		t.Errorf("expected survival radius 3, got %g", s.ctrlCfg.SurvivalRadius)
	}
}

func TestOptimalObjectiveSelection(t *testing.T) {
	s := NewOptimalScenario().(*OptimalScenario)

	if err := s.Configure(map[string]interface{}{"objective": "fuel"}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if s.ctrlCfg.Objective != control.ObjectiveFuel {
		t.Errorf("expected fuel objective, got %s", s.ctrlCfg.Objective)
	}

	err := s.Configure(map[string]interface{}{"objective": "banana"})
	if err == nil {
		t.Fatalf("expected error for unknown objective")
	}
	if !errors.Is(err, control.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestConfigureRejectsBadClock(t *testing.T) {
	s := NewNoEvasionScenario()

	if err := s.Configure(map[string]interface{}{"tmax": -1.0}); err == nil {
		t.Errorf("expected error for negative tmax")
	}
	if err := s.Configure(map[string]interface{}{"time_step": 0.0}); err == nil {
		t.Errorf("expected error for zero time step")
	}
	if err := s.Configure(map[string]interface{}{"frame_time": -0.5}); err == nil {
		t.Errorf("expected error for negative frame time")
	}
}

func TestNoEvasionShortRun(t *testing.T) {
	s := NewNoEvasionScenario()
	if err := s.Configure(map[string]interface{}{"tmax": 0.2}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	rec := report.NewRecorder("no-evasion-short")
	if err := s.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 0.2 s is far too short for either launcher to reach the
	// aircraft, so the run must end with a survival.
	if rec.Outcome() != report.OutcomeSurvived {
		t.Errorf("expected %s, got %s", report.OutcomeSurvived, rec.Outcome())
	}
}
