package control

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/kpushkaryov/evader/pkg/geom"
	"github.com/kpushkaryov/evader/pkg/logger"
)

const (
	maxSolverIterations  = 500
	maxSolverEvaluations = 10000
	convergeIterations   = 25
	boundsPenaltyWeight  = 10.0
	restartOffsetCoeff   = 0.9
)

// optimizer owns one receding-horizon solve: flatten candidate control
// sequences into solver vectors, score them through the objective, and
// pick the best feasible first control.
type optimizer struct {
	cfg    Config
	scorer scorer
	log    logger.Logger
}

func newOptimizer(cfg Config, log logger.Logger) (*optimizer, error) {
	sc, err := newScorer(cfg.Objective, cfg.TargetWeight, cfg.SurvivalRadius)
	if err != nil {
		return nil, err
	}
	return &optimizer{cfg: cfg, scorer: sc, log: log}, nil
}

// solve runs Nelder-Mead from a warm start plus restart candidates and
// returns the first control of the best feasible sequence together with
// the full solution vector for the next tick's warm start. Every raw
// candidate is also considered directly, so the zero sequence and the
// shifted previous solution can never be beaten by a diverged polish.
func (o *optimizer) solve(snap *Snapshot, warm []float64) (ControlDecision, []float64, error) {
	dim := 2 * snap.Horizon
	var deadline time.Time
	if o.cfg.TimeBudget > 0 {
		deadline = time.Now().Add(o.cfg.TimeBudget)
	}

	objective := func(x []float64) float64 {
		controls := reshapeControls(x)
		return o.scorer.score(snap, controls) + boundsPenalty(x, snap.Aircraft.MaxAccel)
	}

	var (
		best         []float64
		bestScore    float64
		haveFeasible bool
	)
	consider := func(x []float64) {
		if !o.feasible(snap, reshapeControls(x)) {
			return
		}
		score := objective(x)
		switch {
		case !haveFeasible:
		case score < bestScore-o.cfg.SolverTolerance:
		case math.Abs(score-bestScore) <= o.cfg.SolverTolerance && floats.Norm(x, 2) < floats.Norm(best, 2):
		default:
			return
		}
		best = append(best[:0], x...)
		bestScore = score
		haveFeasible = true
	}

	settings := &optimize.Settings{
		MajorIterations: maxSolverIterations,
		FuncEvaluations: maxSolverEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   o.cfg.SolverTolerance,
			Iterations: convergeIterations,
		},
	}
	problem := optimize.Problem{Func: objective}

	starts := o.buildStarts(snap, warm, dim)
	attempted := 0
	for _, start := range starts {
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 && attempted > 0 {
				break
			}
			if remaining > 0 {
				settings.Runtime = remaining
			} else {
				settings.Runtime = 0
			}
		}
		attempted++
		consider(start)

		initX := append([]float64(nil), start...)
		result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
		if err != nil || result == nil {
			o.log.Debugf("Solver start %d failed: %v", attempted, err)
			continue
		}
		consider(result.X)
	}

	if !haveFeasible {
		return ControlDecision{}, nil, fmt.Errorf("%w: no feasible trajectory after %d of %d starts",
			ErrOptimizationFailed, attempted, len(starts))
	}

	first := geom.Vector{X: best[0], Y: best[1]}.ClampMagnitude(snap.Aircraft.MaxAccel)
	solution := append([]float64(nil), best...)
	return ControlDecision{Accel: first}, solution, nil
}

// feasible reports whether a candidate keeps every active threat outside
// the survival radius. The check window matches the objective: the myopic
// next-distance evaluator is held only to the first tick, the others to
// the whole horizon.
func (o *optimizer) feasible(snap *Snapshot, controls []ControlDecision) bool {
	if o.cfg.SurvivalRadius <= 0 {
		return true
	}
	var sep float64
	if o.cfg.Objective == ObjectiveNextDistance {
		sep = nextTickSeparation(snap, controls)
	} else {
		_, sep = horizonStats(snap, controls)
	}
	if math.IsInf(sep, 1) {
		return true
	}
	return sep >= o.cfg.SurvivalRadius
}

// buildStarts assembles the solver start list: the previous solution
// shifted one tick with a zero tail, the zero sequence, and MaxRestarts
// axis-aligned perturbations at a decaying fraction of the acceleration
// limit. Deterministic restarts keep repeated solves on identical
// snapshots identical.
func (o *optimizer) buildStarts(snap *Snapshot, warm []float64, dim int) [][]float64 {
	starts := make([][]float64, 0, o.cfg.MaxRestarts+2)
	if len(warm) == dim {
		shifted := make([]float64, dim)
		copy(shifted, warm[2:])
		starts = append(starts, shifted)
	}
	starts = append(starts, make([]float64, dim))

	offsets := []geom.Vector{
		{X: restartOffsetCoeff * snap.Aircraft.MaxAccel},
		{X: -restartOffsetCoeff * snap.Aircraft.MaxAccel},
		{Y: restartOffsetCoeff * snap.Aircraft.MaxAccel},
		{Y: -restartOffsetCoeff * snap.Aircraft.MaxAccel},
	}
	for r := 0; r < o.cfg.MaxRestarts; r++ {
		offset := offsets[r%len(offsets)]
		scale := 1.0 / float64(r/len(offsets)+1)
		start := make([]float64, dim)
		for k := 0; k < snap.Horizon; k++ {
			start[2*k] = offset.X * scale
			start[2*k+1] = offset.Y * scale
		}
		starts = append(starts, start)
	}
	return starts
}

// reshapeControls views a flat solver vector as per-tick accelerations.
func reshapeControls(x []float64) []ControlDecision {
	controls := make([]ControlDecision, len(x)/2)
	for i := range controls {
		controls[i] = ControlDecision{Accel: geom.Vector{X: x[2*i], Y: x[2*i+1]}}
	}
	return controls
}

// boundsPenalty charges solver vectors that wander past the acceleration
// limit. The rollout clamp already keeps evaluation honest, so out-of-box
// excursions would otherwise score as flat plateaus the simplex cannot
// descend.
func boundsPenalty(x []float64, maxAccel float64) float64 {
	penalty := 0.0
	for i := 0; i+1 < len(x); i += 2 {
		if excess := math.Hypot(x[i], x[i+1]) - maxAccel; excess > 0 {
			penalty += boundsPenaltyWeight * excess * excess
		}
	}
	return penalty
}
