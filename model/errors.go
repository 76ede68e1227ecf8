package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNonConvergence: a fixed point or root solve hit its iteration cap
	// or could not bracket a root.
	ErrNonConvergence = errors.New("numerical non-convergence")

	// ErrInfeasibleGeometry: no physical channel geometry exists for the
	// current guess and loads.
	ErrInfeasibleGeometry = errors.New("infeasible channel geometry")

	// ErrInvalidConfiguration is raised at setup, never mid-march.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Sub-solve names used in StationError.
const (
	StageIsentropic = "isentropic"
	StageGeometry   = "channel geometry"
	StageConjugate  = "conjugate heat transfer"
	StageOuter      = "outer iteration"
	StageOptimise   = "optimisation"
	StagePressure   = "pressure drop"
	StageCoolant    = "coolant update"
)

// StationError names the station and sub-solve that failed.
type StationError struct {
	Station int
	Stage   string
	Err     error
}

func (e *StationError) Error() string {
	return fmt.Sprintf("station %d: %s: %v", e.Station, e.Stage, e.Err)
}

func (e *StationError) Unwrap() error {
	return e.Err
}

// NonConvergence wraps ErrNonConvergence with the loop that failed.
func NonConvergence(what string, iterations int) error {
	return fmt.Errorf("%s not converged after %d iterations: %w", what, iterations, ErrNonConvergence)
}

// Infeasible wraps ErrInfeasibleGeometry with a reason.
func Infeasible(format string, a ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrInfeasibleGeometry)
}

// InvalidConfig wraps ErrInvalidConfiguration with a reason.
func InvalidConfig(format string, a ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrInvalidConfiguration)
}
