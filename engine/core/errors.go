package core

import (
	"errors"
	"fmt"
)

// MinTailPoints is the smallest tail that still supports a linear fit with
// a residual estimate.
const MinTailPoints = 3

// InvalidWindowError reports a smoothing window that is non-positive, even,
// or longer than the input sequence.
type InvalidWindowError struct {
	Window int
	Length int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid smoothing window %d for sequence of %d samples: window must be odd, positive and no longer than the sequence", e.Window, e.Length)
}

func NewInvalidWindowError(window, length int) *InvalidWindowError {
	return &InvalidWindowError{Window: window, Length: length}
}

// InvalidOrderError reports a polynomial order that is negative or not
// strictly below the window length.
type InvalidOrderError struct {
	Order  int
	Window int
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid polynomial order %d for window %d: order must be non-negative and strictly below the window", e.Order, e.Window)
}

func NewInvalidOrderError(order, window int) *InvalidOrderError {
	return &InvalidOrderError{Order: order, Window: window}
}

// InsufficientTailDataError reports a tail fraction that yields too few
// points for the baseline fit.
type InsufficientTailDataError struct {
	TailPoints int
	Required   int
}

func (e *InsufficientTailDataError) Error() string {
	return fmt.Sprintf("insufficient tail data: %d points, need at least %d for a linear baseline fit", e.TailPoints, e.Required)
}

func NewInsufficientTailDataError(tailPoints int) *InsufficientTailDataError {
	return &InsufficientTailDataError{TailPoints: tailPoints, Required: MinTailPoints}
}

// NoContactFoundError reports that no sustained threshold crossing exists in
// the corrected force sequence. It is reported, never guessed around, since
// every downstream computation depends on the contact point.
type NoContactFoundError struct {
	Threshold float64
	Sigma     float64
	Run       int
}

func (e *NoContactFoundError) Error() string {
	return fmt.Sprintf("no contact found: force never exceeded %g (%gx noise sigma %g) for %d consecutive samples", e.Threshold*e.Sigma, e.Threshold, e.Sigma, e.Run)
}

func NewNoContactFoundError(threshold, sigma float64, run int) *NoContactFoundError {
	return &NoContactFoundError{Threshold: threshold, Sigma: sigma, Run: run}
}

// ZeroStiffnessError reports a non-positive cantilever spring constant.
type ZeroStiffnessError struct {
	SpringConstant float64
}

func (e *ZeroStiffnessError) Error() string {
	return fmt.Sprintf("invalid cantilever spring constant %g N/m: must be positive", e.SpringConstant)
}

func NewZeroStiffnessError(k float64) *ZeroStiffnessError {
	return &ZeroStiffnessError{SpringConstant: k}
}

// FitDivergedError reports a nonlinear fit that did not converge within the
// iteration bound or resolved to a non-finite modulus.
type FitDivergedError struct {
	Iterations int
	Reason     string
}

func (e *FitDivergedError) Error() string {
	return fmt.Sprintf("elastic fit diverged after %d iterations: %s", e.Iterations, e.Reason)
}

func NewFitDivergedError(iterations int, reason string) *FitDivergedError {
	return &FitDivergedError{Iterations: iterations, Reason: reason}
}

// StageError attaches the failing pipeline stage to an error so a batch
// consumer can tell which knob to adjust before re-running.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage recorded on err, or StageUnknown when err does
// not carry one.
func StageOf(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return StageUnknown
}
