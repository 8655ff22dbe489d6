package dynamo

import "errors"

var (
	// ErrParameterBounds marks a physical or solver parameter outside the
	// range the model accepts.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState is returned once a state picks up a NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")
	ErrTooManySteps = errors.New("dynamo: maximum number of steps exceeded")
)
