package planner

import "errors"

var (
	ErrNoAgents              = errors.New("at least one agent is required")
	ErrTooManyAgents         = errors.New("too many agents")
	ErrNegativeBudget        = errors.New("time budget must not be negative")
	ErrUnknownStart          = errors.New("unknown start node")
	ErrUnknownTarget         = errors.New("unknown target node")
	ErrUnknownStrategy       = errors.New("unknown strategy")
	ErrDecompositionTooLarge = errors.New("too many positive-rate nodes to decompose")
)
