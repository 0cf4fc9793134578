package replay

import "errors"

// ErrInvalidPlan is returned when an action log cannot be carried out.
var ErrInvalidPlan = errors.New("invalid plan")
