package graph

import "errors"

var (
	ErrUnknownNode        = errors.New("unknown node")
	ErrDuplicateNode      = errors.New("duplicate node")
	ErrNegativeRate       = errors.New("negative rate")
	ErrEmptyNodeID        = errors.New("empty node id")
	ErrTooManyUsefulNodes = errors.New("too many positive-rate nodes")
)
