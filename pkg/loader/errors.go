package loader

import "errors"

var (
	ErrMalformedLine     = errors.New("malformed line")
	ErrEmptyGraph        = errors.New("graph description has no nodes")
	ErrUnsupportedFormat = errors.New("unsupported graph format")
)
