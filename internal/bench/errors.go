package bench

import "errors"

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrInvalidWorkers  = errors.New("workers must be at least 1")
	ErrInvalidSize     = errors.New("size must not be negative")
)
