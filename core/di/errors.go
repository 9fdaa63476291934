package di

import "errors"

var (
	ErrUnknownProvider    = errors.New("unknown provider")
	ErrInvalidProvider    = errors.New("invalid provider")
	ErrCircularDependency = errors.New("circular dependency")
	ErrTypeMismatch       = errors.New("provider value has unexpected type")
)
