package shift

import "errors"

var (
	ErrUnknownShift      = errors.New("employee has no recognized shift assignment")
	ErrInvalidDefinition = errors.New("invalid shift definition")
)
