package tax

import "errors"

var (
	ErrInvalidInput               = errors.New("invalid tax input")
	ErrConfigurationInconsistency = errors.New("tax table configuration inconsistent")
)
