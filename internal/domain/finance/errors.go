package finance

import "errors"

var ErrInvalidInput = errors.New("invalid financial input")
