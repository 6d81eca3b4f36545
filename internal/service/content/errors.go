package content

import "errors"

// ErrInvalidInput wraps request validation failures.
var ErrInvalidInput = errors.New("invalid input")
