package mqtt

import "errors"

// ErrBadCommand is returned when a command payload or topic cannot be decoded.
var ErrBadCommand = errors.New("malformed command")
