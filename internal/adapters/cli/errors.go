package cli

import "errors"

// ErrInvalidSelection is returned when a token does not name one of the
// offered options.
var ErrInvalidSelection = errors.New("invalid selection")
