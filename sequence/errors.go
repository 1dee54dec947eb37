package sequence

import "errors"

// ErrUnknownName is returned when a domain or strand name has not been
// registered on the Model.
var ErrUnknownName = errors.New("sequence: unknown name")
