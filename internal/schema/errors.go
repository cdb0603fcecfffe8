package schema

import (
	"errors"
)

// ErrUnsupportedDialect is returned for a dialect name this package cannot render.
var ErrUnsupportedDialect = errors.New("unsupported warehouse dialect")
