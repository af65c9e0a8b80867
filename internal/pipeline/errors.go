package pipeline

import "errors"

// ErrInvalidConfig is returned by New when the pipeline configuration is
// unusable.
var ErrInvalidConfig = errors.New("invalid pipeline configuration")
