package heat

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned for parameters that would make the
// scheme divide by zero or run over a degenerate mesh.
var ErrInvalidConfiguration = errors.New("heat: invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// SimError reports a numeric failure at a given step.
type SimError struct {
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}
