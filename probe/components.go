package probe

import (
	"context"
	"fmt"
)

// ComponentCounter is the subset of a component registry the probe needs.
type ComponentCounter interface {
	Len() int
}

// NewComponentProbe fails while fewer than minimum components are registered.
// A bot server with nothing to dispatch to is not ready for traffic.
func NewComponentProbe(reg ComponentCounter, minimum int) Func {
	if minimum < 1 {
		minimum = 1
	}
	return func(ctx context.Context) error {
		if reg == nil {
			return nilDependencyError("components", "registry")
		}
		if err := contextOrBackground(ctx).Err(); err != nil {
			return err
		}
		if n := reg.Len(); n < minimum {
			return fmt.Errorf("components probe: %d registered, want at least %d", n, minimum)
		}
		return nil
	}
}
