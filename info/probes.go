package info

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type probePayload struct {
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

func (ih *InfoHandler) respondProbe(w http.ResponseWriter, r *http.Request, statusCode int, state string, details ...string) {
	ih.RespondWithJSON(w, r, statusCode, probePayload{Status: state, Details: details})
}

// runChecks runs every check under one shared timeout and joins the
// failures, so a readiness report names all unavailable dependencies at once.
func (ih *InfoHandler) runChecks(ctx context.Context, checks []ProbeFunc) error {
	if len(checks) == 0 {
		return nil
	}

	timeout := ih.probeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var failures []error
	for i, check := range checks {
		if check == nil {
			continue
		}
		err := check(ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.DeadlineExceeded):
			failures = append(failures, fmt.Errorf("probe %d timed out after %s", i+1, timeout))
		case errors.Is(err, context.Canceled):
			failures = append(failures, fmt.Errorf("probe %d was cancelled", i+1))
		default:
			failures = append(failures, fmt.Errorf("probe %d failed: %w", i+1, err))
		}
	}
	return errors.Join(failures...)
}

func filterProbes(checks []ProbeFunc) []ProbeFunc {
	var filtered []ProbeFunc
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return filtered
}
