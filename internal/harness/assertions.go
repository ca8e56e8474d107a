package harness

import (
	"fmt"
	"slices"
)

// checkStep compares a trace event against the step's expectations and
// returns one message per mismatch.
func checkStep(step Step, ev TraceEvent) []string {
	var errs []string

	if step.ExpectStatus != "" && ev.Status != step.ExpectStatus {
		errs = append(errs, fmt.Sprintf("expected status %q, got %q", step.ExpectStatus, ev.Status))
	}

	if step.ExpectHas != nil {
		got := ev.Has != nil && *ev.Has
		if got != *step.ExpectHas {
			errs = append(errs, fmt.Sprintf("expected has=%t, got has=%t", *step.ExpectHas, got))
		}
	}

	if step.ExpectIcons != nil {
		got := ev.Icons
		if got == nil {
			got = []string{}
		}
		if !slices.Equal(got, step.ExpectIcons) {
			errs = append(errs, fmt.Sprintf("expected icons %v, got %v", step.ExpectIcons, got))
		}
	}
	return errs
}
