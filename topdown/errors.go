package topdown

import (
	"fmt"
	"strings"
)

// MissingCounterError reports counters required by a ratio that never
// appeared in the log.
type MissingCounterError struct {
	// Counters are qualified names such as "topdown_TotalSlots".
	Counters []string
}

func (e *MissingCounterError) Error() string {
	return fmt.Sprintf("missing counters: %s", strings.Join(e.Counters, ", "))
}

// ZeroDenominatorError reports a FailOnZero ratio whose denominator is 0.
type ZeroDenominatorError struct {
	Metric string
}

func (e *ZeroDenominatorError) Error() string {
	return fmt.Sprintf("%s: zero denominator", e.Metric)
}
