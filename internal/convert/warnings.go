package convert

import "fmt"

// Warning is a non-fatal condition raised while converting: a duplicate
// relocation, or a relocation outside .text/.data. Both are skipped and
// conversion continues; raising a warning never aborts the run.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

func warnf(warnings *[]Warning, format string, args ...any) {
	*warnings = append(*warnings, Warning{Message: fmt.Sprintf(format, args...)})
}
