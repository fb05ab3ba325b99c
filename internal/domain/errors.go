package domain

import (
	"errors"
	"fmt"
)

// ErrNoCompilableTests is the distinguished "nothing to do" outcome: the
// compilation-report directory held zero qualifying reports. The CLI maps
// it to its own exit code, separate from generic failures.
var ErrNoCompilableTests = errors.New("no compilable tests found")

// ErrConfigureFailed marks a build-system configure failure. Fatal to the
// whole run: no target can be attempted without a generated build.
var ErrConfigureFailed = errors.New("build configure step failed")

// MappingReason says why a report file could not be mapped to a test file.
type MappingReason string

const (
	MappingUnresolved MappingReason = "unresolved"
	MappingAmbiguous  MappingReason = "ambiguous"
)

// MappingError is a per-module discovery failure. It skips the module but
// never aborts the scan; the run report counts it separately.
type MappingError struct {
	Module     string
	ReportFile string
	Reason     MappingReason
	Candidates []string
}

func (e *MappingError) Error() string {
	switch e.Reason {
	case MappingAmbiguous:
		return fmt.Sprintf("module %q: %d test files match: %v", e.Module, len(e.Candidates), e.Candidates)
	default:
		return fmt.Sprintf("module %q: no test file found for report %s", e.Module, e.ReportFile)
	}
}

// PreconditionError names a missing dependency that must exist before any
// build is attempted, with a remediation hint. Always fatal.
type PreconditionError struct {
	Missing string
	Hint    string
}

func (e *PreconditionError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("missing precondition: %s", e.Missing)
	}
	return fmt.Sprintf("missing precondition: %s (%s)", e.Missing, e.Hint)
}
