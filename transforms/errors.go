package transforms

import (
	"fmt"

	"github.com/dtnma-project/ace-ari/internal/util"
)

// FindingSeverity classifies a lint Finding (spec.md §4.2's lint
// transform).
type FindingSeverity int

const (
	SeverityWarning FindingSeverity = iota
	SeverityError
)

func (s FindingSeverity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Finding is one lint observation against a module (spec.md §4.2's "(NEW)
// lint" addition). Unlike adm-add-enum and canonicalize, lint never
// mutates a module — it reports a collection instead of aborting on the
// first problem (spec.md §7).
type Finding struct {
	Severity FindingSeverity
	Object   string // empty for module-level findings
	Msg      string
}

func (f Finding) String() string {
	if f.Object == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Object, f.Msg)
}

// LintErrors aggregates every SeverityError finding into a single error
// via this module's multi-error idiom (internal/util.Errors), per
// spec.md §7's "lint ... report a collection" design. Warnings never
// fail a caller on their own; a caller that wants to see them too should
// read findings directly rather than relying on this return. Returns nil
// if findings contains no error-severity entry.
func LintErrors(findings []Finding) error {
	var errs util.Errors
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs = util.AppendErr(errs, fmt.Errorf("%s", f.String()))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
