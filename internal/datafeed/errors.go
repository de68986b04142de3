package datafeed

import (
	"fmt"
	"strings"

	"github.com/five82/fsefeed/internal/fse"
	"github.com/five82/fsefeed/internal/records"
)

// PartialError accompanies a usable result when some fetches failed or some
// rows were dropped. Use errors.As to reach it and inspect the parts.
type PartialError struct {
	Fetch     []*fse.FetchError
	Malformed []*records.MalformedRecordError
}

func (e *PartialError) Error() string {
	var parts []string
	if n := len(e.Fetch); n > 0 {
		subjects := make([]string, 0, n)
		for _, f := range e.Fetch {
			subjects = append(subjects, f.Subject)
		}
		parts = append(parts, fmt.Sprintf("%d fetch(es) failed [%s]", n, strings.Join(subjects, ", ")))
	}
	if n := len(e.Malformed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed row(s) dropped", n))
	}
	if len(parts) == 0 {
		return "partial result"
	}
	return "partial result: " + strings.Join(parts, "; ")
}

// Unwrap exposes every contained error to errors.Is and errors.As.
func (e *PartialError) Unwrap() []error {
	out := make([]error, 0, len(e.Fetch)+len(e.Malformed))
	for _, f := range e.Fetch {
		out = append(out, f)
	}
	for _, m := range e.Malformed {
		out = append(out, m)
	}
	return out
}

// FailedSubjects returns the subjects (ICAOs, types) whose fetch failed.
func (e *PartialError) FailedSubjects() []string {
	out := make([]string, 0, len(e.Fetch))
	for _, f := range e.Fetch {
		out = append(out, f.Subject)
	}
	return out
}

func (e *PartialError) empty() bool {
	return e == nil || (len(e.Fetch) == 0 && len(e.Malformed) == 0)
}

// orNil keeps a typed nil *PartialError from turning into a non-nil error.
func (e *PartialError) orNil() error {
	if e.empty() {
		return nil
	}
	return e
}
