package records

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MalformedRecordError reports a feed row that could not be coerced into an entity.
type MalformedRecordError struct {
	Row    int // zero-based index within the feed response; -1 when unknown
	Column string
	Value  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	prefix := "malformed row"
	if e.Row >= 0 {
		prefix = fmt.Sprintf("malformed row %d", e.Row)
	}
	if e.Value == "" {
		return fmt.Sprintf("%s: column %s: %v", prefix, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: column %s: value %q: %v", prefix, e.Column, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

var (
	errMissing = errors.New("missing required column")
	errEmpty   = errors.New("empty required value")
)

// ParseAll coerces every row with parse. Rows that fail are dropped and
// returned with their index so the caller can report them.
func ParseAll[R ~map[string]string, T any](rows []R, parse func(map[string]string) (T, error)) ([]T, []*MalformedRecordError) {
	out := make([]T, 0, len(rows))
	var bad []*MalformedRecordError
	for i, row := range rows {
		v, err := parse(row)
		if err != nil {
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				mre = &MalformedRecordError{Err: err}
			}
			mre.Row = i
			bad = append(bad, mre)
			continue
		}
		out = append(out, v)
	}
	return out, bad
}

// fields reads typed columns out of a raw row, remembering the first failure.
type fields struct {
	row map[string]string
	err *MalformedRecordError
}

func (f *fields) fail(column, value string, err error) {
	if f.err == nil {
		f.err = &MalformedRecordError{Row: -1, Column: column, Value: value, Err: err}
	}
}

func (f *fields) raw(column string, required bool) (string, bool) {
	v, ok := f.row[column]
	if !ok {
		if required {
			f.fail(column, "", errMissing)
		}
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (f *fields) str(column string) string {
	v, _ := f.raw(column, true)
	return v
}

func (f *fields) nonEmpty(column string) string {
	v, ok := f.raw(column, true)
	if ok && v == "" {
		f.fail(column, "", errEmpty)
	}
	return v
}

func (f *fields) optStr(column string) string {
	v, _ := f.raw(column, false)
	return v
}

func (f *fields) integer(column string, required bool) int64 {
	v, ok := f.raw(column, required)
	if !ok || (!required && v == "") {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Amounts occasionally arrive as "12.0".
		fl, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || fl != float64(int64(fl)) {
			f.fail(column, v, err)
			return 0
		}
		n = int64(fl)
	}
	return n
}

func (f *fields) number(column string, required bool) float64 {
	v, ok := f.raw(column, required)
	if !ok || (!required && v == "") {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64)
	if err != nil {
		f.fail(column, v, err)
		return 0
	}
	return n
}

func (f *fields) flag(column string) bool {
	v, ok := f.raw(column, false)
	if !ok || v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	f.fail(column, v, errors.New("not a boolean"))
	return false
}

func (f *fields) clock(column string) time.Duration {
	v, ok := f.raw(column, true)
	if !ok {
		return 0
	}
	d, err := parseClock(v)
	if err != nil {
		f.fail(column, v, err)
	}
	return d
}

// parseClock converts the feed's hh:mm durations, where hh may exceed 24.
func parseClock(v string) (time.Duration, error) {
	hours, minutes, ok := strings.Cut(v, ":")
	if !ok {
		return 0, errors.New("want hh:mm")
	}
	h, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil || h < 0 {
		return 0, errors.New("invalid hours")
	}
	m, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil || m < 0 || m > 59 {
		return 0, errors.New("invalid minutes")
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
