// Package query holds the constraint records and the pure filters applied to
// assignments and aircraft. Nothing here performs I/O.
package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/five82/fsefeed/internal/records"
)

// TripType narrows assignments by kind.
type TripType string

const (
	TripAny       TripType = "any"
	TripCargo     TripType = "cargo"
	TripPassenger TripType = "passenger"
	TripVIP       TripType = "vip"
	TripAllIn     TripType = "allin"
	TripTripOnly  TripType = "triponly"
)

var tripTypes = []TripType{TripAny, TripCargo, TripPassenger, TripVIP, TripAllIn, TripTripOnly}

// TripTypes returns every recognised trip type.
func TripTypes() []TripType {
	return append([]TripType(nil), tripTypes...)
}

// ParseTripType accepts any case and the feed's own spellings ("Trip-Only", "All-In").
func ParseTripType(s string) (TripType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "":
		return TripAny, nil
	case "pax", "passengers":
		return TripPassenger, nil
	}
	for _, t := range tripTypes {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", &InvalidQueryError{Field: "tripType", Value: s, Reason: "unknown trip type"}
}

func (t TripType) valid() bool {
	if t == "" {
		return true
	}
	for _, known := range tripTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InvalidQueryError reports a constraint that is out of its allowed range.
type InvalidQueryError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Int returns a pointer to v for use in constraint records.
func Int(v int) *int { return &v }

// Float returns a pointer to v for use in constraint records.
func Float(v float64) *float64 { return &v }

// AssignmentConstraints narrows an assignment listing. Nil bounds and an
// empty or "any" TripType impose no constraint.
type AssignmentConstraints struct {
	MaxSize  *int // inclusive upper bound on kg for cargo jobs
	MaxPax   *int // inclusive upper bound on passengers for passenger jobs
	TripType TripType
}

// Validate rejects negative bounds and unknown trip types.
func (c AssignmentConstraints) Validate() error {
	if c.MaxSize != nil && *c.MaxSize < 0 {
		return &InvalidQueryError{Field: "maxSize", Value: *c.MaxSize, Reason: "must not be negative"}
	}
	if c.MaxPax != nil && *c.MaxPax < 0 {
		return &InvalidQueryError{Field: "maxPax", Value: *c.MaxPax, Reason: "must not be negative"}
	}
	if !c.TripType.valid() {
		return &InvalidQueryError{Field: "tripType", Value: string(c.TripType), Reason: "unknown trip type"}
	}
	return nil
}

// AircraftConstraints narrows an aircraft listing.
type AircraftConstraints struct {
	MaxHoursSinceService *float64 // inclusive
	RentableOnly         bool
}

// Validate rejects negative or NaN service bounds.
func (c AircraftConstraints) Validate() error {
	if c.MaxHoursSinceService == nil {
		return nil
	}
	hours := *c.MaxHoursSinceService
	if math.IsNaN(hours) {
		return &InvalidQueryError{Field: "maxHoursSinceService", Value: hours, Reason: "must be a number"}
	}
	if hours < 0 {
		return &InvalidQueryError{Field: "maxHoursSinceService", Value: hours, Reason: "must not be negative"}
	}
	return nil
}

// FilterAssignments returns the assignments satisfying c in input order.
func FilterAssignments(rows []records.Assignment, c AssignmentConstraints) []records.Assignment {
	return filter(rows, func(a records.Assignment) bool {
		if c.MaxSize != nil && a.IsCargo() && a.Amount > int64(*c.MaxSize) {
			return false
		}
		if c.MaxPax != nil && a.IsPassenger() && a.Amount > int64(*c.MaxPax) {
			return false
		}
		return matchTrip(a, c.TripType)
	})
}

func matchTrip(a records.Assignment, t TripType) bool {
	switch t {
	case TripCargo:
		return a.IsCargo()
	case TripPassenger:
		return a.IsPassenger()
	case TripVIP:
		return a.IsVIP()
	case TripAllIn:
		return a.IsAllIn()
	case TripTripOnly:
		return a.IsTripOnly()
	default:
		return true
	}
}

// FilterAircraft returns the aircraft satisfying c in input order.
func FilterAircraft(rows []records.Airplane, c AircraftConstraints) []records.Airplane {
	return filter(rows, func(p records.Airplane) bool {
		if c.RentableOnly && !p.Rentable {
			return false
		}
		if c.MaxHoursSinceService != nil && p.HoursSinceService() > *c.MaxHoursSinceService {
			return false
		}
		return true
	})
}

// FilterByOwner returns the aircraft whose owner is exactly username.
func FilterByOwner(rows []records.Airplane, username string) []records.Airplane {
	return filter(rows, func(p records.Airplane) bool {
		return p.Owner == username
	})
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
