package records

import (
	"strings"
	"time"
)

// notRented is the RentedBy value the feed uses for an aircraft nobody holds.
const notRented = "Not rented."

// Airplane is one aircraft listed by the feed.
type Airplane struct {
	Registration string // unique id
	SerialNumber int64
	MakeModel    string
	Owner        string // user or group name
	Location     string
	LocationName string
	Home         string
	SinceService time.Duration // time since the last 100-hour inspection
	RentalDry    float64
	RentalWet    float64
	RentedBy     string
	Bonus        float64
	FuelPct      float64
	NeedsRepair  bool
	Rentable     bool
}

// HoursSinceService returns SinceService in fractional hours.
func (a Airplane) HoursSinceService() float64 {
	return a.SinceService.Hours()
}

// IsRented reports whether a pilot currently holds the aircraft.
func (a Airplane) IsRented() bool {
	return a.RentedBy != "" && a.RentedBy != notRented
}

// ServiceInterval is the inspection interval TimeLast100hr counts toward.
const ServiceInterval = 100 * time.Hour

// ServiceDue reports whether the 100-hour inspection is overdue.
func (a Airplane) ServiceDue() bool {
	return a.SinceService >= ServiceInterval
}

// ParseAirplane coerces a row from any of the aircraft feeds.
func ParseAirplane(row map[string]string) (Airplane, error) {
	f := fields{row: row}
	a := Airplane{
		Registration: f.nonEmpty("Registration"),
		SerialNumber: f.integer("SerialNumber", false),
		MakeModel:    f.nonEmpty("MakeModel"),
		Owner:        f.str("Owner"),
		Location:     strings.ToUpper(f.str("Location")),
		LocationName: f.optStr("LocationName"),
		Home:         strings.ToUpper(f.optStr("Home")),
		SinceService: f.clock("TimeLast100hr"),
		RentalDry:    f.number("RentalDry", false),
		RentalWet:    f.number("RentalWet", false),
		RentedBy:     f.optStr("RentedBy"),
		Bonus:        f.number("Bonus", false),
		FuelPct:      f.number("FuelPct", false),
		NeedsRepair:  f.flag("NeedsRepair"),
	}
	if f.err != nil {
		return Airplane{}, f.err
	}
	a.Rentable = a.RentedBy == notRented && (a.RentalDry > 0 || a.RentalWet > 0)
	return a, nil
}
