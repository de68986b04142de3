package records

import (
	"errors"
	"strings"
)

// Unit is the measure an assignment's Amount is expressed in.
type Unit string

const (
	UnitKilograms  Unit = "kg"
	UnitPassengers Unit = "passengers"
)

// Assignment types as reported in the feed's Type column.
const (
	TypeTripOnly = "Trip-Only"
	TypeVIP      = "VIP"
	TypeAllIn    = "All-In"
)

// PassengerWeightKg is the weight the feed assumes for one passenger.
const PassengerWeightKg = 77

// Assignment is one cargo or passenger job departing an airport.
type Assignment struct {
	ID         int64
	FromICAO   string
	ToICAO     string
	Location   string // where the load currently sits
	Amount     int64
	Unit       Unit
	Commodity  string
	Pay        float64
	Distance   float64 // nautical miles, zero when the feed omits it
	Type       string
	Expires    string
	AircraftID int64 // set for All-In jobs bound to one aircraft
}

func (a Assignment) IsCargo() bool     { return a.Unit == UnitKilograms }
func (a Assignment) IsPassenger() bool { return a.Unit == UnitPassengers }
func (a Assignment) IsVIP() bool       { return strings.EqualFold(a.Type, TypeVIP) }
func (a Assignment) IsAllIn() bool     { return strings.EqualFold(a.Type, TypeAllIn) }
func (a Assignment) IsTripOnly() bool  { return strings.EqualFold(a.Type, TypeTripOnly) }

// WeightKg returns the payload weight, converting passengers at PassengerWeightKg.
func (a Assignment) WeightKg() float64 {
	if a.IsPassenger() {
		return float64(a.Amount * PassengerWeightKg)
	}
	return float64(a.Amount)
}

// PayPerKg returns the pay per kilogram of payload, or zero for weightless jobs.
func (a Assignment) PayPerKg() float64 {
	w := a.WeightKg()
	if w <= 0 || a.Pay <= 0 {
		return 0
	}
	return a.Pay / w
}

// ParseAssignment coerces a jobsfrom feed row.
func ParseAssignment(row map[string]string) (Assignment, error) {
	f := fields{row: row}
	a := Assignment{
		ID:         f.integer("Id", true),
		FromICAO:   strings.ToUpper(f.nonEmpty("FromIcao")),
		ToICAO:     strings.ToUpper(f.nonEmpty("ToIcao")),
		Location:   strings.ToUpper(f.optStr("Location")),
		Amount:     f.integer("Amount", true),
		Commodity:  f.optStr("Commodity"),
		Pay:        f.number("Pay", true),
		Distance:   f.number("Distance", false),
		Type:       f.optStr("Type"),
		Expires:    f.optStr("ExpireDateTime"),
		AircraftID: f.integer("AircraftId", false),
	}
	unit := f.nonEmpty("UnitType")
	switch strings.ToLower(unit) {
	case string(UnitKilograms):
		a.Unit = UnitKilograms
	case string(UnitPassengers):
		a.Unit = UnitPassengers
	default:
		if unit != "" {
			f.fail("UnitType", unit, errors.New("unknown unit"))
		}
	}
	if a.Expires == "" {
		a.Expires = f.optStr("Expires")
	}
	if a.Amount < 0 {
		f.fail("Amount", row["Amount"], errors.New("negative amount"))
	}
	if f.err != nil {
		return Assignment{}, f.err
	}
	return a, nil
}
