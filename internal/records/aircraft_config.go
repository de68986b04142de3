package records

// FuelKgPerGallon converts tank capacity in gallons to kilograms.
const FuelKgPerGallon = 2.687344961

// fuelTanks lists the configs feed columns holding tank capacities in gallons.
var fuelTanks = []string{
	"Ext1", "LTip", "LAux", "LMain",
	"Center1", "Center2", "Center3",
	"RMain", "RAux", "RTip", "RExt2",
}

// AircraftConfig describes one aircraft type from the configs feed.
type AircraftConfig struct {
	MakeModel    string
	ModelID      int64
	Crew         int64
	Seats        int64
	CruiseSpeed  int64
	GPH          float64
	FuelType     string
	MTOW         float64 // kg
	EmptyWeight  float64 // kg
	Price        float64
	FuelCapacity float64 // gallons across all tanks
	Engines      int64
}

// MaxPassengers returns the seats left after the crew and the pilot.
func (c AircraftConfig) MaxPassengers() int64 {
	n := c.Seats - c.Crew - 1
	if n < 0 {
		return 0
	}
	return n
}

// Payload returns how many passengers and how many kilograms of total
// payload fit with fuelFraction (0..1) of the tanks filled.
func (c AircraftConfig) Payload(fuelFraction float64) (int64, float64) {
	if fuelFraction < 0 {
		fuelFraction = 0
	}
	if fuelFraction > 1 {
		fuelFraction = 1
	}
	fuel := fuelFraction * c.FuelCapacity * FuelKgPerGallon
	payload := c.MTOW - c.EmptyWeight - fuel
	if payload < 0 {
		payload = 0
	}
	pax := int64(payload / PassengerWeightKg)
	if limit := c.MaxPassengers(); pax > limit {
		pax = limit
	}
	return pax, payload
}

// ParseAircraftConfig coerces a configs feed row.
func ParseAircraftConfig(row map[string]string) (AircraftConfig, error) {
	f := fields{row: row}
	c := AircraftConfig{
		MakeModel:   f.nonEmpty("MakeModel"),
		ModelID:     f.integer("ModelId", false),
		Crew:        f.integer("Crew", true),
		Seats:       f.integer("Seats", true),
		CruiseSpeed: f.integer("CruiseSpeed", false),
		GPH:         f.number("GPH", false),
		FuelType:    f.optStr("FuelType"),
		MTOW:        f.number("MTOW", true),
		EmptyWeight: f.number("EmptyWeight", true),
		Price:       f.number("Price", false),
		Engines:     f.integer("Engines", false),
	}
	for _, tank := range fuelTanks {
		c.FuelCapacity += f.number(tank, false)
	}
	if f.err != nil {
		return AircraftConfig{}, f.err
	}
	return c, nil
}
