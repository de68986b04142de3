package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/fsefeed/internal/records"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newTable returns a bordered table whose listed columns are right aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

func renderAssignments(w io.Writer, rows []records.Assignment) {
	t := newTable([]string{"ID", "From", "To", "Amount", "Commodity", "Type", "Pay", "Pay/kg", "Expires"}, 0, 3, 6, 7)
	for _, a := range rows {
		amount := fmt.Sprintf("%d kg", a.Amount)
		if a.IsPassenger() {
			amount = fmt.Sprintf("%d pax", a.Amount)
		}
		t.Row(
			strconv.FormatInt(a.ID, 10),
			a.FromICAO,
			a.ToICAO,
			amount,
			a.Commodity,
			a.Type,
			fmt.Sprintf("$%.2f", a.Pay),
			fmt.Sprintf("%.2f", a.PayPerKg()),
			a.Expires,
		)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d assignment(s)\n", len(rows))
}

func renderAirplanes(w io.Writer, rows []records.Airplane) {
	t := newTable([]string{"Reg", "Make/Model", "Owner", "Loc", "Home", "Hours", "Dry", "Wet", "Rented by"}, 5, 6, 7)
	for _, p := range rows {
		rentedBy := ""
		if p.IsRented() {
			rentedBy = p.RentedBy
		}
		t.Row(
			p.Registration,
			p.MakeModel,
			p.Owner,
			p.Location,
			p.Home,
			fmt.Sprintf("%.1f", p.HoursSinceService()),
			rate(p.RentalDry),
			rate(p.RentalWet),
			rentedBy,
		)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d aircraft\n", len(rows))
}

func renderConfigs(w io.Writer, rows []records.AircraftConfig) {
	t := newTable([]string{"Make/Model", "Seats", "Crew", "Max pax", "Cruise", "GPH", "Fuel gal", "Payload full", "Price"}, 1, 2, 3, 4, 5, 6, 7, 8)
	for _, c := range rows {
		_, payload := c.Payload(1)
		t.Row(
			c.MakeModel,
			strconv.FormatInt(c.Seats, 10),
			strconv.FormatInt(c.Crew, 10),
			strconv.FormatInt(c.MaxPassengers(), 10),
			strconv.FormatInt(c.CruiseSpeed, 10),
			fmt.Sprintf("%.1f", c.GPH),
			fmt.Sprintf("%.0f", c.FuelCapacity),
			fmt.Sprintf("%.0f kg", payload),
			rate(c.Price),
		)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d aircraft type(s)\n", len(rows))
}

func rate(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("$%.0f", v)
}
