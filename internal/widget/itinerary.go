package widget

import (
	"strconv"
	"strings"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

// Itinerary is the accordion over a package's days. Expanded is indexed by
// position in Days, not by day number.
type Itinerary struct {
	Days     []models.ItineraryDay
	Expanded []bool
}

// NewItinerary returns the initial render state: the first day open,
// every other day closed.
func NewItinerary(days []models.ItineraryDay) Itinerary {
	it := Itinerary{Days: days, Expanded: make([]bool, len(days))}
	if len(days) > 0 {
		it.Expanded[0] = true
	}
	return it
}

// AllExpanded reports whether every day is open. It drives the
// "Expand All"/"Collapse All" label.
func (it Itinerary) AllExpanded() bool {
	if len(it.Expanded) == 0 {
		return false
	}
	for _, open := range it.Expanded {
		if !open {
			return false
		}
	}
	return true
}

// ToggleAll expands every day, or collapses every day when all are open.
func (it Itinerary) ToggleAll() Itinerary {
	return it.setAll(!it.AllExpanded())
}

func (it Itinerary) ExpandAll() Itinerary   { return it.setAll(true) }
func (it Itinerary) CollapseAll() Itinerary { return it.setAll(false) }

func (it Itinerary) setAll(open bool) Itinerary {
	next := it.copy()
	for i := range next.Expanded {
		next.Expanded[i] = open
	}
	return next
}

// Toggle flips one day; out-of-range indexes are ignored.
func (it Itinerary) Toggle(i int) Itinerary {
	next := it.copy()
	if i >= 0 && i < len(next.Expanded) {
		next.Expanded[i] = !next.Expanded[i]
	}
	return next
}

func (it Itinerary) copy() Itinerary {
	expanded := make([]bool, len(it.Expanded))
	copy(expanded, it.Expanded)
	return Itinerary{Days: it.Days, Expanded: expanded}
}

// OpenIndexes lists expanded positions in ascending order.
func (it Itinerary) OpenIndexes() []int {
	var out []int
	for i, open := range it.Expanded {
		if open {
			out = append(out, i)
		}
	}
	return out
}

// Encode renders the state for the "open" query parameter.
func (it Itinerary) Encode() string {
	idx := it.OpenIndexes()
	if len(idx) == 0 {
		return "none"
	}
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// ItineraryFromQuery rebuilds the accordion from the "open" and "all"
// parameters. Without either the initial state is returned.
func ItineraryFromQuery(days []models.ItineraryDay, open, all string) Itinerary {
	it := NewItinerary(days)
	switch strings.ToLower(strings.TrimSpace(all)) {
	case "expand":
		return it.ExpandAll()
	case "collapse":
		return it.CollapseAll()
	}

	open = strings.TrimSpace(open)
	if open == "" {
		return it
	}
	it = it.CollapseAll()
	if open == "none" {
		return it
	}
	for _, part := range strings.Split(open, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 || v >= len(days) {
			continue
		}
		it.Expanded[v] = true
	}
	return it
}

// DayView is what the template renders for one accordion row, including the
// query value that toggles it.
type DayView struct {
	models.ItineraryDay
	Index      int
	Expanded   bool
	ToggleOpen string
}

func (it Itinerary) Views() []DayView {
	views := make([]DayView, len(it.Days))
	for i, d := range it.Days {
		views[i] = DayView{
			ItineraryDay: d,
			Index:        i,
			Expanded:     it.Expanded[i],
			ToggleOpen:   it.Toggle(i).Encode(),
		}
	}
	return views
}
