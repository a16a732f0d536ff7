package models

import (
	"strings"
	"time"
)

// Window is an inclusive [Start, End] time range. A zero bound is open.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// Snapshot bundles every row read for one farm account at one point in time.
type Snapshot struct {
	AccountID    string               `json:"account_id"`
	Units        []ProductionUnit     `json:"cages"`
	Feedings     []FeedingSession     `json:"feeding_sessions"`
	Sales        []Sale               `json:"sales"`
	Costs        []CostEntry          `json:"cost_entries"`
	Mortalities  []MortalityEvent     `json:"mortality_events"`
	WaterQuality []WaterQualitySample `json:"water_quality"`
	Cycles       []ProductionCycle    `json:"production_cycles"`
}

// Filter returns a new snapshot restricted to one species (empty keeps all)
// and to records inside the window. Units and cycles are not time-filtered,
// and neither are mortality events: stocking counts and cumulative survival
// are rebuilt from the whole death history, and the aggregator applies the
// window to deaths itself.
func (s Snapshot) Filter(species string, w Window) Snapshot {
	out := Snapshot{AccountID: s.AccountID, Cycles: s.Cycles}

	keep := make(map[string]bool, len(s.Units))
	for _, u := range s.Units {
		if species != "" && !strings.EqualFold(u.Species, species) {
			continue
		}
		keep[u.ID] = true
		out.Units = append(out.Units, u)
	}
	unitOK := func(id string) bool {
		return species == "" || keep[id]
	}

	for _, f := range s.Feedings {
		if unitOK(f.UnitID) && w.Contains(f.FedAt) {
			out.Feedings = append(out.Feedings, f)
		}
	}
	for _, sale := range s.Sales {
		if unitOK(sale.UnitID) && w.Contains(sale.SoldAt) {
			out.Sales = append(out.Sales, sale)
		}
	}
	for _, c := range s.Costs {
		// farm overhead stays attached regardless of species
		if (c.UnitID == "" || unitOK(c.UnitID)) && w.Contains(c.IncurredAt) {
			out.Costs = append(out.Costs, c)
		}
	}
	for _, m := range s.Mortalities {
		if unitOK(m.UnitID) {
			out.Mortalities = append(out.Mortalities, m)
		}
	}
	for _, q := range s.WaterQuality {
		if unitOK(q.UnitID) && w.Contains(q.SampledAt) {
			out.WaterQuality = append(out.WaterQuality, q)
		}
	}
	if species != "" {
		out.Cycles = nil
		for _, c := range s.Cycles {
			if keep[c.UnitID] || strings.EqualFold(c.Species, species) {
				out.Cycles = append(out.Cycles, c)
			}
		}
	}

	return out
}

// Validator is implemented by every record type read from a data source.
type Validator interface {
	Validate() error
}

// KeepValid returns the rows passing Validate. drop, when not nil, is called
// for each rejected row.
func KeepValid[T Validator](rows []T, drop func(row T, err error)) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			if drop != nil {
				drop(row, err)
			}
			continue
		}
		out = append(out, row)
	}
	return out
}
