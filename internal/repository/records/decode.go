package records

import (
	"fmt"
	"time"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Decoder turns one record into a model. Zone-less dates are read in loc.
type Decoder[T models.Validator] func(rec Record, loc *time.Location) (T, error)

// Decode converts records with dec and keeps the rows that parse and validate.
// drop, when not nil, is told about every rejected record.
func Decode[T models.Validator](recs []Record, dec Decoder[T], loc *time.Location, drop func(rec Record, err error)) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := dec(rec, loc)
		if err == nil {
			err = v.Validate()
		}
		if err != nil {
			if drop != nil {
				drop(rec, err)
			}
			continue
		}
		out = append(out, v)
	}
	return out
}

// reader remembers the first conversion error of a record.
type reader struct {
	rec Record
	loc *time.Location
	err error
}

func (r *reader) str(key string) string {
	return r.rec.String(key)
}

func (r *reader) number(key string) float64 {
	v, err := r.rec.Float(key)
	r.keep(key, err)
	return v
}

func (r *reader) whole(key string) int {
	v, err := r.rec.Int(key)
	r.keep(key, err)
	return v
}

func (r *reader) date(key string) time.Time {
	v, err := r.rec.TimeIn(key, r.loc)
	r.keep(key, err)
	return v
}

func (r *reader) optionalDate(key string) *time.Time {
	v, err := r.rec.OptionalTimeIn(key, r.loc)
	r.keep(key, err)
	return v
}

func (r *reader) keep(key string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %s: %w", key, err)
	}
}

// Unit decodes a cages row.
func Unit(rec Record, loc *time.Location) (models.ProductionUnit, error) {
	r := &reader{rec: rec, loc: loc}
	u := models.ProductionUnit{
		ID:               r.str("id"),
		AccountID:        r.str("user_id"),
		Name:             r.str("name"),
		Species:          r.str("species"),
		FishCount:        r.whole("fish_count"),
		InitialFishCount: r.whole("initial_fish_count"),
		AverageWeight:    r.number("average_weight"),
		FCR:              r.number("fcr"),
		MortalityRate:    r.number("mortality_rate"),
		GrowthRate:       r.str("growth_rate"),
		Status:           models.UnitStatus(r.str("status")),
		StockedAt:        r.optionalDate("stocking_date"),
	}
	return u, r.err
}

// Feeding decodes a feeding_sessions row.
func Feeding(rec Record, loc *time.Location) (models.FeedingSession, error) {
	r := &reader{rec: rec, loc: loc}
	f := models.FeedingSession{
		ID:         r.str("id"),
		AccountID:  r.str("user_id"),
		UnitID:     r.str("cage_id"),
		FedAt:      r.date("feeding_time"),
		QuantityKg: r.number("quantity"),
		FeedType:   r.str("feed_type"),
	}
	return f, r.err
}

// Sale decodes a sales row.
func Sale(rec Record, loc *time.Location) (models.Sale, error) {
	r := &reader{rec: rec, loc: loc}
	s := models.Sale{
		ID:          r.str("id"),
		AccountID:   r.str("user_id"),
		UnitID:      r.str("cage_id"),
		SoldAt:      r.date("sale_date"),
		QuantityKg:  r.number("quantity_kg"),
		PricePerKg:  r.number("price_per_kg"),
		TotalAmount: r.number("total_amount"),
		Client:      r.str("client_name"),
	}
	return s, r.err
}

// Cost decodes a cost_entries row.
func Cost(rec Record, loc *time.Location) (models.CostEntry, error) {
	r := &reader{rec: rec, loc: loc}
	c := models.CostEntry{
		ID:          r.str("id"),
		AccountID:   r.str("user_id"),
		UnitID:      r.str("cage_id"),
		IncurredAt:  r.date("date"),
		Category:    r.str("category"),
		Amount:      r.number("amount"),
		Description: r.str("description"),
	}
	return c, r.err
}

// Mortality decodes a mortality_events row.
func Mortality(rec Record, loc *time.Location) (models.MortalityEvent, error) {
	r := &reader{rec: rec, loc: loc}
	m := models.MortalityEvent{
		ID:         r.str("id"),
		AccountID:  r.str("user_id"),
		UnitID:     r.str("cage_id"),
		RecordedAt: r.date("date"),
		Count:      r.whole("dead_count"),
		Cause:      r.str("cause"),
	}
	return m, r.err
}

// WaterSample decodes a water_quality row.
func WaterSample(rec Record, loc *time.Location) (models.WaterQualitySample, error) {
	r := &reader{rec: rec, loc: loc}
	w := models.WaterQualitySample{
		ID:              r.str("id"),
		AccountID:       r.str("user_id"),
		UnitID:          r.str("cage_id"),
		SampledAt:       r.date("measured_at"),
		Temperature:     r.number("temperature"),
		PH:              r.number("ph"),
		DissolvedOxygen: r.number("dissolved_oxygen"),
		Ammonia:         r.number("ammonia"),
	}
	return w, r.err
}

// Cycle decodes a production_cycles row.
func Cycle(rec Record, loc *time.Location) (models.ProductionCycle, error) {
	r := &reader{rec: rec, loc: loc}
	c := models.ProductionCycle{
		ID:               r.str("id"),
		AccountID:        r.str("user_id"),
		UnitID:           r.str("cage_id"),
		Species:          r.str("species"),
		StartDate:        r.date("start_date"),
		EndDate:          r.optionalDate("end_date"),
		InitialFishCount: r.whole("initial_fish_count"),
		FinalFishCount:   r.whole("final_fish_count"),
		TotalRevenue:     r.number("total_revenue"),
		TotalCost:        r.number("total_cost"),
		Status:           r.str("status"),
	}
	return c, r.err
}
