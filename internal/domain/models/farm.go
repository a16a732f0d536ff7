package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnitStatus enumerates the lifecycle states of a production unit.
type UnitStatus string

const (
	UnitActive       UnitStatus = "active"
	UnitEmpty        UnitStatus = "empty"
	UnitInProduction UnitStatus = "in_production"
)

// ProductionUnit is a cage owned by a farm account. The engine only reads it.
type ProductionUnit struct {
	ID               string     `bson:"id" json:"id"`
	AccountID        string     `bson:"user_id" json:"user_id"`
	Name             string     `bson:"name" json:"name"`
	Species          string     `bson:"species" json:"species"`
	FishCount        int        `bson:"fish_count" json:"fish_count"`
	InitialFishCount int        `bson:"initial_fish_count" json:"initial_fish_count"`
	AverageWeight    float64    `bson:"average_weight" json:"average_weight"` // kg
	FCR              float64    `bson:"fcr" json:"fcr"`
	MortalityRate    float64    `bson:"mortality_rate" json:"mortality_rate"` // percent
	GrowthRate       string     `bson:"growth_rate" json:"growth_rate"`
	Status           UnitStatus `bson:"status" json:"status"`
	StockedAt        *time.Time `bson:"stocking_date,omitempty" json:"stocking_date,omitempty"`
}

// Biomass returns fish count times average weight, in kg.
func (u ProductionUnit) Biomass() float64 {
	if u.FishCount <= 0 || u.AverageWeight <= 0 {
		return 0
	}
	return float64(u.FishCount) * u.AverageWeight
}

// GrowthRatePercent extracts the numeric part of the growth-rate label
// ("2.5%/sem" -> 2.5). Unparseable labels yield 0.
func (u ProductionUnit) GrowthRatePercent() float64 {
	label := strings.TrimSpace(strings.ReplaceAll(u.GrowthRate, ",", "."))
	end := 0
	for end < len(label) {
		c := label[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	value, err := strconv.ParseFloat(label[:end], 64)
	if err != nil {
		return 0
	}
	return value
}

// Validate rejects rows that cannot be attributed or carry impossible values.
func (u ProductionUnit) Validate() error {
	switch {
	case u.ID == "":
		return errors.New("cage id is empty")
	case u.AccountID == "":
		return fmt.Errorf("cage %s has no account", u.ID)
	case u.FishCount < 0:
		return fmt.Errorf("cage %s has negative fish count %d", u.ID, u.FishCount)
	case u.AverageWeight < 0:
		return fmt.Errorf("cage %s has negative average weight", u.ID)
	}
	return nil
}

// FeedingSession records feed distributed to one cage.
type FeedingSession struct {
	ID         string    `bson:"id" json:"id"`
	AccountID  string    `bson:"user_id" json:"user_id"`
	UnitID     string    `bson:"cage_id" json:"cage_id"`
	FedAt      time.Time `bson:"feeding_time" json:"feeding_time"`
	QuantityKg float64   `bson:"quantity" json:"quantity"`
	FeedType   string    `bson:"feed_type" json:"feed_type"`
}

// Validate checks a feeding session row.
func (f FeedingSession) Validate() error {
	switch {
	case f.UnitID == "":
		return fmt.Errorf("feeding session %s has no cage", f.ID)
	case f.FedAt.IsZero():
		return fmt.Errorf("feeding session %s has no date", f.ID)
	case f.QuantityKg < 0:
		return fmt.Errorf("feeding session %s has negative quantity", f.ID)
	}
	return nil
}

// Sale captures a harvest sold from a cage.
type Sale struct {
	ID          string    `bson:"id" json:"id"`
	AccountID   string    `bson:"user_id" json:"user_id"`
	UnitID      string    `bson:"cage_id" json:"cage_id"`
	SoldAt      time.Time `bson:"sale_date" json:"sale_date"`
	QuantityKg  float64   `bson:"quantity_kg" json:"quantity_kg"`
	PricePerKg  float64   `bson:"price_per_kg" json:"price_per_kg"`
	TotalAmount float64   `bson:"total_amount" json:"total_amount"`
	Client      string    `bson:"client_name" json:"client_name"`
}

// Amount returns the recorded total, falling back to quantity x price.
func (s Sale) Amount() float64 {
	if s.TotalAmount > 0 {
		return s.TotalAmount
	}
	return s.QuantityKg * s.PricePerKg
}

// Validate checks a sale row.
func (s Sale) Validate() error {
	switch {
	case s.SoldAt.IsZero():
		return fmt.Errorf("sale %s has no date", s.ID)
	case s.Amount() < 0:
		return fmt.Errorf("sale %s has negative amount", s.ID)
	}
	return nil
}

// CostEntry captures an operating expense. UnitID is empty for farm overhead.
type CostEntry struct {
	ID          string    `bson:"id" json:"id"`
	AccountID   string    `bson:"user_id" json:"user_id"`
	UnitID      string    `bson:"cage_id,omitempty" json:"cage_id,omitempty"`
	IncurredAt  time.Time `bson:"date" json:"date"`
	Category    string    `bson:"category" json:"category"`
	Amount      float64   `bson:"amount" json:"amount"`
	Description string    `bson:"description" json:"description"`
}

// Validate checks a cost row.
func (c CostEntry) Validate() error {
	switch {
	case c.IncurredAt.IsZero():
		return fmt.Errorf("cost entry %s has no date", c.ID)
	case c.Amount < 0:
		return fmt.Errorf("cost entry %s has negative amount", c.ID)
	}
	return nil
}

// MortalityEvent records dead fish counted in a cage.
type MortalityEvent struct {
	ID         string    `bson:"id" json:"id"`
	AccountID  string    `bson:"user_id" json:"user_id"`
	UnitID     string    `bson:"cage_id" json:"cage_id"`
	RecordedAt time.Time `bson:"date" json:"date"`
	Count      int       `bson:"dead_count" json:"dead_count"`
	Cause      string    `bson:"cause" json:"cause"`
}

// Validate checks a mortality row.
func (m MortalityEvent) Validate() error {
	switch {
	case m.UnitID == "":
		return fmt.Errorf("mortality event %s has no cage", m.ID)
	case m.RecordedAt.IsZero():
		return fmt.Errorf("mortality event %s has no date", m.ID)
	case m.Count < 0:
		return fmt.Errorf("mortality event %s has negative count", m.ID)
	}
	return nil
}

// WaterQualitySample is a point measurement taken in a cage.
type WaterQualitySample struct {
	ID              string    `bson:"id" json:"id"`
	AccountID       string    `bson:"user_id" json:"user_id"`
	UnitID          string    `bson:"cage_id" json:"cage_id"`
	SampledAt       time.Time `bson:"measured_at" json:"measured_at"`
	Temperature     float64   `bson:"temperature" json:"temperature"`
	PH              float64   `bson:"ph" json:"ph"`
	DissolvedOxygen float64   `bson:"dissolved_oxygen" json:"dissolved_oxygen"`
	Ammonia         float64   `bson:"ammonia" json:"ammonia"`
}

// Validate checks a water-quality row.
func (w WaterQualitySample) Validate() error {
	switch {
	case w.UnitID == "":
		return fmt.Errorf("water sample %s has no cage", w.ID)
	case w.SampledAt.IsZero():
		return fmt.Errorf("water sample %s has no date", w.ID)
	case w.PH < 0 || w.PH > 14:
		return fmt.Errorf("water sample %s has pH %.2f out of range", w.ID, w.PH)
	}
	return nil
}

// ProductionCycle is one stocking of a cage from introduction to harvest.
type ProductionCycle struct {
	ID               string     `bson:"id" json:"id"`
	AccountID        string     `bson:"user_id" json:"user_id"`
	UnitID           string     `bson:"cage_id" json:"cage_id"`
	Species          string     `bson:"species" json:"species"`
	StartDate        time.Time  `bson:"start_date" json:"start_date"`
	EndDate          *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	InitialFishCount int        `bson:"initial_fish_count" json:"initial_fish_count"`
	FinalFishCount   int        `bson:"final_fish_count" json:"final_fish_count"`
	TotalRevenue     float64    `bson:"total_revenue" json:"total_revenue"`
	TotalCost        float64    `bson:"total_cost" json:"total_cost"`
	Status           string     `bson:"status" json:"status"`
}

// Completed reports whether the cycle has been closed.
func (c ProductionCycle) Completed() bool {
	return c.EndDate != nil && !c.EndDate.IsZero()
}

// Validate checks a production cycle row.
func (c ProductionCycle) Validate() error {
	switch {
	case c.StartDate.IsZero():
		return fmt.Errorf("cycle %s has no start date", c.ID)
	case c.Completed() && c.EndDate.Before(c.StartDate):
		return fmt.Errorf("cycle %s ends before it starts", c.ID)
	case c.InitialFishCount < 0 || c.FinalFishCount < 0:
		return fmt.Errorf("cycle %s has negative fish counts", c.ID)
	}
	return nil
}
