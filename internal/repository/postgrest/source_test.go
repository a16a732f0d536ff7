package postgrest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
	client "github.com/mamadbah2/aquafarm/pkg/clients/postgrest"
)

var tables = map[string]string{
	"cages":             `[{"id":"A","user_id":"acc-1","name":"Cage A","species":"tilapia","fish_count":1000,"initial_fish_count":1000,"average_weight":0.5,"fcr":0,"mortality_rate":0,"growth_rate":"2.5%","status":"active"}]`,
	"feeding_sessions":  `[{"id":"f1","user_id":"acc-1","cage_id":"A","feeding_time":"2024-03-11T08:00:00+00:00","quantity":40},{"id":"f2","user_id":"acc-1","cage_id":null,"feeding_time":"2024-03-12T08:00:00+00:00","quantity":5}]`,
	"sales":             `[{"id":"s1","user_id":"acc-1","cage_id":"A","sale_date":"2024-03-15","quantity_kg":500,"price_per_kg":4,"total_amount":null}]`,
	"cost_entries":      `[{"id":"c1","user_id":"acc-1","cage_id":null,"date":"2024-03-12","category":"Aliment","amount":1200}]`,
	"mortality_events":  `[]`,
	"water_quality":     `[{"id":"w1","user_id":"acc-1","cage_id":"A","measured_at":"2024-03-12T06:00:00Z","temperature":28.5,"ph":7.1,"dissolved_oxygen":5.8,"ammonia":0.12}]`,
	"production_cycles": `[{"id":"cy1","user_id":"acc-1","cage_id":"A","start_date":"2023-09-20","end_date":"2024-03-15","initial_fish_count":1000,"final_fish_count":900,"total_revenue":10000,"total_cost":6000}]`,
}

func newServer(t *testing.T, failing string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
		assert.Equal(t, "eq.acc-1", r.URL.Query().Get("user_id"))

		w.Header().Set("Content-Type", "application/json")
		if table == failing {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"database unavailable"}`))
			return
		}
		_, _ = w.Write([]byte(tables[table]))
	}))
}

func TestSource_LoadSnapshot(t *testing.T) {
	srv := newServer(t, "")
	defer srv.Close()

	src := NewSource(client.NewClient(config.PostgRESTConfig{BaseURL: srv.URL, APIKey: "k"}), time.UTC, nil)
	snap, err := analytics.LoadSnapshot(context.Background(), src, "acc-1", 5*time.Second)
	require.NoError(t, err)

	require.Len(t, snap.Units, 1)
	assert.Equal(t, 1000, snap.Units[0].FishCount)
	assert.Equal(t, 2.5, snap.Units[0].GrowthRatePercent())

	// the feeding without a cage is dropped
	require.Len(t, snap.Feedings, 1)
	assert.Equal(t, 40.0, snap.Feedings[0].QuantityKg)

	require.Len(t, snap.Sales, 1)
	assert.Equal(t, 2000.0, snap.Sales[0].Amount())

	require.Len(t, snap.Costs, 1)
	assert.Empty(t, snap.Costs[0].UnitID)

	assert.Empty(t, snap.Mortalities)
	require.Len(t, snap.WaterQuality, 1)
	assert.Equal(t, 0.12, snap.WaterQuality[0].Ammonia)

	require.Len(t, snap.Cycles, 1)
	assert.True(t, snap.Cycles[0].Completed())
}

func TestSource_FailedTableAbortsSnapshot(t *testing.T) {
	srv := newServer(t, "sales")
	defer srv.Close()

	src := NewSource(client.NewClient(config.PostgRESTConfig{BaseURL: srv.URL, APIKey: "k"}), time.UTC, nil)
	_, err := analytics.LoadSnapshot(context.Background(), src, "acc-1", 5*time.Second)
	require.Error(t, err)

	var de *analytics.DataAccessError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, analytics.TableSales, de.Source)
	assert.Contains(t, err.Error(), "database unavailable")
}
