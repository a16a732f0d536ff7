package records

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	rows := [][]interface{}{
		{"User_ID", " id ", "name", "fish_count"},
		{"acc-1", "c1", "Cage 1", "1200"},
		{"acc-1", "c2"},
		{"", "", "", ""},
		{"acc-2", "c3", "Cage 3", "800", "extra"},
	}

	recs := FromRows(rows)
	require.Len(t, recs, 3)
	assert.Equal(t, "acc-1", recs[0].String("user_id"))
	assert.Equal(t, "c1", recs[0].String("id"))
	assert.Equal(t, "", recs[1].String("name"))
	assert.Equal(t, "c3", recs[2].String("id"))
	assert.Len(t, recs[2], 4)

	assert.Nil(t, FromRows(nil))
}

func TestRecord_Float(t *testing.T) {
	tests := []struct {
		value   any
		want    float64
		wantErr bool
	}{
		{12.5, 12.5, false},
		{"12.5", 12.5, false},
		{"12,5", 12.5, false},
		{"1 200,50", 1200.5, false},
		{"1\u00a0200,50", 1200.5, false},
		{"1,200.50", 1200.5, false},
		{"1.200,5", 1200.5, false},
		{"1.234.567,25", 1234567.25, false},
		{"8%", 8, false},
		{"", 0, false},
		{nil, 0, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := Record{"v": tt.value}.Float("v")
		if tt.wantErr {
			assert.Error(t, err, "value %v", tt.value)
			continue
		}
		require.NoError(t, err, "value %v", tt.value)
		assert.Equal(t, tt.want, got, "value %v", tt.value)
	}

	missing, err := Record{}.Float("v")
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestRecord_Int(t *testing.T) {
	n, err := Record{"v": float64(1500)}.Int("v")
	require.NoError(t, err)
	assert.Equal(t, 1500, n)

	n, err = Record{"v": "1 500"}.Int("v")
	require.NoError(t, err)
	assert.Equal(t, 1500, n)

	_, err = Record{"v": "12.5"}.Int("v")
	assert.Error(t, err)
}

func TestRecord_Time(t *testing.T) {
	want := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	tests := []string{
		"2024-03-12",
		"12/03/2024",
		"2024-03-12T00:00:00Z",
		"2024-03-12T00:00:00+00:00",
		"2024-03-12 00:00:00",
		"2024-03-12 00:00:00+00",
	}
	for _, value := range tests {
		got, err := Record{"d": value}.TimeIn("d", nil)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), "%s parsed as %s", value, got)
	}

	_, err := Record{"d": "next tuesday"}.TimeIn("d", time.UTC)
	assert.Error(t, err)

	none, err := Record{}.OptionalTimeIn("d", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRecord_TimeInLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		value string
		want  time.Time
	}{
		{"10/03/2024 23:30", time.Date(2024, 3, 10, 23, 30, 0, 0, paris)},
		{"2024-03-10 23:30:00", time.Date(2024, 3, 10, 23, 30, 0, 0, paris)},
		{"2024-03-10T23:30:00", time.Date(2024, 3, 10, 23, 30, 0, 0, paris)},
		{"10/03/2024", time.Date(2024, 3, 10, 0, 0, 0, 0, paris)},
		{"2024-03-10T23:30:00Z", time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)},
		{"2024-03-10 23:30:00+00", time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := Record{"d": tt.value}.TimeIn("d", paris)
		require.NoError(t, err, tt.value)
		assert.True(t, tt.want.Equal(got), "%s parsed as %s", tt.value, got)
	}
}

func TestFeeding_LateEveningStaysOnItsDay(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	f, err := Feeding(Record{"id": "f1", "cage_id": "A", "feeding_time": "10/03/2024 23:30", "quantity": "12"}, paris)
	require.NoError(t, err)

	local := f.FedAt.In(paris)
	assert.Equal(t, time.Sunday, local.Weekday())
	assert.Equal(t, 10, local.Day())
	assert.Equal(t, 23, local.Hour())
}

func TestDecode(t *testing.T) {
	recs := []Record{
		{"id": "f1", "user_id": "acc-1", "cage_id": "A", "feeding_time": "2024-03-12", "quantity": "40,5"},
		{"id": "f2", "user_id": "acc-1", "cage_id": "", "feeding_time": "2024-03-12", "quantity": "10"},
		{"id": "f3", "user_id": "acc-1", "cage_id": "A", "feeding_time": "yesterday", "quantity": "10"},
		{"id": "f4", "user_id": "acc-1", "cage_id": "A", "feeding_time": "2024-03-13", "quantity": 12.0},
	}

	var dropped []string
	got := Decode(recs, Feeding, time.UTC, func(rec Record, err error) {
		dropped = append(dropped, rec.String("id"))
	})

	require.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].ID)
	assert.Equal(t, 40.5, got[0].QuantityKg)
	assert.Equal(t, "f4", got[1].ID)
	assert.Equal(t, []string{"f2", "f3"}, dropped)
}

func TestCycle_OpenEnd(t *testing.T) {
	c, err := Cycle(Record{"id": "cy1", "cage_id": "A", "start_date": "2024-01-05", "end_date": "", "initial_fish_count": "1000", "total_revenue": "10000"}, time.UTC)
	require.NoError(t, err)
	assert.False(t, c.Completed())
	assert.Equal(t, 1000, c.InitialFishCount)
	assert.Equal(t, 10000.0, c.TotalRevenue)
}
