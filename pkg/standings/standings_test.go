//nolint:funlen // ok for tests
package standings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/testsupport/basedata"
)

type entry struct {
	pos    int
	id     int
	points string
	races  int
}

func driverEntries(s []Standing[DriverKey]) []entry {
	ret := make([]entry, len(s))
	for i := range s {
		ret[i] = entry{s[i].Position, s[i].Key.DriverID, s[i].Points.String(), s[i].Races}
	}
	return ret
}

func TestCumulativeDrivers(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		cutoff time.Time
		want   []entry
	}{
		{
			name:   "after first race",
			year:   2023,
			cutoff: basedata.RaceBahrain,
			want: []entry{
				{1, 10, "25", 1},
				{2, 11, "18", 1},
				{3, 12, "15", 1},
				{4, 13, "0", 1},
			},
		},
		{
			name:   "as of second race",
			year:   2023,
			cutoff: basedata.RaceJeddah,
			want: []entry{
				{1, 10, "44", 2},
				{2, 11, "43", 2},
				{3, 12, "30", 2},
				{4, 13, "12", 2},
			},
		},
		{
			name:   "between races",
			year:   2023,
			cutoff: basedata.RaceJeddah.AddDate(0, 0, 3),
			want: []entry{
				{1, 10, "44", 2},
				{2, 11, "43", 2},
				{3, 12, "30", 2},
				{4, 13, "12", 2},
			},
		},
		{
			name:   "other season is ignored",
			year:   2022,
			cutoff: basedata.RaceMelbourne,
			want: []entry{
				{1, 10, "25", 1},
				{2, 13, "18", 1},
				{3, 11, "0", 1},
			},
		},
		{
			name:   "cutoff before season",
			year:   2023,
			cutoff: basedata.RaceBahrain.AddDate(0, 0, -1),
			want:   []entry{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cumulative(basedata.SampleResults(), tt.year, tt.cutoff, ByDriver)
			assert.Equal(t, tt.want, driverEntries(got))
		})
	}
}

func TestSeasonDrivers(t *testing.T) {
	got := Season(basedata.SampleResults(), 2023, ByDriver)
	assert.Equal(t, []entry{
		{1, 10, "69", 3},
		{2, 11, "58", 3},
		{3, 12, "48", 3},
		{4, 13, "12", 3},
	}, driverEntries(got))
	assert.Equal(t, "Max Verstappen", got[0].Key.String())

	assert.Empty(t, Season(basedata.SampleResults(), 1950, ByDriver))
}

func TestSeasonConstructors(t *testing.T) {
	got := Season(basedata.SampleResults(), 2023, ByConstructor)
	require.Len(t, got, 3)
	assert.Equal(t, ConstructorKey{ConstructorID: 9, Name: "Red Bull"}, got[0].Key)
	assert.True(t, got[0].Points.Equal(decimal.NewFromInt(127)))
	assert.Equal(t, 6, got[0].Races)
	assert.Equal(t, "Aston Martin", got[1].Key.Name)
	assert.Equal(t, "Ferrari", got[2].Key.Name)

	asOf := Cumulative(basedata.SampleResults(), 2023, basedata.RaceJeddah, ByConstructor)
	require.Len(t, asOf, 3)
	assert.Equal(t, "87", asOf[0].Points.String())
}

func TestCumulativeBoundedBySeason(t *testing.T) {
	all := basedata.SampleResults()
	season := Season(all, 2023, ByDriver)
	seasonPoints := map[int]decimal.Decimal{}
	for _, s := range season {
		seasonPoints[s.Key.DriverID] = s.Points
	}
	for _, cutoff := range []time.Time{
		basedata.RaceBahrain,
		basedata.RaceJeddah,
		basedata.RaceMelbourne,
		basedata.RaceMelbourne.AddDate(1, 0, 0),
	} {
		cumulative := Cumulative(all, 2023, cutoff, ByDriver)
		for _, c := range cumulative {
			assert.True(t, c.Points.LessThanOrEqual(seasonPoints[c.Key.DriverID]),
				"driver %d at %s", c.Key.DriverID, cutoff)
		}
		if !cutoff.Before(basedata.RaceMelbourne) {
			assert.Equal(t, driverEntries(season), driverEntries(cumulative))
		}
	}
}

func TestTieOrder(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	row := func(id int, forename, surname string, cid int, team string, points float64) model.Result {
		return model.Result{
			RaceID: 1, Year: 2024, RaceName: "X", Date: day,
			DriverID: id, Forename: forename, Surname: surname,
			ConstructorID: cid, ConstructorName: team, Points: points,
		}
	}
	rows := model.Results{
		row(3, "Mick", "Schumacher", 1, "Haas", 0.5),
		row(2, "Ralf", "Schumacher", 2, "Williams", 0.5),
		row(1, "Michael", "Schumacher", 3, "Ferrari", 0.5),
		row(4, "Alex", "Albon", 2, "Williams", 0.1),
		row(5, "Lando", "Norris", 4, "McLaren", 1),
	}

	drivers := Season(rows, 2024, ByDriver)
	assert.Equal(t, []entry{
		{1, 5, "1", 1},
		{2, 1, "0.5", 1}, // Michael
		{3, 3, "0.5", 1}, // Mick
		{4, 2, "0.5", 1}, // Ralf
		{5, 4, "0.1", 1},
	}, driverEntries(drivers))

	teams := Season(rows, 2024, ByConstructor)
	require.Len(t, teams, 4)
	assert.Equal(t, "McLaren", teams[0].Key.Name)
	assert.Equal(t, "0.6", teams[1].Points.String())
	assert.Equal(t, "Williams", teams[1].Key.Name)
	// equal points are ordered by name
	assert.Equal(t, "Ferrari", teams[2].Key.Name)
	assert.Equal(t, "Haas", teams[3].Key.Name)
}
