//nolint:lll,funlen // readability
package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsCSV = `raceId,year,race_name,date,driverId,forename,surname,constructorId,constructor_name,grid,position_num,points,laps,fastestLapTime,statusId
1098,2023,Bahrain Grand Prix,2023-03-05,830,Max,Verstappen,9,Red Bull,1,1.0,25.0,57,1:36.236,1
1098,2023,Bahrain Grand Prix,2023-03-05,815,Sergio,Pérez,9,Red Bull,2,2.0,18.0,57,1:36.344,1
1098,2023,Bahrain Grand Prix,2023-03-05,844,Charles,Leclerc,6,Ferrari,3,,0.0,39,\N,130
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoadResults(t *testing.T) {
	dir := writeFiles(t, map[string]string{"results_full.csv": resultsCSV})
	src := New(dir)

	got, err := src.LoadResults(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	first := got[0]
	assert.Equal(t, 1098, first.RaceID)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, "Bahrain Grand Prix", first.RaceName)
	assert.Equal(t, time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 830, first.DriverID)
	assert.Equal(t, "Verstappen", first.Surname)
	assert.Equal(t, "Red Bull", first.ConstructorName)
	assert.Equal(t, null.From(1), first.PositionNum)
	assert.Equal(t, 25.0, first.Points)
	assert.Equal(t, null.From("1:36.236"), first.FastestLapTime)

	dnf := got[2]
	assert.False(t, dnf.Classified())
	assert.True(t, dnf.FastestLapTime.IsNull())
	assert.Equal(t, 39, dnf.Laps)
}

func TestLoadResultsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing column",
			content: "raceId,year,race_name\n1,2023,Test\n",
			wantErr: ErrMissingColumn,
		},
		{
			name: "bad date",
			content: `raceId,year,race_name,date,driverId,forename,surname,constructorId,constructor_name,grid,position_num,points,laps,fastestLapTime
1,2023,Test,05.03.2023,1,A,B,1,C,1,1,25,10,
`,
		},
		{
			name: "bad number",
			content: `raceId,year,race_name,date,driverId,forename,surname,constructorId,constructor_name,grid,position_num,points,laps,fastestLapTime
1,2023,Test,2023-03-05,1,A,B,1,C,first,1,25,10,
`,
		},
		{
			name: "fractional position",
			content: `raceId,year,race_name,date,driverId,forename,surname,constructorId,constructor_name,grid,position_num,points,laps,fastestLapTime
1,2023,Test,2023-03-05,1,A,B,1,C,1,1.5,25,10,
`,
		},
		{
			name: "infinite points",
			content: `raceId,year,race_name,date,driverId,forename,surname,constructorId,constructor_name,grid,position_num,points,laps,fastestLapTime
1,2023,Test,2023-03-05,1,A,B,1,C,1,1,inf,10,
`,
			wantErr: errNotFinite,
		},
		{
			name: "nan points",
			content: `raceId,year,race_name,date,driverId,forename,surname,constructorId,constructor_name,grid,position_num,points,laps,fastestLapTime
1,2023,Test,2023-03-05,1,A,B,1,C,1,1,NaN,10,
`,
			wantErr: errNotFinite,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"results_full.csv": tt.content})
			_, err := New(dir).LoadResults(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPitStopDurationMustBeFinite(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pit_stops_full.csv": "raceId,driverId,stop,lap,duration\n1,1,1,10,Infinity\n",
	})
	_, err := New(dir).LoadPitStops(context.Background())
	assert.ErrorIs(t, err, errNotFinite)
}

func TestMissingFile(t *testing.T) {
	_, err := New(t.TempDir()).LoadLapTimes(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadLapTimesAndPitStops(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"laps.csv": `raceId,driverId,lap,position,time,milliseconds
1098,830,1,1,1:39.019,99019
1098,830,2,1,1:37.974,97974
`,
		"pits.csv": `raceId,driverId,stop,lap,time,duration,milliseconds
1098,830,1,14,15:25:04,23.345,23345
1098,830,2,36,16:02:11,1:02.500,62500
`,
	})
	src := New(dir, WithLapTimesFile("laps.csv"), WithPitStopsFile("pits.csv"))

	laps, err := src.LoadLapTimes(context.Background())
	require.NoError(t, err)
	require.Len(t, laps, 2)
	assert.Equal(t, 97974, laps[1].Milliseconds)
	assert.Equal(t, 2, laps[1].Lap)

	stops, err := src.LoadPitStops(context.Background())
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, 14, stops[0].Lap)
	assert.InDelta(t, 23.345, stops[0].Duration, 1e-9)
	assert.InDelta(t, 62.5, stops[1].Duration, 1e-9)
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "22.1", want: 22.1},
		{in: "1:02.5", want: 62.5},
		{in: "10:00.000", want: 600},
		{in: "x:1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSeconds(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
