//nolint:funlen // ok for tests
package dataset_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1results/pkg/dataset"
	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/testsupport/basedata"
)

func TestLoadReturnsSameTable(t *testing.T) {
	src := basedata.NewSampleSource()
	ds := dataset.New(src)
	ctx := context.Background()

	first, err := ds.Results(ctx)
	require.NoError(t, err)
	second, err := ds.Results(ctx)
	require.NoError(t, err)

	assert.Len(t, first, len(basedata.SampleResults()))
	assert.Same(t, &first[0], &second[0], "expected the cached table")
	assert.Equal(t, int32(1), src.ResultCalls.Load())
}

func TestConcurrentFirstAccessLoadsOnce(t *testing.T) {
	src := basedata.NewSampleSource()
	src.Delay = 30 * time.Millisecond
	ds := dataset.New(src)

	var wg sync.WaitGroup
	for range 25 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := ds.Results(context.Background())
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := ds.LapTimes(context.Background())
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := ds.Load(context.Background(), model.TablePitStops)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.ResultCalls.Load())
	assert.Equal(t, int32(1), src.LapTimeCalls.Load())
	assert.Equal(t, int32(1), src.PitStopCalls.Load())
}

func TestSortedTables(t *testing.T) {
	ds := dataset.New(basedata.NewSampleSource())
	ctx := context.Background()

	laps, err := ds.LapTimes(ctx)
	require.NoError(t, err)
	require.Equal(t, len(basedata.SampleLapTimes()), laps.Len())
	assert.Equal(t, model.LapTime{RaceID: 1, DriverID: 10, Lap: 1, Milliseconds: 99019}, laps.At(0))
	assert.Equal(t, model.LapTime{RaceID: 2, DriverID: 10, Lap: 1, Milliseconds: 95000}, laps.At(laps.Len()-1))

	stops, err := ds.PitStops(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stops.At(0).Stop)
	assert.Equal(t, 14, stops.At(0).Lap)
}

func TestDataUnavailable(t *testing.T) {
	errSource := errors.New("file not found")
	negativeGrid := basedata.SampleResults()
	negativeGrid[3].Grid = -1
	zeroPosition := basedata.SampleResults()
	zeroPosition[1].PositionNum = null.From(0)
	infinitePoints := basedata.SampleResults()
	infinitePoints[0].Points = math.Inf(1)

	tests := []struct {
		name  string
		src   *basedata.StaticSource
		table model.TableName
	}{
		{
			name:  "source error",
			src:   &basedata.StaticSource{Err: errSource},
			table: model.TableResults,
		},
		{
			name:  "negative grid",
			src:   &basedata.StaticSource{Results: negativeGrid},
			table: model.TableResults,
		},
		{
			name:  "position zero",
			src:   &basedata.StaticSource{Results: zeroPosition},
			table: model.TableResults,
		},
		{
			name:  "infinite points",
			src:   &basedata.StaticSource{Results: infinitePoints},
			table: model.TableResults,
		},
		{
			name: "nan pit stop duration",
			src: &basedata.StaticSource{PitStops: []model.PitStop{
				{RaceID: 1, DriverID: 1, Lap: 1, Stop: 1, Duration: math.NaN()},
			}},
			table: model.TablePitStops,
		},
		{
			name: "lap time without milliseconds",
			src: &basedata.StaticSource{LapTimes: []model.LapTime{
				{RaceID: 1, DriverID: 1, Lap: 1, Milliseconds: 0},
			}},
			table: model.TableLapTimes,
		},
		{
			name:  "unknown table",
			src:   basedata.NewSampleSource(),
			table: model.TableName("constructors"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset.New(tt.src)
			_, err := ds.Load(context.Background(), tt.table)
			assert.ErrorIs(t, err, model.ErrDataUnavailable)
		})
	}
}

func TestFailedLoadIsNotRetried(t *testing.T) {
	src := &basedata.StaticSource{Err: errors.New("broken")}
	ds := dataset.New(src)
	for range 3 {
		_, err := ds.PitStops(context.Background())
		assert.ErrorIs(t, err, model.ErrDataUnavailable)
	}
	assert.Equal(t, int32(1), src.PitStopCalls.Load())

	// other tables are not affected by the failure
	src.Err = nil
	_, err := ds.LapTimes(context.Background())
	assert.NoError(t, err)
}

func TestCancelledFirstLoadIsNotCached(t *testing.T) {
	src := basedata.NewSampleSource()
	src.Delay = 20 * time.Millisecond
	ds := dataset.New(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ds.Results(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, model.ErrDataUnavailable)

	results, err := ds.Results(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, len(basedata.SampleResults()))
	assert.Equal(t, int32(1), src.ResultCalls.Load())
}

func TestCallerTimeoutDoesNotFailSharedLoad(t *testing.T) {
	src := basedata.NewSampleSource()
	src.Delay = 50 * time.Millisecond
	ds := dataset.New(src)

	done := make(chan error, 1)
	go func() {
		_, err := ds.Results(context.Background())
		done <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := ds.Results(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, <-done)
	_, err = ds.Results(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.ResultCalls.Load())
}

func TestEmptyLapTimesAreValid(t *testing.T) {
	ds := dataset.New(&basedata.StaticSource{})
	laps, err := ds.LapTimes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, laps.Len())
}
