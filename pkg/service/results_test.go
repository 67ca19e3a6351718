//nolint:funlen // ok for tests
package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mpapenbr/f1results/pkg/dataset"
	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/testsupport/basedata"
)

const bahrain = "Bahrain Grand Prix"

func newService(t *testing.T) (*ResultsService, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	svc := NewResultsService(
		dataset.New(basedata.NewSampleSource()),
		WithTracer(provider.Tracer("test")))
	return svc, recorder
}

func TestSelection(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	years, err := svc.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023}, years)

	races, err := svc.Races(ctx, 2023)
	require.NoError(t, err)
	assert.Len(t, races, 3)

	ev, err := svc.Event(ctx, 2023, bahrain)
	require.NoError(t, err)
	assert.Equal(t, 1, ev.RaceID)
	assert.Equal(t, 10, ev.Results[0].DriverID)
}

func TestEventScenario(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	podium, err := svc.Podium(ctx, 2023, bahrain)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12},
		[]int{podium.First.DriverID, podium.Second.DriverID, podium.Third.DriverID})

	changes, err := svc.PositionChanges(ctx, 2023, bahrain)
	require.NoError(t, err)
	require.Len(t, changes, 4)
	assert.Equal(t, 2, changes[0].Gained.GetOrZero())
	assert.True(t, changes[3].Gained.IsNull())

	cmp, err := svc.Compare(ctx, 2023, bahrain, "Verstappen", "11")
	require.NoError(t, err)
	assert.Equal(t, 2, cmp.A.PositionsGained.GetOrZero())
	assert.Equal(t, -1, cmp.B.PositionsGained.GetOrZero())

	_, err = svc.Compare(ctx, 2023, bahrain, "10", "verstappen")
	assert.ErrorIs(t, err, model.ErrIdenticalDriverSelection)
}

func TestStandings(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	asOf, err := svc.DriverStandings(ctx, 2023, "Saudi Arabian Grand Prix")
	require.NoError(t, err)
	require.Len(t, asOf, 4)
	assert.Equal(t, "44", asOf[0].Points.String())

	teams, err := svc.ConstructorStandings(ctx, 2023, "Saudi Arabian Grand Prix")
	require.NoError(t, err)
	assert.Equal(t, "Red Bull", teams[0].Key.Name)
	assert.Equal(t, "87", teams[0].Points.String())

	season, err := svc.SeasonDriverStandings(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, "69", season[0].Points.String())

	seasonTeams, err := svc.SeasonConstructorStandings(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, "127", seasonTeams[0].Points.String())
}

func TestLookups(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	laps, err := svc.LapTimes(ctx, 2023, bahrain, "verstappen")
	require.NoError(t, err)
	assert.Len(t, laps, 3)

	laps, err = svc.LapTimes(ctx, 2023, bahrain, "Alonso")
	require.NoError(t, err)
	assert.NotNil(t, laps)
	assert.Empty(t, laps)

	stops, err := svc.PitStops(ctx, 2023, bahrain, "11")
	require.NoError(t, err)
	assert.Len(t, stops, 1)
}

func TestErrors(t *testing.T) {
	svc, recorder := newService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name:    "invalid year",
			call:    func() error { _, err := svc.Races(ctx, 1900); return err },
			wantErr: model.ErrInvalidYear,
		},
		{
			name:    "invalid year for event",
			call:    func() error { _, err := svc.Podium(ctx, 1900, bahrain); return err },
			wantErr: model.ErrInvalidYear,
		},
		{
			name:    "invalid race",
			call:    func() error { _, err := svc.Event(ctx, 2022, bahrain); return err },
			wantErr: model.ErrInvalidRace,
		},
		{
			name: "insufficient podium",
			call: func() error {
				_, err := svc.Podium(ctx, 2022, "Abu Dhabi Grand Prix")
				return err
			},
			wantErr: model.ErrInsufficientClassifiedResults,
		},
		{
			name: "driver not in event",
			call: func() error {
				_, err := svc.PitStops(ctx, 2023, bahrain, "Hamilton")
				return err
			},
			wantErr: model.ErrDriverNotInEvent,
		},
		{
			name:    "season of unknown year",
			call:    func() error { _, err := svc.SeasonDriverStandings(ctx, 1900); return err },
			wantErr: model.ErrInvalidYear,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.wantErr)
		})
	}

	spans := recorder.Ended()
	require.Len(t, spans, len(tests))
	for _, s := range spans {
		assert.NotEmpty(t, s.Events(), "span %s should carry the error", s.Name())
	}
}

func TestDataUnavailable(t *testing.T) {
	src := &basedata.StaticSource{Err: errors.New("no data")}
	svc := NewResultsService(dataset.New(src))
	_, err := svc.Years(context.Background())
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	_, err = svc.SeasonConstructorStandings(context.Background(), 2023)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	assert.Equal(t, int32(1), src.ResultCalls.Load())
}

func TestNonFinitePointsFailLoad(t *testing.T) {
	src := basedata.NewSampleSource()
	src.Results[0].Points = math.Inf(1)
	svc := NewResultsService(dataset.New(src))
	assert.NotPanics(t, func() {
		_, err := svc.SeasonDriverStandings(context.Background(), 2023)
		assert.ErrorIs(t, err, model.ErrDataUnavailable)
	})
}
