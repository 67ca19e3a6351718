package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/dataset"
	"github.com/mpapenbr/f1results/pkg/event"
	"github.com/mpapenbr/f1results/pkg/lookup"
	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/pkg/performance"
	"github.com/mpapenbr/f1results/pkg/standings"
)

type Option func(*ResultsService)

func WithTracer(tracer trace.Tracer) Option {
	return func(s *ResultsService) {
		s.tracer = tracer
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *ResultsService) {
		s.log = l
	}
}

// ResultsService answers the questions of a results session on top of a
// single dataset. Errors of the engine are returned unchanged.
type ResultsService struct {
	ds     *dataset.Dataset
	tracer trace.Tracer
	log    *log.Logger
}

type (
	DriverStanding      = standings.Standing[standings.DriverKey]
	ConstructorStanding = standings.Standing[standings.ConstructorKey]
)

func NewResultsService(ds *dataset.Dataset, opts ...Option) *ResultsService {
	ret := &ResultsService{
		ds:  ds,
		log: log.Default().Named("service"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("f1r")
	}
	return ret
}

//nolint:whitespace // editor/linter issue
func (s *ResultsService) Years(ctx context.Context) ([]int, error) {
	ctx, span := s.tracer.Start(ctx, "years")
	defer span.End()
	results, err := s.ds.Results(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return event.AvailableYears(results), nil
}

func (s *ResultsService) Races(ctx context.Context, year int) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "races", trace.WithAttributes(attribute.Int("year", year)))
	defer span.End()
	results, err := s.ds.Results(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	ret, err := event.RacesForYear(results, year)
	return ret, recordErr(span, err)
}

//nolint:whitespace // editor/linter issue
func (s *ResultsService) Event(ctx context.Context, year int, race string) (
	*event.Event, error,
) {
	ctx, span := s.tracer.Start(ctx, "event", eventAttrs(year, race))
	defer span.End()
	ev, err := s.resolve(ctx, year, race)
	return ev, recordErr(span, err)
}

//nolint:whitespace // editor/linter issue
func (s *ResultsService) Podium(ctx context.Context, year int, race string) (
	*performance.Podium, error,
) {
	ctx, span := s.tracer.Start(ctx, "podium", eventAttrs(year, race))
	defer span.End()
	ev, err := s.resolve(ctx, year, race)
	if err != nil {
		return nil, recordErr(span, err)
	}
	ret, err := performance.GetPodium(ev.Results)
	return ret, recordErr(span, err)
}

//nolint:whitespace // editor/linter issue
func (s *ResultsService) PositionChanges(ctx context.Context, year int, race string) (
	[]performance.PositionChange, error,
) {
	ctx, span := s.tracer.Start(ctx, "position changes", eventAttrs(year, race))
	defer span.End()
	ev, err := s.resolve(ctx, year, race)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return performance.PositionChanges(ev.Results), nil
}

// Compare resolves the driver references by driverId or surname and compares
// both drivers within the event.
//
//nolint:whitespace // editor/linter issue
func (s *ResultsService) Compare(
	ctx context.Context,
	year int,
	race string,
	refA, refB string,
) (*performance.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "compare", eventAttrs(year, race),
		trace.WithAttributes(
			attribute.String("driverA", refA),
			attribute.String("driverB", refB)))
	defer span.End()
	ev, err := s.resolve(ctx, year, race)
	if err != nil {
		return nil, recordErr(span, err)
	}
	a, err := event.FindDriver(ev.Results, refA)
	if err != nil {
		return nil, recordErr(span, err)
	}
	b, err := event.FindDriver(ev.Results, refB)
	if err != nil {
		return nil, recordErr(span, err)
	}
	ret, err := performance.CompareDrivers(ev.Results, a.DriverID, b.DriverID)
	return ret, recordErr(span, err)
}

// DriverStandings returns the driver championship as it stood after the race.
//
//nolint:whitespace,dupl // editor/linter issue
func (s *ResultsService) DriverStandings(ctx context.Context, year int, race string) (
	[]DriverStanding, error,
) {
	ctx, span := s.tracer.Start(ctx, "driver standings", eventAttrs(year, race))
	defer span.End()
	ev, err := s.resolve(ctx, year, race)
	if err != nil {
		return nil, recordErr(span, err)
	}
	results, err := s.ds.Results(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return standings.Cumulative(results, year, ev.Date, standings.ByDriver), nil
}

// ConstructorStandings returns the constructor championship as it stood after the race.
//
//nolint:whitespace,dupl // editor/linter issue
func (s *ResultsService) ConstructorStandings(ctx context.Context, year int, race string) (
	[]ConstructorStanding, error,
) {
	ctx, span := s.tracer.Start(ctx, "constructor standings", eventAttrs(year, race))
	defer span.End()
	ev, err := s.resolve(ctx, year, race)
	if err != nil {
		return nil, recordErr(span, err)
	}
	results, err := s.ds.Results(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return standings.Cumulative(results, year, ev.Date, standings.ByConstructor), nil
}

//nolint:whitespace,dupl // editor/linter issue
func (s *ResultsService) SeasonDriverStandings(ctx context.Context, year int) (
	[]DriverStanding, error,
) {
	ctx, span := s.tracer.Start(ctx, "season driver standings",
		trace.WithAttributes(attribute.Int("year", year)))
	defer span.End()
	results, err := s.seasonResults(ctx, year)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return standings.Season(results, year, standings.ByDriver), nil
}

//nolint:whitespace,dupl // editor/linter issue
func (s *ResultsService) SeasonConstructorStandings(ctx context.Context, year int) (
	[]ConstructorStanding, error,
) {
	ctx, span := s.tracer.Start(ctx, "season constructor standings",
		trace.WithAttributes(attribute.Int("year", year)))
	defer span.End()
	results, err := s.seasonResults(ctx, year)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return standings.Season(results, year, standings.ByConstructor), nil
}

// LapTimes returns the lap times of a driver in the race. The driver is
// resolved by driverId or surname.
//
//nolint:whitespace // editor/linter issue
func (s *ResultsService) LapTimes(
	ctx context.Context,
	year int,
	race string,
	driverRef string,
) ([]lookup.LapMinutes, error) {
	ctx, span := s.tracer.Start(ctx, "lap times", eventAttrs(year, race),
		trace.WithAttributes(attribute.String("driver", driverRef)))
	defer span.End()
	ev, driver, err := s.resolveDriver(ctx, year, race, driverRef)
	if err != nil {
		return nil, recordErr(span, err)
	}
	laps, err := s.ds.LapTimes(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	ret := []lookup.LapMinutes{}
	for lm := range lookup.LapTimesFor(laps, ev.RaceID, driver.DriverID) {
		ret = append(ret, lm)
	}
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func (s *ResultsService) PitStops(
	ctx context.Context,
	year int,
	race string,
	driverRef string,
) ([]lookup.PitStopEntry, error) {
	ctx, span := s.tracer.Start(ctx, "pit stops", eventAttrs(year, race),
		trace.WithAttributes(attribute.String("driver", driverRef)))
	defer span.End()
	ev, driver, err := s.resolveDriver(ctx, year, race, driverRef)
	if err != nil {
		return nil, recordErr(span, err)
	}
	stops, err := s.ds.PitStops(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return lookup.PitStopsFor(stops, ev.RaceID, driver.DriverID), nil
}

func (s *ResultsService) resolve(ctx context.Context, year int, race string) (*event.Event, error) {
	results, err := s.ds.Results(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := event.RacesForYear(results, year); err != nil {
		return nil, err
	}
	ev, err := event.Resolve(results, year, race)
	if err != nil {
		return nil, err
	}
	s.log.Debug("event resolved",
		log.Int("raceId", ev.RaceID),
		log.String("race", ev.RaceName),
		log.Int("entries", len(ev.Results)))
	return ev, nil
}

//nolint:whitespace // editor/linter issue
func (s *ResultsService) resolveDriver(
	ctx context.Context,
	year int,
	race string,
	driverRef string,
) (*event.Event, model.Result, error) {
	ev, err := s.resolve(ctx, year, race)
	if err != nil {
		return nil, model.Result{}, err
	}
	driver, err := event.FindDriver(ev.Results, driverRef)
	if err != nil {
		return nil, model.Result{}, err
	}
	return ev, driver, nil
}

func (s *ResultsService) seasonResults(ctx context.Context, year int) (model.Results, error) {
	results, err := s.ds.Results(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := event.RacesForYear(results, year); err != nil {
		return nil, err
	}
	return results, nil
}

func eventAttrs(year int, race string) trace.SpanStartEventOption {
	return trace.WithAttributes(
		attribute.Int("year", year),
		attribute.String("race", race))
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
