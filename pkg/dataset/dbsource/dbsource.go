package dbsource

import (
	"context"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/dataset"
	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/pkg/repository/api"
)

type Option func(*DBSource)

// DBSource reads the datasets from the database tables
type DBSource struct {
	repos   api.Repositories
	seasons []int
	log     *log.Logger
}

var _ dataset.Source = (*DBSource)(nil)

// WithSeasons restricts all tables to the races of the given years.
// Without seasons the tables are read completely.
func WithSeasons(years ...int) Option {
	return func(s *DBSource) {
		s.seasons = lo.Uniq(years)
	}
}

func New(repos api.Repositories, opts ...Option) *DBSource {
	ret := &DBSource{
		repos: repos,
		log:   log.Default().Named("dbsource"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *DBSource) LoadResults(ctx context.Context) ([]model.Result, error) {
	rows, err := s.loadResults(ctx)
	s.logLoad(model.TableResults, len(rows), err)
	return rows, err
}

func (s *DBSource) LoadLapTimes(ctx context.Context) ([]model.LapTime, error) {
	var (
		rows []model.LapTime
		err  error
	)
	if len(s.seasons) == 0 {
		rows, err = s.repos.LapTime().LoadAll(ctx)
	} else {
		rows, err = loadByRace(ctx, s, s.repos.LapTime().LoadByRace)
	}
	s.logLoad(model.TableLapTimes, len(rows), err)
	return rows, err
}

func (s *DBSource) LoadPitStops(ctx context.Context) ([]model.PitStop, error) {
	var (
		rows []model.PitStop
		err  error
	)
	if len(s.seasons) == 0 {
		rows, err = s.repos.PitStop().LoadAll(ctx)
	} else {
		rows, err = loadByRace(ctx, s, s.repos.PitStop().LoadByRace)
	}
	s.logLoad(model.TablePitStops, len(rows), err)
	return rows, err
}

func (s *DBSource) loadResults(ctx context.Context) ([]model.Result, error) {
	if len(s.seasons) == 0 {
		return s.repos.Result().LoadAll(ctx)
	}
	ret := []model.Result{}
	for _, year := range s.seasons {
		rows, err := s.repos.Result().LoadByYear(ctx, year)
		if err != nil {
			return nil, err
		}
		ret = append(ret, rows...)
	}
	return ret, nil
}

// loadByRace reads the rows of all races belonging to the configured seasons
func loadByRace[T any](
	ctx context.Context,
	s *DBSource,
	load func(ctx context.Context, raceID int) ([]T, error),
) ([]T, error) {
	results, err := s.loadResults(ctx)
	if err != nil {
		return nil, err
	}
	raceIDs := lo.Uniq(lo.Map(results, func(r model.Result, _ int) int { return r.RaceID }))
	ret := []T{}
	for _, id := range raceIDs {
		rows, err := load(ctx, id)
		if err != nil {
			return nil, err
		}
		ret = append(ret, rows...)
	}
	return ret, nil
}

func (s *DBSource) logLoad(name model.TableName, rows int, err error) {
	if err != nil {
		s.log.Error("loading table failed",
			log.String("table", string(name)), log.ErrorField(err))
		return
	}
	s.log.Debug("table read",
		log.String("table", string(name)),
		log.Int("rows", rows),
		log.Ints("seasons", s.seasons))
}
