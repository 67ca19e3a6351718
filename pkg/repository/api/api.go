package api

import (
	"context"

	"github.com/mpapenbr/f1results/pkg/model"
)

type Repositories interface {
	Result() ResultRepository
	LapTime() LapTimeRepository
	PitStop() PitStopRepository
}

type ResultRepository interface {
	// Create stores the rows and returns the number of rows written
	Create(ctx context.Context, rows []model.Result) (int, error)
	LoadAll(ctx context.Context) ([]model.Result, error)
	LoadByYear(ctx context.Context, year int) ([]model.Result, error)
	DeleteAll(ctx context.Context) (int, error)
}

type LapTimeRepository interface {
	Create(ctx context.Context, rows []model.LapTime) (int, error)
	LoadAll(ctx context.Context) ([]model.LapTime, error)
	LoadByRace(ctx context.Context, raceID int) ([]model.LapTime, error)
	DeleteAll(ctx context.Context) (int, error)
}

type PitStopRepository interface {
	Create(ctx context.Context, rows []model.PitStop) (int, error)
	LoadAll(ctx context.Context) ([]model.PitStop, error)
	LoadByRace(ctx context.Context, raceID int) ([]model.PitStop, error)
	DeleteAll(ctx context.Context) (int, error)
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
