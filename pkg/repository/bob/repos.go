package bob

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/f1results/pkg/repository/api"
	"github.com/mpapenbr/f1results/pkg/repository/bob/laptime"
	"github.com/mpapenbr/f1results/pkg/repository/bob/pitstop"
	"github.com/mpapenbr/f1results/pkg/repository/bob/result"
)

type bobRepositories struct {
	resultRepository  api.ResultRepository
	lapTimeRepository api.LapTimeRepository
	pitStopRepository api.PitStopRepository
}

var _ api.Repositories = (*bobRepositories)(nil)

func NewRepositoriesFromPool(pool *pgxpool.Pool) api.Repositories {
	return NewRepositories(bob.NewDB(stdlib.OpenDBFromPool(pool)))
}

func NewRepositories(db bob.Executor) api.Repositories {
	return &bobRepositories{
		resultRepository:  result.NewResultRepository(db),
		lapTimeRepository: laptime.NewLapTimeRepository(db),
		pitStopRepository: pitstop.NewPitStopRepository(db),
	}
}

func (r *bobRepositories) Result() api.ResultRepository {
	return r.resultRepository
}

func (r *bobRepositories) LapTime() api.LapTimeRepository {
	return r.lapTimeRepository
}

func (r *bobRepositories) PitStop() api.PitStopRepository {
	return r.pitStopRepository
}
