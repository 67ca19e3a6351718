//nolint:whitespace // can't make both editor and linter happy
package result

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/pkg/repository/api"
	bobCtx "github.com/mpapenbr/f1results/pkg/repository/bob/context"
	"github.com/mpapenbr/f1results/pkg/repository/bob/internal/sqlutil"
)

const tableName = "results"

var columns = []string{
	"race_id", "year", "race_name", "date",
	"driver_id", "forename", "surname",
	"constructor_id", "constructor_name",
	"grid", "position_num", "points", "laps", "fastest_lap_time",
}

type (
	repo struct {
		conn bob.Executor
	}
)

var _ api.ResultRepository = (*repo)(nil)

func NewResultRepository(conn bob.Executor) api.ResultRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, rows []model.Result) (int, error) {
	total := 0
	for _, chunk := range sqlutil.Chunks(rows, sqlutil.ChunkSize) {
		q := psql.Insert(im.Into(tableName, columns...))
		for i := range chunk {
			x := &chunk[i]
			q.Apply(im.Values(psql.Arg(
				x.RaceID, x.Year, x.RaceName, x.Date,
				x.DriverID, x.Forename, x.Surname,
				x.ConstructorID, x.ConstructorName,
				x.Grid, x.PositionNum, x.Points, x.Laps, x.FastestLapTime,
			)))
		}
		n, err := sqlutil.Exec(ctx, r.getExecutor(ctx), q)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *repo) LoadAll(ctx context.Context) ([]model.Result, error) {
	return r.load(ctx)
}

func (r *repo) LoadByYear(ctx context.Context, year int) ([]model.Result, error) {
	return r.load(ctx, sm.Where(psql.Quote("year").EQ(psql.Arg(year))))
}

// deletes all entries, returns number of rows deleted.
func (r *repo) DeleteAll(ctx context.Context) (int, error) {
	return sqlutil.Exec(ctx, r.getExecutor(ctx), psql.Delete(dm.From(tableName)))
}

func (r *repo) load(ctx context.Context, mods ...bob.Mod[*dialect.SelectQuery]) (
	[]model.Result, error,
) {
	q := psql.Select(
		sm.Columns(sqlutil.Columns(columns)...),
		sm.From(tableName),
		sm.OrderBy("date").Asc(),
		sm.OrderBy("race_id").Asc(),
		sm.OrderBy("driver_id").Asc(),
	)
	q.Apply(mods...)
	return bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[model.Result]())
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
