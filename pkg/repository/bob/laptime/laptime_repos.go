//nolint:whitespace,dupl // can't make both editor and linter happy
package laptime

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

const tableName = "lap_times"

var columns = []string{"race_id", "driver_id", "lap", "milliseconds"}

type (
	repo struct {
		conn bob.Executor
	}
)

var _ api.LapTimeRepository = (*repo)(nil)

func NewLapTimeRepository(conn bob.Executor) api.LapTimeRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, rows []model.LapTime) (int, error) {
	total := 0
	for _, chunk := range sqlutil.Chunks(rows, sqlutil.ChunkSize) {
		q := psql.Insert(im.Into(tableName, columns...))
		for i := range chunk {
			q.Apply(im.Values(psql.Arg(
				chunk[i].RaceID, chunk[i].DriverID, chunk[i].Lap, chunk[i].Milliseconds)))
		}
		n, err := sqlutil.Exec(ctx, r.getExecutor(ctx), q)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *repo) LoadAll(ctx context.Context) ([]model.LapTime, error) {
	return r.load(ctx)
}

func (r *repo) LoadByRace(ctx context.Context, raceID int) ([]model.LapTime, error) {
	return r.load(ctx, sm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))))
}

// deletes all entries, returns number of rows deleted.
func (r *repo) DeleteAll(ctx context.Context) (int, error) {
	return sqlutil.Exec(ctx, r.getExecutor(ctx), psql.Delete(dm.From(tableName)))
}

func (r *repo) load(ctx context.Context, mods ...bob.Mod[*dialect.SelectQuery]) (
	[]model.LapTime, error,
) {
	q := psql.Select(
		sm.Columns(sqlutil.Columns(columns)...),
		sm.From(tableName),
		sm.OrderBy("race_id").Asc(),
		sm.OrderBy("driver_id").Asc(),
		sm.OrderBy("lap").Asc(),
	)
	q.Apply(mods...)
	return bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[model.LapTime]())
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
