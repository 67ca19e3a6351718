package sqlutil

import (
	"context"

	"github.com/stephenafamo/bob"
)

// ChunkSize is the number of rows per insert statement.
// It keeps the bind parameters below the postgres limit of 65535.
const ChunkSize = 1000

// Exec runs q and returns the number of affected rows
func Exec(ctx context.Context, exec bob.Executor, q bob.Query) (int, error) {
	query, args, err := bob.Build(ctx, q)
	if err != nil {
		return 0, err
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Columns converts column names for use in sm.Columns
func Columns(names []string) []any {
	ret := make([]any, len(names))
	for i := range names {
		ret[i] = names[i]
	}
	return ret
}

// Chunks yields consecutive parts of rows with at most size elements
func Chunks[T any](rows []T, size int) [][]T {
	ret := [][]T{}
	for start := 0; start < len(rows); start += size {
		ret = append(ret, rows[start:min(start+size, len(rows))])
	}
	return ret
}
