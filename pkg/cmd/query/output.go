package query

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/shopspring/decimal"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// table is the printable form of a query result
type table struct {
	columns []string
	rows    [][]any
}

func newTable(columns ...string) *table {
	return &table{columns: columns, rows: [][]any{}}
}

func (t *table) add(values ...any) {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = cell(v)
	}
	t.rows = append(t.rows, row)
}

func (t *table) write(w io.Writer, format string) error {
	switch format {
	case formatJSON:
		return t.writeJSON(w)
	case formatText, "":
		return t.writeText(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func (t *table) writeJSON(w io.Writer) error {
	records := make([]any, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(map[string]any, len(t.columns))
		for i, col := range t.columns {
			rec[col] = row[i]
		}
		records = append(records, rec)
	}
	opts := ojg.DefaultOptions
	opts.Indent = 2
	opts.Sort = true
	_, err := fmt.Fprintln(w, oj.JSON(records, &opts))
	return err
}

func (t *table) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	t.writeLine(tw, toAny(t.columns))
	for _, row := range t.rows {
		t.writeLine(tw, row)
	}
	return tw.Flush()
}

func (t *table) writeLine(w io.Writer, values []any) {
	for i, v := range values {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, text(v))
	}
	fmt.Fprintln(w)
}

// cell converts v to a value ojg can encode
func cell(v any) any {
	switch x := v.(type) {
	case null.Val[int]:
		if val, ok := x.Get(); ok {
			return val
		}
		return nil
	case null.Val[string]:
		if val, ok := x.Get(); ok {
			return val
		}
		return nil
	case decimal.Decimal:
		return x.InexactFloat64()
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return v
	}
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func toAny(s []string) []any {
	ret := make([]any, len(s))
	for i := range s {
		ret[i] = s[i]
	}
	return ret
}
