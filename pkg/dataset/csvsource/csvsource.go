package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/dataset"
	"github.com/mpapenbr/f1results/pkg/model"
)

const dateLayout = "2006-01-02"

var (
	ErrMissingColumn = errors.New("missing column")
	errNotInteger    = errors.New("not an integer")
	errNotFinite     = errors.New("not a finite number")
)

type (
	Option    func(*CSVSource)
	CSVSource struct {
		dir          string
		resultsFile  string
		lapTimesFile string
		pitStopsFile string
		log          *log.Logger
	}
)

var _ dataset.Source = (*CSVSource)(nil)

func WithResultsFile(name string) Option {
	return func(s *CSVSource) {
		s.resultsFile = name
	}
}

func WithLapTimesFile(name string) Option {
	return func(s *CSVSource) {
		s.lapTimesFile = name
	}
}

func WithPitStopsFile(name string) Option {
	return func(s *CSVSource) {
		s.pitStopsFile = name
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *CSVSource) {
		s.log = l
	}
}

// New creates a source reading the csv exports located in dir.
func New(dir string, opts ...Option) *CSVSource {
	s := &CSVSource{
		dir:          dir,
		resultsFile:  "results_full.csv",
		lapTimesFile: "lap_times_full.csv",
		pitStopsFile: "pit_stops_full.csv",
		log:          log.Default().Named("csv"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var resultColumns = []string{
	"raceId", "year", "race_name", "date", "driverId", "forename", "surname",
	"constructorId", "constructor_name", "grid", "position_num", "points", "laps",
	"fastestLapTime",
}

func (s *CSVSource) LoadResults(ctx context.Context) ([]model.Result, error) {
	return readFile(ctx, s, s.resultsFile, resultColumns, parseResult)
}

func (s *CSVSource) LoadLapTimes(ctx context.Context) ([]model.LapTime, error) {
	return readFile(ctx, s, s.lapTimesFile,
		[]string{"raceId", "driverId", "lap", "milliseconds"},
		parseLapTime)
}

func (s *CSVSource) LoadPitStops(ctx context.Context) ([]model.PitStop, error) {
	return readFile(ctx, s, s.pitStopsFile,
		[]string{"raceId", "driverId", "stop", "lap", "duration"},
		parsePitStop)
}

func readFile[T any](
	ctx context.Context,
	s *CSVSource,
	name string,
	required []string,
	parse func(r *row) (T, error),
) ([]T, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s.log.Debug("reading file", log.String("file", path))
	ret, err := read(ctx, f, required, parse)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ret, nil
}

// read parses csv data with a header line. Columns are looked up by name,
// additional columns are ignored.
func read[T any](
	ctx context.Context,
	in io.Reader,
	required []string,
	parse func(r *row) (T, error),
) ([]T, error) {
	reader := csv.NewReader(in)
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	ret := make([]T, 0)
	r := &row{cols: cols}
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		r.record = record
		item, err := parse(r)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func parseResult(r *row) (model.Result, error) {
	var item model.Result
	p := r.parser()
	item.RaceID = p.asInt("raceId")
	item.Year = p.asInt("year")
	item.RaceName = r.get("race_name")
	item.Date = p.asDate("date")
	item.DriverID = p.asInt("driverId")
	item.Forename = r.get("forename")
	item.Surname = r.get("surname")
	item.ConstructorID = p.asInt("constructorId")
	item.ConstructorName = r.get("constructor_name")
	item.Grid = p.asInt("grid")
	item.PositionNum = p.asNullInt("position_num")
	item.Points = p.asFloat("points")
	item.Laps = p.asInt("laps")
	item.FastestLapTime = r.nullString("fastestLapTime")
	return item, p.err
}

func parseLapTime(r *row) (model.LapTime, error) {
	p := r.parser()
	item := model.LapTime{
		RaceID:       p.asInt("raceId"),
		DriverID:     p.asInt("driverId"),
		Lap:          p.asInt("lap"),
		Milliseconds: p.asInt("milliseconds"),
	}
	return item, p.err
}

func parsePitStop(r *row) (model.PitStop, error) {
	p := r.parser()
	item := model.PitStop{
		RaceID:   p.asInt("raceId"),
		DriverID: p.asInt("driverId"),
		Stop:     p.asInt("stop"),
		Lap:      p.asInt("lap"),
		Duration: p.asSeconds("duration"),
	}
	return item, p.err
}

type row struct {
	cols   map[string]int
	record []string
}

// get returns the trimmed value of the column or "" if the column is absent
func (r *row) get(col string) string {
	idx, ok := r.cols[col]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

func (r *row) nullString(col string) null.Val[string] {
	v := r.get(col)
	if isNull(v) {
		return null.Val[string]{}
	}
	return null.From(v)
}

func (r *row) parser() *fieldParser {
	return &fieldParser{r: r}
}

func isNull(v string) bool {
	switch v {
	case "", `\N`, "NA", "NaN", "nan":
		return true
	}
	return false
}

// fieldParser keeps the first error while converting columns of a row
type fieldParser struct {
	r   *row
	err error
}

func (p *fieldParser) fail(col, v string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("column %s: invalid value %q: %w", col, v, err)
	}
}

func (p *fieldParser) asInt(col string) int {
	v := p.r.get(col)
	i, err := parseInt(v)
	if err != nil {
		p.fail(col, v, err)
	}
	return i
}

func (p *fieldParser) asNullInt(col string) null.Val[int] {
	v := p.r.get(col)
	if isNull(v) {
		return null.Val[int]{}
	}
	i, err := parseInt(v)
	if err != nil {
		p.fail(col, v, err)
		return null.Val[int]{}
	}
	return null.From(i)
}

func (p *fieldParser) asFloat(col string) float64 {
	v := p.r.get(col)
	f, err := strconv.ParseFloat(v, 64)
	if err == nil && !isFinite(f) {
		err = errNotFinite
	}
	if err != nil {
		p.fail(col, v, err)
	}
	return f
}

func (p *fieldParser) asDate(col string) time.Time {
	v := p.r.get(col)
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		p.fail(col, v, err)
	}
	return d
}

// asSeconds accepts seconds ("23.456") as well as "m:ss.sss" used for long stops
func (p *fieldParser) asSeconds(col string) float64 {
	v := p.r.get(col)
	secs, err := parseSeconds(v)
	if err == nil && !isFinite(secs) {
		err = errNotFinite
	}
	if err != nil {
		p.fail(col, v, err)
	}
	return secs
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// parseInt accepts integral float notation ("3.0") which pandas writes for
// columns containing nulls
func parseInt(v string) (int, error) {
	if i, err := strconv.Atoi(v); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, errNotInteger
	}
	return int(f), nil
}

func parseSeconds(v string) (float64, error) {
	minutes, rest, found := strings.Cut(v, ":")
	if !found {
		return strconv.ParseFloat(v, 64)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, err
	}
	return float64(m)*60 + s, nil
}
