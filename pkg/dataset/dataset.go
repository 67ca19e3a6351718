package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/pkg/utils/cache"
	"github.com/mpapenbr/f1results/pkg/utils/cache/loadercache"
)

var errUnknownTable = errors.New("unknown table")

type (
	// Source provides the raw rows of the three datasets.
	Source interface {
		LoadResults(ctx context.Context) ([]model.Result, error)
		LoadLapTimes(ctx context.Context) ([]model.LapTime, error)
		LoadPitStops(ctx context.Context) ([]model.PitStop, error)
	}

	Option func(*Dataset)

	// Dataset owns the loaded tables. Each table is loaded at most once,
	// concurrent first access shares a single load. A failed load stays failed.
	Dataset struct {
		source   Source
		validate *validator.Validate
		tables   cache.Cache[model.TableName, model.Table]
		log      *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(d *Dataset) {
		d.log = l
	}
}

func WithValidator(v *validator.Validate) Option {
	return func(d *Dataset) {
		d.validate = v
	}
}

func New(src Source, opts ...Option) *Dataset {
	d := &Dataset{
		source: src,
		log:    log.Default().Named("dataset"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.validate == nil {
		d.validate = NewValidator()
	}
	d.tables = loadercache.New(
		loadercache.WithLoader(d.loadTable),
		loadercache.WithErrorCaching[model.TableName, model.Table](true),
		loadercache.WithLogger[model.TableName, model.Table](d.log.Named("cache")),
	)
	return d
}

// Load returns the table with the given name.
// Errors wrap model.ErrDataUnavailable, except for ctx errors of the caller
// which are returned as is and never cached.
func (d *Dataset) Load(ctx context.Context, name model.TableName) (model.Table, error) {
	return d.tables.Get(ctx, name)
}

func (d *Dataset) Results(ctx context.Context) (model.Results, error) {
	t, err := d.Load(ctx, model.TableResults)
	if err != nil {
		return nil, err
	}
	return t.(model.Results), nil
}

func (d *Dataset) LapTimes(ctx context.Context) (model.LapTimes, error) {
	t, err := d.Load(ctx, model.TableLapTimes)
	if err != nil {
		return model.LapTimes{}, err
	}
	return t.(model.LapTimes), nil
}

func (d *Dataset) PitStops(ctx context.Context) (model.PitStops, error) {
	t, err := d.Load(ctx, model.TablePitStops)
	if err != nil {
		return model.PitStops{}, err
	}
	return t.(model.PitStops), nil
}

func (d *Dataset) loadTable(ctx context.Context, name model.TableName) (model.Table, error) {
	d.log.Info("loading table", log.String("table", string(name)))
	var (
		t   model.Table
		err error
	)
	switch name {
	case model.TableResults:
		t, err = d.loadResults(ctx)
	case model.TableLapTimes:
		t, err = d.loadLapTimes(ctx)
	case model.TablePitStops:
		t, err = d.loadPitStops(ctx)
	default:
		err = errUnknownTable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDataUnavailable, name, err)
	}
	d.log.Info("table loaded", log.String("table", string(name)), log.Int("rows", t.Len()))
	return t, nil
}

func (d *Dataset) loadResults(ctx context.Context) (model.Table, error) {
	rows, err := d.source.LoadResults(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRows(d.validate, rows); err != nil {
		return nil, err
	}
	checkPositions(d.log, rows)
	return model.Results(rows), nil
}

func (d *Dataset) loadLapTimes(ctx context.Context) (model.Table, error) {
	rows, err := d.source.LoadLapTimes(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRows(d.validate, rows); err != nil {
		return nil, err
	}
	t := model.NewLapTimes(rows)
	checkLapGrain(d.log, t)
	return t, nil
}

func (d *Dataset) loadPitStops(ctx context.Context) (model.Table, error) {
	rows, err := d.source.LoadPitStops(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRows(d.validate, rows); err != nil {
		return nil, err
	}
	return model.NewPitStops(rows), nil
}
