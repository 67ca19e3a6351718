package basedata

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/f1results/pkg/model"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var (
	RaceBahrain   = date(2023, time.March, 5)
	RaceJeddah    = date(2023, time.March, 19)
	RaceMelbourne = date(2023, time.April, 2)
	RaceAbuDhabi  = date(2022, time.November, 20)
)

type driver struct {
	id                int
	forename, surname string
	constructorID     int
	constructor       string
}

var (
	verstappen = driver{10, "Max", "Verstappen", 9, "Red Bull"}
	perez      = driver{11, "Sergio", "Perez", 9, "Red Bull"}
	alonso     = driver{12, "Fernando", "Alonso", 117, "Aston Martin"}
	leclerc    = driver{13, "Charles", "Leclerc", 6, "Ferrari"}
)

type race struct {
	id   int
	name string
	date time.Time
}

var (
	bahrain   = race{1, "Bahrain Grand Prix", RaceBahrain}
	jeddah    = race{2, "Saudi Arabian Grand Prix", RaceJeddah}
	melbourne = race{3, "Australian Grand Prix", RaceMelbourne}
	abuDhabi  = race{100, "Abu Dhabi Grand Prix", RaceAbuDhabi}
)

// pos 0 means not classified, fastest "" means no fastest lap time
func result(
	r race, d driver, grid, pos int, points float64, laps int, fastest string,
) model.Result {
	ret := model.Result{
		RaceID:          r.id,
		Year:            r.date.Year(),
		RaceName:        r.name,
		Date:            r.date,
		DriverID:        d.id,
		Forename:        d.forename,
		Surname:         d.surname,
		ConstructorID:   d.constructorID,
		ConstructorName: d.constructor,
		Grid:            grid,
		Points:          points,
		Laps:            laps,
	}
	if pos > 0 {
		ret.PositionNum = null.From(pos)
	}
	if fastest != "" {
		ret.FastestLapTime = null.From(fastest)
	}
	return ret
}

// SampleResults returns three races of the 2023 season and the 2022 finale.
// The rows are intentionally not ordered by position.
//
// 2023 totals: Verstappen 69, Perez 58, Alonso 48, Leclerc 12;
// Red Bull 127, Aston Martin 48, Ferrari 12.
func SampleResults() []model.Result {
	return []model.Result{
		result(bahrain, leclerc, 2, 0, 0, 39, ""),
		result(bahrain, verstappen, 3, 1, 25, 57, "1:36.236"),
		result(bahrain, perez, 1, 2, 18, 57, "1:36.344"),
		result(bahrain, alonso, 5, 3, 15, 57, "1:36.546"),

		result(jeddah, leclerc, 12, 4, 12, 50, "1:32.902"),
		result(jeddah, perez, 1, 1, 25, 50, "1:31.906"),
		result(jeddah, verstappen, 15, 2, 19, 50, "1:31.906"),
		result(jeddah, alonso, 2, 3, 15, 50, "1:32.188"),

		result(melbourne, verstappen, 1, 1, 25, 58, "1:20.342"),
		result(melbourne, alonso, 4, 2, 18, 58, "1:20.846"),
		result(melbourne, perez, 0, 3, 15, 58, "1:20.235"),
		result(melbourne, leclerc, 7, 0, 0, 0, ""),

		result(abuDhabi, verstappen, 1, 1, 25, 58, "1:28.391"),
		result(abuDhabi, leclerc, 2, 2, 18, 58, "1:28.879"),
		result(abuDhabi, perez, 3, 0, 0, 20, ""),
	}
}

// SampleLapTimes returns lap times for race 1 in unsorted order.
func SampleLapTimes() []model.LapTime {
	return []model.LapTime{
		{RaceID: 1, DriverID: 10, Lap: 3, Milliseconds: 97500},
		{RaceID: 1, DriverID: 11, Lap: 1, Milliseconds: 99500},
		{RaceID: 1, DriverID: 10, Lap: 1, Milliseconds: 99019},
		{RaceID: 2, DriverID: 10, Lap: 1, Milliseconds: 95000},
		{RaceID: 1, DriverID: 10, Lap: 2, Milliseconds: 97974},
		{RaceID: 1, DriverID: 11, Lap: 2, Milliseconds: 98012},
	}
}

// SamplePitStops returns pit stops for race 1 in unsorted order.
func SamplePitStops() []model.PitStop {
	return []model.PitStop{
		{RaceID: 1, DriverID: 10, Lap: 36, Stop: 2, Duration: 25.1},
		{RaceID: 1, DriverID: 11, Lap: 15, Stop: 1, Duration: 22.9},
		{RaceID: 1, DriverID: 10, Lap: 14, Stop: 1, Duration: 23.3},
	}
}

// StaticSource serves fixed rows and counts the load calls per table.
type StaticSource struct {
	Results  []model.Result
	LapTimes []model.LapTime
	PitStops []model.PitStop
	Err      error         // returned by every load if set
	Delay    time.Duration // simulates slow loads

	ResultCalls  atomic.Int32
	LapTimeCalls atomic.Int32
	PitStopCalls atomic.Int32
}

func NewSampleSource() *StaticSource {
	return &StaticSource{
		Results:  SampleResults(),
		LapTimes: SampleLapTimes(),
		PitStops: SamplePitStops(),
	}
}

func (s *StaticSource) wait(ctx context.Context) error {
	if s.Delay == 0 {
		return s.Err
	}
	select {
	case <-time.After(s.Delay):
		return s.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *StaticSource) LoadResults(ctx context.Context) ([]model.Result, error) {
	s.ResultCalls.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Results, nil
}

func (s *StaticSource) LoadLapTimes(ctx context.Context) ([]model.LapTime, error) {
	s.LapTimeCalls.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.LapTimes, nil
}

func (s *StaticSource) LoadPitStops(ctx context.Context) ([]model.PitStop, error) {
	s.PitStopCalls.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.PitStops, nil
}
