package dataset

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/model"
)

// NewValidator returns a validator knowing the struct level rules of the model.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(resultStructLevel, model.Result{})
	v.RegisterStructValidation(pitStopStructLevel, model.PitStop{})
	return v
}

// gte=0 holds for +Inf, non-finite values are rejected here
func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func resultStructLevel(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(model.Result)
	if !ok {
		return
	}
	if pos, set := r.PositionNum.Get(); set && pos < 1 {
		sl.ReportError(r.PositionNum, "PositionNum", "PositionNum", "gte", "1")
	}
	if !finite(r.Points) {
		sl.ReportError(r.Points, "Points", "Points", "finite", "")
	}
}

func pitStopStructLevel(sl validator.StructLevel) {
	ps, ok := sl.Current().Interface().(model.PitStop)
	if !ok {
		return
	}
	if !finite(ps.Duration) {
		sl.ReportError(ps.Duration, "Duration", "Duration", "finite", "")
	}
}

func validateRows[T any](v *validator.Validate, rows []T) error {
	for i := range rows {
		if err := v.Struct(&rows[i]); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

type racePos struct {
	raceID int
	pos    int
}

// checkPositions logs duplicate finishing positions within a race.
// The data stays usable, the event selector orders such rows by driver.
func checkPositions(l *log.Logger, rows []model.Result) {
	seen := make(map[racePos]int)
	for i := range rows {
		pos, ok := rows[i].PositionNum.Get()
		if !ok {
			continue
		}
		key := racePos{raceID: rows[i].RaceID, pos: pos}
		if other, dup := seen[key]; dup {
			l.Warn("duplicate finishing position",
				log.Int("raceId", key.raceID),
				log.Int("position", key.pos),
				log.Int("driverId", rows[i].DriverID),
				log.Int("otherDriverId", other))
			continue
		}
		seen[key] = rows[i].DriverID
	}
}

// checkLapGrain logs repeated (race, driver, lap) entries. t must be sorted.
func checkLapGrain(l *log.Logger, t model.LapTimes) {
	for i := 1; i < t.Len(); i++ {
		prev, cur := t.At(i-1), t.At(i)
		if prev.RaceID == cur.RaceID && prev.DriverID == cur.DriverID && prev.Lap == cur.Lap {
			l.Warn("duplicate lap time entry",
				log.Int("raceId", cur.RaceID),
				log.Int("driverId", cur.DriverID),
				log.Int("lap", cur.Lap))
		}
	}
}
