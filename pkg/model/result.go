package model

import (
	"time"

	"github.com/aarondl/opt/null"
)

type (
	// Result is the classification of one driver in one race.
	Result struct {
		RaceID          int              `db:"race_id" validate:"gt=0"`
		Year            int              `db:"year" validate:"gt=0"`
		RaceName        string           `db:"race_name" validate:"required"`
		Date            time.Time        `db:"date" validate:"required"`
		DriverID        int              `db:"driver_id" validate:"gt=0"`
		Forename        string           `db:"forename"`
		Surname         string           `db:"surname" validate:"required"`
		ConstructorID   int              `db:"constructor_id" validate:"gt=0"`
		ConstructorName string           `db:"constructor_name" validate:"required"`
		Grid            int              `db:"grid" validate:"gte=0"`
		PositionNum     null.Val[int]    `db:"position_num"` // null: not classified
		Points          float64          `db:"points" validate:"gte=0"`
		Laps            int              `db:"laps" validate:"gte=0"`
		FastestLapTime  null.Val[string] `db:"fastest_lap_time"`
	}

	LapTime struct {
		RaceID       int `db:"race_id" validate:"gt=0"`
		DriverID     int `db:"driver_id" validate:"gt=0"`
		Lap          int `db:"lap" validate:"gte=1"`
		Milliseconds int `db:"milliseconds" validate:"gt=0"`
	}

	PitStop struct {
		RaceID   int     `db:"race_id" validate:"gt=0"`
		DriverID int     `db:"driver_id" validate:"gt=0"`
		Lap      int     `db:"lap" validate:"gte=1"`
		Stop     int     `db:"stop" validate:"gte=1"`
		Duration float64 `db:"duration" validate:"gte=0"` // seconds
	}
)

// Classified reports whether the driver received a finishing position.
func (r *Result) Classified() bool {
	return r.PositionNum.IsValue()
}

func (r *Result) DriverName() string {
	if r.Forename == "" {
		return r.Surname
	}
	return r.Forename + " " + r.Surname
}
