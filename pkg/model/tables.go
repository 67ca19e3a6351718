package model

import (
	"cmp"
	"slices"
)

type TableName string

const (
	TableResults  TableName = "results"
	TableLapTimes TableName = "lap_times"
	TablePitStops TableName = "pit_stops"
)

var TableNames = []TableName{TableResults, TableLapTimes, TablePitStops}

// Table is an immutable, fully loaded dataset.
type Table interface {
	Name() TableName
	Len() int
}

type (
	// Results keeps the rows in source order.
	Results []Result
	// LapTimes is sorted by race, driver and lap. Use NewLapTimes to create one.
	LapTimes struct {
		rows []LapTime
	}
	// PitStops is sorted by race, driver and stop. Use NewPitStops to create one.
	PitStops struct {
		rows []PitStop
	}
)

var (
	_ Table = (Results)(nil)
	_ Table = LapTimes{}
	_ Table = PitStops{}
)

func (r Results) Name() TableName { return TableResults }
func (r Results) Len() int        { return len(r) }

// NewLapTimes copies rows and sorts the copy by race, driver and lap.
func NewLapTimes(rows []LapTime) LapTimes {
	work := slices.Clone(rows)
	slices.SortStableFunc(work, func(a, b LapTime) int {
		return cmp.Or(
			cmp.Compare(a.RaceID, b.RaceID),
			cmp.Compare(a.DriverID, b.DriverID),
			cmp.Compare(a.Lap, b.Lap))
	})
	return LapTimes{rows: work}
}

func (t LapTimes) Name() TableName { return TableLapTimes }
func (t LapTimes) Len() int        { return len(t.rows) }

// At returns the i-th row in sort order
func (t LapTimes) At(i int) LapTime { return t.rows[i] }

// Rows returns a copy of all rows in sort order
func (t LapTimes) Rows() []LapTime { return slices.Clone(t.rows) }

// NewPitStops copies rows and sorts the copy by race, driver and stop.
func NewPitStops(rows []PitStop) PitStops {
	work := slices.Clone(rows)
	slices.SortStableFunc(work, func(a, b PitStop) int {
		return cmp.Or(
			cmp.Compare(a.RaceID, b.RaceID),
			cmp.Compare(a.DriverID, b.DriverID),
			cmp.Compare(a.Stop, b.Stop))
	})
	return PitStops{rows: work}
}

func (t PitStops) Name() TableName { return TablePitStops }
func (t PitStops) Len() int        { return len(t.rows) }

func (t PitStops) At(i int) PitStop { return t.rows[i] }

func (t PitStops) Rows() []PitStop { return slices.Clone(t.rows) }
