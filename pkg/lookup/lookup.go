package lookup

import (
	"iter"
	"sort"

	"github.com/mpapenbr/f1results/pkg/model"
)

type LapMinutes struct {
	Lap     int
	Minutes float64
}

type PitStopEntry struct {
	Lap      int
	Stop     int
	Duration float64 // seconds
}

// LapTimesFor yields the laps of one driver in one race ordered by lap.
// The sequence may be iterated any number of times.
func LapTimesFor(lapTimes model.LapTimes, raceID, driverID int) iter.Seq[LapMinutes] {
	return func(yield func(LapMinutes) bool) {
		start := sort.Search(lapTimes.Len(), func(i int) bool {
			return !before(lapTimes.At(i).RaceID, lapTimes.At(i).DriverID, raceID, driverID)
		})
		for i := start; i < lapTimes.Len(); i++ {
			lt := lapTimes.At(i)
			if lt.RaceID != raceID || lt.DriverID != driverID {
				return
			}
			if !yield(LapMinutes{Lap: lt.Lap, Minutes: float64(lt.Milliseconds) / 60000.0}) {
				return
			}
		}
	}
}

// PitStopsFor returns the stops of one driver in one race ordered by stop.
func PitStopsFor(pitStops model.PitStops, raceID, driverID int) []PitStopEntry {
	ret := []PitStopEntry{}
	start := sort.Search(pitStops.Len(), func(i int) bool {
		return !before(pitStops.At(i).RaceID, pitStops.At(i).DriverID, raceID, driverID)
	})
	for i := start; i < pitStops.Len(); i++ {
		ps := pitStops.At(i)
		if ps.RaceID != raceID || ps.DriverID != driverID {
			break
		}
		ret = append(ret, PitStopEntry{Lap: ps.Lap, Stop: ps.Stop, Duration: ps.Duration})
	}
	return ret
}

func before(raceID, driverID, wantRace, wantDriver int) bool {
	if raceID != wantRace {
		return raceID < wantRace
	}
	return driverID < wantDriver
}
