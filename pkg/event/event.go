package event

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1results/pkg/model"
)

// Event identifies a single race and carries its results.
type Event struct {
	RaceID   int
	Year     int
	RaceName string
	Date     time.Time     // cutoff date for standings as of this race
	Results  model.Results // ordered by position, unclassified last
}

// AvailableYears returns the distinct seasons in ascending order.
func AvailableYears(results model.Results) []int {
	years := lo.Uniq(lo.Map(results, func(r model.Result, _ int) int {
		return r.Year
	}))
	slices.Sort(years)
	return years
}

// RacesForYear returns the race names of a season in order of first appearance.
func RacesForYear(results model.Results, year int) ([]string, error) {
	season := lo.Filter(results, func(r model.Result, _ int) bool {
		return r.Year == year
	})
	if len(season) == 0 {
		return nil, fmt.Errorf("%w: no results for %d", model.ErrInvalidYear, year)
	}
	return lo.Uniq(lo.Map(season, func(r model.Result, _ int) string {
		return r.RaceName
	})), nil
}

// SelectEvent returns the results of one race ordered by finishing position.
// Unclassified drivers come last. Equal positions are ordered by driverId.
func SelectEvent(results model.Results, year int, raceName string) (model.Results, error) {
	rows := lo.Filter(results, func(r model.Result, _ int) bool {
		return r.Year == year && r.RaceName == raceName
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q in %d", model.ErrInvalidRace, raceName, year)
	}
	slices.SortStableFunc(rows, compareByPosition)
	return rows, nil
}

// Resolve selects an event and its identity.
func Resolve(results model.Results, year int, raceName string) (*Event, error) {
	rows, err := SelectEvent(results, year, raceName)
	if err != nil {
		return nil, err
	}
	return &Event{
		RaceID:   rows[0].RaceID,
		Year:     year,
		RaceName: raceName,
		Date:     rows[0].Date,
		Results:  rows,
	}, nil
}

// FindDriver looks up a driver of the event by driverId or, if ref is not a
// number, by surname (case insensitive). A surname shared by different drivers
// of the event fails with model.ErrAmbiguousDriver.
func FindDriver(eventResults model.Results, ref string) (model.Result, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		if r, ok := lo.Find(eventResults, func(r model.Result) bool {
			return r.DriverID == id
		}); ok {
			return r, nil
		}
		return model.Result{}, fmt.Errorf("%w: %s", model.ErrDriverNotInEvent, ref)
	}

	matches := lo.Filter(eventResults, func(r model.Result, _ int) bool {
		return strings.EqualFold(r.Surname, ref)
	})
	if len(matches) == 0 {
		return model.Result{}, fmt.Errorf("%w: %s", model.ErrDriverNotInEvent, ref)
	}
	// a shared drive lists the same driver twice
	ids := lo.Uniq(lo.Map(matches, func(r model.Result, _ int) int { return r.DriverID }))
	if len(ids) > 1 {
		return model.Result{}, fmt.Errorf("%w: %s matches driverIds %v, use a driverId",
			model.ErrAmbiguousDriver, ref, ids)
	}
	return matches[0], nil
}

func compareByPosition(a, b model.Result) int {
	aPos, aOk := a.PositionNum.Get()
	bPos, bOk := b.PositionNum.Get()
	switch {
	case aOk && !bOk:
		return -1
	case !aOk && bOk:
		return 1
	}
	return cmp.Or(cmp.Compare(aPos, bPos), cmp.Compare(a.DriverID, b.DriverID))
}
