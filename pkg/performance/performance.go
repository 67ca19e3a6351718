package performance

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"

	"github.com/mpapenbr/f1results/pkg/model"
)

type Podium struct {
	First  model.Result
	Second model.Result
	Third  model.Result
}

// DriverFigures holds the head-to-head values of one driver in an event.
type DriverFigures struct {
	DriverID        int
	Name            string
	Constructor     string
	GridStart       int
	FinishPosition  null.Val[int]
	PositionsGained null.Val[int]
	LapsCompleted   int
	Points          float64
	FastestLapTime  null.Val[string]
}

type Comparison struct {
	A DriverFigures
	B DriverFigures
}

type PositionChange struct {
	DriverID int
	Name     string
	Grid     int
	Position null.Val[int]
	Gained   null.Val[int] // null for unclassified drivers
}

// GetPodium returns the three best classified finishers of an event.
func GetPodium(eventResults model.Results) (*Podium, error) {
	classified := lo.Filter(eventResults, func(r model.Result, _ int) bool {
		return r.Classified()
	})
	if len(classified) < 3 {
		return nil, fmt.Errorf("%w: %d classified", model.ErrInsufficientClassifiedResults, len(classified))
	}
	slices.SortStableFunc(classified, func(a, b model.Result) int {
		return cmp.Or(
			cmp.Compare(a.PositionNum.GetOrZero(), b.PositionNum.GetOrZero()),
			cmp.Compare(a.DriverID, b.DriverID),
		)
	})
	return &Podium{First: classified[0], Second: classified[1], Third: classified[2]}, nil
}

// PositionsGained is grid minus finishing position. Unclassified drivers have
// no value.
func PositionsGained(r *model.Result) null.Val[int] {
	pos, ok := r.PositionNum.Get()
	if !ok {
		return null.Val[int]{}
	}
	return null.From(r.Grid - pos)
}

// PositionChanges lists the gain of every driver, largest gain first.
func PositionChanges(eventResults model.Results) []PositionChange {
	ret := lo.Map(eventResults, func(r model.Result, _ int) PositionChange {
		return PositionChange{
			DriverID: r.DriverID,
			Name:     r.DriverName(),
			Grid:     r.Grid,
			Position: r.PositionNum,
			Gained:   PositionsGained(&r),
		}
	})
	slices.SortStableFunc(ret, func(a, b PositionChange) int {
		aGain, aOk := a.Gained.Get()
		bGain, bOk := b.Gained.Get()
		switch {
		case aOk && !bOk:
			return -1
		case !aOk && bOk:
			return 1
		}
		return cmp.Or(cmp.Compare(bGain, aGain), cmp.Compare(a.DriverID, b.DriverID))
	})
	return ret
}

// CompareDrivers puts the figures of two drivers of the same event side by side.
func CompareDrivers(eventResults model.Results, a, b int) (*Comparison, error) {
	if a == b {
		return nil, fmt.Errorf("%w: driver %d", model.ErrIdenticalDriverSelection, a)
	}
	figA, err := figures(eventResults, a)
	if err != nil {
		return nil, err
	}
	figB, err := figures(eventResults, b)
	if err != nil {
		return nil, err
	}
	return &Comparison{A: figA, B: figB}, nil
}

func figures(eventResults model.Results, driverID int) (DriverFigures, error) {
	r, ok := lo.Find(eventResults, func(r model.Result) bool {
		return r.DriverID == driverID
	})
	if !ok {
		return DriverFigures{}, fmt.Errorf("%w: driver %d", model.ErrDriverNotInEvent, driverID)
	}
	return DriverFigures{
		DriverID:        r.DriverID,
		Name:            r.DriverName(),
		Constructor:     r.ConstructorName,
		GridStart:       r.Grid,
		FinishPosition:  r.PositionNum,
		PositionsGained: PositionsGained(&r),
		LapsCompleted:   r.Laps,
		Points:          r.Points,
		FastestLapTime:  r.FastestLapTime,
	}, nil
}
