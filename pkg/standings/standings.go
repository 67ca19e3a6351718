package standings

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/f1results/pkg/model"
)

// Key groups results and defines the order of entries with equal points.
type Key[K any] interface {
	comparable
	Compare(other K) int
}

type DriverKey struct {
	DriverID int
	Forename string
	Surname  string
}

func (k DriverKey) Compare(other DriverKey) int {
	return cmp.Or(
		cmp.Compare(k.Surname, other.Surname),
		cmp.Compare(k.Forename, other.Forename),
		cmp.Compare(k.DriverID, other.DriverID),
	)
}

func (k DriverKey) String() string {
	return k.Forename + " " + k.Surname
}

type ConstructorKey struct {
	ConstructorID int
	Name          string
}

func (k ConstructorKey) Compare(other ConstructorKey) int {
	return cmp.Or(
		cmp.Compare(k.Name, other.Name),
		cmp.Compare(k.ConstructorID, other.ConstructorID),
	)
}

func (k ConstructorKey) String() string {
	return k.Name
}

func ByDriver(r *model.Result) DriverKey {
	return DriverKey{DriverID: r.DriverID, Forename: r.Forename, Surname: r.Surname}
}

func ByConstructor(r *model.Result) ConstructorKey {
	return ConstructorKey{ConstructorID: r.ConstructorID, Name: r.ConstructorName}
}

// Standing is one entry of a championship table.
type Standing[K any] struct {
	Position int // 1-based rank within the table
	Key      K
	Points   decimal.Decimal
	Races    int // number of results summed up
}

// Cumulative computes the standings of a season including all races held on
// or before cutoff. An empty slice is returned if no race qualifies.
func Cumulative[K Key[K]](
	results model.Results,
	year int,
	cutoff time.Time,
	keyFn func(r *model.Result) K,
) []Standing[K] {
	return aggregate(lo.Filter(results, func(r model.Result, _ int) bool {
		return r.Year == year && !r.Date.After(cutoff)
	}), keyFn)
}

// Season computes the standings over all races of a season.
func Season[K Key[K]](
	results model.Results,
	year int,
	keyFn func(r *model.Result) K,
) []Standing[K] {
	return aggregate(lo.Filter(results, func(r model.Result, _ int) bool {
		return r.Year == year
	}), keyFn)
}

func aggregate[K Key[K]](rows model.Results, keyFn func(r *model.Result) K) []Standing[K] {
	groups := lo.GroupBy(rows, func(r model.Result) K { return keyFn(&r) })
	ret := lo.MapToSlice(groups, func(k K, items model.Results) Standing[K] {
		return Standing[K]{
			Key: k,
			Points: lo.Reduce(items, func(sum decimal.Decimal, r model.Result, _ int) decimal.Decimal {
				return sum.Add(decimal.NewFromFloat(r.Points))
			}, decimal.Zero),
			Races: len(items),
		}
	})
	slices.SortFunc(ret, func(a, b Standing[K]) int {
		if c := b.Points.Cmp(a.Points); c != 0 {
			return c
		}
		return a.Key.Compare(b.Key)
	})
	for i := range ret {
		ret[i].Position = i + 1
	}
	return ret
}
