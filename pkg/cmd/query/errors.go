package query

import (
	"errors"
	"fmt"

	"github.com/mpapenbr/f1results/pkg/model"
)

var hints = []struct {
	err  error
	hint string
}{
	{
		model.ErrDataUnavailable,
		"the dataset could not be loaded, check --source, --data-dir or --db",
	},
	{
		model.ErrInvalidYear,
		"no races found for this year, 'f1r query years' lists the available seasons",
	},
	{
		model.ErrInvalidRace,
		"no race with this name in the season, 'f1r query races --year <year>' lists them",
	},
	{
		model.ErrAmbiguousDriver,
		"several drivers of this race share the surname, pass the driverId instead",
	},
	{
		model.ErrDriverNotInEvent,
		"the driver did not take part in this race, use a driverId or surname from 'f1r query event'",
	},
	{
		model.ErrInsufficientClassifiedResults,
		"fewer than three drivers were classified in this race, there is no podium",
	},
	{
		model.ErrIdenticalDriverSelection,
		"select two different drivers to compare",
	},
}

// explain adds a user facing hint to engine errors. The result still
// matches the original error with errors.Is.
func explain(err error) error {
	if err == nil {
		return nil
	}
	for _, h := range hints {
		if errors.Is(err, h.err) {
			return fmt.Errorf("%w\nhint: %s", err, h.hint)
		}
	}
	return err
}
