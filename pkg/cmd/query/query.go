package query

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1results/pkg/cmd/util"
	"github.com/mpapenbr/f1results/pkg/config"
	"github.com/mpapenbr/f1results/pkg/model"
	"github.com/mpapenbr/f1results/pkg/service"
)

var (
	year         int
	race         string
	driver       string
	driverA      string
	driverB      string
	constructors bool
)

func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "queries results, standings and performance data",
	}
	cmd.PersistentFlags().StringVarP(&config.OutputFormat,
		"output", "o", formatText, "output format (text, json)")

	cmd.AddCommand(
		newYearsCmd(),
		newRacesCmd(),
		newEventCmd(),
		newPodiumCmd(),
		newGainsCmd(),
		newCompareCmd(),
		newStandingsCmd(),
		newLapsCmd(),
		newPitStopsCmd(),
	)
	return cmd
}

type queryFunc func(ctx context.Context, svc *service.ResultsService) (*table, error)

func newCmd(use, short string, fn queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := util.Setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			ds, err := env.Dataset(cmd.Context())
			if err != nil {
				return err
			}
			t, err := fn(cmd.Context(), service.NewResultsService(ds))
			if err != nil {
				return explain(err)
			}
			return t.write(cmd.OutOrStdout(), config.OutputFormat)
		},
	}
}

func yearFlag(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&year, "year", "y", 0, "season")
	_ = cmd.MarkFlagRequired("year")
}

func eventFlags(cmd *cobra.Command) {
	yearFlag(cmd)
	cmd.Flags().StringVarP(&race, "race", "r", "", "race name, e.g. \"Bahrain Grand Prix\"")
	_ = cmd.MarkFlagRequired("race")
}

func driverFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&driver, "driver", "d", "", "driverId or surname")
	_ = cmd.MarkFlagRequired("driver")
}

func newYearsCmd() *cobra.Command {
	return newCmd("years", "lists the available seasons",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			years, err := svc.Years(ctx)
			if err != nil {
				return nil, err
			}
			t := newTable("year")
			for _, y := range years {
				t.add(y)
			}
			return t, nil
		})
}

func newRacesCmd() *cobra.Command {
	cmd := newCmd("races", "lists the races of a season",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			races, err := svc.Races(ctx, year)
			if err != nil {
				return nil, err
			}
			t := newTable("round", "race")
			for i, r := range races {
				t.add(i+1, r)
			}
			return t, nil
		})
	yearFlag(cmd)
	return cmd
}

func newEventCmd() *cobra.Command {
	cmd := newCmd("event", "shows the classification of a race",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			ev, err := svc.Event(ctx, year, race)
			if err != nil {
				return nil, err
			}
			t := newTable("pos", "driverId", "driver", "constructor",
				"grid", "laps", "points", "fastestLap")
			for i := range ev.Results {
				r := &ev.Results[i]
				t.add(r.PositionNum, r.DriverID, r.DriverName(), r.ConstructorName,
					r.Grid, r.Laps, r.Points, r.FastestLapTime)
			}
			return t, nil
		})
	eventFlags(cmd)
	return cmd
}

func newPodiumCmd() *cobra.Command {
	cmd := newCmd("podium", "shows the top three finishers of a race",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			podium, err := svc.Podium(ctx, year, race)
			if err != nil {
				return nil, err
			}
			t := newTable("pos", "driverId", "driver", "constructor", "points")
			for i, r := range []*model.Result{&podium.First, &podium.Second, &podium.Third} {
				t.add(i+1, r.DriverID, r.DriverName(), r.ConstructorName, r.Points)
			}
			return t, nil
		})
	eventFlags(cmd)
	return cmd
}

func newGainsCmd() *cobra.Command {
	cmd := newCmd("gains", "shows positions gained or lost per driver",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			changes, err := svc.PositionChanges(ctx, year, race)
			if err != nil {
				return nil, err
			}
			t := newTable("driverId", "driver", "grid", "pos", "gained")
			for _, c := range changes {
				t.add(c.DriverID, c.Name, c.Grid, c.Position, c.Gained)
			}
			return t, nil
		})
	eventFlags(cmd)
	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := newCmd("compare", "compares two drivers within a race",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			c, err := svc.Compare(ctx, year, race, driverA, driverB)
			if err != nil {
				return nil, err
			}
			t := newTable("metric", "A", "B")
			t.add("driver", c.A.Name, c.B.Name)
			t.add("constructor", c.A.Constructor, c.B.Constructor)
			t.add("grid", c.A.GridStart, c.B.GridStart)
			t.add("finish", c.A.FinishPosition, c.B.FinishPosition)
			t.add("gained", c.A.PositionsGained, c.B.PositionsGained)
			t.add("laps", c.A.LapsCompleted, c.B.LapsCompleted)
			t.add("points", c.A.Points, c.B.Points)
			t.add("fastestLap", c.A.FastestLapTime, c.B.FastestLapTime)
			return t, nil
		})
	eventFlags(cmd)
	cmd.Flags().StringVarP(&driverA, "driver-a", "a", "", "first driver (driverId or surname)")
	cmd.Flags().StringVarP(&driverB, "driver-b", "b", "", "second driver (driverId or surname)")
	_ = cmd.MarkFlagRequired("driver-a")
	_ = cmd.MarkFlagRequired("driver-b")
	return cmd
}

//nolint:funlen // by design
func newStandingsCmd() *cobra.Command {
	cmd := newCmd("standings", "shows the championship standings",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			if constructors {
				var (
					entries []service.ConstructorStanding
					err     error
				)
				if race == "" {
					entries, err = svc.SeasonConstructorStandings(ctx, year)
				} else {
					entries, err = svc.ConstructorStandings(ctx, year, race)
				}
				if err != nil {
					return nil, err
				}
				t := newTable("pos", "constructorId", "constructor", "points", "races")
				for _, e := range entries {
					t.add(e.Position, e.Key.ConstructorID, e.Key.Name, e.Points, e.Races)
				}
				return t, nil
			}

			var (
				entries []service.DriverStanding
				err     error
			)
			if race == "" {
				entries, err = svc.SeasonDriverStandings(ctx, year)
			} else {
				entries, err = svc.DriverStandings(ctx, year, race)
			}
			if err != nil {
				return nil, err
			}
			t := newTable("pos", "driverId", "driver", "points", "races")
			for _, e := range entries {
				t.add(e.Position, e.Key.DriverID, e.Key.String(), e.Points, e.Races)
			}
			return t, nil
		})
	yearFlag(cmd)
	cmd.Flags().StringVarP(&race, "race", "r", "",
		"standings after this race (default: whole season)")
	cmd.Flags().BoolVarP(&constructors, "constructors", "c", false,
		"constructor instead of driver standings")
	return cmd
}

func newLapsCmd() *cobra.Command {
	cmd := newCmd("laps", "lists the lap times of a driver in a race",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			laps, err := svc.LapTimes(ctx, year, race, driver)
			if err != nil {
				return nil, err
			}
			t := newTable("lap", "minutes")
			for _, l := range laps {
				t.add(l.Lap, l.Minutes)
			}
			return t, nil
		})
	eventFlags(cmd)
	driverFlag(cmd)
	return cmd
}

func newPitStopsCmd() *cobra.Command {
	cmd := newCmd("pitstops", "lists the pit stops of a driver in a race",
		func(ctx context.Context, svc *service.ResultsService) (*table, error) {
			stops, err := svc.PitStops(ctx, year, race, driver)
			if err != nil {
				return nil, err
			}
			t := newTable("stop", "lap", "duration")
			for _, s := range stops {
				t.add(s.Stop, s.Lap, s.Duration)
			}
			return t, nil
		})
	eventFlags(cmd)
	driverFlag(cmd)
	return cmd
}
