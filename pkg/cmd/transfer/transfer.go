package transfer

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/cmd/util"
	"github.com/mpapenbr/f1results/pkg/config"
	"github.com/mpapenbr/f1results/pkg/dataset"
	"github.com/mpapenbr/f1results/pkg/dataset/csvsource"
	"github.com/mpapenbr/f1results/pkg/repository/api"
	bobRepos "github.com/mpapenbr/f1results/pkg/repository/bob"
)

var replace bool

func NewTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "imports the csv datasets into the database",
		Long: `Reads the csv files from --data-dir, validates them and writes all rows
into the database within a single transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := util.Setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			pool, err := env.Pool(cmd.Context())
			if err != nil {
				return err
			}
			src := dataset.New(csvsource.New(config.DataDir,
				csvsource.WithResultsFile(config.ResultsFile),
				csvsource.WithLapTimesFile(config.LapTimesFile),
				csvsource.WithPitStopsFile(config.PitStopsFile),
			))
			return Transfer(cmd.Context(), src,
				bobRepos.NewRepositoriesFromPool(pool),
				bobRepos.NewTransactionManagerFromPool(pool),
				replace)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false,
		"deletes existing rows before the import")
	return cmd
}

// Transfer writes all tables of src to the repositories in one transaction.
// With replaceExisting the current rows are removed first.
//
//nolint:whitespace // editor/linter issue
func Transfer(
	ctx context.Context,
	src *dataset.Dataset,
	repos api.Repositories,
	txMgr api.TransactionManager,
	replaceExisting bool,
) error {
	results, err := src.Results(ctx)
	if err != nil {
		return err
	}
	laps, err := src.LapTimes(ctx)
	if err != nil {
		return err
	}
	stops, err := src.PitStops(ctx)
	if err != nil {
		return err
	}

	return txMgr.RunInTx(ctx, func(ctx context.Context) error {
		if replaceExisting {
			if err := deleteAll(ctx, repos); err != nil {
				return err
			}
		}
		n, err := repos.Result().Create(ctx, results)
		if err != nil {
			return fmt.Errorf("storing results: %w", err)
		}
		log.Info("results stored", log.Int("rows", n))

		if n, err = repos.LapTime().Create(ctx, laps.Rows()); err != nil {
			return fmt.Errorf("storing lap times: %w", err)
		}
		log.Info("lap times stored", log.Int("rows", n))

		if n, err = repos.PitStop().Create(ctx, stops.Rows()); err != nil {
			return fmt.Errorf("storing pit stops: %w", err)
		}
		log.Info("pit stops stored", log.Int("rows", n))
		return nil
	})
}

func deleteAll(ctx context.Context, repos api.Repositories) error {
	if _, err := repos.PitStop().DeleteAll(ctx); err != nil {
		return err
	}
	if _, err := repos.LapTime().DeleteAll(ctx); err != nil {
		return err
	}
	n, err := repos.Result().DeleteAll(ctx)
	if err != nil {
		return err
	}
	log.Info("existing results removed", log.Int("rows", n))
	return nil
}
