package migrate

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/cmd/util"
	"github.com/mpapenbr/f1results/pkg/config"
	"github.com/mpapenbr/f1results/pkg/db/migrate"
	"github.com/mpapenbr/f1results/pkg/db/postgres"
	"github.com/mpapenbr/f1results/pkg/utils"
)

var drop bool

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := util.Setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			return startMigration(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "reverts all migrations (removes all data)")
	return cmd
}

func startMigration(ctx context.Context) error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
		if err = utils.WaitForTCP(ctx, addr, timeout); err != nil {
			return err
		}
	}

	dbURL := postgres.PrepareURL(config.DB)
	if drop {
		log.Info("Reverting all migrations")
		return migrate.DropDB(dbURL)
	}
	changed, err := migrate.MigrateDB(dbURL)
	if err != nil {
		return err
	}
	if changed {
		log.Info("Migration applied")
	} else {
		log.Info("No Migration required")
	}
	return nil
}
