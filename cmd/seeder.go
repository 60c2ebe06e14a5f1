package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hours-portal/internal/session"
	"github.com/frahmantamala/hours-portal/internal/state"
	"github.com/frahmantamala/hours-portal/pkg/logger"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default roster and allow-list to storage",
	Long: `Write the default application state (seed employees, allow-listed
supervisors, no hours) when storage is empty. With --clear, wipe storage and
start over from the defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		store, err := openStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		repo := state.NewRepository(store.KV, cfg.Submission.DefaultEndpointURL, logger.LoggerWrapper())
		return seed(ctx, repo, clearData)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "clear existing data before seeding")
}

func seed(ctx context.Context, repo *state.Repository, clear bool) error {
	if clear {
		controller, err := session.NewController(ctx, repo, nil, nil, logger.LoggerWrapper())
		if err != nil {
			return err
		}
		if err := controller.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("Storage cleared and reseeded with defaults")
		return nil
	}

	exists, err := repo.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect storage: %w", err)
	}
	if exists {
		fmt.Println("Storage already holds application state; use --clear to start over")
		return nil
	}

	if err := repo.Save(ctx, repo.Default()); err != nil {
		return err
	}
	fmt.Println("Seeded default application state")
	return nil
}
