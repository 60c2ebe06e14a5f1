package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/state"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
	"github.com/frahmantamala/hours-portal/pkg/logger"
)

var (
	reportEmail string
	reportWeek  string
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a week's hours to an xlsx workbook",
	Long: `Build the weekly workbook (a Summary sheet plus one sheet per department)
as the given allow-listed supervisor would see it. Storage is only read.`,
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
		data, week, err := report(ctx, repo, cfg.Submission.CompanyLabel, reportEmail, reportWeek, time.Now())
		if err != nil {
			return err
		}

		if reportOut == "" {
			reportOut = "hours-" + week + ".xlsx"
		}
		if err := os.WriteFile(reportOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", reportOut, err)
		}
		fmt.Println("Wrote", reportOut)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportEmail, "email", "e", "", "allow-listed supervisor email whose departments are exported")
	reportCmd.Flags().StringVarP(&reportWeek, "week", "w", "", "any date in the week (YYYY-MM-DD); defaults to last week")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default hours-<week>.xlsx)")
	_ = reportCmd.MarkFlagRequired("email")
}

// report builds the workbook and returns the Monday it resolved week to.
// An empty week means the week before now.
func report(ctx context.Context, repo *state.Repository, companyLabel, email, week string, now time.Time) ([]byte, string, error) {
	st, err := repo.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	sup, ok := supervisor.FindByEmail(st.Supervisors, email)
	if !ok {
		return nil, "", internal.ErrLoginDenied
	}

	if week == "" {
		week = timesheet.PreviousWeek(now)
	}

	batch, err := submission.NewFormatter(companyLabel).Format(week, sup, st.Employees, st.Store())
	if err != nil {
		return nil, "", err
	}
	data, err := submission.Workbook(batch)
	if err != nil {
		return nil, "", err
	}
	return data, batch.WeekStartDate, nil
}
