package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/daylog/internal/snapshot"
)

func newRebuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute tracker.json and the daily summary CSV from raw data",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			_, report, err := snapshot.Rebuild(st, a.cfg, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.cfg.TrackerJSONPath())
			return nil
		},
	}
}
