// Package cli wires the daylog commands. Row-scoped problems surface as
// warnings in the run report; only structural failures (unreadable
// store, dead network, bad arguments) make a command exit non-zero.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/daylog/internal/config"
	"github.com/sadopc/daylog/internal/rawstore"
)

type app struct {
	cfg *config.Config
}

func (a *app) openStore() (*rawstore.Store, error) {
	return rawstore.New(a.cfg.DBPath())
}

// NewRootCmd assembles the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "daylog",
		Short: "Personal quantified-self pipeline: ingest, merge, score, browse",
		Long: `daylog pulls daily metrics from Oura, Apple Health, and a shared
Google Sheet into a local store, merges them into one record per day,
segments flights into trips, and writes the tracker.json artifact the
dashboard reads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(
		newIngestCmd(a),
		newRebuildCmd(a),
		newLogCmd(a),
		newDashCmd(a),
		newVotesCmd(a),
		newWatchCmd(a),
	)
	return root
}

// Execute runs the CLI and reports whether it failed.
func Execute() error {
	return NewRootCmd().Execute()
}
