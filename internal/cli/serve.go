package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/daylog/internal/sched"
	"github.com/sadopc/daylog/internal/snapshot"
	"github.com/sadopc/daylog/internal/votes"
)

func newVotesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "votes",
		Short: "Serve the activity votes API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := votes.NewStore(a.cfg.VotesDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			return votes.NewServer(store).ListenAndServe(a.cfg.VotesAddr, a.cfg.VotesCORS)
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run ingest and rebuild on a schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := sched.New(a.cfg.CronSpec, func() error {
				return refresh(a)
			})
			if err := svc.Start(); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			svc.Stop()
			return nil
		},
	}
}

// refresh is one watch cycle: pull every source, then rebuild.
func refresh(a *app) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := runIngest(context.Background(), a, st, "", 0); err != nil {
		return err
	}
	_, _, err = snapshot.Rebuild(st, a.cfg, time.Now())
	return err
}
