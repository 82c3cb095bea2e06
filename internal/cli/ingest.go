package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/daylog/internal/ingest"
	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		source string
		all    bool
		days   int
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Pull raw data from one source or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" && !all {
				return fmt.Errorf("pass --source <name> or --all")
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			return runIngest(cmd.Context(), a, st, source, days)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source to ingest (oura, apple_health, work, travel)")
	cmd.Flags().BoolVar(&all, "all", false, "ingest every configured source")
	cmd.Flags().IntVar(&days, "days", 0, "override the fetch window to the last N days")
	return cmd
}

// runIngest executes the selected ingestors. An empty source means all.
// A failing source logs and moves on; the command only fails when every
// selected source fails.
func runIngest(ctx context.Context, a *app, st *rawstore.Store, source string, days int) error {
	// Telegram is drained first so fresh health exports are on disk
	// before the apple health ingestor scans its directory.
	if a.cfg.TelegramToken != "" && (source == "" || source == schema.SourceAppleHealth) {
		poller, err := ingest.NewTelegramPoller(a.cfg.TelegramToken, a.cfg.TelegramChatID, appleHealthDir(a))
		if err != nil {
			log.Printf("[ingest] telegram unavailable: %v", err)
		} else if _, err := poller.Poll(); err != nil {
			log.Printf("[ingest] telegram poll: %v", err)
		}
	}

	ingestors := selectIngestors(a, source)
	if len(ingestors) == 0 {
		return fmt.Errorf("unknown source %q", source)
	}

	now := time.Now()
	failures := 0
	for _, ing := range ingestors {
		from, to, err := ingest.ResolveRange(st, ing.Name(), days, now)
		if err != nil {
			return err
		}
		if to.Before(from) {
			log.Printf("[ingest] %s is up to date", ing.Name())
			continue
		}
		log.Printf("[ingest] %s: %s .. %s", ing.Name(), from.Format("2006-01-02"), to.Format("2006-01-02"))
		if err := ing.Run(ctx, st, from, to); err != nil {
			if rawstore.IsStructural(err) {
				return err
			}
			log.Printf("[ingest] %s failed: %v", ing.Name(), err)
			failures++
		}
	}

	if failures == len(ingestors) {
		return fmt.Errorf("all %d sources failed", failures)
	}
	return nil
}

func selectIngestors(a *app, source string) []ingest.Ingestor {
	available := []ingest.Ingestor{
		&ingest.Oura{Token: a.cfg.OuraToken, CacheDir: a.cfg.CacheDir()},
		&ingest.AppleHealth{Dir: appleHealthDir(a)},
		&ingest.Work{SheetURL: a.cfg.SheetURL},
		&ingest.Travel{SheetURL: a.cfg.SheetURL},
	}
	if source == "" {
		return available
	}
	for _, ing := range available {
		if ing.Name() == source {
			return []ingest.Ingestor{ing}
		}
	}
	return nil
}

func appleHealthDir(a *app) string {
	return filepath.Join(a.cfg.RawDir(), "apple_health")
}
