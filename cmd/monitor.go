package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mugen/internal/domain"
	"mugen/internal/parse"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor the configured titles for new chapters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a := newApp()
		log := a.log

		if err := a.cfg.UpdateConfig(); err != nil {
			log.Error().Err(err).Msgf("error updating config")
		}

		// init dynamic config
		a.cfg.DynamicReload(log)

		if len(a.cfg.Config.MonitoredTitles) == 0 {
			log.Warn().Msg("no monitored titles configured")
		}

		// set up a context that is cancelled on signals for graceful shutdown
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
		defer stop()

		log.Info().Msg("starting to monitor configured titles")

		check := func() {
			var g errgroup.Group

			for name, monitored := range a.cfg.Config.MonitoredTitles {
				g.Go(func() error {
					checkTitle(ctx, a, name, monitored)
					return nil
				})
			}

			_ = g.Wait()
		}

		check()

		interval := a.cfg.CheckInterval()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				fmt.Fprintln(os.Stderr, "received signal, stopping monitoring.")
				return
			case <-ticker.C:
				check()

				// pick up a check interval changed by a config reload
				if next := a.cfg.CheckInterval(); next != interval {
					log.Info().Dur("interval", next).Msg("check interval changed")
					ticker.Reset(next)
					interval = next
				}
			}
		}
	},
}

func checkTitle(ctx context.Context, a *app, name string, monitored *domain.MonitoredTitle) {
	log := a.log.With().Str("title", name).Logger()

	if monitored == nil || monitored.Title == "" {
		log.Error().Msg("monitored title has no id")
		return
	}

	title, err := a.catalog.FetchTitle(ctx, monitored.Title)
	if err != nil {
		log.Error().Err(err).Msg("error getting title")
		return
	}

	chapters, err := a.assembler.GetOrderedChapters(ctx, title.ID)
	if err != nil {
		log.Error().Err(err).Msg("error getting chapters")
		return
	}

	pending := parse.NewSince(chapters, func(chapterID string) bool {
		return a.library.HasChapter(title.ID, chapterID)
	})
	if len(pending) == 0 {
		log.Debug().Msg("no new chapters")
		return
	}

	log.Info().Int("chapters", len(pending)).Msg("downloading new chapters")

	for chapterID, err := range a.orchestrator.DownloadMany(ctx, title, pending) {
		log.Error().Err(err).Str("chapter", chapterID).Msg("error downloading chapter")
	}
}
