package cmd

import (
	"fmt"

	"mugen/internal/domain"
	"mugen/internal/download"
	"mugen/internal/parse"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <title-id>",
	Short: "Download chapters of a title",
	Long: `Download chapters of a title into the local library.

Without --chapters the latest chapter is downloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if !cmd.Flags().Changed("chapters") {
			latest = true
		}

		a := newApp(download.WithNotifier(download.NotifierFunc(printEvent)))

		title, err := a.catalog.FetchTitle(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get title %q: %w", args[0], err)
		}

		chapters, err := a.assembler.GetOrderedChapters(ctx, title.ID)
		if err != nil {
			return fmt.Errorf("failed to get chapters for %q: %w", title.DisplayName(), err)
		}

		var selected []domain.ChapterSummary

		if latest {
			if c, ok := parse.Latest(chapters); ok {
				selected = append(selected, c)
			}
		} else {
			selected, err = parse.ChapterSelection(chapterNumbers, chapters)
			if err != nil {
				return fmt.Errorf("failed to parse chapter selection for %q: %w", title.DisplayName(), err)
			}
		}

		if len(selected) == 0 {
			return fmt.Errorf("failed to find matching chapters in range %s for %q", chapterNumbers, title.DisplayName())
		}

		failed := a.orchestrator.DownloadMany(ctx, title, selected)
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d chapters failed to download", len(failed), len(selected))
		}

		return nil
	},
}

func printEvent(e download.Event) {
	switch e.Kind {
	case download.EventStarted:
		fmt.Printf("Downloading %q...\n", e.ChapterName)
	case download.EventCompleted:
		fmt.Printf("Finished downloading %q (%d pages)\n", e.ChapterName, e.Pages)
	case download.EventFailed:
		fmt.Printf("Failed to download chapter %q: %v\n", e.ChapterName, e.Err)
		if domain.Retryable(e.Err) {
			fmt.Println("  try again later")
		}
	}
}
