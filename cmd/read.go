package cmd

import (
	"fmt"

	"mugen/internal/domain"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Track reading progress",
}

var readMarkCmd = &cobra.Command{
	Use:   "mark <title-id> <chapter-id>",
	Short: "Record a chapter as the last one read for a title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := newApp()

		title, err := a.catalog.FetchTitle(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get title %q: %w", args[0], err)
		}

		chapters, err := a.assembler.GetOrderedChapters(ctx, title.ID)
		if err != nil {
			return err
		}

		var chapter *domain.ChapterSummary
		for i := range chapters {
			if chapters[i].ID == args[1] {
				chapter = &chapters[i]
				break
			}
		}
		if chapter == nil {
			return fmt.Errorf("chapter %s not found for %q", args[1], title.DisplayName())
		}

		if err := a.progress.Upsert(title.ID, title, *chapter); err != nil {
			return err
		}

		label, _ := chapter.Label()
		fmt.Printf("Marked chapter %s of %q as read\n", label, title.DisplayName())
		return nil
	},
}

var readListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the last read chapter of every title",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a := newApp()

		entries := a.progress.GetAll()
		if len(entries) == 0 {
			fmt.Println("Nothing read yet")
			return nil
		}

		for i, e := range entries {
			label, ok := e.Chapter.Label()
			if !ok {
				label = "?"
			}
			fmt.Printf("%3d  %s  Ch. %s\n", i, e.Title.DisplayName(), label)
		}

		return nil
	},
}

var readRemoveCmd = &cobra.Command{
	Use:   "remove <position>...",
	Short: "Remove reading progress entries by their position in read list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a := newApp()

		positions, err := parsePositions(args)
		if err != nil {
			return err
		}

		return a.progress.RemoveAt(positions)
	},
}
