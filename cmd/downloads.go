package cmd

import (
	"fmt"
	"strconv"

	"mugen/internal/files"

	"github.com/spf13/cobra"
)

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Manage downloaded chapters",
}

var downloadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloaded titles and chapters",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a := newApp()

		titles := a.library.ListDownloads()
		if len(titles) == 0 {
			fmt.Println("No downloads")
			return nil
		}

		for _, t := range titles {
			fmt.Printf("%s  %s\n", t.Title.ID, t.Title.DisplayName())
			for i, c := range t.Chapters {
				fmt.Printf("  %3d  %s (%d pages)\n", i, c.ChapterName, len(c.ChapterPages))
			}
		}

		return nil
	},
}

var downloadsRemoveCmd = &cobra.Command{
	Use:   "remove <title-id> <position>...",
	Short: "Remove downloaded chapters by their position in downloads list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		a := newApp()

		positions, err := parsePositions(args[1:])
		if err != nil {
			return err
		}

		removed, err := a.library.RemoveChaptersAt(args[0], positions)
		if err != nil {
			return err
		}

		a.library.DeleteChapterFiles(removed)

		for _, c := range removed {
			fmt.Printf("Removed %q\n", c.ChapterName)
		}

		return nil
	},
}

var downloadsOpenCmd = &cobra.Command{
	Use:   "open <title-id> <position>",
	Short: "Print the local page files of a downloaded chapter in reading order",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		a := newApp()

		position, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}

		chapter, ok := a.library.ChapterAt(args[0], position)
		if !ok {
			return fmt.Errorf("no downloaded chapter at position %d", position)
		}

		pages := files.ExistingPages(chapter.ChapterPages)
		if missing := len(chapter.ChapterPages) - len(pages); missing > 0 {
			a.log.Warn().Str("chapter", chapter.ChapterID).Int("missing", missing).Msg("some page files are missing")
		}

		for _, p := range pages {
			fmt.Println(p)
		}

		return nil
	},
}

func parsePositions(args []string) ([]int, error) {
	positions := make([]int, 0, len(args))
	for _, arg := range args {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", arg)
		}
		positions = append(positions, i)
	}
	return positions, nil
}
