package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters <title-id>",
	Short: "List the chapters of a title in reading order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		titleID := args[0]

		chapters, err := a.assembler.GetOrderedChapters(cmd.Context(), titleID)
		if err != nil {
			return err
		}

		if len(chapters) == 0 {
			fmt.Println("No chapters available")
			return nil
		}

		lastRead, hasLastRead := a.progress.Get(titleID)

		for _, c := range chapters {
			marker := " "
			if hasLastRead && lastRead.Chapter.ID == c.ID {
				marker = ">"
			}

			downloaded := " "
			if a.library.HasChapter(titleID, c.ID) {
				downloaded = "*"
			}

			label, ok := c.Label()
			if !ok {
				label = "?"
			}

			line := fmt.Sprintf("%s%s %-8s %s", marker, downloaded, label, c.ID)
			if title := c.TitleText(); title != "" {
				line += "  " + title
			}
			fmt.Println(line)
		}

		return nil
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages <chapter-id>",
	Short: "Print the page URLs of a chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()

		urls, err := a.resolver.ResolvePageURLs(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, u := range urls {
			fmt.Println(u)
		}

		return nil
	},
}
