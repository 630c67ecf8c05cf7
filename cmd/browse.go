package cmd

import (
	"fmt"
	"strings"

	"mugen/internal/domain"
	"mugen/internal/source"

	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "List the curated seasonal titles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp()

		titles, err := a.browser.Home(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load seasonal titles: %w", err)
		}

		printTitles(titles, source.UploadsURL(a.cfg.Config))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search titles by name",
	Long:  "Search titles by name. An empty query shows the curated seasonal titles.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()

		titles, err := a.browser.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to search titles: %w", err)
		}

		if len(titles) == 0 {
			fmt.Println("No titles found")
			return nil
		}

		printTitles(titles, source.UploadsURL(a.cfg.Config))
		return nil
	},
}

func printTitles(titles []domain.Title, uploadsURL string) {
	for i, t := range titles {
		line := fmt.Sprintf("%3d  %s  %s", i, t.ID, t.DisplayName())
		if year := t.PublicationYear(); year > 0 {
			line += fmt.Sprintf(" (%d)", year)
		}
		fmt.Println(line)

		if cover, ok := t.CoverURL(uploadsURL); ok {
			fmt.Println("     cover:", cover)
		}
	}
}
