package cmd

import (
	"fmt"

	"mugen/internal/domain"
	"mugen/internal/files"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <title-id> [position]...",
	Short: "Export downloaded chapters as cbz, pdf or epub",
	Long: `Export downloaded chapters as cbz, pdf or epub.

Positions refer to downloads list. Without positions every downloaded chapter of the title is exported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		format, err := files.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		a := newApp()

		title, ok := a.library.GetTitle(args[0])
		if !ok {
			return fmt.Errorf("title %s has no downloads", args[0])
		}

		chapters := title.Chapters
		if len(args) > 1 {
			positions, err := parsePositions(args[1:])
			if err != nil {
				return err
			}

			chapters = make([]domain.DownloadedChapter, 0, len(positions))
			for _, p := range positions {
				if p < 0 || p >= len(title.Chapters) {
					return fmt.Errorf("no downloaded chapter at position %d", p)
				}
				chapters = append(chapters, title.Chapters[p])
			}
		}

		written, err := files.Export(title, chapters, format, a.cfg.Config.ExportDirectory, isManhwa)
		for _, w := range written {
			fmt.Println("Exported", w)
		}

		return err
	},
}
