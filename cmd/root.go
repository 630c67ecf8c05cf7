package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mugen",
	Short: "Browse, download and read manga from MangaDex.",
	Long: `Browse, download and read manga from MangaDex.

Provide a configuration file using one of the following methods:
1. Use the --config <path> or -c <path> flag.
2. Place a config.yaml file in the default user configuration directory (e.g., ~/.config/mugen/).
3. Place a config.yaml file a folder inside your home directory (e.g., ~/.mugen/).
4. Place a config.yaml file in the directory of the binary.`,
	SilenceUsage: true,
}

func init() {
	initRootFlags()
	initDownloadFlags()
	initExportFlags()
	initVersionFlags()

	downloadsCmd.AddCommand(downloadsListCmd)
	downloadsCmd.AddCommand(downloadsRemoveCmd)
	downloadsCmd.AddCommand(downloadsOpenCmd)

	readCmd.AddCommand(readMarkCmd)
	readCmd.AddCommand(readListCmd)
	readCmd.AddCommand(readRemoveCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(downloadsCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(monitorCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
