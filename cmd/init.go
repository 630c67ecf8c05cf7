package cmd

import (
	"mugen/internal/buildinfo"
	"mugen/internal/config"
	"mugen/internal/download"
	"mugen/internal/feed"
	"mugen/internal/library"
	"mugen/internal/logger"
	"mugen/internal/progress"
	"mugen/internal/source"
)

var (
	configPath string

	chapterNumbers string
	latest         bool

	exportFormat string
	isManhwa     bool
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"specifies the path to your config file",
	)
}

func initDownloadFlags() {
	downloadCmd.Flags().StringVarP(
		&chapterNumbers,
		"chapters",
		"C",
		"",
		"specifies the chapter numbers you want to download, e.g. 1-3,5,7.5",
	)
	downloadCmd.Flags().BoolVarP(
		&latest,
		"latest",
		"L",
		false,
		"download the latest chapter",
	)

	downloadCmd.MarkFlagsMutuallyExclusive("latest", "chapters")
}

func initExportFlags() {
	exportCmd.Flags().StringVarP(
		&exportFormat,
		"format",
		"f",
		"cbz",
		"specifies the export format: cbz, pdf or epub",
	)
	exportCmd.Flags().BoolVarP(
		&isManhwa,
		"manhwa",
		"w",
		false,
		"drop pages with an uncommon width when building a cbz",
	)
}

// app holds the services every command is built from.
type app struct {
	cfg          *config.AppConfig
	log          logger.Logger
	catalog      *source.Mangadex
	browser      *source.Browser
	assembler    *feed.Assembler
	resolver     *feed.Resolver
	library      *library.Store
	progress     *progress.Store
	orchestrator *download.Orchestrator
}

func newApp(opts ...download.Option) *app {
	// read config
	cfg := config.New(configPath, buildinfo.Version)

	// init new logger
	log := logger.New(cfg.Config)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	catalog := source.NewMangadex(cfg.Config)
	resolver := feed.NewResolver(catalog)
	lib := library.New(cfg.Config.DataDir, log.Module("library"))

	return &app{
		cfg:          cfg,
		log:          log,
		catalog:      catalog,
		browser:      source.NewBrowser(catalog),
		assembler:    feed.NewAssembler(catalog),
		resolver:     resolver,
		library:      lib,
		progress:     progress.New(cfg.Config.DataDir, log.Module("progress")),
		orchestrator: download.NewOrchestrator(resolver, lib, cfg.Config, log.Module("download"), opts...),
	}
}
