package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"mugen/internal/domain"
	"mugen/internal/logger"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var configTemplate = `# config.yaml

# Data Directory
# Where the library and reading progress documents are kept
# Leave empty to use ~/.mugen
#
# Default: ""
#
dataDir: ""

# Pages Directory
# Where downloaded chapter pages are written
# Leave empty to use <dataDir>/pages
#
# Default: ""
#
pagesDir: ""

# Export Directory
# Where exported CBZ, PDF and EPUB files are written
# Leave empty to use <dataDir>/exports
#
# Default: ""
#
exportDirectory: ""

# MangaDex API
#
# Default: "https://api.mangadex.org"
#
apiURL: "https://api.mangadex.org"

# MangaDex uploads server, used for cover images
#
# Default: "https://uploads.mangadex.org"
#
uploadsURL: "https://uploads.mangadex.org"

# Seasonal list
# JSON document listing the curated titles shown on the home screen
#
# Default: "https://antsylich.github.io/mangadex-seasonal/seasonal-list.json"
#
seasonalURL: "https://antsylich.github.io/mangadex-seasonal/seasonal-list.json"

# Seasonal MangaDex list id
# Used when the seasonal list above cannot be loaded
#
# Optional
#
#seasonalListID: ""

# Chapter language
#
# Default: "en"
#
language: "en"

# HTTP timeout in seconds
#
# Default: 60
#
httpTimeout: 60

# Number of chapters downloaded at the same time
#
# Default: 3
#
chapterConcurrency: 3

# Number of pages of one chapter downloaded at the same time
#
# Default: 4
#
pageConcurrency: 4

# Attempts per page before the chapter download is abandoned
# 1 means a failing page aborts the chapter right away
#
# Default: 1
#
downloadAttempts: 1

# Chapter Naming Template
# Name stored for a downloaded chapter and used for exported files
# The default will result in something like this: Vol. 3 Ch. 21 - Chapter Title
#
# Default: "{vol:Vol. <.> }Ch. {num}{title: - <.>}"
#
chapterNaming: "{vol:Vol. <.> }Ch. {num}{title: - <.>}"

# Check interval in minutes for the monitor command
#
# Default: 15
#
checkInterval: 15

# Monitored Titles
# New chapters of these titles are downloaded by the monitor command
#
#monitoredTitles:
#  Naruto:
#    # ID of the title on MangaDex
#    title: "6b1eb93e-473a-4ab3-9922-1a66d2a29a4a"

# mugen logs file
# If not defined, logs to stderr
# Make sure to use forward slashes and include the filename with extension. e.g. "logs/mugen.log"
#
# Optional
#
#logPath: ""

# Log level
#
# Default: "INFO"
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel: "INFO"

# Log Max Size
#
# Default: 50
#
# Max log size in megabytes
#
#logMaxSize: 50

# Log Max Backups
#
# Default: 3
#
# Max amount of old log files
#
#logMaxBackups: 3
`

func (c *AppConfig) writeConfig(configPath string, configFile string) error {
	cfgPath := filepath.Join(configPath, configFile)

	// check if configPath exists, if not create it
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(configPath, os.ModePerm)
		if err != nil {
			log.Println(err)
			return err
		}
	}

	// check if config exists, if not create it
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		f, err := os.Create(cfgPath)
		if err != nil {
			log.Printf("error creating file: %q", err)
			return err
		}
		defer f.Close()

		if _, err = f.WriteString(configTemplate); err != nil {
			log.Printf("error writing contents to file: %v %q", configPath, err)
			return err
		}

		return f.Sync()
	}

	return nil
}

type Config interface {
	UpdateConfig() error
	DynamicReload(log logger.Logger)
}

type AppConfig struct {
	Config *domain.Config
	v      *viper.Viper
	m      *sync.Mutex
}

func New(configPath string, version string) *AppConfig {
	c := &AppConfig{
		v: viper.New(),
		m: new(sync.Mutex),
	}
	c.defaults()
	c.Config = &domain.Config{
		Version:    version,
		ConfigPath: configPath,
	}

	c.load(configPath)
	c.loadFromEnv()
	c.resolveDirectories()

	return c
}

func (c *AppConfig) defaults() {
	c.v.SetDefault("dataDir", "")
	c.v.SetDefault("pagesDir", "")
	c.v.SetDefault("exportDirectory", "")
	c.v.SetDefault("apiURL", "https://api.mangadex.org")
	c.v.SetDefault("uploadsURL", "https://uploads.mangadex.org")
	c.v.SetDefault("seasonalURL", "https://antsylich.github.io/mangadex-seasonal/seasonal-list.json")
	c.v.SetDefault("seasonalListID", "")
	c.v.SetDefault("language", "en")
	c.v.SetDefault("httpTimeout", 60)
	c.v.SetDefault("chapterConcurrency", 3)
	c.v.SetDefault("pageConcurrency", 4)
	c.v.SetDefault("downloadAttempts", 1)
	c.v.SetDefault("chapterNaming", "{vol:Vol. <.> }Ch. {num}{title: - <.>}")
	c.v.SetDefault("checkInterval", 15)
	c.v.SetDefault("monitoredTitles", make(map[string]*domain.MonitoredTitle))
	c.v.SetDefault("logPath", "")
	c.v.SetDefault("logLevel", "INFO")
	c.v.SetDefault("logMaxSize", 50)
	c.v.SetDefault("logMaxBackups", 3)
}

func (c *AppConfig) loadFromEnv() {
	prefix := "MUGEN__"

	envs := os.Environ()
	for _, env := range envs {
		if strings.HasPrefix(env, prefix) {
			envPair := strings.SplitN(env, "=", 2)

			if envPair[1] != "" {
				switch envPair[0] {
				case prefix + "DATA_DIR":
					c.Config.DataDir = envPair[1]
				case prefix + "PAGES_DIR":
					c.Config.PagesDir = envPair[1]
				case prefix + "EXPORT_DIRECTORY":
					c.Config.ExportDirectory = envPair[1]
				case prefix + "API_URL":
					c.Config.APIURL = envPair[1]
				case prefix + "LANGUAGE":
					c.Config.Language = envPair[1]
				case prefix + "CHAPTER_NAMING":
					c.Config.ChapterNaming = envPair[1]
				case prefix + "HTTP_TIMEOUT":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.HTTPTimeout = int(i)
					}
				case prefix + "CHAPTER_CONCURRENCY":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.ChapterConcurrency = int(i)
					}
				case prefix + "PAGE_CONCURRENCY":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.PageConcurrency = int(i)
					}
				case prefix + "DOWNLOAD_ATTEMPTS":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.DownloadAttempts = int(i)
					}
				case prefix + "CHECK_INTERVAL":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.CheckInterval = int(i)
					}
				case prefix + "LOG_LEVEL":
					c.Config.LogLevel = envPair[1]
				case prefix + "LOG_PATH":
					c.Config.LogPath = envPair[1]
				case prefix + "LOG_MAX_SIZE":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.LogMaxSize = int(i)
					}
				case prefix + "LOG_MAX_BACKUPS":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.LogMaxBackups = int(i)
					}
				}
			}
		}
	}
}

func (c *AppConfig) load(configPath string) {
	c.v.SetConfigType("yaml")

	if configPath != "" {
		// clean trailing slash from configPath
		configPath = path.Clean(configPath)

		// check if path and file exists
		// if not, create path and file
		if err := c.writeConfig(configPath, "config.yaml"); err != nil {
			log.Printf("write error: %q", err)
		}

		c.v.SetConfigFile(path.Join(configPath, "config.yaml"))
	} else {
		c.v.SetConfigName("config")

		// Search config in directories
		c.v.AddConfigPath(".")
		c.v.AddConfigPath("$HOME/.config/mugen")
		c.v.AddConfigPath("$HOME/.mugen")
	}

	// read config
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("config read error: %q", err)
		}
	}

	if err := c.v.Unmarshal(c.Config); err != nil {
		log.Fatalf("Could not unmarshal config file: %v: err %q", c.v.ConfigFileUsed(), err)
	}
}

// resolveDirectories fills in the directories derived from dataDir.
func (c *AppConfig) resolveDirectories() {
	if c.Config.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Config.DataDir = filepath.Join(home, ".mugen")
	}

	if c.Config.PagesDir == "" {
		c.Config.PagesDir = filepath.Join(c.Config.DataDir, "pages")
	}

	if c.Config.ExportDirectory == "" {
		c.Config.ExportDirectory = filepath.Join(c.Config.DataDir, "exports")
	}
}

// Validate checks the values the services are built from.
func (c *AppConfig) Validate() error {
	cfg := c.Config

	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.DataDir, validation.Required),
		validation.Field(&cfg.PagesDir, validation.Required),
		validation.Field(&cfg.APIURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&cfg.UploadsURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&cfg.SeasonalURL, validation.By(absoluteURL)),
		validation.Field(&cfg.Language, validation.Required, validation.Length(2, 8)),
		validation.Field(&cfg.HTTPTimeout, validation.Required, validation.Min(1)),
		validation.Field(&cfg.ChapterConcurrency, validation.Required, validation.Min(1)),
		validation.Field(&cfg.PageConcurrency, validation.Required, validation.Min(1)),
		validation.Field(&cfg.DownloadAttempts, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&cfg.CheckInterval, validation.Required, validation.Min(1)),
		validation.Field(&cfg.MonitoredTitles, validation.By(monitoredTitles)),
	)
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}

func monitoredTitles(value interface{}) error {
	titles, _ := value.(map[string]*domain.MonitoredTitle)
	for name, t := range titles {
		if t == nil || t.Title == "" {
			return fmt.Errorf("%s: title id is required", name)
		}
	}
	return nil
}

// CheckInterval returns the monitor check interval. It can change while
// running when the config file is reloaded.
func (c *AppConfig) CheckInterval() time.Duration {
	c.m.Lock()
	defer c.m.Unlock()

	return time.Duration(max(c.Config.CheckInterval, 1)) * time.Minute
}

func (c *AppConfig) DynamicReload(log logger.Logger) {
	c.v.WatchConfig()

	c.v.OnConfigChange(func(_ fsnotify.Event) {
		c.m.Lock()
		defer c.m.Unlock()

		logLevel := c.v.GetString("logLevel")
		c.Config.LogLevel = logLevel
		log.SetLogLevel(c.Config.LogLevel)

		logPath := c.v.GetString("logPath")
		c.Config.LogPath = logPath

		if interval := c.v.GetInt("checkInterval"); interval > 0 {
			c.Config.CheckInterval = interval
		}

		log.Debug().Msg("config file reloaded!")
	})
}

func (c *AppConfig) UpdateConfig() error {
	filePath := path.Join(c.Config.ConfigPath, "config.yaml")

	f, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("could not read config filePath: %s: %w", filePath, err)
	}

	lines := strings.Split(string(f), "\n")
	lines = c.processLines(lines)

	output := strings.Join(lines, "\n")
	if err := os.WriteFile(filePath, []byte(output), 0o644); err != nil {
		return fmt.Errorf("could not write config file: %s: %w", filePath, err)
	}

	return nil
}

func (c *AppConfig) processLines(lines []string) []string {
	// keep track of not found values to append at bottom
	var (
		foundLineLogLevel = false
		foundLineLogPath  = false
	)

	for i, line := range lines {
		if !foundLineLogLevel && strings.Contains(line, "logLevel:") {
			lines[i] = fmt.Sprintf(`logLevel: "%s"`, c.Config.LogLevel)
			foundLineLogLevel = true
		}
		if !foundLineLogPath && strings.Contains(line, "logPath:") {
			if c.Config.LogPath == "" {
				lines[i] = `#logPath: ""`
			} else {
				lines[i] = fmt.Sprintf(`logPath: "%s"`, c.Config.LogPath)
			}
			foundLineLogPath = true
		}
	}

	if !foundLineLogLevel {
		lines = append(lines, "# Log level")
		lines = append(lines, "#")
		lines = append(lines, `# Default: "INFO"`)
		lines = append(lines, "#")
		lines = append(lines, `# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"`)
		lines = append(lines, "#")
		lines = append(lines, fmt.Sprintf(`logLevel: "%s"`, c.Config.LogLevel))
	}

	if !foundLineLogPath {
		lines = append(lines, "# Log Path")
		lines = append(lines, "#")
		lines = append(lines, "# Optional")
		lines = append(lines, "#")
		if c.Config.LogPath == "" {
			lines = append(lines, `#logPath: ""`)
		} else {
			lines = append(lines, fmt.Sprintf(`logPath: "%s"`, c.Config.LogPath))
		}
	}

	return lines
}
