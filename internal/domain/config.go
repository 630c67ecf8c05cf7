package domain

type Config struct {
	Version            string
	ConfigPath         string
	DataDir            string                     `yaml:"dataDir"`
	PagesDir           string                     `yaml:"pagesDir"`
	APIURL             string                     `yaml:"apiURL"`
	UploadsURL         string                     `yaml:"uploadsURL"`
	SeasonalURL        string                     `yaml:"seasonalURL"`
	SeasonalListID     string                     `yaml:"seasonalListID"`
	Language           string                     `yaml:"language"`
	HTTPTimeout        int                        `yaml:"httpTimeout"` // in seconds
	ChapterConcurrency int                        `yaml:"chapterConcurrency"`
	PageConcurrency    int                        `yaml:"pageConcurrency"`
	DownloadAttempts   int                        `yaml:"downloadAttempts"`
	ChapterNaming      string                     `yaml:"chapterNaming"`
	ExportDirectory    string                     `yaml:"exportDirectory"`
	CheckInterval      int                        `yaml:"checkInterval"`
	MonitoredTitles    map[string]*MonitoredTitle `yaml:"monitoredTitles"`
	LogPath            string                     `yaml:"logPath"`
	LogLevel           string                     `yaml:"logLevel"`
	LogMaxSize         int                        `yaml:"logMaxSize"` // in megabytes
	LogMaxBackups      int                        `yaml:"logMaxBackups"`
}

type MonitoredTitle struct {
	Title string `yaml:"title"`
}
