package buildinfo

// Set with -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)
