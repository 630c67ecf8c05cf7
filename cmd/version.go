package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mugen/internal/buildinfo"
	"mugen/internal/sharedhttp"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// releaseURL is the GitHub latest release endpoint, set at build time with
// -ldflags "-X mugen/cmd.releaseURL=...".
var releaseURL string

var checkUpdate bool

var errNoRelease = errors.New("no release found")

type release struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Println("Version:", buildinfo.Version)
		fmt.Println("Commit:", buildinfo.Commit)
		fmt.Println("Build date:", buildinfo.Date)
		if configPath != "" {
			fmt.Println("Config:", configPath)
		} else {
			fmt.Println("Config: ./, ~/.config/mugen/ or ~/.mugen/")
		}

		if !checkUpdate {
			return nil
		}
		fmt.Println()

		if releaseURL == "" {
			return errors.New("this build has no release endpoint to check")
		}

		rel, err := latestRelease(cmd.Context(), sharedhttp.NewClient(10*time.Second), releaseURL)
		if err != nil {
			return err
		}

		if updateAvailable(buildinfo.Version, rel.TagName) {
			fmt.Println("Update available:", buildinfo.Version, "->", rel.TagName)
			fmt.Println("Published at:", rel.PublishedAt.Format(time.RFC3339))
		} else {
			fmt.Println("Up to date")
		}

		return nil
	},
}

func initVersionFlags() {
	versionCmd.Flags().BoolVar(
		&checkUpdate,
		"check",
		false,
		"check GitHub for a newer release",
	)
}

// latestRelease fetches the latest release tag from the GitHub api.
func latestRelease(ctx context.Context, client *http.Client, url string) (release, error) {
	var rel release

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return rel, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("User-Agent", sharedhttp.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := sharedhttp.ExecRequest(client, req)
	if err != nil {
		// api returns 500 instead of 404 here
		var statusErr *sharedhttp.StatusError
		if errors.As(err, &statusErr) && (statusErr.Code == http.StatusNotFound || statusErr.Code == http.StatusInternalServerError) {
			return rel, errNoRelease
		}
		return rel, errors.Wrap(err, "failed to fetch latest release from api")
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return rel, errors.Wrap(err, "failed to decode response from api")
	}

	if rel.TagName == "" {
		return rel, errNoRelease
	}

	return rel, nil
}

func updateAvailable(current, latest string) bool {
	return current != "dev" && latest != "" && latest != current
}
