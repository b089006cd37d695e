package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// releasesURL is the GitHub endpoint for the latest CLI release.
const releasesURL = "https://api.github.com/repos/leemaz/leemaz/releases/latest"

const releaseCheckTimeout = 5 * time.Second

// versionCheckMsg carries the result of a background release check.
type versionCheckMsg struct {
	latestVersion string
	hasUpdate     bool
}

type release struct {
	TagName    string `json:"tag_name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// checkVersion looks for a newer published release in the background.
// Builds without a parseable version (dev) skip the check.
func checkVersion(current string) tea.Cmd {
	if _, ok := parseVersion(current); !ok {
		return nil
	}
	return checkVersionAt(releasesURL, current)
}

func checkVersionAt(url, current string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), releaseCheckTimeout)
		defer cancel()

		rel, err := fetchRelease(ctx, url)
		if err != nil || rel.Draft || rel.Prerelease {
			return versionCheckMsg{}
		}
		if !isNewerVersion(rel.TagName, current) {
			return versionCheckMsg{}
		}
		return versionCheckMsg{latestVersion: "v" + strings.TrimPrefix(rel.TagName, "v"), hasUpdate: true}
	}
}

func fetchRelease(ctx context.Context, url string) (release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return release{}, err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return release{}, fmt.Errorf("releases: HTTP %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return release{}, err
	}
	return rel, nil
}

// parseVersion reads "v1.2.3", "1.2" or "1.2.3-rc1" into major, minor
// and patch. Missing components are zero; any pre-release suffix is dropped.
func parseVersion(v string) ([3]int, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return [3]int{}, false
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return [3]int{}, false
		}
		out[i] = n
	}
	return out, true
}

// isNewerVersion reports whether latest is a higher release than current.
// Unparseable versions never compare as newer.
func isNewerVersion(latest, current string) bool {
	l, ok := parseVersion(latest)
	if !ok {
		return false
	}
	c, ok := parseVersion(current)
	if !ok {
		return false
	}
	return slices.Compare(l[:], c[:]) > 0
}
