// Package updater asks GitHub whether a newer gv release exists.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/mod/semver"
)

// ReleasesURL is the latest release endpoint of the gv repository.
const ReleasesURL = "https://api.github.com/repos/Dicklesworthstone/gallery_viewer/releases/latest"

// Release is the part of the GitHub release payload gv reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker returns a checker for the gv repository with a short timeout.
func NewChecker() *Checker {
	return &Checker{
		URL:    ReleasesURL,
		Client: &http.Client{Timeout: 2 * time.Second},
	}
}

// Latest fetches the newest release
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return Release{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("github api returned status: %s", resp.Status)
	}
	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Release{}, fmt.Errorf("decode release: %w", err)
	}
	return rel, nil
}

// Newer returns the latest release when it is newer than current. A current
// version that is not semver (a dev build) never reports an update.
func (c *Checker) Newer(ctx context.Context, current string) (Release, bool, error) {
	rel, err := c.Latest(ctx)
	if err != nil {
		return Release{}, false, err
	}
	if !semver.IsValid(current) || !semver.IsValid(rel.TagName) {
		return rel, false, nil
	}
	return rel, semver.Compare(rel.TagName, current) > 0, nil
}
