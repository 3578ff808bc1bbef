// Package selfupdate checks GitHub releases for a newer careerfit build and
// replaces the running binary with it.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

const (
	defaultOwner           = "abhisek"
	defaultRepo            = "careerfit"
	defaultBaseURL         = "https://api.github.com"
	defaultDownloadBaseURL = "https://github.com"
	defaultChecksums       = "careerfit_{version}_checksums.txt"
	devVersion             = "(devel)"
)

// Checker talks to the GitHub releases API.
type Checker struct {
	client          *http.Client
	owner           string
	repo            string
	baseURL         string
	downloadBaseURL string
	checksums       string
	platform        Platform
	log             *zap.Logger
	execPath        func() (string, error)
}

type Option func(*Checker)

// WithBaseURL points the API calls at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Checker) { c.baseURL = u }
}

// WithDownloadBaseURL points asset downloads at another host.
func WithDownloadBaseURL(u string) Option {
	return func(c *Checker) { c.downloadBaseURL = u }
}

// WithRepository sets the GitHub "owner/name" to release from. Malformed
// values are ignored.
func WithRepository(ownerRepo string) Option {
	return func(c *Checker) {
		owner, repo, ok := strings.Cut(ownerRepo, "/")
		if ok && owner != "" && repo != "" {
			c.owner, c.repo = owner, repo
		}
	}
}

// WithChecksums sets the checksums asset name; {version} is replaced by the
// release version without its "v" prefix.
func WithChecksums(pattern string) Option {
	return func(c *Checker) {
		if pattern != "" {
			c.checksums = pattern
		}
	}
}

// WithLogger logs update steps to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) { c.log = l }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

func withPlatform(p Platform) Option {
	return func(c *Checker) { c.platform = p }
}

// NewChecker returns a Checker for the careerfit releases on GitHub.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:          &http.Client{Timeout: 10 * time.Second},
		owner:           defaultOwner,
		repo:            defaultRepo,
		baseURL:         defaultBaseURL,
		downloadBaseURL: defaultDownloadBaseURL,
		checksums:       defaultChecksums,
		platform:        Platform{OS: runtime.GOOS, Arch: runtime.GOARCH},
		log:             zap.NewNop(),
		execPath:        os.Executable,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type CheckInput struct {
	Version string
}

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check compares input.Version with the latest published release. Versions
// that are not valid semver, including development builds, never report an
// update.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.baseURL, "/"), c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	current := canonical(input.Version)
	latest := canonical(rel.TagName)
	c.log.Debug("latest release", zap.String("repo", c.owner+"/"+c.repo), zap.String("tag", rel.TagName))
	return &CheckResult{
		CurrentVersion:  input.Version,
		LatestVersion:   rel.TagName,
		ReleaseURL:      rel.HTMLURL,
		UpdateAvailable: semver.IsValid(current) && semver.IsValid(latest) && semver.Compare(latest, current) > 0,
	}, nil
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	if v == "" || v == devVersion || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
