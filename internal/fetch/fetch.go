// Package fetch retrieves search-index payloads from docs.rs and the
// standard library documentation host.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jcdickinson/rsdoclink/internal/version"
)

const (
	docsRsURL = "https://docs.rs"
	stdURL    = "https://doc.rust-lang.org"
)

// ErrIndexNotFound means a crate page was retrieved but contained no
// reference to a search-index file.
var ErrIndexNotFound = errors.New("couldn't find the search index path in the page body")

// Client fetches documentation pages and index payloads.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient builds a client with the given request timeout and User-Agent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if userAgent == "" {
		userAgent = "rsdoclink/0.1.0"
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// DocsRs downloads the search index for a crate from docs.rs. When the
// requested version is Latest the concrete version is recovered from the
// URL docs.rs redirects to, whose path is <crate>/<version>/<crate>/.
func (c *Client) DocsRs(ctx context.Context, name string, ver version.Version) (version.Version, []byte, error) {
	pageURL := fmt.Sprintf("%s/%s/%s/%s/", docsRsURL, name, ver, strings.ReplaceAll(name, "-", "_"))

	slog.Debug("fetching crate page", "url", pageURL)
	body, finalURL, err := c.get(ctx, pageURL)
	if err != nil {
		return version.Version{}, nil, err
	}

	resolved := ver
	if ver.IsLatest() {
		resolved, err = versionFromPageURL(finalURL)
		if err != nil {
			return version.Version{}, nil, err
		}
	}

	indexPath, ok := FindIndexURL(string(body))
	if !ok {
		return version.Version{}, nil, ErrIndexNotFound
	}
	indexURL := fmt.Sprintf("%s/%s/%s/%s", docsRsURL, name, resolved, indexPath)

	slog.Debug("fetching search index", "url", indexURL)
	payload, _, err := c.get(ctx, indexURL)
	if err != nil {
		return version.Version{}, nil, err
	}
	return resolved, payload, nil
}

// Std downloads the standard library search index for a release channel
// (stable, beta, nightly). The stdlib version comes from the index file
// name, search-index<version>.js, rather than from any URL.
func (c *Client) Std(ctx context.Context, channel string) (version.Version, []byte, error) {
	if channel == "" {
		channel = "stable"
	}
	pageURL := fmt.Sprintf("%s/%s/std/index.html", stdURL, channel)

	slog.Debug("fetching stdlib index page", "url", pageURL)
	body, _, err := c.get(ctx, pageURL)
	if err != nil {
		return version.Version{}, nil, err
	}

	indexPath, ok := FindIndexURL(string(body))
	if !ok {
		return version.Version{}, nil, ErrIndexNotFound
	}

	resolved, err := version.FromIndexFile(lastSegment(indexPath))
	if err != nil {
		return version.Version{}, nil, err
	}

	indexURL := fmt.Sprintf("%s/%s/%s", stdURL, channel, indexPath)
	slog.Debug("fetching search index", "url", indexURL)
	payload, _, err := c.get(ctx, indexURL)
	if err != nil {
		return version.Version{}, nil, err
	}
	return resolved, payload, nil
}

// get performs a GET, following redirects, and returns the body together
// with the URL the final response came from.
func (c *Client) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", url, err)
	}
	return body, resp.Request.URL.String(), nil
}

// versionFromPageURL extracts the version segment from a docs.rs crate page
// URL, https://docs.rs/<crate>/<version>/<crate>/.
func versionFromPageURL(pageURL string) (version.Version, error) {
	trimmed := strings.TrimPrefix(pageURL, docsRsURL+"/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[1] == "" {
		return version.Version{}, fmt.Errorf("version segment missing in %q", pageURL)
	}
	v, err := version.Parse(parts[1])
	if err != nil {
		return version.Version{}, fmt.Errorf("page URL %q: %w", pageURL, err)
	}
	return v, nil
}

// FindIndexURL locates the search-index file reference in a documentation
// page. Three marker generations exist: a script src attribute, a
// data-search-index-js attribute, and the current data-resource-suffix
// attribute from which the file name is reassembled. The index file name is
// unique in the page, so plain string scanning beats parsing the HTML.
func FindIndexURL(body string) (string, bool) {
	if _, after, ok := cutLast(body, `data-resource-suffix="`); ok {
		if suffix, _, ok := strings.Cut(after, `"`); ok {
			return "search-index" + suffix + ".js", true
		}
	}

	if _, after, ok := cutLast(body, `data-search-index-js="../`); ok {
		if url, _, ok := strings.Cut(after, `"`); ok {
			return url, true
		}
	}

	if pos := strings.LastIndex(body, `src="../search-index-`); pos >= 0 {
		if _, after, ok := strings.Cut(body[pos:], `src="../`); ok {
			if url, _, ok := strings.Cut(after, `"`); ok {
				return url, true
			}
		}
	}

	return "", false
}

// cutLast is strings.Cut around the last occurrence of sep.
func cutLast(s, sep string) (before, after string, found bool) {
	pos := strings.LastIndex(s, sep)
	if pos < 0 {
		return s, "", false
	}
	return s[:pos], s[pos+len(sep):], true
}

func lastSegment(path string) string {
	if pos := strings.LastIndex(path, "/"); pos >= 0 {
		return path[pos+1:]
	}
	return path
}
