// google.go downloads font files from the Google Fonts CSS API.
//
// Specs use the format "google:FAMILY[:WEIGHT]" (e.g. "google:Inter:800").
// Downloaded fonts are cached so they aren't re-fetched on every run.

package fontsrc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/image/font"
	"tools.zach/dev/fixturegen/internal/atomicfile"
)

// DefaultCSSEndpoint is the Google Fonts CSS2 API.
const DefaultCSSEndpoint = "https://fonts.googleapis.com/css2"

// fontURLRe extracts the font file URL from the CSS response.
// Matches: url(https://fonts.gstatic.com/s/inter/v18/xxx.woff2)
var fontURLRe = regexp.MustCompile(`url\((https?://[^)\s]+)\)`)

// httpClient is a lazily-initialized retryablehttp client shared across all
// Google font downloads.
var (
	httpClient     *retryablehttp.Client
	httpClientOnce sync.Once
)

func getHTTPClient() *retryablehttp.Client {
	httpClientOnce.Do(func() {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = 2
		httpClient.HTTPClient.Timeout = 15 * time.Second
		httpClient.Logger = nil
	})
	return httpClient
}

// DefaultGoogleWeight is used when a spec names no weight.
const DefaultGoogleWeight = "400"

// ParseGoogleSpec parses a "google:Family[:Weight]" spec into its parts.
func ParseGoogleSpec(spec string) (family, weight string, ok bool) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] != "google" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], DefaultGoogleWeight, true
	}
	if parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// Google is a font family served by Google Fonts. The first Load downloads
// (or reads from cache) and parses the font; later loads reuse it.
type Google struct {
	spec     string
	family   string
	weight   string
	cacheDir string
	// endpoint is the CSS API base URL; tests point it at an httptest server.
	endpoint string
	parsed   parsedFont
}

// NewGoogle returns a source for spec that caches downloads in cacheDir.
// An empty cacheDir disables caching.
func NewGoogle(spec, cacheDir string) (*Google, error) {
	family, weight, ok := ParseGoogleSpec(spec)
	if !ok {
		return nil, fmt.Errorf("invalid google font spec %q: expected google:FAMILY[:WEIGHT]", spec)
	}
	return &Google{
		spec:     spec,
		family:   family,
		weight:   weight,
		cacheDir: cacheDir,
		endpoint: DefaultCSSEndpoint,
	}, nil
}

func (g *Google) Name() string { return g.spec }

func (g *Google) Load(size int) (font.Face, error) {
	f, err := g.parsed.get(g.fetch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.spec, err)
	}
	return face(f, size)
}

// cacheFile is where the downloaded font is stored.
func (g *Google) cacheFile() string {
	name := strings.ReplaceAll(g.family, " ", "_") + "-" + g.weight + ".font"
	return filepath.Join(g.cacheDir, name)
}

// fetch returns the raw font bytes, preferring the on-disk cache.
func (g *Google) fetch() ([]byte, error) {
	if g.cacheDir != "" {
		if data, err := os.ReadFile(g.cacheFile()); err == nil {
			return data, nil
		}
	}

	cssURL := fmt.Sprintf("%s?family=%s:wght@%s", g.endpoint, url.QueryEscape(g.family), g.weight)
	css, err := get(cssURL, 1<<20, true)
	if err != nil {
		return nil, fmt.Errorf("fetching CSS from Google Fonts: %w", err)
	}

	m := fontURLRe.FindSubmatch(css)
	if m == nil {
		return nil, fmt.Errorf("no font URL found in Google Fonts CSS response for %s wght@%s", g.family, g.weight)
	}

	data, err := get(string(m[1]), 10<<20, false)
	if err != nil {
		return nil, fmt.Errorf("downloading font file: %w", err)
	}

	if g.cacheDir != "" {
		if err := os.MkdirAll(g.cacheDir, 0o755); err != nil {
			slog.Warn("failed to create font cache dir", "dir", g.cacheDir, "error", err)
		} else if err := atomicfile.Write(g.cacheFile(), data, 0o644); err != nil {
			slog.Warn("failed to cache font", "path", g.cacheFile(), "error", err)
		}
	}
	slog.Info("downloaded font", "family", g.family, "weight", g.weight, "bytes", len(data))
	return data, nil
}

// get performs a GET through the shared retrying client and returns at most
// limit bytes of the body.
func get(rawURL string, limit int64, browserUA bool) ([]byte, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if browserUA {
		// A modern UA makes Google return WOFF2 URLs, which parseFont converts.
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	}
	resp, err := getHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	return body, nil
}
