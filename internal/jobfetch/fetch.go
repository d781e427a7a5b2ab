// Package jobfetch pulls a job description out of a public job posting page.
package jobfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var (
	ErrInvalidURL          = errors.New("invalid job URL")
	ErrUnsupportedHost     = errors.New("unsupported job board")
	ErrFetch               = errors.New("fetch job description")
	ErrDescriptionNotFound = errors.New("job description not found")
)

// descriptionSelectors are tried in order; the first non-empty match wins.
var descriptionSelectors = []string{
	".description__text",
	".show-more-less-html__markup",
	"[data-testid='job-description']",
}

const (
	maxPageBytes = 5 << 20
	maxRedirects = 10
)

type Config struct {
	AllowedHosts      []string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// CookieSource returns the session cookie to send, or "" for none.
type CookieSource func() (string, error)

type Fetcher struct {
	mu      sync.RWMutex
	cfg     Config
	limiter *HostLimiter
	hc      *http.Client

	Cookie CookieSource
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fetcher{log: log.Named("jobfetch")}
	f.Reconfigure(cfg)
	return f
}

// Reconfigure swaps the fetch settings. The per-host limiter is rebuilt only
// when the rate changes.
func (f *Fetcher) Reconfigure(cfg Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limiter == nil || cfg.RequestsPerSecond != f.cfg.RequestsPerSecond || cfg.Burst != f.cfg.Burst {
		f.limiter = NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}
	f.cfg = cfg
	f.hc = &http.Client{
		Timeout:       cfg.Timeout,
		CheckRedirect: checkRedirect(cfg.AllowedHosts),
	}
}

// checkRedirect keeps every hop of a redirect chain on an allowed host.
func checkRedirect(allowed []string) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if !hostAllowed(req.URL.Hostname(), allowed) {
			return fmt.Errorf("redirect to %s: %w", req.URL.Hostname(), ErrUnsupportedHost)
		}
		return nil
	}
}

func (f *Fetcher) snapshot() (Config, *HostLimiter, *http.Client) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg, f.limiter, f.hc
}

// ValidateURL checks that raw is an absolute http(s) URL on an allowed host.
func ValidateURL(raw string, allowedHosts []string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if !hostAllowed(u.Hostname(), allowedHosts) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHost, u.Hostname())
	}
	return u, nil
}

// hostAllowed matches host against the list exactly or as a subdomain.
func hostAllowed(host string, allowed []string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

// Fetch downloads the posting at raw and returns its description text.
func (f *Fetcher) Fetch(ctx context.Context, raw string) (string, error) {
	cfg, limiter, hc := f.snapshot()

	u, err := ValidateURL(raw, cfg.AllowedHosts)
	if err != nil {
		return "", err
	}
	target := CanonicalURL(u)

	if err := limiter.WaitURL(ctx, target); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if f.Cookie != nil {
		c, err := f.Cookie()
		if err != nil {
			f.log.Debug("no session cookie", zap.Error(err))
		} else if c = strings.TrimSpace(c); c != "" {
			req.Header.Set("Cookie", c)
		}
	}

	start := time.Now()
	res, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer res.Body.Close()

	f.log.Debug("fetched posting",
		zap.String("host", u.Hostname()),
		zap.Int("status", res.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	switch {
	case res.StatusCode == http.StatusNotFound || res.StatusCode == http.StatusGone:
		return "", ErrDescriptionNotFound
	case res.StatusCode >= 400:
		return "", fmt.Errorf("%w: status %d", ErrFetch, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(res.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", ErrFetch, err)
	}

	if desc := ExtractDescription(doc); desc != "" {
		return desc, nil
	}
	return "", ErrDescriptionNotFound
}

// ExtractDescription returns the text of the first description container
// found in doc, or "".
func ExtractDescription(doc *goquery.Document) string {
	for _, sel := range descriptionSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if t := selectionText(s); t != "" {
			return t
		}
	}
	return ""
}

// UserMessage maps a Fetch error to text fit for an end user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		if strings.Contains(err.Error(), "URL is required") {
			return "URL is required"
		}
		return "A valid job posting URL is required"
	case errors.Is(err, ErrUnsupportedHost):
		return "Only LinkedIn URLs are supported"
	case errors.Is(err, ErrDescriptionNotFound):
		return "Job description not found"
	default:
		return "Failed to fetch job description"
	}
}
