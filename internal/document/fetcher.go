package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultURL is fetched when --url is given without a value.
const DefaultURL = "google.com"

var ErrBodyTooLarge = errors.New("response body exceeds limit")

type Config struct {
	Timeout      time.Duration // 0 means no timeout
	MaxBytes     int64         // 0 means unbounded
	UserAgent    string
	MaxRedirects int // default 10
}

func (c *Config) defaults() {
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 10
	}
}

// FetchResult is a fetched and parsed page.
type FetchResult struct {
	URL        string // normalized request URL
	StatusCode int
	Bytes      int
	LatencyMS  float64
	Doc        *goquery.Document
}

// Fetcher GETs pages over HTTP and parses them once the body is complete.
type Fetcher struct {
	Client *http.Client
	config Config
}

func NewFetcher(cfg Config) *Fetcher {
	cfg.defaults()
	limit := cfg.MaxRedirects
	return &Fetcher{
		Client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= limit {
					return fmt.Errorf("stopped after %d redirects", len(via))
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch returns the parsed document at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	res, err := f.FetchDocument(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return res.Doc, nil
}

// FetchDocument is Fetch plus transfer details. Non-2xx responses are not
// errors; their body is parsed like any other.
func (f *Fetcher) FetchDocument(ctx context.Context, rawURL string) (*FetchResult, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := f.readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", target, err)
	}

	doc, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	doc.Url = resp.Request.URL

	return &FetchResult{
		URL:        target,
		StatusCode: resp.StatusCode,
		Bytes:      len(body),
		LatencyMS:  time.Since(start).Seconds() * 1000,
		Doc:        doc,
	}, nil
}

func (f *Fetcher) readBody(r io.Reader) ([]byte, error) {
	if f.config.MaxBytes <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, f.config.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.config.MaxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, f.config.MaxBytes)
	}
	return body, nil
}

// NormalizeURL adds http:// to scheme-less input and rejects anything that
// is not http or https.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", raw)
	}
	return u.String(), nil
}
