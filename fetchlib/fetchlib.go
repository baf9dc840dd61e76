// Package fetchlib downloads newline-delimited word lists
package fetchlib

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"jaytaylor.com/html2text"

	"goTopWords/iolib"
	"goTopWords/stringlib"
)

// Options configures the HTTP client and the optional download cache.
type Options struct {
	// Timeout for the whole request; 0 keeps the client default (none).
	Timeout time.Duration
	// Optional HTTP proxy.
	ProxyHost string
	ProxyUser string
	ProxyPass string
	// CacheFile persists downloaded bodies between runs when set.
	CacheFile string
	CacheTTL  time.Duration
	// HTMLToText converts text/html bodies that hold an HTML document to
	// plain text before splitting. Off by default: a list served as
	// text/html is split as is.
	HTMLToText bool
	// Client overrides the client built from the options above.
	Client *http.Client
}

// RetrievalError reports a failed download. StatusCode is 0 when no
// response was received.
type RetrievalError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Fetcher retrieves word lists over HTTP
type Fetcher struct {
	client     *http.Client
	cache      *cache.Cache
	cacheFile  string
	cacheTTL   time.Duration
	htmlToText bool
	logger     *zap.SugaredLogger
}

// NewClient builds the HTTP client described by opts: request timeout and
// optional proxy. Other downloaders of a run share it.
func NewClient(opts *Options) *http.Client {
	if opts == nil {
		opts = &Options{}
	}
	client := &http.Client{Timeout: opts.Timeout}
	if opts.ProxyHost != "" {
		proxy := &url.URL{Scheme: "http", Host: opts.ProxyHost}
		if opts.ProxyUser != "" {
			proxy.User = url.UserPassword(opts.ProxyUser, opts.ProxyPass)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}
	return client
}

// New builds a Fetcher. A nil opts means defaults.
func New(opts *Options, logger *zap.SugaredLogger) (*Fetcher, error) {
	if opts == nil {
		opts = &Options{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client := opts.Client
	if client == nil {
		client = NewClient(opts)
	}

	f := &Fetcher{
		client:     client,
		cacheFile:  opts.CacheFile,
		cacheTTL:   opts.CacheTTL,
		htmlToText: opts.HTMLToText,
		logger:     logger,
	}
	if opts.CacheFile != "" {
		if f.cacheTTL <= 0 {
			f.cacheTTL = cache.NoExpiration
		}
		c, err := loadCache(opts.CacheFile)
		if err != nil {
			return nil, err
		}
		f.cache = c
	}
	return f, nil
}

// Fetch downloads the list at rawURL and returns its lines. The body is
// trimmed once as a whole and split on newlines; blank inner lines are kept.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]string, error) {
	body, err := f.downloadCached(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return stringlib.SplitLines(body), nil
}

func (f *Fetcher) downloadCached(ctx context.Context, rawURL string) (string, error) {
	if f.cache != nil {
		if b, found := f.cache.Get(rawURL); found {
			if body, ok := b.(string); ok {
				f.logger.Debugw("cache hit", "url", rawURL, "bytes", len(body))
				return body, nil
			}
		}
	}

	body, err := f.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		f.cache.Set(rawURL, body, f.cacheTTL)
		if err := f.saveCache(); err != nil {
			// the download itself succeeded
			f.logger.Errorw("cache save failed", "file", f.cacheFile, "error", err)
		}
	}
	return body, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (string, error) {
	f.logger.Debugw("requested", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &RetrievalError{URL: rawURL, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debugw("http transport error", "url", rawURL, "error", err)
		return "", &RetrievalError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debugw("unexpected status", "url", rawURL, "status", resp.StatusCode)
		return "", &RetrievalError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RetrievalError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}
	body := string(bodyBytes)

	if f.htmlToText && isHTMLDocument(resp.Header.Get("Content-Type"), body) {
		plain, err := html2text.FromString(body, html2text.Options{PrettyTables: false})
		if err != nil {
			return "", &RetrievalError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
		}
		body = plain
	}

	f.logger.Debugw("ok", "url", rawURL, "status", resp.StatusCode, "bytes", len(bodyBytes))
	return body, nil
}

// isHTMLDocument reports a text/html response whose body starts like a
// document, not a bare list served with the wrong type.
func isHTMLDocument(contentType, body string) bool {
	if !strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return false
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// loadCache deserializes a persisted cache, or starts an empty one when the
// file does not exist yet.
func loadCache(filename string) (*cache.Cache, error) {
	if !iolib.FileExists(filename) {
		return cache.New(cache.NoExpiration, 10*time.Minute), nil
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	decodedMap := make(map[string]cache.Item)
	if err := gob.NewDecoder(bytes.NewBuffer(b)).Decode(&decodedMap); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", filename, err)
	}
	return cache.NewFrom(cache.NoExpiration, 10*time.Minute, decodedMap), nil
}

// saveCache stores the unexpired cache items into the cache file
func (f *Fetcher) saveCache() error {
	b := new(bytes.Buffer)
	if err := gob.NewEncoder(b).Encode(f.cache.Items()); err != nil {
		return err
	}
	return iolib.WriteFileAtomic(f.cacheFile, b.Bytes(), 0644)
}
