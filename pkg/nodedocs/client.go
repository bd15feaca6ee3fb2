// Package nodedocs fetches Node.js API documentation metadata.
//
// Two upstream endpoints exist per release line: an HTML index page listing
// the documented modules, and one JSON document per module describing its
// methods, classes and submodules. Module documents are cached on disk via
// [doccache.Store]; the index page is small and fetched fresh on every run.
package nodedocs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"nodediff/pkg/apidiff"
	"nodediff/pkg/doccache"
	"nodediff/pkg/errors"
)

// DefaultBaseURL is the root of the Node.js download site, under which
// versioned documentation lives.
const DefaultBaseURL = "https://nodejs.org/dist"

const httpTimeout = 10 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout for
// documentation requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Client fetches per-module JSON documents with a read-through disk cache.
type Client struct {
	http    *http.Client
	store   doccache.Store
	baseURL string
}

// NewClient creates a Client backed by store. baseURL is the documentation
// root; pass "" for [DefaultBaseURL].
func NewClient(store doccache.Store, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    NewHTTPClient(),
		store:   store,
		baseURL: baseURL,
	}
}

// apiURL returns the documentation directory URL for a release line,
// e.g. https://nodejs.org/dist/latest-v22.x/docs/api/.
func (c *Client) apiURL(version string) string {
	return fmt.Sprintf("%s/latest-v%s.x/docs/api/", c.baseURL, version)
}

// Module returns the raw JSON document for (version, name), reading the
// cache first unless refresh is set. Fetched documents are stored before
// being returned; a failed store does not fail the fetch.
func (c *Client) Module(ctx context.Context, version, name string, refresh bool) ([]byte, error) {
	if err := errors.ValidateModuleName(name); err != nil {
		return nil, err
	}

	if !refresh {
		if data, ok, err := c.store.Get(version, name); err == nil && ok {
			return data, nil
		}
	}

	data, err := c.get(ctx, c.apiURL(version)+name+".json")
	if err != nil {
		return nil, err
	}
	_ = c.store.Set(version, name, data)
	return data, nil
}

// Fetcher returns an [apidiff.Fetcher] bound to one release line, for use by
// the normalizer when it resolves submodule references.
func (c *Client) Fetcher(version string, refresh bool) apidiff.Fetcher {
	return versionFetcher{client: c, version: version, refresh: refresh}
}

type versionFetcher struct {
	client  *Client
	version string
	refresh bool
}

func (f versionFetcher) FetchModule(ctx context.Context, name string) ([]byte, error) {
	return f.client.Module(ctx, f.version, name, f.refresh)
}

// get performs a plain HTTP GET and returns the response body.
// There are no retries: a failed fetch is fatal for the run.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeModuleNotFound, "%s does not exist", url)
	default:
		return errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, code)
	}
}
