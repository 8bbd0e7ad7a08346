package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/harvestkit/townpage/config"
)

// fixtureCacheSize bounds the in-memory fixture cache. The fixture set
// is re-read once per area, so a small cache covers a whole run.
const fixtureCacheSize = 32

// Direct is the stateless request/response backend. Remote locators go
// through a colly collector; file locators resolve an offset-suffixed
// fixture filename and read it from disk, so the harvest logic stays
// testable against frozen pages without network access.
type Direct struct {
	collector *colly.Collector
	fixtures  *lru.Cache[string, []byte]

	// per-fetch state; the harvester calls Fetch strictly sequentially
	body     []byte
	fetchErr error
}

// NewDirect builds the direct backend from validated configuration.
func NewDirect(cfg *config.Config) (*Direct, error) {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	fixtures, err := lru.New[string, []byte](fixtureCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create fixture cache: %w", err)
	}

	d := &Direct{
		collector: collector,
		fixtures:  fixtures,
	}

	d.collector.OnResponse(func(r *colly.Response) {
		d.body = r.Body
	})
	d.collector.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		d.fetchErr = classifyError(err, statusCode)
	})

	return d, nil
}

// WithTransport swaps the collector's transport. Tests inject a mock here.
func (d *Direct) WithTransport(rt http.RoundTripper) {
	d.collector.WithTransport(rt)
}

// Fetch retrieves one page. Remote locators get the pagination parameter
// appended; file locators resolve to the offset's fixture file.
func (d *Direct) Fetch(ctx context.Context, locator string, offset int) ([]byte, error) {
	parsed, err := url.Parse(locator)
	if err != nil {
		return nil, ErrTransport{Err: fmt.Errorf("parse locator: %w", err)}
	}
	if parsed.Scheme == "file" {
		return d.fetchFixture(parsed, offset)
	}
	return d.fetchRemote(searchTarget(locator, offset))
}

func (d *Direct) fetchRemote(target string) ([]byte, error) {
	d.body = nil
	d.fetchErr = nil

	// Visit reports transport failures twice: through its return value
	// and through OnError, which also sees the response status. Prefer
	// the OnError classification when both fire.
	err := d.collector.Visit(target)
	if d.fetchErr != nil {
		return nil, d.fetchErr
	}
	if err != nil {
		return nil, classifyError(err, 0)
	}
	return d.body, nil
}

func (d *Direct) fetchFixture(locator *url.URL, offset int) ([]byte, error) {
	path := fixturePath(locator.Path, offset)
	if content, ok := d.fixtures.Get(path); ok {
		return content, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound{Err: err}
		}
		return nil, ErrTransport{Err: err}
	}
	d.fixtures.Add(path, content)
	return content, nil
}

// fixturePath resolves the fixture filename for a page offset. Offset 0
// is the base file; later pages keep the first two underscore-separated
// stem tokens and append the zero-padded offset, preserving the
// extension: results_foo.html -> results_foo_20.html.
func fixturePath(base string, offset int) string {
	if offset == 0 {
		return base
	}

	dir, file := filepath.Split(base)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	if parts := strings.Split(stem, "_"); len(parts) >= 2 {
		stem = parts[0] + "_" + parts[1]
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%02d%s", stem, offset, ext))
}

// Close is a no-op; the collector holds no resources beyond its transport.
func (d *Direct) Close() error {
	return nil
}
