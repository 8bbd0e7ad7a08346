// Package fetch retrieves raw result-page content for the harvester.
//
// Two backends share one contract: a direct transport that issues plain
// GET requests (or reads local fixture files), and a rendered backend
// that drives a headless browser session. The concrete backend is built
// once per run from validated configuration; neither backend retries.
package fetch

import (
	"context"
	"fmt"

	"github.com/harvestkit/townpage/config"
)

// Backend retrieves the raw content of one result page. The offset is
// the record offset the feed uses for pagination (page size times pages
// already consumed).
type Backend interface {
	Fetch(ctx context.Context, locator string, offset int) ([]byte, error)

	// Close releases backend resources. It must be called exactly once,
	// on both success and failure paths, and is safe to call on a
	// backend that never fetched.
	Close() error
}

// New constructs the backend selected by cfg. Unknown selections fail
// fast here rather than at first fetch.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		return NewDirect(cfg)
	case config.BackendBrowser:
		return NewRendered(cfg)
	default:
		return nil, &config.SelectionError{Kind: "backend", Value: string(cfg.Backend)}
	}
}

// searchTarget appends the feed's pagination parameter to a remote locator.
func searchTarget(locator string, offset int) string {
	return fmt.Sprintf("%s&from=%d", locator, offset)
}
