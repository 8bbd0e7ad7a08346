package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Backend selects how result pages are retrieved.
type Backend string

// Engine selects the browser profile driven by the rendered backend.
type Engine string

const (
	// BackendHTTP issues plain GET requests against the feed.
	BackendHTTP Backend = "http"
	// BackendBrowser drives a headless browser session and reads rendered markup.
	BackendBrowser Backend = "browser"

	EngineChrome   Engine = "chrome"
	EngineChromium Engine = "chromium"
)

// SelectionError reports an invalid backend or engine choice.
type SelectionError struct {
	Kind  string
	Value string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

// Config holds the full per-run harvest configuration. It is never
// mutated after Validate succeeds.
type Config struct {
	Keyword string
	Areas   []string

	Backend Backend
	Engine  Engine

	OutputFile string
	Encoding   string
	BaseURI    string

	WaitTimeout time.Duration // rendered backend: budget for the results marker to appear
	Timeout     time.Duration // direct backend: per-request transport timeout
	MaxRetries  int
	Interval    time.Duration // pacing pause between page requests

	UserAgent   string
	MetricsAddr string
	Verbose     bool
}

// DefaultConfig returns defaults matching the upstream feed's limits.
func DefaultConfig() *Config {
	return &Config{
		Backend:     BackendBrowser,
		Engine:      EngineChrome,
		Encoding:    "utf-8",
		WaitTimeout: 90 * time.Second,
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		Interval:    3 * time.Second,
		UserAgent:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Keyword) == "" {
		return fmt.Errorf("keyword cannot be empty")
	}
	if strings.ContainsAny(c.Keyword, " \t") {
		return fmt.Errorf("keyword must be a single word")
	}
	if len(c.Areas) == 0 {
		return fmt.Errorf("at least one area is required")
	}
	if c.BaseURI == "" {
		return fmt.Errorf("base URI cannot be empty")
	}
	parsed, err := url.Parse(c.BaseURI)
	if err != nil {
		return fmt.Errorf("invalid base URI: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("base URI scheme must be http, https, or file")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("retry count cannot be negative")
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval cannot be negative")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	switch c.Backend {
	case BackendHTTP, BackendBrowser:
	default:
		return &SelectionError{Kind: "backend", Value: string(c.Backend)}
	}
	if c.Backend == BackendBrowser {
		switch c.Engine {
		case EngineChrome, EngineChromium:
		default:
			return &SelectionError{Kind: "engine", Value: string(c.Engine)}
		}
	}
	return nil
}

// SearchURL returns the keyword-search locator for one area. File-backed
// locators are returned unchanged; the fixture set does not vary by area.
func (c *Config) SearchURL(area string) string {
	if strings.HasPrefix(c.BaseURI, "file:") {
		return c.BaseURI
	}
	return fmt.Sprintf("%s/keyword?areaword=%s&keyword=%s&sort=01",
		c.BaseURI, url.QueryEscape(area), url.QueryEscape(c.Keyword))
}
