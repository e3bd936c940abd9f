package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultUserAgent = "wa-dockets/1.0 (github.com/pfrederiksen/wa-dockets)"
	DefaultTimeout   = 30 * time.Second

	// maxPageSize caps how much of a response body is read
	maxPageSize = 10 << 20
)

// Mode selects a Fetcher implementation
type Mode string

const (
	ModeHTTP    Mode = "http"
	ModeBrowser Mode = "browser"
)

// Fetcher returns the HTML of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Close() error
}

// Options configures New
type Options struct {
	Mode          Mode
	UserAgent     string
	Timeout       time.Duration
	BrowserRemote string
}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeHTTP, ModeBrowser:
		return m, nil
	case "":
		return ModeHTTP, nil
	default:
		return "", fmt.Errorf("unknown fetch mode: %s (must be 'http' or 'browser')", s)
	}
}

// New creates the Fetcher for opts.Mode
func New(opts Options) (Fetcher, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	switch mode {
	case ModeBrowser:
		return NewBrowser(opts.BrowserRemote, opts.Timeout), nil
	default:
		return NewHTTP(opts.UserAgent, opts.Timeout), nil
	}
}
