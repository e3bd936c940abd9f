package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Browser renders pages in Chrome via go-rod. Chrome is started lazily on the first
// Fetch, or a remote instance is used when a DevTools WebSocket URL is given.
type Browser struct {
	remote  string
	timeout time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewBrowser creates a Browser fetcher. remote may be empty.
func NewBrowser(remote string, timeout time.Duration) *Browser {
	return &Browser{remote: remote, timeout: timeout}
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	controlURL := b.remote
	if controlURL == "" {
		l := launcher.New().
			Headless(true).
			NoSandbox(true).
			Set("disable-gpu").
			Set("disable-dev-shm-usage")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launching chrome: %w", err)
		}
		controlURL = u
		b.launcher = l
	}

	br := rod.New().ControlURL(controlURL)
	if err := br.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	b.browser = br

	return br, nil
}

// Fetch opens url in a new tab, waits for the load event and returns the rendered HTML
func (b *Browser) Fetch(ctx context.Context, url string) ([]byte, error) {
	br, err := b.connect()
	if err != nil {
		return nil, err
	}

	page, err := br.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	if b.timeout > 0 {
		page = page.Timeout(b.timeout)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for page load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading page HTML: %w", err)
	}

	return []byte(html), nil
}

// Close shuts down Chrome if this fetcher launched it
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}
