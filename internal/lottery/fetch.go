package lottery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultFetchTimeout = 30 * time.Second
	fetchRetryInterval  = 2 * time.Second
	fetchMaxElapsed     = 2 * time.Minute
)

// Fetcher downloads the published draw history. The endpoint serves an HTML
// page with the CSV embedded in a <pre> block, so the body is unwrapped
// before parsing; a plain CSV response works too.
type Fetcher struct {
	url    string
	rules  Rules
	client *http.Client

	retryInterval time.Duration
	maxElapsed    time.Duration
}

func NewFetcher(url string, rules Rules, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{
		url:           url,
		rules:         rules,
		client:        &http.Client{Timeout: timeout},
		retryInterval: fetchRetryInterval,
		maxElapsed:    fetchMaxElapsed,
	}
}

// Fetch downloads and parses the full history, retrying transient failures
// with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context) (*History, error) {
	var body string

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.retryInterval
	bo.MaxElapsedTime = f.maxElapsed

	err := backoff.Retry(func() error {
		b, err := f.download(ctx)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	draws, err := ParseCSV(strings.NewReader(extractPre(body)), f.rules)
	if err != nil {
		return nil, err
	}
	return NewHistory(draws), nil
}

func (f *Fetcher) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extractPre returns the contents of the first <pre> block, or the input
// unchanged when there is none.
func extractPre(body string) string {
	lower := strings.ToLower(body)
	start := strings.Index(lower, "<pre>")
	if start == -1 {
		return body
	}
	start += len("<pre>")
	end := strings.Index(lower[start:], "</pre>")
	if end == -1 {
		return body[start:]
	}
	return body[start : start+end]
}
