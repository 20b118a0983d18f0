package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Fetcher resolves a source location to its raw JSON bytes.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FileFetcher reads sources from the local filesystem.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return b, nil
}

type HTTPOptions struct {
	Timeout       time.Duration
	Retries       int
	RatePerSecond float64 // 0 disables limiting
	Burst         int
}

// HTTPFetcher downloads sources with retries, optionally rate limited.
type HTTPFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.AddRetryCondition(retryCondition)

	f := &HTTPFetcher{client: client}
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return f
}

// retryCondition retries network errors and transient server statuses.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == 429 || code == 408
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	resp, err := f.client.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", location, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get %s: status %d", location, resp.StatusCode())
	}
	return resp.Body(), nil
}

// SourceFetcher picks HTTP for http(s) locations and the filesystem otherwise.
type SourceFetcher struct {
	HTTP Fetcher
	File Fetcher
}

func NewSourceFetcher(opts HTTPOptions) *SourceFetcher {
	return &SourceFetcher{HTTP: NewHTTPFetcher(opts), File: FileFetcher{}}
}

func (s *SourceFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if isRemote(location) {
		return s.HTTP.Fetch(ctx, location)
	}
	return s.File.Fetch(ctx, location)
}

func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
