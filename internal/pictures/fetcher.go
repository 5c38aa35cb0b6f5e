// Package pictures implements the image byte-fetch contract: GET a URL and
// return its body, with any non-2xx response treated as failure.
package pictures

import (
	"context"
	"fmt"
	"time"

	"aliexpress/importer/internal/config"
	"aliexpress/importer/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Fetcher downloads raw image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
	proxies    proxy.Supplier
}

func NewHTTPFetcher(cfg config.AliExpressConfig, proxies proxy.Supplier) Fetcher {
	client := resty.New().
		SetTimeout(time.Duration(cfg.FetchTimeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	if proxies != nil {
		if proxyURL := proxies.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Image fetcher using initial proxy: %s", proxyURL)
		}
	}

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &httpFetcher{
		rl:         ratelimit.New(rps),
		httpClient: client,
		proxies:    proxies,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.rl.Take()

	resp, err := f.httpClient.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		f.rotateProxy()
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.IsError() {
		f.rotateProxy()
		return nil, fmt.Errorf("HTTP error fetching %s: %d %s", url, resp.StatusCode(), resp.Status())
	}

	return resp.Bytes(), nil
}

// rotateProxy switches the client to the next pool proxy so the following
// request does not hit the same blocked exit.
func (f *httpFetcher) rotateProxy() {
	if f.proxies == nil {
		return
	}
	if next := f.proxies.Get(); next != "" {
		log.Infof("🔄 Switching image fetcher to proxy: %s", next)
		f.httpClient.SetProxy(next)
	}
}
