// Package probe implements the HEAD reachability probe used by fact-check,
// monetization, and the link validator.
package probe

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nichtagentur/blogforge/internal/metrics"
)

// Config holds probe behavior knobs.
type Config struct {
	Timeout    time.Duration
	PerHostRPS float64
	Burst      int
	UserAgent  string
}

// Prober issues HEAD requests with a short timeout and a per-host token
// bucket, so probing a page full of same-host links stays polite.
type Prober struct {
	client    *http.Client
	cfg       Config
	logger    *zap.Logger
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	hostRate  rate.Limit
	hostBurst int
}

// New creates a Prober.
func New(cfg Config, logger *zap.Logger) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "blogforge-linkcheck/1.0"
	}
	r := rate.Limit(cfg.PerHostRPS)
	if cfg.PerHostRPS <= 0 {
		r = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Prober{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				// Redirect targets are not followed; a redirect status is
				// already proof of life.
				return http.ErrUseLastResponse
			},
		},
		cfg:       cfg,
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
		hostRate:  r,
		hostBurst: burst,
	}
}

// Reachable reports whether the URL answers a HEAD request with a status from
// the tolerant set. Servers that reject HEAD (405), demand auth (401/403), or
// redirect (301/302) still count as reachable.
func (p *Prober) Reachable(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		metrics.ObserveProbe("unreachable")
		return false
	}

	if err := p.limiter(u.Hostname()).Wait(ctx); err != nil {
		metrics.ObserveProbe("unreachable")
		return false
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, rawURL, nil)
	if err != nil {
		metrics.ObserveProbe("unreachable")
		return false
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("probe failed", zap.String("url", rawURL), zap.Error(err))
		metrics.ObserveProbe("unreachable")
		return false
	}
	defer resp.Body.Close()

	if acceptable(resp.StatusCode) {
		metrics.ObserveProbe("reachable")
		return true
	}
	p.logger.Debug("probe rejected",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode))
	metrics.ObserveProbe("unreachable")
	return false
}

func acceptable(status int) bool {
	switch {
	case status >= 200 && status < 300:
		return true
	case status == http.StatusMovedPermanently, status == http.StatusFound:
		return true
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return true
	case status == http.StatusMethodNotAllowed:
		return true
	}
	return false
}

func (p *Prober) limiter(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[host]
	if !ok {
		l = rate.NewLimiter(p.hostRate, p.hostBurst)
		p.limiters[host] = l
	}
	return l
}
