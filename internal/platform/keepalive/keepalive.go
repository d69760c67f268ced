// Package keepalive periodically requests a URL of the service itself so that
// hosting platforms which suspend idle services keep it running.
package keepalive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/bouquet-api/internal/config"
)

// ErrUnexpectedStatus is returned when the ping target answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected keep-alive status")

// Pinger requests a fixed URL on a fixed interval.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger
}

// NewPinger returns nil when cfg carries no URL; a nil Pinger's Run returns
// immediately.
func NewPinger(cfg config.KeepAliveConfig, client *http.Client, logger *slog.Logger) *Pinger {
	if cfg.URL == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	interval := cfg.Interval()
	if interval <= 0 {
		interval = 14 * time.Minute
	}
	return &Pinger{
		url:      cfg.URL,
		interval: interval,
		client:   client,
		logger:   logger.With("component", "keepalive"),
	}
}

// Run pings until ctx is cancelled. Failed pings are logged and never stop
// the loop.
func (p *Pinger) Run(ctx context.Context) {
	if p == nil {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.InfoContext(ctx, "keep-alive started", "url", p.url, "interval", p.interval.String())

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "keep-alive stopped")
			return

		case <-ticker.C:
			if err := p.Ping(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.WarnContext(ctx, "keep-alive ping failed", "error", err)
				continue
			}
			p.logger.DebugContext(ctx, "keep-alive ping succeeded")
		}
	}
}

// Ping issues a single GET against the target.
func (p *Pinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("build keep-alive request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("keep-alive request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
