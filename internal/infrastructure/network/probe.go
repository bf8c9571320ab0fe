// Package network provides the connectivity probe the router consults before
// choosing a backend.
package network

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/ports/outbound"
)

// Probe reports device connectivity with a lightweight HTTP HEAD request.
// Any response at all counts as online; only transport failure means offline.
type Probe struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewProbe creates a connectivity probe.
func NewProbe(url string, timeout time.Duration, logger *zap.Logger) *Probe {
	if url == "" {
		url = "https://www.gstatic.com/generate_204"
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Probe{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("connectivity-probe"),
	}
}

var _ outbound.ConnectivityProbe = (*Probe)(nil)

// IsOnline reports whether the probe endpoint is reachable.
func (p *Probe) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("connectivity probe failed", zap.Error(err))
		return false
	}
	resp.Body.Close()

	return true
}
