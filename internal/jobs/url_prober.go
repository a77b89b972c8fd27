package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"recshare/internal/models"
	"recshare/internal/store"
	"recshare/internal/validation"
)

// URLProber periodically HEAD-checks recording URLs that are real http(s)
// addresses and records the outcome. Opaque recording keys are marked
// unknown without touching the network.
type URLProber struct {
	store    store.Store
	interval time.Duration
	maxAge   time.Duration
	limit    int
	client   *http.Client
}

// NewURLProber creates a new prober.
func NewURLProber(s store.Store, interval, maxAge time.Duration, limit int) *URLProber {
	return &URLProber{
		store:    s,
		interval: interval,
		maxAge:   maxAge,
		limit:    limit,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background probe loop.
func (p *URLProber) Start(ctx context.Context) {
	slog.Info("url prober started", "interval", p.interval, "max_age", p.maxAge)

	// Run immediately on start
	p.probeAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("url prober stopped")
			return
		case <-ticker.C:
			p.probeAll(ctx)
		}
	}
}

// probeAll checks every recording due for a probe.
func (p *URLProber) probeAll(ctx context.Context) {
	recordings, err := p.store.RecordingsNeedingProbe(ctx, p.maxAge, p.limit)
	if err != nil {
		slog.Error("url prober: failed to list recordings", "error", err)
		return
	}

	if len(recordings) == 0 {
		return
	}

	slog.Info("url prober: probing recordings", "count", len(recordings))

	for _, rec := range recordings {
		select {
		case <-ctx.Done():
			return
		default:
		}

		status := p.probe(ctx, rec.URL)
		if err := p.store.UpdateRecordingHealth(ctx, rec.URL, status); err != nil {
			// The recording may have been deleted between listing and update.
			if !errors.Is(err, store.ErrRecordingNotFound) {
				slog.Error("url prober: failed to update recording", "url", rec.URL, "error", err)
			}
			continue
		}

		// Delay between probes to avoid overwhelming external servers
		time.Sleep(1 * time.Second)
	}
}

// probe performs a HEAD request against a recording URL. URLs are validated
// first so the prober never reaches private networks or metadata endpoints.
func (p *URLProber) probe(ctx context.Context, url string) string {
	if !validation.IsProbeableURL(url) {
		return models.HealthUnknown
	}
	if valid, msg := validation.ValidateURLForProbe(url); !valid {
		slog.Warn("url prober: skipping unsafe url", "url", url, "reason", msg)
		return models.HealthUnhealthy
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return models.HealthUnhealthy
	}

	req.Header.Set("User-Agent", "Recshare-URLProber/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.HealthUnknown
	}
	defer resp.Body.Close()

	// Any HTTP response means the address is reachable
	return models.HealthHealthy
}
