package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// CheckResult is the outcome of probing one source URL. Status 0 means the
// request never got an HTTP response.
type CheckResult struct {
	AdapterID string
	URL       string
	Status    int
	Err       string
}

// OK reports whether the source answered with a 2xx or 3xx status.
func (r CheckResult) OK() bool { return r.Status >= 200 && r.Status < 400 }

// Checker probes registered source URLs with HEAD requests and persists the
// outcome in the source DB.
type Checker struct {
	sources  *SourceDB
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

func NewChecker(sources *SourceDB, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		sources:  sources,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start checks immediately, then every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll probes every source once and returns the per-source results.
// Results are also written back to the source DB.
func (c *Checker) CheckAll(ctx context.Context) []CheckResult {
	sources, err := c.sources.ListSources()
	if err != nil {
		c.logger.Error("source check: listing sources failed", "error", err)
		return nil
	}

	var results []CheckResult
	var failed int
	for _, src := range sources {
		if ctx.Err() != nil {
			return results
		}

		res := CheckResult{AdapterID: src.AdapterID, URL: src.SourceURL}
		res.Status, res.Err = c.probe(ctx, src.SourceURL)

		if err := c.sources.UpdateCheck(src.AdapterID, res.Status, res.Err); err != nil {
			c.logger.Error("source check: update failed", "adapter", src.AdapterID, "error", err)
		}
		if !res.OK() {
			failed++
			c.logger.Warn("source unreachable",
				"adapter", src.AdapterID,
				"url", src.SourceURL,
				"status", res.Status,
				"error", res.Err,
			)
		}
		results = append(results, res)
	}

	if len(results) > 0 {
		c.logger.Info("source check complete",
			"total", len(results), "ok", len(results)-failed, "failed", failed)
	}
	return results
}

func (c *Checker) probe(ctx context.Context, url string) (int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Sprintf("build request: %v", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Sprintf("HEAD %s: %v", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, ""
}
