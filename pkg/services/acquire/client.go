package acquire

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Acquirer asks the out-of-process scraper to produce a fresh export for a
// report kind. The browser automation itself lives in the scraper service;
// this repo only carries the trigger boundary.
type Acquirer interface {
	Acquire(ctx context.Context, kind domain.ReportKind) error
}

type Config struct {
	// BaseURL of the scraper sidecar, e.g. http://localhost:8800.
	BaseURL string
	// Timeout bounds one full export run, browser driving included.
	Timeout time.Duration
}

// Client triggers exports over the scraper's HTTP API.
type Client struct {
	http *resty.Client
}

func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(5 * time.Second)

	return &Client{http: httpClient}
}

type exportResult struct {
	Status string `json:"status"`
	File   string `json:"file,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Acquire blocks until the scraper reports the export finished or failed.
// On success the downloaded spreadsheet is in the shared downloads dir and
// discoverable through the locator.
func (c *Client) Acquire(ctx context.Context, kind domain.ReportKind) error {
	logger := zerolog.Ctx(ctx)
	runID := uuid.NewString()

	var result exportResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Run-Id", runID).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/exports/%s", kind))
	if err != nil {
		return fmt.Errorf("trigger %s export: %w", kind, err)
	}
	if resp.IsError() {
		return fmt.Errorf("scraper rejected %s export (%s): %s", kind, resp.Status(), result.Detail)
	}

	logger.Info().
		Str("report_kind", string(kind)).
		Str("run_id", runID).
		Str("file", result.File).
		Msg("export run completed")

	return nil
}
