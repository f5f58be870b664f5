package api

import (
	"time"

	"github.com/de-tools/report-bridge/pkg/models/domain"
)

type Source string

const (
	// SourceExistingFile marks data served from an already-downloaded
	// export without triggering the scraper.
	SourceExistingFile Source = "existing_file"
	// SourceFreshScrape marks data produced by a scraper run triggered
	// for this request.
	SourceFreshScrape Source = "fresh_scrape"
)

// ReportResponse is the envelope wrapping a normalized record sequence.
type ReportResponse struct {
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	Timestamp    time.Time       `json:"timestamp"`
	Source       Source          `json:"source"`
	ReportType   string          `json:"report_type"`
	TotalRecords int             `json:"total_records"`
	Data         []domain.Record `json:"data"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ServiceInfo describes the API on the root endpoint.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Health is the health-check payload.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}
