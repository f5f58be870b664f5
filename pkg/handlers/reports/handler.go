package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/report-bridge/pkg/models/api"
	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/de-tools/report-bridge/pkg/services/acquire"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Locator finds the newest downloaded spreadsheet for a report kind.
type Locator interface {
	FindLatest(ctx context.Context, kind domain.ReportKind) (string, error)
}

// Normalizer converts a spreadsheet into an ordered record sequence.
type Normalizer interface {
	Normalize(ctx context.Context, path string, kind domain.ReportKind) ([]domain.Record, error)
}

// Store persists a normalized record sequence per report kind.
type Store interface {
	Save(ctx context.Context, kind domain.ReportKind, records []domain.Record) error
}

type Handler struct {
	locator    Locator
	normalizer Normalizer
	acquirer   acquire.Acquirer
	store      Store
}

func NewHandler(locator Locator, normalizer Normalizer, acquirer acquire.Acquirer, store Store) *Handler {
	return &Handler{
		locator:    locator,
		normalizer: normalizer,
		acquirer:   acquirer,
		store:      store,
	}
}

// GetReport serves the latest already-downloaded export for the kind in the
// URL without triggering the scraper.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	kind, ok := domain.ParseReportKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown report kind %q", chi.URLParam(r, "kind")))
		return
	}

	path, err := h.locator.FindLatest(ctx, kind)
	if err != nil {
		if errors.Is(err, domain.ErrNoReportFile) {
			writeError(w, http.StatusNotFound,
				fmt.Sprintf("no %s export available yet; trigger one with POST first", kind))
			return
		}
		logger.Error().Err(err).Str("report_kind", string(kind)).Msg("locating report file failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	records, err := h.normalizer.Normalize(ctx, path, kind)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("normalizing report failed")
		writeError(w, http.StatusInternalServerError, "failed to process report file")
		return
	}

	writeReport(ctx, w, api.ReportResponse{
		Status:       "success",
		Message:      fmt.Sprintf("%s data served from existing export", kind),
		Timestamp:    time.Now().UTC(),
		Source:       api.SourceExistingFile,
		ReportType:   string(kind),
		TotalRecords: len(records),
		Data:         records,
	})
}

// RefreshReport triggers a fresh scraper run for the kind in the URL, then
// normalizes and persists the downloaded export. Persistence is best-effort:
// a failed write is logged and the computed records are still served.
func (h *Handler) RefreshReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	kind, ok := domain.ParseReportKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown report kind %q", chi.URLParam(r, "kind")))
		return
	}

	if err := h.acquirer.Acquire(ctx, kind); err != nil {
		logger.Error().Err(err).Str("report_kind", string(kind)).Msg("export run failed")
		writeError(w, http.StatusBadGateway, fmt.Sprintf("the %s export run failed", kind))
		return
	}

	path, err := h.locator.FindLatest(ctx, kind)
	if err != nil {
		logger.Error().Err(err).Str("report_kind", string(kind)).Msg("export finished but no file found")
		writeError(w, http.StatusInternalServerError, "export finished but no downloaded file was found")
		return
	}

	records, err := h.normalizer.Normalize(ctx, path, kind)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("normalizing report failed")
		writeError(w, http.StatusInternalServerError, "failed to process report file")
		return
	}

	if err := h.store.Save(ctx, kind, records); err != nil {
		logger.Warn().Err(err).Str("report_kind", string(kind)).Msg("persisting report document failed")
	}

	writeReport(ctx, w, api.ReportResponse{
		Status:       "success",
		Message:      fmt.Sprintf("%s export completed", kind),
		Timestamp:    time.Now().UTC(),
		Source:       api.SourceFreshScrape,
		ReportType:   string(kind),
		TotalRecords: len(records),
		Data:         records,
	})
}

func writeReport(ctx context.Context, w http.ResponseWriter, response api.ReportResponse) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(response); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode report response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Status:    "error",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
