package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/report-bridge/pkg/models/api"
	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLocator struct {
	mock.Mock
}

func (m *mockLocator) FindLatest(ctx context.Context, kind domain.ReportKind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

type mockNormalizer struct {
	mock.Mock
}

func (m *mockNormalizer) Normalize(
	ctx context.Context,
	path string,
	kind domain.ReportKind,
) ([]domain.Record, error) {
	args := m.Called(ctx, path, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

type mockAcquirer struct {
	mock.Mock
}

func (m *mockAcquirer) Acquire(ctx context.Context, kind domain.ReportKind) error {
	args := m.Called(ctx, kind)
	return args.Error(0)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, kind domain.ReportKind, records []domain.Record) error {
	args := m.Called(ctx, kind, records)
	return args.Error(0)
}

func sampleRecords() []domain.Record {
	record := domain.NewRecord(1, []string{"Día", "Artículo"})
	record.Set("Día", "Lunes")
	record.Set("Artículo", "00001")
	return []domain.Record{record}
}

func setupServer(
	loc *mockLocator,
	norm *mockNormalizer,
	acq *mockAcquirer,
	st *mockStore,
) *httptest.Server {
	handler := NewHandler(loc, norm, acq, st)
	router := chi.NewRouter()
	router.Route("/api/reports", func(r chi.Router) {
		r.Get("/{kind}", handler.GetReport)
		r.Post("/{kind}", handler.RefreshReport)
	})
	return httptest.NewServer(router)
}

func decodeReport(t *testing.T, body io.Reader) api.ReportResponse {
	t.Helper()
	var response api.ReportResponse
	require.NoError(t, json.NewDecoder(body).Decode(&response))
	return response
}

func TestGetReport_Success(t *testing.T) {
	loc := new(mockLocator)
	norm := new(mockNormalizer)
	server := setupServer(loc, norm, new(mockAcquirer), new(mockStore))
	defer server.Close()

	loc.On("FindLatest", mock.Anything, domain.ReportKindCatalog).
		Return("/downloads/catalogados_export.xlsx", nil)
	norm.On("Normalize", mock.Anything, "/downloads/catalogados_export.xlsx", domain.ReportKindCatalog).
		Return(sampleRecords(), nil)

	resp, err := http.Get(server.URL + "/api/reports/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	response := decodeReport(t, resp.Body)
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, api.SourceExistingFile, response.Source)
	assert.Equal(t, "catalog", response.ReportType)
	assert.Equal(t, 1, response.TotalRecords)

	loc.AssertExpectations(t)
	norm.AssertExpectations(t)
}

func TestGetReport_NoFileYet(t *testing.T) {
	loc := new(mockLocator)
	server := setupServer(loc, new(mockNormalizer), new(mockAcquirer), new(mockStore))
	defer server.Close()

	loc.On("FindLatest", mock.Anything, domain.ReportKindStockDetail).
		Return("", fmt.Errorf("no export: %w", domain.ErrNoReportFile))

	resp, err := http.Get(server.URL + "/api/reports/stock-detail")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetReport_ParseError(t *testing.T) {
	loc := new(mockLocator)
	norm := new(mockNormalizer)
	server := setupServer(loc, norm, new(mockAcquirer), new(mockStore))
	defer server.Close()

	loc.On("FindLatest", mock.Anything, domain.ReportKindCatalog).
		Return("/downloads/catalogados_export.xlsx", nil)
	norm.On("Normalize", mock.Anything, mock.Anything, domain.ReportKindCatalog).
		Return(nil, &domain.ParseError{Path: "x", Err: errors.New("bad sheet")})

	resp, err := http.Get(server.URL + "/api/reports/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetReport_UnknownKind(t *testing.T) {
	server := setupServer(new(mockLocator), new(mockNormalizer), new(mockAcquirer), new(mockStore))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/reports/inventory")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshReport_Success(t *testing.T) {
	loc := new(mockLocator)
	norm := new(mockNormalizer)
	acq := new(mockAcquirer)
	st := new(mockStore)
	server := setupServer(loc, norm, acq, st)
	defer server.Close()

	records := sampleRecords()
	acq.On("Acquire", mock.Anything, domain.ReportKindShrinkageSales).Return(nil)
	loc.On("FindLatest", mock.Anything, domain.ReportKindShrinkageSales).
		Return("/downloads/mermasventas_export.xlsx", nil)
	norm.On("Normalize", mock.Anything, "/downloads/mermasventas_export.xlsx", domain.ReportKindShrinkageSales).
		Return(records, nil)
	st.On("Save", mock.Anything, domain.ReportKindShrinkageSales, records).Return(nil)

	resp, err := http.Post(server.URL+"/api/reports/shrinkage-sales", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	response := decodeReport(t, resp.Body)
	assert.Equal(t, api.SourceFreshScrape, response.Source)
	assert.Equal(t, 1, response.TotalRecords)

	acq.AssertExpectations(t)
	st.AssertExpectations(t)
}

func TestRefreshReport_AcquireFailure(t *testing.T) {
	acq := new(mockAcquirer)
	server := setupServer(new(mockLocator), new(mockNormalizer), acq, new(mockStore))
	defer server.Close()

	acq.On("Acquire", mock.Anything, domain.ReportKindCatalog).
		Return(errors.New("scraper run failed"))

	resp, err := http.Post(server.URL+"/api/reports/catalog", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRefreshReport_PersistFailureStillServesRecords(t *testing.T) {
	loc := new(mockLocator)
	norm := new(mockNormalizer)
	acq := new(mockAcquirer)
	st := new(mockStore)
	server := setupServer(loc, norm, acq, st)
	defer server.Close()

	records := sampleRecords()
	acq.On("Acquire", mock.Anything, domain.ReportKindCatalog).Return(nil)
	loc.On("FindLatest", mock.Anything, domain.ReportKindCatalog).
		Return("/downloads/catalogados_export.xlsx", nil)
	norm.On("Normalize", mock.Anything, mock.Anything, domain.ReportKindCatalog).
		Return(records, nil)
	st.On("Save", mock.Anything, domain.ReportKindCatalog, records).
		Return(&domain.PersistError{Path: "x", Err: errors.New("disk full")})

	resp, err := http.Post(server.URL+"/api/reports/catalog", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Persistence is best-effort decoration; the computed records are
	// still served.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	response := decodeReport(t, resp.Body)
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, 1, response.TotalRecords)
}
