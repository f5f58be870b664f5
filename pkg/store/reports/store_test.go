package reports

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []domain.Record {
	first := domain.NewRecord(1, []string{"Día", "Artículo"})
	first.Set("Día", "Lunes")
	first.Set("Artículo", "00001")

	second := domain.NewRecord(2, []string{"Día", "Artículo"})
	second.Set("Día", "Martes")
	second.Set("Artículo", nil)

	return []domain.Record{first, second}
}

func TestSaveWritesIndentedDocument(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.ReportKindCatalog, sampleRecords()))

	data, err := os.ReadFile(filepath.Join(dir, "catalogados_data.json"))
	require.NoError(t, err)

	// Human-readable indentation, non-ASCII kept unescaped.
	assert.Contains(t, string(data), "\n  {")
	assert.Contains(t, string(data), `"Día"`)
	assert.NotContains(t, string(data), "\\u00ed")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(1), decoded[0]["n"])
	assert.Equal(t, "Lunes", decoded[0]["Día"])
	assert.Nil(t, decoded[1]["Artículo"])
}

func TestSaveOverwritesPreviousDocument(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.ReportKindStockDetail, sampleRecords()))
	require.NoError(t, store.Save(ctx, domain.ReportKindStockDetail, sampleRecords()[:1]))

	document, err := store.Load(ctx, domain.ReportKindStockDetail)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(document, &decoded))
	assert.Len(t, decoded, 1)
}

func TestSaveFailureIsPersistError(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing-subdir"))

	err := store.Save(context.Background(), domain.ReportKindCatalog, sampleRecords())
	require.Error(t, err)

	var persistErr *domain.PersistError
	assert.ErrorAs(t, err, &persistErr)
}

func TestLoadMissingDocument(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load(context.Background(), domain.ReportKindShrinkageSales)
	assert.ErrorIs(t, err, domain.ErrNoReportFile)
}

func TestPathPerKind(t *testing.T) {
	store := NewStore("/data/downloads")

	assert.Equal(t, "/data/downloads/catalogados_data.json", store.Path(domain.ReportKindCatalog))
	assert.Equal(t, "/data/downloads/stockdetalle_data.json", store.Path(domain.ReportKindStockDetail))
	assert.Equal(t, "/data/downloads/mermasventas_data.json", store.Path(domain.ReportKindShrinkageSales))
}
