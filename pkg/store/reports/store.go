package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/rs/zerolog"
)

// fileNames pins the persisted document name per report kind, matching the
// layout the downstream consumers already read.
var fileNames = map[domain.ReportKind]string{
	domain.ReportKindCatalog:        "catalogados_data.json",
	domain.ReportKindStockDetail:    "stockdetalle_data.json",
	domain.ReportKindShrinkageSales: "mermasventas_data.json",
}

// Store persists normalized record sequences as one JSON document per
// report kind. Writes are full-file overwrites with no locking; callers
// must not save the same kind concurrently.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns where the document for the given kind lives.
func (s *Store) Path(kind domain.ReportKind) string {
	name, ok := fileNames[kind]
	if !ok {
		name = "report_data.json"
	}
	return filepath.Join(s.dir, name)
}

// Save writes the records as an indented JSON array, keeping non-ASCII
// characters unescaped. Any failure is reported as *domain.PersistError;
// the in-memory records stay valid regardless.
func (s *Store) Save(ctx context.Context, kind domain.ReportKind, records []domain.Record) error {
	path := s.Path(kind)

	f, err := os.Create(path)
	if err != nil {
		return &domain.PersistError{Path: path, Err: err}
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		_ = f.Close()
		return &domain.PersistError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.PersistError{Path: path, Err: err}
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("records", len(records)).
		Msg("persisted report document")

	return nil
}

// Load returns the raw persisted document for the given kind, or
// domain.ErrNoReportFile when none has been written yet.
func (s *Store) Load(ctx context.Context, kind domain.ReportKind) (json.RawMessage, error) {
	path := s.Path(kind)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNoReportFile)
		}
		return nil, fmt.Errorf("read report document %s: %w", path, err)
	}
	return data, nil
}
