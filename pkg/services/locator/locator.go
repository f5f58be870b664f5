package locator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/rs/zerolog"
)

// kindPatterns maps each report kind to the filename substrings the portal
// uses for its exports. Matching is case-insensitive.
var kindPatterns = map[domain.ReportKind][]string{
	domain.ReportKindCatalog:        {"catalogados"},
	domain.ReportKindStockDetail:    {"stockdetalle", "stock_detalle"},
	domain.ReportKindShrinkageSales: {"mermasventas"},
}

const spreadsheetExt = ".xlsx"

// Explorer finds downloaded report spreadsheets in a fixed directory.
type Explorer struct {
	dir string
}

func NewExplorer(dir string) *Explorer {
	return &Explorer{dir: dir}
}

// FindLatest returns the most recently modified spreadsheet for the given
// report kind, or domain.ErrNoReportFile when none matches.
func (e *Explorer) FindLatest(ctx context.Context, kind domain.ReportKind) (string, error) {
	logger := zerolog.Ctx(ctx)

	patterns, ok := kindPatterns[kind]
	if !ok {
		return "", fmt.Errorf("no filename patterns registered for report kind %q", kind)
	}

	entries, err := os.ReadDir(e.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("downloads dir %s: %w", e.dir, domain.ErrNoReportFile)
		}
		return "", fmt.Errorf("read downloads dir %s: %w", e.dir, err)
	}

	var (
		latest     string
		latestTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !matches(entry.Name(), patterns) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = filepath.Join(e.dir, entry.Name())
			latestTime = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no %s export in %s: %w", kind, e.dir, domain.ErrNoReportFile)
	}

	logger.Debug().
		Str("report_kind", string(kind)).
		Str("path", latest).
		Msg("located report file")

	return latest, nil
}

func matches(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, spreadsheetExt) {
		return false
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
