package normalizer

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// headerRowIndex is the 0-based row holding the column names. The portal
// exports prepend two preamble rows before it.
const headerRowIndex = 2

// CellRule is a per-column formatting override.
type CellRule int

const (
	// RuleDefault applies the universal null/number/string coercion.
	RuleDefault CellRule = iota
	// RuleForceString keeps the trimmed string form, preserving leading
	// zeros in article codes.
	RuleForceString
	// RuleZeroPad18 coerces numeric-looking values to an integer and
	// zero-pads to 18 characters; non-numeric values fall back to the
	// trimmed string.
	RuleZeroPad18
)

const (
	articleCodeColumn       = "Artículo"
	articleIdentifierColumn = "Cod. Artículo"
)

// kindRules holds the per-report-kind column overrides. The article code
// column is forced to string for every kind; only the shrinkage/sales
// export pads its article identifier.
var kindRules = map[domain.ReportKind]map[string]CellRule{
	domain.ReportKindShrinkageSales: {
		articleIdentifierColumn: RuleZeroPad18,
	},
}

func rulesFor(kind domain.ReportKind) map[string]CellRule {
	rules := map[string]CellRule{articleCodeColumn: RuleForceString}
	for column, rule := range kindRules[kind] {
		rules[column] = rule
	}
	return rules
}

// Service converts downloaded spreadsheet reports into ordered record
// sequences. It is stateless; a single instance is safe for concurrent use.
type Service struct{}

func New() *Service {
	return &Service{}
}

// Normalize reads the spreadsheet at path and returns its data rows as
// normalized records. The first two rows are discarded as preamble, the
// third holds column names, and a leading "Total" summary row is dropped
// before sequencing. Repeated calls over an unchanged file yield identical
// output.
//
// A missing file yields domain.ErrNoReportFile; any structural problem
// yields a *domain.ParseError with no partial result.
func (s *Service) Normalize(
	ctx context.Context,
	path string,
	kind domain.ReportKind,
) ([]domain.Record, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNoReportFile)
		}
		return nil, &domain.ParseError{Path: path, Err: err}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.ParseError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	if len(rows) <= headerRowIndex {
		return nil, &domain.ParseError{
			Path: path,
			Err:  fmt.Errorf("expected header at row %d, sheet has %d rows", headerRowIndex+1, len(rows)),
		}
	}

	columns := make([]string, len(rows[headerRowIndex]))
	for i, name := range rows[headerRowIndex] {
		columns[i] = strings.TrimSpace(name)
	}

	data := rows[headerRowIndex+1:]
	if len(data) > 0 && isTotalRow(data[0]) {
		logger.Debug().Str("path", path).Msg("dropping leading total row")
		data = data[1:]
	}

	rules := rulesFor(kind)
	records := make([]domain.Record, 0, len(data))
	for i, row := range data {
		record := domain.NewRecord(i+1, columns)
		for j, column := range columns {
			var raw string
			if j < len(row) {
				raw = row[j]
			}
			record.Set(column, normalizeCell(raw, rules[column]))
		}
		records = append(records, record)
	}

	logger.Debug().
		Str("path", path).
		Str("report_kind", string(kind)).
		Int("records", len(records)).
		Msg("normalized report")

	return records, nil
}

// isTotalRow reports whether the row is the summary row some exports
// prepend: first column exactly "total" after trim and lowercase.
func isTotalRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	return strings.ToLower(strings.TrimSpace(row[0])) == "total"
}

// normalizeCell maps a raw cell to its emitted value. It never fails:
// malformed cells degrade to string or null rather than aborting the file.
func normalizeCell(raw string, rule CellRule) any {
	value := strings.TrimSpace(raw)
	if isEmptySentinel(value) {
		return nil
	}

	switch rule {
	case RuleForceString:
		return value
	case RuleZeroPad18:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return fmt.Sprintf("%018d", int64(f))
		}
		return value
	}

	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func isEmptySentinel(value string) bool {
	switch strings.ToLower(value) {
	case "", "nan", "#n/a":
		return true
	}
	return false
}
