package domain

// ReportKind selects which per-column normalization rules apply to a
// downloaded portal export.
type ReportKind string

const (
	ReportKindCatalog        ReportKind = "catalog"
	ReportKindStockDetail    ReportKind = "stock-detail"
	ReportKindShrinkageSales ReportKind = "shrinkage-sales"

	// ReportKindUnknown carries no per-column overrides; only the
	// universal coercion rules apply.
	ReportKindUnknown ReportKind = ""
)

// ParseReportKind maps a user-supplied tag to a known report kind.
// The boolean reports whether the tag named one of the supported kinds.
func ParseReportKind(s string) (ReportKind, bool) {
	switch ReportKind(s) {
	case ReportKindCatalog, ReportKindStockDetail, ReportKindShrinkageSales:
		return ReportKind(s), true
	}
	return ReportKindUnknown, false
}

// Kinds lists the supported report kinds in a stable order.
func Kinds() []ReportKind {
	return []ReportKind{ReportKindCatalog, ReportKindStockDetail, ReportKindShrinkageSales}
}
