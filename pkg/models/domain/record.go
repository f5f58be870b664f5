package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is one normalized report row. Keys are the source spreadsheet's
// stripped column names, kept in source order, preceded by the synthetic
// 1-based sequence field "n". Values are nil, int64, float64 or string.
type Record struct {
	n       int
	columns []string
	values  map[string]any
}

func NewRecord(n int, columns []string) Record {
	return Record{
		n:       n,
		columns: columns,
		values:  make(map[string]any, len(columns)),
	}
}

// N returns the record's 1-based position among emitted records.
func (r Record) N() int { return r.n }

// Columns returns the record's column names in source order.
func (r Record) Columns() []string { return r.columns }

func (r Record) Set(column string, value any) {
	r.values[column] = value
}

func (r Record) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// MarshalJSON emits the record as an object with "n" first and the
// remaining keys in source column order. Plain map marshaling would
// sort keys alphabetically and lose the source ordering.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"n":`)
	buf.WriteString(strconv.Itoa(r.n))
	for _, column := range r.columns {
		key, err := json.Marshal(column)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[column])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
