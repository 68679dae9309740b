// Package roster holds the working collection of payroll rows for one
// session and derives the per-denomination aggregate over its valid rows.
package roster

import "payhelper/pkg/cash"

// Imported spreadsheet column names. The first row of an import is the
// header; unrecognized extra columns are ignored.
const (
	ColName   = "姓名"
	ColSalary = "薪資"
	ColUpper  = "薪資數字大寫"
	ColIDNo   = "身份證字號"
)

// RecordError tags a row that failed validation. The row is kept for
// display but contributes nothing to the aggregate.
type RecordError string

const (
	ErrBlankName RecordError = "姓名不可空白"
	ErrBadAmount RecordError = "薪資需為非負整數"
)

// Record is one entity's row: name, total amount, its denomination
// breakdown and an optional validation error. Records are immutable after
// creation; correction means re-submission or replacing the collection.
type Record struct {
	Name   string      `json:"name"`
	Amount int64       `json:"amount"`
	Counts cash.Counts `json:"counts"`
	Err    RecordError `json:"error,omitempty"`
	Source string      `json:"source,omitempty"` // provenance, e.g. OCR image name
}

// Valid reports whether the record passed validation and counts toward the
// aggregate.
func (r Record) Valid() bool { return r.Err == "" }

// NewRecord builds an already-validated record with its breakdown computed,
// used by callers (like the OCR pipeline) whose amounts cannot fail
// validation.
func NewRecord(name string, amount int64, source string) Record {
	return Record{Name: name, Amount: amount, Counts: cash.Breakdown(amount), Source: source}
}
