package roster

import (
	"strings"

	"payhelper/pkg/cash"
)

// Roster is the session context that owns the record collection. It is a
// single-writer object: exactly one operation (manual add, table import,
// OCR batch append, clear) mutates it at a time; callers that share it
// across goroutines must serialize access themselves.
type Roster struct {
	records []Record
}

func New() *Roster { return &Roster{} }

// Append validates and appends one manually entered row. A blank name or an
// amount that does not normalize produces an error-tagged record with a
// zeroed breakdown rather than a failure; the record is returned either way.
func (ro *Roster) Append(name, rawAmount string) Record {
	rec := buildRecord(name, rawAmount)
	ro.records = append(ro.records, rec)
	return rec
}

// ReplaceFromTable rebuilds the whole collection from imported rows, one
// record per row in order, applying the same validations as Append. The
// previous collection is discarded, not merged.
func (ro *Roster) ReplaceFromTable(rows []map[string]string) {
	next := make([]Record, 0, len(rows))
	for _, row := range rows {
		next = append(next, buildRecord(row[ColName], row[ColSalary]))
	}
	ro.records = next
}

// AppendParsed appends pre-validated records, e.g. from the recognition
// pipeline.
func (ro *Roster) AppendParsed(recs ...Record) {
	ro.records = append(ro.records, recs...)
}

// Clear empties the collection.
func (ro *Roster) Clear() { ro.records = nil }

// Records returns the collection in insertion order. The slice is a copy;
// the records themselves are immutable.
func (ro *Roster) Records() []Record {
	out := make([]Record, len(ro.records))
	copy(out, ro.records)
	return out
}

func (ro *Roster) Len() int { return len(ro.records) }

// Summary is the derived aggregate over the error-free records. It is
// recomputed on demand, never cached, so it cannot drift from the
// collection.
type Summary struct {
	Counts      cash.Counts `json:"counts"`
	TotalAmount int64       `json:"total_amount"`
	Rows        int         `json:"rows"` // error-free rows included
}

// Aggregate sums denomination counts and amounts over the valid records.
// Pure sum: any permutation of the collection yields the same result.
func (ro *Roster) Aggregate() Summary {
	var s Summary
	for _, r := range ro.records {
		if !r.Valid() {
			continue
		}
		s.Counts.Add(r.Counts)
		s.TotalAmount += r.Amount
		s.Rows++
	}
	return s
}

func buildRecord(name, rawAmount string) Record {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Record{Name: name, Err: ErrBlankName}
	}
	amt, ok := cash.NormalizeAmount(rawAmount)
	if !ok {
		return Record{Name: trimmed, Err: ErrBadAmount}
	}
	return Record{Name: trimmed, Amount: amt, Counts: cash.Breakdown(amt)}
}
