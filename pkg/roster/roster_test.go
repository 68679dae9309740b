package roster

import (
	"math/rand"
	"testing"

	"payhelper/pkg/cash"
)

func TestAppendValid(t *testing.T) {
	ro := New()
	rec := ro.Append("王小明", "30000")
	if !rec.Valid() {
		t.Fatalf("unexpected error tag %q", rec.Err)
	}
	if rec.Amount != 30000 {
		t.Fatalf("amount = %d, want 30000", rec.Amount)
	}
	want := cash.Counts{30, 0, 0, 0, 0, 0, 0}
	if rec.Counts != want {
		t.Fatalf("counts = %v, want %v", rec.Counts, want)
	}
}

func TestAppendBlankName(t *testing.T) {
	ro := New()
	rec := ro.Append("", "100")
	if rec.Err != ErrBlankName {
		t.Fatalf("error tag = %q, want %q", rec.Err, ErrBlankName)
	}
	if rec.Counts != (cash.Counts{}) {
		t.Fatalf("error record must carry a zeroed breakdown, got %v", rec.Counts)
	}
	sum := ro.Aggregate()
	if sum.TotalAmount != 0 || sum.Rows != 0 {
		t.Fatalf("error record leaked into aggregate: %+v", sum)
	}
	if ro.Len() != 1 {
		t.Fatalf("error record must stay listed, len = %d", ro.Len())
	}
}

func TestAppendBadAmount(t *testing.T) {
	ro := New()
	for _, raw := range []string{"-5", "12.5", "", "abc"} {
		rec := ro.Append("林依菱", raw)
		if rec.Err != ErrBadAmount {
			t.Fatalf("Append(%q): error tag = %q, want %q", raw, rec.Err, ErrBadAmount)
		}
	}
}

func TestReplaceFromTable(t *testing.T) {
	ro := New()
	ro.Append("previous", "1")
	ro.ReplaceFromTable([]map[string]string{
		{ColName: "林依菱", ColSalary: "53,493", "extra": "ignored"},
		{ColName: "", ColSalary: "100"},
		{ColName: "陳大同", ColSalary: "abc"},
	})
	recs := ro.Records()
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3 (previous rows replaced, not merged)", len(recs))
	}
	want := cash.Counts{53, 0, 4, 1, 4, 0, 3}
	if recs[0].Counts != want {
		t.Fatalf("counts = %v, want %v", recs[0].Counts, want)
	}
	if recs[1].Err != ErrBlankName || recs[2].Err != ErrBadAmount {
		t.Fatalf("error tags = %q, %q", recs[1].Err, recs[2].Err)
	}
	sum := ro.Aggregate()
	if sum.TotalAmount != 53493 || sum.Rows != 1 {
		t.Fatalf("aggregate = %+v", sum)
	}
}

// Importing a row must yield exactly what manual entry of the same pair
// yields.
func TestImportMatchesManualEntry(t *testing.T) {
	manual := New()
	manual.Append("林依菱", "53,493")
	imported := New()
	imported.ReplaceFromTable([]map[string]string{{ColName: "林依菱", ColSalary: "53,493"}})
	m, i := manual.Records()[0], imported.Records()[0]
	if m.Name != i.Name || m.Amount != i.Amount || m.Counts != i.Counts {
		t.Fatalf("manual %+v != imported %+v", m, i)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	rows := []map[string]string{
		{ColName: "甲", ColSalary: "30000"},
		{ColName: "乙", ColSalary: "53,493"},
		{ColName: "丙", ColSalary: "999"},
		{ColName: "", ColSalary: "5"},
		{ColName: "丁", ColSalary: "54165"},
	}
	ro := New()
	ro.ReplaceFromTable(rows)
	base := ro.Aggregate()
	if base.Counts.Total() != base.TotalAmount {
		t.Fatalf("aggregate invariant broken: %v != %d", base.Counts.Total(), base.TotalAmount)
	}
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]map[string]string, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		perm := New()
		perm.ReplaceFromTable(shuffled)
		if got := perm.Aggregate(); got != base {
			t.Fatalf("aggregate depends on order: %+v vs %+v", got, base)
		}
	}
}

func TestClear(t *testing.T) {
	ro := New()
	ro.Append("王小明", "100")
	ro.Clear()
	if ro.Len() != 0 {
		t.Fatalf("len after Clear = %d", ro.Len())
	}
	if sum := ro.Aggregate(); sum.TotalAmount != 0 {
		t.Fatalf("aggregate after Clear = %+v", sum)
	}
}

func TestNameTrimmed(t *testing.T) {
	ro := New()
	rec := ro.Append("  王小明 ", "1")
	if rec.Name != "王小明" {
		t.Fatalf("name = %q, want trimmed", rec.Name)
	}
}
