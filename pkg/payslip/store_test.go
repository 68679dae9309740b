package payslip

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStoreListAndPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, filepath.Join(dir, "b.docx"))
	writeTemplate(t, filepath.Join(dir, "a.docx"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got := s.List(); !reflect.DeepEqual(got, []string{"a.docx", "b.docx"}) {
		t.Fatalf("List = %v", got)
	}
	tags, err := s.Placeholders("a.docx")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"姓名", "薪資", "薪資數字大寫", "機構", "身份證字號", "民國年", "月", "日"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("placeholders = %v, want %v", tags, want)
	}
}

func TestStorePathRejectsTraversal(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	for _, name := range []string{"", "../secret.docx", "a/b.docx", ".hidden.docx", "payload.bin"} {
		if _, err := s.Path(name); err == nil {
			t.Fatalf("Path(%q) accepted", name)
		}
	}
}

// a fetched name outside the .docx set List serves must be refused, not
// stored invisibly
func TestStoreFetchRejectsNonTemplateName(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	for _, name := range []string{"x.bin", "run.sh", "nested/x.docx", ".x.docx"} {
		if err := s.Fetch("http://127.0.0.1:0/unreachable", name); err == nil {
			t.Fatalf("Fetch(%q) accepted", name)
		}
	}
	if got := s.List(); len(got) != 0 {
		t.Fatalf("List = %v, want empty", got)
	}
}

func TestStoreFetch(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, filepath.Join(src, "remote.docx"))
	raw, err := os.ReadFile(filepath.Join(src, "remote.docx"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/templates/remote.docx" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Fetch(srv.URL+"/templates/remote.docx", "remote.docx"); err != nil {
		t.Fatal(err)
	}
	if got := s.List(); len(got) != 1 || got[0] != "remote.docx" {
		t.Fatalf("List after fetch = %v", got)
	}
	if tags, err := s.Placeholders("remote.docx"); err != nil || len(tags) == 0 {
		t.Fatalf("placeholders after fetch = %v, %v", tags, err)
	}

	// best effort only: a missing asset is an error, not a retry loop
	if err := s.Fetch(srv.URL+"/templates/missing.docx", "missing.docx"); err == nil {
		t.Fatal("expected fetch failure")
	}
}
