package payslip

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store serves the receipt templates from a local directory and keeps a
// placeholder cache that is refreshed when a template file appears or
// changes on disk.
type Store struct {
	dir     string
	watcher *fsnotify.Watcher

	mu           sync.RWMutex
	placeholders map[string][]string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	s := &Store{dir: dir, placeholders: map[string][]string{}}
	for _, name := range s.List() {
		s.scan(name)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		// cache still works, it just goes stale on external edits
		log.Printf("template watcher unavailable: %v", err)
		return s, nil
	}
	if err := w.Add(dir); err != nil {
		log.Printf("watch %s: %v", dir, err)
		_ = w.Close()
		return s, nil
	}
	s.watcher = w
	go s.watch()
	return s, nil
}

func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// watch re-scans changed templates, debounced so a file still being written
// is only scanned once it has settled.
func (s *Store) watch() {
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(strings.ToLower(name), ".docx") {
				continue
			}
			pending[name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for name, at := range pending {
				if now.Sub(at) > 300*time.Millisecond { // stable
					delete(pending, name)
					s.scan(name)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("template watch error: %v", err)
		}
	}
}

func (s *Store) scan(name string) {
	tags, err := Placeholders(filepath.Join(s.dir, name))
	if err != nil {
		log.Printf("scan template %s: %v", name, err)
		return
	}
	s.mu.Lock()
	s.placeholders[name] = tags
	s.mu.Unlock()
}

// List returns the template file names currently in the store, sorted.
func (s *Store) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".docx") {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// Path resolves a template name to its on-disk path, rejecting names that
// escape the store directory or fall outside the .docx set List serves.
func (s *Store) Path(name string) (string, error) {
	if !validTemplateName(name) {
		return "", fmt.Errorf("invalid template name %q", name)
	}
	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}
	return p, nil
}

// Placeholders returns the cached {tag} names of a stored template,
// scanning on the first request.
func (s *Store) Placeholders(name string) ([]string, error) {
	s.mu.RLock()
	tags, ok := s.placeholders[name]
	s.mu.RUnlock()
	if ok {
		return tags, nil
	}
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	tags, err = Placeholders(p)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.placeholders[name] = tags
	s.mu.Unlock()
	return tags, nil
}

// validTemplateName admits exactly the names List would show: a bare
// non-hidden .docx file name. Anything else could be stored or resolved yet
// stay invisible in listings.
func validTemplateName(name string) bool {
	return name != "" &&
		name == filepath.Base(name) &&
		!strings.HasPrefix(name, ".") &&
		strings.HasSuffix(strings.ToLower(name), ".docx")
}

// Fetch downloads a template asset by URL into the store under name. Best
// effort and never retried: a failure is returned to the caller for display.
func (s *Store) Fetch(url, name string) error {
	if !validTemplateName(name) {
		return fmt.Errorf("invalid template name %q", name)
	}
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("fetch template: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch template %s: %s", url, resp.Status)
	}
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("store template: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("store template: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.scan(name)
	return nil
}
