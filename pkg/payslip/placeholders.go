package payslip

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
)

var (
	xmlTagRE      = regexp.MustCompile(`<[^>]*>`)
	placeholderRE = regexp.MustCompile(`\{([^{}]+)\}`)
)

// Placeholders lists the distinct {tag} names in a template's document
// body, in first-seen order. Word splits text across XML runs, so markup is
// stripped before scanning.
func Placeholders(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read document body: %w", err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document body: %w", err)
		}
		return scanPlaceholders(raw), nil
	}
	return nil, fmt.Errorf("not a docx template: missing word/document.xml")
}

func scanPlaceholders(raw []byte) []string {
	text := xmlTagRE.ReplaceAll(raw, nil)
	var out []string
	seen := map[string]struct{}{}
	for _, m := range placeholderRE.FindAllSubmatch(text, -1) {
		name := string(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
