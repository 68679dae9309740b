package ocr

import (
	"log"
	"math"
	"path/filepath"

	"payhelper/pkg/roster"
)

// Batch feeds images through the recognizer one at a time. Sequential on
// purpose: the engine is single-threaded per invocation, overall progress
// must only ever move forward, and memory stays bounded to one image's
// working buffers.
type Batch struct {
	Recognizer Recognizer
}

// Run recognizes every image in order and returns the parsed records, each
// tagged with its source image name, plus the names of images whose
// recognition failed outright (those are skipped, they never abort the
// batch). onProgress receives the overall percentage: the weighted sum of
// completed images and the in-flight image's own progress, non-decreasing,
// reaching 100 only after the last image.
func (b *Batch) Run(paths []string, onProgress func(int)) ([]roster.Record, []string) {
	if len(paths) == 0 {
		return nil, nil
	}
	total := float64(len(paths))
	last := 0
	report := func(p int) {
		if p > 100 {
			p = 100
		}
		if p <= last || onProgress == nil {
			return
		}
		last = p
		onProgress(p)
	}

	var out []roster.Record
	var failed []string
	for i, path := range paths {
		base := float64(i) / total * 100
		name := filepath.Base(path)
		text, err := b.Recognizer.Recognize(path, func(p float64) {
			report(int(math.RoundToEven(base + p*(100/total))))
		})
		if err != nil {
			log.Printf("ocr batch: %s: %v (skipped)", name, err)
			failed = append(failed, name)
			continue
		}
		out = append(out, ParseRecognizedText(text, name)...)
	}
	if last < 100 && onProgress != nil {
		onProgress(100)
	}
	return out, failed
}
