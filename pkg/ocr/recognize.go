package ocr

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages covers traditional Chinese names with latin/digit
// amounts on the same page.
const DefaultLanguages = "chi_tra+eng"

// Recognizer turns one image into raw text. progress, when non-nil,
// receives values in [0,1] for the current image only.
type Recognizer interface {
	Recognize(path string, progress func(float64)) (string, error)
}

// TesseractRecognizer recognizes payroll pages with a preprocessed single
// Tesseract pass.
type TesseractRecognizer struct {
	Languages       string // "+"-joined tesseract language codes
	CropRightColumn bool   // keep only the right 45% where amounts sit
}

// numericWhitelist is the amount-column character set: digits plus the
// halfwidth and fullwidth separators the parser folds.
const numericWhitelist = "0123456789,，.．"

// whitelist picks the engine's character allow-list. The right-column crop
// contains only figures, so everything else is noise there; a full page
// mixes names and amounts and gets no restriction.
func (t *TesseractRecognizer) whitelist() string {
	if t.CropRightColumn {
		return numericWhitelist
	}
	return ""
}

func (t *TesseractRecognizer) Recognize(path string, progress func(float64)) (string, error) {
	report := func(p float64) {
		if progress != nil {
			progress(p)
		}
	}
	report(0)

	processed, err := PreprocessToTemp(path, t.CropRightColumn)
	if err != nil {
		// recognition still has a chance on the raw scan
		log.Printf("ocr: preprocess %s: %v (using original)", path, err)
		processed = path
	} else {
		defer os.Remove(processed)
	}

	langs := t.Languages
	if langs == "" {
		langs = DefaultLanguages
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage(strings.Split(langs, "+")...)
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	if wl := t.whitelist(); wl != "" {
		_ = client.SetWhitelist(wl)
	}
	if err := client.SetImage(processed); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	report(1)
	return text, nil
}
