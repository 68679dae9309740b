package ocr

import (
	"strings"
	"testing"
)

func TestWhitelistNumericInCropMode(t *testing.T) {
	full := &TesseractRecognizer{}
	if wl := full.whitelist(); wl != "" {
		t.Fatalf("full-page whitelist = %q, want unrestricted", wl)
	}

	cropped := &TesseractRecognizer{CropRightColumn: true}
	wl := cropped.whitelist()
	if wl == "" {
		t.Fatal("amount-column mode must restrict the character set")
	}
	for _, r := range "0123456789,，.．" {
		if !strings.ContainsRune(wl, r) {
			t.Fatalf("whitelist %q missing %q", wl, r)
		}
	}
	if strings.ContainsAny(wl, "abc王") {
		t.Fatalf("whitelist %q admits non-amount characters", wl)
	}
}
