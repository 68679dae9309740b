package main

import (
	"fmt"
	"os"

	"payhelper/pkg/ocr"
)

// Recognizes the images given on the command line and prints the parsed
// payroll rows, for tuning preprocessing against real scans.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ocrcheck <image> [image...]")
		os.Exit(2)
	}
	batch := &ocr.Batch{Recognizer: &ocr.TesseractRecognizer{
		Languages:       ocr.DefaultLanguages,
		CropRightColumn: os.Getenv("OCR_CROP_RIGHT") == "true",
	}}
	records, failed := batch.Run(os.Args[1:], func(p int) {
		fmt.Printf("progress %d%%\n", p)
	})
	for _, rec := range records {
		fmt.Printf("%s\t%s\t%d\n", rec.Source, rec.Name, rec.Amount)
	}
	for _, name := range failed {
		fmt.Printf("failed: %s\n", name)
	}
}
