package payslip

import (
	"archive/zip"
	"fmt"
	"io"
)

// docxZip packages rendered documents into the batch download archive.
type docxZip struct {
	zw *zip.Writer
}

func newDocxZip(out io.Writer) *docxZip {
	return &docxZip{zw: zip.NewWriter(out)}
}

func (d *docxZip) add(name string, content []byte) error {
	w, err := d.zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	return nil
}

func (d *docxZip) close() error { return d.zw.Close() }
