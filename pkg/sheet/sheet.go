// Package sheet reads salary tables from xlsx workbooks and writes the
// two-sheet cash breakdown export.
package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"payhelper/pkg/cash"
	"payhelper/pkg/roster"
)

const (
	SheetDetail  = "明細"
	SheetSummary = "統整"
)

// ReadRows parses the first worksheet of an xlsx stream into one
// string-keyed map per data row. The first row is the header; cells missing
// from short rows come back as empty strings and all-blank rows are
// skipped.
func ReadRows(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	header := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		blank := true
		for _, cell := range row {
			if cell != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		m := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(row) {
				m[key] = row[i]
			} else {
				m[key] = ""
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// WriteWorkbook writes the export workbook: a 明細 sheet with one row per
// error-free record in insertion order, and a 統整 sheet listing each
// denomination's total count and subtotal followed by the grand total. When
// any record carries a provenance tag a 來源檔 column is appended to the
// detail sheet.
func WriteWorkbook(w io.Writer, recs []roster.Record, sum roster.Summary) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetDetail); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	withSource := false
	for _, r := range recs {
		if r.Source != "" {
			withSource = true
			break
		}
	}

	header := []interface{}{"姓名", "總金額"}
	for _, d := range cash.Denominations {
		header = append(header, d)
	}
	if withSource {
		header = append(header, "來源檔")
	}
	if err := setRow(f, SheetDetail, 1, header); err != nil {
		return err
	}
	rowIdx := 2
	for _, r := range recs {
		if !r.Valid() {
			continue
		}
		row := []interface{}{r.Name, r.Amount}
		for i := range cash.Denominations {
			row = append(row, r.Counts[i])
		}
		if withSource {
			row = append(row, r.Source)
		}
		if err := setRow(f, SheetDetail, rowIdx, row); err != nil {
			return err
		}
		rowIdx++
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := setRow(f, SheetSummary, 1, []interface{}{"面額", "需求數量", "金額小計"}); err != nil {
		return err
	}
	for i, d := range cash.Denominations {
		if err := setRow(f, SheetSummary, 2+i, []interface{}{d, sum.Counts[i], sum.Counts[i] * d}); err != nil {
			return err
		}
	}
	// one blank separator row before the grand total
	totalRow := 2 + len(cash.Denominations) + 1
	if err := setRow(f, SheetSummary, totalRow, []interface{}{"合計金額", sum.TotalAmount}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %s!%d: %w", sheet, row, err)
	}
	return nil
}
