// Package payslip fills salary receipt templates (.docx) with per-person
// payroll data, singly or as a zip-packaged batch.
package payslip

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	docx "github.com/lukasjarosch/go-docx"

	"payhelper/pkg/cash"
	"payhelper/pkg/cnamount"
	"payhelper/pkg/roster"
)

// Institutions lists the care branches that may appear in the 機構 field of
// a rendered receipt.
var Institutions = []string{
	"府城長照有限公司附設臺南市私立鴻康居家長照機構",
	"府城長照有限公司附設臺南市私立寬澤居家長照機構",
	"府城長照有限公司附設臺南市私立謙益居家長照機構",
	"有限責任臺南市府城照顧服務勞動合作社附設臺南市私立府城居家長照機構",
}

// RocDateParts returns the Republic-of-China calendar fields stamped on
// official receipts: year = Gregorian year − 1911.
func RocDateParts(t time.Time) map[string]interface{} {
	return map[string]interface{}{
		"民國年": strconv.Itoa(t.Year() - 1911),
		"月":   strconv.Itoa(int(t.Month())),
		"日":   strconv.Itoa(t.Day()),
	}
}

// RenderData builds the flat placeholder map a receipt template consumes:
// name, amount in plain digits, the financial-numeral spelling, optional ID
// and institution, and the ROC date parts.
func RenderData(name string, amount float64, idno, org string, now time.Time) map[string]interface{} {
	data := map[string]interface{}{
		"姓名":     name,
		"薪資":     strconv.FormatFloat(amount, 'f', -1, 64),
		"薪資數字大寫": cnamount.Convert(amount),
		"身份證字號":  idno,
		"機構":     org,
	}
	for k, v := range RocDateParts(now) {
		data[k] = v
	}
	return data
}

// Render substitutes {placeholder} tags in the template with data and
// writes the rendered document to out. Failures are returned to the caller;
// the session and any previously produced documents are unaffected.
func Render(templatePath string, data map[string]interface{}, out io.Writer) error {
	doc, err := docx.Open(templatePath)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	if err := doc.ReplaceAll(docx.PlaceholderMap(data)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := doc.Write(out); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// RenderFailure reports one batch row whose document could not be produced.
type RenderFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// RenderBatch renders one document per usable row into a zip archive
// written to out. Rows with a blank name or an amount that does not
// normalize are passed over like the single-entry form would reject them;
// a row whose render fails is skipped and reported so one bad row never
// aborts the rest of the batch. A 薪資數字大寫 cell, when present,
// overrides the computed spelling.
func RenderBatch(templatePath, baseName string, rows []map[string]string, org string, now time.Time, out io.Writer) ([]RenderFailure, error) {
	zw := newDocxZip(out)
	var failures []RenderFailure
	for _, row := range rows {
		name := strings.TrimSpace(row[roster.ColName])
		if name == "" {
			continue
		}
		amt, ok := cash.NormalizeAmount(row[roster.ColSalary])
		if !ok {
			continue
		}
		data := RenderData(name, float64(amt), strings.TrimSpace(row[roster.ColIDNo]), org, now)
		if upper := strings.TrimSpace(row[roster.ColUpper]); upper != "" {
			data["薪資數字大寫"] = upper
		}

		var buf bytes.Buffer
		if err := Render(templatePath, data, &buf); err != nil {
			failures = append(failures, RenderFailure{Name: name, Reason: err.Error()})
			continue
		}
		if err := zw.add(fmt.Sprintf("%s-%s.docx", baseName, name), buf.Bytes()); err != nil {
			return failures, err
		}
	}
	return failures, zw.close()
}
