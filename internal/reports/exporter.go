package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Exporter renders a coverage report in a downloadable format
type Exporter interface {
	Export(format string, report *CoverageReport) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

func (e *exporter) Export(format string, report *CoverageReport) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatExcel:
		data, err := e.exportExcel(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("translation_coverage_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportCSV(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("translation_coverage_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

var coverageHeaders = []string{
	"content_type", "language", "language_name",
	"total", "translated", "up_to_date", "outdated", "in_translation", "missing",
}

func (e *exporter) exportExcel(report *CoverageReport) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Translation Coverage"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range coverageHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range report.Rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ContentType)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.LanguageSlug)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.LanguageName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Total)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Translated)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.UpToDate)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Outdated)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.InTranslation)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.Missing)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportCSV(report *CoverageReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(coverageHeaders); err != nil {
		return nil, err
	}
	for _, r := range report.Rows {
		record := []string{
			r.ContentType,
			r.LanguageSlug,
			r.LanguageName,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Translated),
			strconv.Itoa(r.UpToDate),
			strconv.Itoa(r.Outdated),
			strconv.Itoa(r.InTranslation),
			strconv.Itoa(r.Missing),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
