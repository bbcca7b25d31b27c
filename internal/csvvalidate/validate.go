// Package csvvalidate implements the Tabular Input Validator (C1, spec
// §4.1): parses a creator or competitor CSV/XLSX, enforces the mandatory
// security policy, normalizes column names, coerces numeric fields, and
// drops rows that cannot carry a title.
package csvvalidate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/model"
	"github.com/creatorstack/strategist/internal/security"
)

// Limits bounds the validator's acceptance of a file, per spec §4.1 and
// the closed Options record of spec §9.
type Limits struct {
	MaxBytes    int64
	MaxRows     int
	MaxCellRuns int
}

// DefaultLimits matches spec §9's defaults.
func DefaultLimits() Limits {
	return Limits{MaxBytes: 52_428_800, MaxRows: 100_000, MaxCellRuns: 10_000}
}

const maxTitleChars = 500

// titleColumnAliases lists the case-insensitive column names accepted
// as the title column, most specific first.
var titleColumnAliases = []string{"videotitle", "title"}

var columnAliases = map[string][]string{
	"video_id":             {"videoid", "video_id", "id"},
	"title":                titleColumnAliases,
	"published_at":         {"date", "published_at", "publishedat", "publishdate"},
	"views":                {"views", "viewcount"},
	"impressions":          {"impressions"},
	"ctr":                  {"ctr"},
	"avg_view_duration_s":  {"averageviewduration", "avg_view_duration_s", "avgviewduration"},
	"country":              {"country"},
	"likes":                {"likes"},
	"comments":             {"comments"},
}

// Result is the validator's output: the accepted rows plus any
// non-fatal warnings observed along the way.
type Result struct {
	Rows     []model.CreatorRow
	Warnings []string
}

// xlsxMagic is the ZIP local-file-header signature every .xlsx file
// starts with (it's a zip container); CSV text never does, so sniffing
// it is enough to tell the two formats apart without a filename.
var xlsxMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// Validate parses raw as UTF-8 CSV or, if it sniffs as a zip-backed
// .xlsx workbook, reads the first sheet through excelize instead — the
// pack's own importer accepts both, and spec §4.1's row pipeline
// (security scan, column mapping, coercion, dedup) applies identically
// to either source. It never returns a plain error: failures are
// always an *errorkit.Error of Kind InvalidInput, HostileInput, or
// TooLarge.
func Validate(raw []byte, limits Limits) (Result, error) {
	if limits.MaxBytes <= 0 {
		limits = DefaultLimits()
	}
	if int64(len(raw)) > limits.MaxBytes {
		return Result{}, errorkit.New(errorkit.TooLarge, fmt.Sprintf("file exceeds %d bytes", limits.MaxBytes))
	}

	var (
		records [][]string
		err     error
	)
	if bytes.HasPrefix(raw, xlsxMagic) {
		records, err = readXLSX(raw)
	} else {
		records, err = readCSV(raw)
	}
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return Result{}, errorkit.New(errorkit.InvalidInput, "file has no header row")
	}

	header := records[0]
	colIndex, unknownCols, titleCol := mapColumns(header)
	if titleCol < 0 {
		return Result{}, errorkit.New(errorkit.InvalidInput, "no title-like column found")
	}

	var warnings []string
	if len(unknownCols) > 0 {
		warnings = append(warnings, fmt.Sprintf("ignored unknown columns: %s", strings.Join(unknownCols, ", ")))
	}

	if len(records)-1 > limits.MaxRows {
		return Result{}, errorkit.New(errorkit.TooLarge, fmt.Sprintf("file exceeds %d rows", limits.MaxRows))
	}

	seenByID := make(map[string]bool)
	seenByTitle := make(map[string]bool)
	rows := make([]model.CreatorRow, 0, len(records))

	for i, record := range records[1:] {
		rowNum := i + 2 // header is row 1 (1-based, matching the pack's Excel importer convention)

		for _, cell := range record {
			ok, violation := security.ScanCell(cell, limits.MaxCellRuns)
			if !ok {
				return Result{}, errorkit.New(errorkit.HostileInput,
					fmt.Sprintf("row %d: %s", rowNum, violation.Reason))
			}
		}

		row, ok := buildRow(record, colIndex, titleCol)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("row %d: empty title dropped", rowNum))
			continue
		}

		dedupKey := row.VideoID
		if dedupKey != "" {
			if seenByID[dedupKey] {
				warnings = append(warnings, fmt.Sprintf("row %d: duplicate video_id dropped", rowNum))
				continue
			}
			seenByID[dedupKey] = true
		} else {
			if seenByTitle[row.Title] {
				warnings = append(warnings, fmt.Sprintf("row %d: duplicate title dropped", rowNum))
				continue
			}
			seenByTitle[row.Title] = true
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return Result{}, errorkit.New(errorkit.InvalidInput, "no rows with a valid title")
	}

	return Result{Rows: rows, Warnings: warnings}, nil
}

func readCSV(raw []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errorkit.Wrap(errorkit.InvalidInput, "failed to parse CSV row", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func readXLSX(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errorkit.Wrap(errorkit.InvalidInput, "failed to open xlsx workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errorkit.New(errorkit.InvalidInput, "xlsx workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errorkit.Wrap(errorkit.InvalidInput, "failed to read xlsx sheet", err)
	}
	return records, nil
}

// mapColumns resolves the header into the known column set, returning
// the matched index for each normalized name, the list of unmatched
// (dropped) header names, and the resolved title column index (-1 if
// none matched).
func mapColumns(header []string) (map[string]int, []string, int) {
	colIndex := make(map[string]int)
	var unknown []string
	titleCol := -1

	for i, h := range header {
		norm := normalizeColumnName(h)
		matched := false
		for canonical, aliases := range columnAliases {
			for _, alias := range aliases {
				if norm == normalizeColumnName(alias) {
					colIndex[canonical] = i
					matched = true
					if canonical == "title" {
						titleCol = i
					}
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			unknown = append(unknown, h)
		}
	}
	return colIndex, unknown, titleCol
}

func normalizeColumnName(h string) string {
	h = strings.TrimSpace(h)
	h = strings.ToLower(h)
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	h = strings.ReplaceAll(h, "-", "")
	return h
}

func buildRow(record []string, colIndex map[string]int, titleCol int) (model.CreatorRow, bool) {
	title := ""
	if titleCol < len(record) {
		title = strings.TrimSpace(record[titleCol])
	}
	if title == "" {
		return model.CreatorRow{}, false
	}
	if r := []rune(title); len(r) > maxTitleChars {
		title = string(r[:maxTitleChars])
	}

	row := model.CreatorRow{Title: title}

	if i, ok := colIndex["video_id"]; ok && i < len(record) {
		row.VideoID = strings.TrimSpace(record[i])
	}
	if i, ok := colIndex["country"]; ok && i < len(record) {
		row.Country = strings.TrimSpace(record[i])
	}
	if i, ok := colIndex["views"]; ok && i < len(record) {
		row.Views = coerceInt(record[i])
	}
	if i, ok := colIndex["likes"]; ok && i < len(record) {
		row.Likes = coerceInt(record[i])
	}
	if i, ok := colIndex["comments"]; ok && i < len(record) {
		row.Comments = coerceInt(record[i])
	}
	if i, ok := colIndex["impressions"]; ok && i < len(record) {
		row.Impressions = coerceInt(record[i])
	}
	if i, ok := colIndex["ctr"]; ok && i < len(record) {
		row.CTR = coerceFloat(record[i])
	}
	if i, ok := colIndex["avg_view_duration_s"]; ok && i < len(record) {
		row.AvgViewDurationS = coerceFloat(record[i])
	}
	if i, ok := colIndex["published_at"]; ok && i < len(record) {
		row.PublishedAt = coerceTime(record[i])
	}

	return row, true
}

// coerceInt returns nil (absent, not zero) when the cell is empty or
// unparsable, per spec §4.1.
func coerceInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	if v < 0 {
		return nil
	}
	return &v
}

func coerceFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func coerceTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
