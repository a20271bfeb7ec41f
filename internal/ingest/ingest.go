package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Row is one line of a Veryon due-list export with fields parsed.
// Pointer fields are nil when the cell is empty or unparseable.
type Row struct {
	Tail            string
	ItemType        string
	ATA             string
	Description     string
	DueDate         *string
	NextDueStatus   string
	RemainingDays   *float64
	RemainingHours  *float64
	ReportDate      *string
	AirframeHours   *float64
	RequirementType string
}

// Export is a fully read due-list file. Skipped counts records the CSV
// reader rejected; cell-level problems surface as nil fields instead.
type Export struct {
	Path    string
	Rows    []Row
	Skipped int
}

// MissingColumnsError reports required columns absent from an export header.
type MissingColumnsError struct {
	Path    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Columns, ", "))
}

var (
	colTail       = []string{"registration number", "registration", "tail number"}
	colItemType   = []string{"item type"}
	colATA        = []string{"ata and code", "ata"}
	colDesc       = []string{"description", "item description"}
	colDueDate    = []string{"next due date", "due date"}
	colDueStatus  = []string{"next due status", "due status"}
	colRemDays    = []string{"remaining days"}
	colRemHours   = []string{"remaining hours"}
	colReportDate = []string{"airframe report date"}
	colAirframeHr = []string{"airframe hours"}
	colReqType    = []string{"requirement type"}
)

var requiredColumns = []struct {
	name string
	keys []string
}{
	{"Registration Number", colTail},
	{"Item Type", colItemType},
	{"ATA and Code", colATA},
	{"Airframe Report Date", colReportDate},
	{"Airframe Hours", colAirframeHr},
}

// ReadExport reads a due-list CSV. A missing file or a header without the
// required columns is an error; individual bad records are counted and
// skipped.
func ReadExport(path string) (*Export, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decodeExport(raw)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read export header %s: %w", path, err)
	}
	index := headerIndex(headers)
	if missing := missingColumns(index); len(missing) > 0 {
		return nil, &MissingColumnsError{Path: path, Columns: missing}
	}

	ex := &Export{Path: path}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ex.Skipped++
			continue
		}
		ex.Rows = append(ex.Rows, Row{
			Tail:            getFieldAny(rec, index, colTail...),
			ItemType:        strings.ToUpper(getFieldAny(rec, index, colItemType...)),
			ATA:             getFieldAny(rec, index, colATA...),
			Description:     getFieldAny(rec, index, colDesc...),
			DueDate:         ParseDateISO(getFieldAny(rec, index, colDueDate...)),
			NextDueStatus:   getFieldAny(rec, index, colDueStatus...),
			RemainingDays:   parseFloat(getFieldAny(rec, index, colRemDays...)),
			RemainingHours:  parseFloat(getFieldAny(rec, index, colRemHours...)),
			ReportDate:      ParseDateISO(getFieldAny(rec, index, colReportDate...)),
			AirframeHours:   parseFloat(getFieldAny(rec, index, colAirframeHr...)),
			RequirementType: strings.ToUpper(getFieldAny(rec, index, colReqType...)),
		})
	}
	return ex, nil
}

// Veryon produces UTF-8 with a BOM from the web UI and Windows-1252 from
// the legacy desktop client.
func decodeExport(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return raw
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func missingColumns(idx map[string]int) []string {
	var missing []string
	for _, col := range requiredColumns {
		found := false
		for _, key := range col.keys {
			if _, ok := idx[key]; ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col.name)
		}
	}
	return missing
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "﻿", "")
	return strings.ToLower(strings.TrimSpace(h))
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func getField(rec []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

func getFieldAny(rec []string, idx map[string]int, names ...string) string {
	for _, n := range names {
		if v := getField(rec, idx, n); v != "" {
			return v
		}
	}
	return ""
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
