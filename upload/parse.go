// Package upload turns spreadsheet rows into typed records. Parsing is pure:
// it needs only the header, the data rows and the column aliases.
package upload

import (
	"fmt"
	"strings"
)

// Record is one non-empty data row, keyed by logical field.
type Record struct {
	Row    int
	Fields map[string]string
}

func (r Record) Get(field string) string {
	return r.Fields[field]
}

// RowError reports a problem with one sheet row. Row 1 is the header.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

var headerReplacer = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "", "\t", "")

// NormalizeHeader lower-cases a header cell and drops separators, so
// "Product Code", "product_code" and "PRODUCT-CODE" compare equal.
func NormalizeHeader(s string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParseRows matches header cells against the column aliases and maps every
// data row to a Record. Blank rows are skipped. A missing required column
// fails the whole sheet; a missing required value fails only its row.
// Row numbers count the header as row 1.
func ParseRows(header []string, rows [][]string, aliases ColumnAliases) ([]Record, []RowError) {
	lookup := map[string]string{}
	for _, col := range aliases {
		lookup[NormalizeHeader(col.Field)] = col.Field
		for _, alias := range col.Aliases {
			lookup[NormalizeHeader(alias)] = col.Field
		}
	}

	var errs []RowError
	index := map[string]int{}
	for i, cell := range header {
		field, ok := lookup[NormalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, dup := index[field]; dup {
			errs = append(errs, RowError{Row: 1, Field: field, Message: fmt.Sprintf("duplicate column %q", strings.TrimSpace(cell))})
			continue
		}
		index[field] = i
	}
	for _, col := range aliases {
		if _, ok := index[col.Field]; col.Required && !ok {
			errs = append(errs, RowError{Row: 1, Field: col.Field, Message: "missing column"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var records []Record
	for i, row := range rows {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}

		fields := make(map[string]string, len(index))
		valid := true
		for _, col := range aliases {
			pos, ok := index[col.Field]
			value := ""
			if ok && pos < len(row) {
				value = strings.TrimSpace(row[pos])
			}
			if col.Required && value == "" {
				errs = append(errs, RowError{Row: rowNum, Field: col.Field, Message: "is required"})
				valid = false
				continue
			}
			if ok {
				fields[col.Field] = value
			}
		}
		if valid {
			records = append(records, Record{Row: rowNum, Fields: fields})
		}
	}
	return records, errs
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
