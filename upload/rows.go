package upload

import (
	"math"
	"strconv"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/models"
)

type InventoryRow struct {
	Row         int    `json:"row"`
	BinCode     string `json:"binCode"`
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

type ProductRow struct {
	Row         int    `json:"row"`
	ProductCode string `json:"productCode"`
	Barcode     string `json:"barcode"`
	BoxType     string `json:"boxType"`
	Description string `json:"description"`
}

type BinRow struct {
	Row                 int            `json:"row"`
	BinCode             string         `json:"binCode"`
	Type                models.BinType `json:"type"`
	DefaultProductCodes []string       `json:"defaultProductCodes"`
}

// InventoryRows converts records into stock increments. Quantities must be
// positive whole numbers; "12.0" is accepted because spreadsheets format
// numbers that way.
func InventoryRows(records []Record) ([]InventoryRow, []RowError) {
	var rows []InventoryRow
	var errs []RowError
	for _, rec := range records {
		qty, ok := parseQuantity(rec.Get("quantity"))
		if !ok {
			errs = append(errs, RowError{Row: rec.Row, Field: "quantity", Message: "must be a positive whole number"})
			continue
		}
		rows = append(rows, InventoryRow{
			Row:         rec.Row,
			BinCode:     rec.Get("binCode"),
			ProductCode: rec.Get("productCode"),
			Quantity:    qty,
		})
	}
	return rows, errs
}

func ProductRows(records []Record) ([]ProductRow, []RowError) {
	var rows []ProductRow
	var errs []RowError
	seen := map[string]int{}
	for _, rec := range records {
		code := rec.Get("productCode")
		if first, dup := seen[code]; dup {
			errs = append(errs, RowError{Row: rec.Row, Field: "productCode", Message: "duplicate of row " + strconv.Itoa(first)})
			continue
		}
		seen[code] = rec.Row
		rows = append(rows, ProductRow{
			Row:         rec.Row,
			ProductCode: code,
			Barcode:     rec.Get("barcode"),
			BoxType:     rec.Get("boxType"),
			Description: rec.Get("description"),
		})
	}
	return rows, errs
}

// BinRows converts records into bin definitions. An empty type means INVENTORY.
func BinRows(records []Record) ([]BinRow, []RowError) {
	var rows []BinRow
	var errs []RowError
	seen := map[string]int{}
	for _, rec := range records {
		code := rec.Get("binCode")
		if first, dup := seen[code]; dup {
			errs = append(errs, RowError{Row: rec.Row, Field: "binCode", Message: "duplicate of row " + strconv.Itoa(first)})
			continue
		}

		binType := models.BinTypeInventory
		if raw := rec.Get("type"); raw != "" {
			t, ok := models.ParseBinType(raw)
			if !ok {
				errs = append(errs, RowError{Row: rec.Row, Field: "type", Message: "unknown bin type " + strconv.Quote(raw)})
				continue
			}
			binType = t
		}

		seen[code] = rec.Row
		rows = append(rows, BinRow{
			Row:                 rec.Row,
			BinCode:             code,
			Type:                binType,
			DefaultProductCodes: SplitCodes(rec.Get("defaultProductCodes")),
		})
	}
	return rows, errs
}

// SplitCodes splits a comma or semicolon separated list, dropping blanks and repeats.
func SplitCodes(raw string) []string {
	var codes []string
	seen := map[string]bool{}
	for _, code := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		code = strings.TrimSpace(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

func parseQuantity(raw string) (int, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n > 0 && n <= math.MaxInt32
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
