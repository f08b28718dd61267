package upload

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoSheet = errors.New("no sheets found in Excel file")
	ErrNoRows  = errors.New("excel file must contain header and at least one data row")
)

// ReadSheet returns the header and data rows of the workbook's first sheet.
func ReadSheet(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrNoRows
	}
	return rows[0], rows[1:], nil
}

type InventoryExportRow struct {
	BinCode     string
	BinType     string
	ProductCode string
	Quantity    int
	UpdatedAt   time.Time
}

var inventoryExportHeader = []interface{}{"Bin Code", "Bin Type", "Product Code", "Quantity", "Updated At"}

// WriteInventory writes the rows as a workbook whose header can be uploaded again.
func WriteInventory(w io.Writer, rows []InventoryExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Inventory"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &inventoryExportHeader); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.BinCode, row.BinType, row.ProductCode, row.Quantity, row.UpdatedAt.Format(time.DateTime)}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
