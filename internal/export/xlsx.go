package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"musicsales/internal/models"
)

// Header is the column layout of every exported sheet, matching the source CSV.
var Header = []interface{}{"Year", "Format", "Metric", "Value (Actual)"}

// Sheet is one named table in the workbook.
type Sheet struct {
	Name    string
	Records []models.SalesRecord
}

// WriteXLSX writes sheets, in order, as a single workbook.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("export: add sheet %s: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh Sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.Name, "A1", &Header); err != nil {
		return fmt.Errorf("export: %s header: %w", sh.Name, err)
	}
	if err := f.SetCellStyle(sh.Name, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("export: %s header style: %w", sh.Name, err)
	}
	for i, r := range sh.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Year, r.Format, string(r.Metric), nil}
		if r.HasValue() {
			row[3] = r.Value
		}
		if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sh.Name, i+1, err)
		}
	}
	return f.SetColWidth(sh.Name, "B", "B", 22)
}
