package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fleetdesk/internal"
)

// ExportOutcomeToXLSX writes an import outcome as a review sheet:
// imported rows first, failures after, both in source-row order.
func ExportOutcomeToXLSX(outcome internal.ImportOutcome, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"row_no", "status", "license_plate", "brand", "model", "detail", "vehicle_id"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 1
	writeRow := func(rowNo int, status, plate, brand, model, detail, vehicleID string) {
		r++
		values := []any{rowNo, status, plate, brand, model, detail, vehicleID}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	for _, rec := range outcome.Imported {
		brand, _ := rec.Source.Get(internal.FieldBrand)
		model, _ := rec.Source.Get(internal.FieldModel)
		writeRow(rec.Source.Row, "imported", rec.Vehicle.LicensePlate, brand, model, "", rec.Vehicle.ID)
	}
	for _, rec := range outcome.Failed {
		brand, _ := rec.Source.Get(internal.FieldBrand)
		model, _ := rec.Source.Get(internal.FieldModel)
		writeRow(rec.Source.Row, "failed", strings.TrimSpace(rec.Source.Plate()), brand, model, rec.Reason, "")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
