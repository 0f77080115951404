package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"churnradar/internal/model"
	"churnradar/internal/normalizer"
)

const formattedSheet = "Sheet1"

// WriteFormatted writes the cleaned dataset as the formatted spreadsheet
// artifact, canonical column order, dates rendered DD/MM/YYYY. The artifact
// can be re-ingested without rerunning the cleaning rules.
func WriteFormatted(ds *model.Dataset, path string) error {
	table := normalizer.RenderTable(ds, time.Now())

	file := excelize.NewFile()
	defer file.Close()

	if err := writeRow(file, 1, table.Header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeRow(file, i+2, row); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save formatted workbook: %w", err)
	}
	return nil
}

func writeRow(file *excelize.File, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, v := range cells {
		values[i] = v
	}
	return file.SetSheetRow(formattedSheet, cell, &values)
}
