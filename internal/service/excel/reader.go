package excel

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"churnradar/internal/model"
)

// ReadWorkbook reads the first sheet of an xlsx workbook into a raw table.
// The structure must be readable; cell-level problems are left for the
// normalizer to absorb.
func ReadWorkbook(r io.Reader) (*model.RawTable, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return &model.RawTable{}, nil
	}

	return &model.RawTable{
		Header: rows[0],
		Rows:   rows[1:],
	}, nil
}

// ReadFile reads a workbook from disk.
func ReadFile(path string) (*model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWorkbook(f)
}
