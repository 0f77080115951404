package exporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"churnradar/internal/model"
)

// RiskFilename is the download name of the at-risk export.
const RiskFilename = "clientes_em_risco.csv"

// WriteRiskCSV serializes the at-risk table as UTF-8 CSV: header row from the
// available display columns, one row per customer, no index column.
func WriteRiskCSV(w io.Writer, columns []string, rows []model.RiskRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for i := range rows {
		for j, col := range columns {
			record[j] = riskCell(&rows[i], col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func riskCell(r *model.RiskRow, col string) string {
	switch col {
	case model.ColCustomer:
		return r.Customer
	case model.ColLegalName:
		return r.LegalName
	case model.ColPhone:
		return r.Phone
	case model.ColTaxID:
		return r.TaxID
	case model.ColWeeks:
		return strconv.Itoa(r.Weeks)
	case model.ColActive:
		return r.ActiveFlag
	case model.ColTotal:
		return strconv.FormatFloat(r.TotalBilled, 'f', -1, 64)
	case model.ColSegment:
		return r.Segment
	default:
		return ""
	}
}
