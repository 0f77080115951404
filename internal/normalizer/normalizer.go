package normalizer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"churnradar/internal/model"
)

// dropColumns are known-irrelevant source columns, removed when present.
var dropColumns = []string{"Cliente Desde", "Logradouro", "Marcar", "Inad."}

// DisplayDateFormat is the canonical rendering of the last delivery date.
const DisplayDateFormat = "02/01/2006"

// dateFormats are tried in order when parsing the last delivery cell.
// Day-first formats come first: the export is Brazilian.
var dateFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// Clean runs the full normalization pipeline over a raw sheet: prune the
// column denylist, drop rows without a legal name, reduce phone and tax ID to
// digits (or the NoNumber sentinel), uppercase the categorical columns, parse
// the last delivery date day-first, and sort descending by that date with
// unknown dates last.
func Clean(raw *model.RawTable) *model.Dataset {
	ds := &model.Dataset{
		ID:       uuid.New().String(),
		LoadedAt: time.Now(),
		Columns:  make(map[string]bool),
	}
	if raw == nil {
		ds.Warnings = append(ds.Warnings, "planilha vazia: nenhum dado para processar")
		return ds
	}

	colIndex := make(map[string]int)
	for i, col := range raw.Header {
		name := strings.TrimSpace(col)
		if name == "" || isDropped(name) {
			continue
		}
		colIndex[name] = i
		ds.Columns[name] = true
	}

	if !ds.Columns[model.ColLegalName] {
		ds.Warnings = append(ds.Warnings,
			fmt.Sprintf("coluna %q não encontrada: nenhuma linha pode ser validada", model.ColLegalName))
		return ds
	}
	if !ds.Columns[model.ColActive] {
		ds.Warnings = append(ds.Warnings,
			fmt.Sprintf("coluna %q não encontrada: métricas de atividade desabilitadas", model.ColActive))
	}
	if !ds.Columns[model.ColLastDelivery] {
		ds.Warnings = append(ds.Warnings,
			fmt.Sprintf("coluna %q não encontrada: cálculos de recência desabilitados", model.ColLastDelivery))
	}

	getCell := func(row []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]model.CustomerRecord, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		legalName := strings.ToUpper(getCell(row, model.ColLegalName))
		if legalName == "" {
			// Hard filter: a record without a legal name is unusable.
			continue
		}

		r := model.CustomerRecord{
			Customer:  getCell(row, model.ColCustomer),
			LegalName: legalName,
			Phone:     digitsOrSentinel(getCell(row, model.ColPhone)),
			TaxID:     digitsOrSentinel(getCell(row, model.ColTaxID)),
		}

		r.ActiveFlag = strings.ToUpper(getCell(row, model.ColActive))
		r.Active = r.ActiveFlag == model.ActiveYes

		r.Manager = categorical(getCell(row, model.ColManager), true)
		r.Supervisor = categorical(getCell(row, model.ColSupervisor), true)
		r.Salesperson = categorical(getCell(row, model.ColSalesperson), true)
		r.State = categorical(getCell(row, model.ColState), true)
		r.City = categorical(getCell(row, model.ColCity), false)
		r.PersonType = categorical(getCell(row, model.ColPersonType), false)
		r.Segment = categorical(getCell(row, model.ColSegment), false)

		if when, ok := parseDate(getCell(row, model.ColLastDelivery)); ok {
			r.LastDelivery = when
			r.HasLastDelivery = true
		}

		r.TotalBilled = parseFloat(getCell(row, model.ColTotal))

		records = append(records, r)
	}

	// Most recent delivery first; rows with unknown dates go last so a
	// missing date is never read as "delivered today". Stable sort keeps
	// the source order among equals.
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.HasLastDelivery != b.HasLastDelivery {
			return a.HasLastDelivery
		}
		return a.LastDelivery.After(b.LastDelivery)
	})

	ds.Records = records
	return ds
}

// RenderTable projects a cleaned dataset back into tabular form with the
// canonical column order and display formats. It feeds the formatted
// spreadsheet artifact and is the input Clean accepts back unchanged.
func RenderTable(ds *model.Dataset, now time.Time) *model.RawTable {
	type column struct {
		name string
		get  func(r *model.CustomerRecord) string
	}

	all := []column{
		{model.ColCustomer, func(r *model.CustomerRecord) string { return r.Customer }},
		{model.ColLegalName, func(r *model.CustomerRecord) string { return r.LegalName }},
		{model.ColPhone, func(r *model.CustomerRecord) string { return r.Phone }},
		{model.ColTaxID, func(r *model.CustomerRecord) string { return r.TaxID }},
		{model.ColPersonType, func(r *model.CustomerRecord) string { return r.PersonType }},
		{model.ColState, func(r *model.CustomerRecord) string { return r.State }},
		{model.ColCity, func(r *model.CustomerRecord) string { return r.City }},
		{model.ColManager, func(r *model.CustomerRecord) string { return r.Manager }},
		{model.ColSupervisor, func(r *model.CustomerRecord) string { return r.Supervisor }},
		{model.ColSalesperson, func(r *model.CustomerRecord) string { return r.Salesperson }},
		{model.ColSegment, func(r *model.CustomerRecord) string { return r.Segment }},
		{model.ColActive, func(r *model.CustomerRecord) string { return r.ActiveFlag }},
		{model.ColLastDelivery, func(r *model.CustomerRecord) string {
			if !r.HasLastDelivery {
				return ""
			}
			return r.LastDelivery.Format(DisplayDateFormat)
		}},
		{model.ColWeeks, func(r *model.CustomerRecord) string {
			weeks, ok := r.WeeksSince(now)
			if !ok {
				return ""
			}
			return strconv.Itoa(weeks)
		}},
		{model.ColTotal, func(r *model.CustomerRecord) string {
			if r.TotalBilled == 0 {
				return ""
			}
			return strconv.FormatFloat(r.TotalBilled, 'f', -1, 64)
		}},
	}

	columns := make([]column, 0, len(all))
	for _, c := range all {
		if c.name == model.ColWeeks {
			// Derived, only meaningful when the source had dates.
			if ds.Has(model.ColLastDelivery) {
				columns = append(columns, c)
			}
			continue
		}
		if ds.Has(c.name) {
			columns = append(columns, c)
		}
	}

	table := &model.RawTable{
		Header: make([]string, len(columns)),
		Rows:   make([][]string, 0, len(ds.Records)),
	}
	for i, c := range columns {
		table.Header[i] = c.name
	}
	for i := range ds.Records {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = c.get(&ds.Records[i])
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

func isDropped(col string) bool {
	for _, d := range dropColumns {
		if col == d {
			return true
		}
	}
	return false
}

// digitsOrSentinel strips every non-digit character; an empty result maps to
// the NoNumber sentinel, never to an empty string.
func digitsOrSentinel(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return model.NoNumber
	}
	return b.String()
}

// categorical trims and uppercases a text cell. Hierarchy fields substitute
// the Unassigned sentinel for blanks.
func categorical(s string, hierarchy bool) string {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" && hierarchy {
		return model.Unassigned
	}
	return v
}

// parseDate tries the day-first format list. Unparseable values are reported
// as unknown, never as an error.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Tolerate both "1,234.56" and the Brazilian "1.234,56".
	if strings.Contains(s, ",") && strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
