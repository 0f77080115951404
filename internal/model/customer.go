package model

import "time"

// Sentinel values written in place of blank cells. Cleaned data never carries
// empty strings for these fields, so comparisons and sorts stay well-defined.
const (
	NoNumber   = "Sem Número"
	Unassigned = "NÃO ATRIBUÍDO"
)

// ActiveYes is the normalized activity flag value that marks a customer
// active. Any other value, recognized or not, counts as inactive.
const ActiveYes = "SIM"

// Column names as they appear in the source export.
const (
	ColCustomer     = "Cliente"
	ColLegalName    = "Razão Social"
	ColPhone        = "Telefone"
	ColTaxID        = "CPF / CNPJ"
	ColActive       = "Ativo"
	ColLastDelivery = "Ultima Entrega"
	ColWeeks        = "Semanas"
	ColManager      = "Nome do Gerente"
	ColSupervisor   = "Nome do Supervisor"
	ColSalesperson  = "Nome do Vendedor"
	ColState        = "Estado"
	ColCity         = "Cidade"
	ColPersonType   = "PF/PJ"
	ColSegment      = "Seguimento"
	ColTotal        = "Total"
)

// RawTable holds a sheet exactly as read from the workbook: a header row and
// string cells, before any cleaning.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// CustomerRecord is one cleaned row of the customer export.
type CustomerRecord struct {
	Customer        string
	LegalName       string
	Phone           string
	TaxID           string
	ActiveFlag      string // normalized uppercase raw value, e.g. "SIM"
	Active          bool
	LastDelivery    time.Time
	HasLastDelivery bool
	Manager         string
	Supervisor      string
	Salesperson     string
	State           string
	City            string
	PersonType      string
	Segment         string
	TotalBilled     float64
}

// WeeksSince returns full weeks elapsed between the last delivery and now,
// floor(days/7), clamped at zero for future dates. The second return is false
// when the delivery date is unknown.
func (r *CustomerRecord) WeeksSince(now time.Time) (int, bool) {
	if !r.HasLastDelivery {
		return 0, false
	}
	days := int(now.Sub(r.LastDelivery).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days / 7, true
}

// Dataset is an immutable cleaned table plus its load metadata. Filtering and
// metric computation build new slices; the cached dataset is never mutated.
type Dataset struct {
	ID        string
	SourceKey string
	LoadedAt  time.Time
	Records   []CustomerRecord
	Columns   map[string]bool
	Warnings  []string
}

// Has reports whether the named source column was present at load time.
func (d *Dataset) Has(col string) bool {
	return d != nil && d.Columns[col]
}
