package normalizer

import (
	"testing"
	"time"

	"churnradar/internal/model"
)

func rawTable(header []string, rows ...[]string) *model.RawTable {
	return &model.RawTable{Header: header, Rows: rows}
}

func TestClean_DigitExtraction(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColLegalName, model.ColPhone, model.ColTaxID},
		[]string{"Padaria Central", "(11) 98765-4321", "123.456.789-00"},
		[]string{"Mercado Sul", "", "12.345.678/0001-95"},
		[]string{"Bar do João", "sem telefone", "abc"},
	))

	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}
	if got := ds.Records[0].Phone; got != "11987654321" {
		t.Fatalf("phone: want digits only, got %q", got)
	}
	if got := ds.Records[0].TaxID; got != "12345678900" {
		t.Fatalf("tax id: want digits only, got %q", got)
	}
	if got := ds.Records[1].Phone; got != model.NoNumber {
		t.Fatalf("blank phone: want sentinel, got %q", got)
	}
	if got := ds.Records[1].TaxID; got != "12345678000195" {
		t.Fatalf("cnpj: want digits only, got %q", got)
	}
	if got := ds.Records[2].Phone; got != model.NoNumber {
		t.Fatalf("digitless phone: want sentinel, got %q", got)
	}
	if got := ds.Records[2].TaxID; got != model.NoNumber {
		t.Fatalf("digitless tax id: want sentinel, got %q", got)
	}
}

func TestClean_DropsBlankLegalName(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColCustomer, model.ColLegalName, model.ColPhone},
		[]string{"C1", "Empresa Um", "111"},
		[]string{"C2", "   ", "222"},
		[]string{"C3", "", "333"},
		[]string{"C4", "Empresa Quatro", "444"},
	))

	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records after legal-name filter, got %d", len(ds.Records))
	}
	for _, r := range ds.Records {
		if r.LegalName == "" {
			t.Fatalf("record with empty legal name survived cleaning")
		}
	}
}

func TestClean_ActivityFlagNormalization(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColLegalName, model.ColActive},
		[]string{"A", "sim"},
		[]string{"B", "SIM"},
		[]string{"C", " Sim "},
		[]string{"D", "não"},
		[]string{"E", "NÃO"},
		[]string{"F", "talvez"},
	))

	active := 0
	for _, r := range ds.Records {
		if r.Active {
			active++
		}
	}
	if active != 3 {
		t.Fatalf("expected 3 active records, got %d", active)
	}
	// Unrecognized spellings must not silently become active.
	for _, r := range ds.Records {
		if r.LegalName == "F" && r.Active {
			t.Fatalf("unrecognized flag counted as active")
		}
	}
}

func TestClean_ColumnDenylist(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColLegalName, "Logradouro", "Cliente Desde", "Inad.", model.ColPhone},
		[]string{"Empresa", "Rua A, 10", "2019", "não", "555"},
	))

	for _, dropped := range []string{"Logradouro", "Cliente Desde", "Inad."} {
		if ds.Has(dropped) {
			t.Fatalf("denylisted column %q kept", dropped)
		}
	}
	if !ds.Has(model.ColPhone) {
		t.Fatalf("phone column lost during pruning")
	}
}

func TestClean_DateParsingAndSort(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColLegalName, model.ColLastDelivery},
		[]string{"Antiga", "05/01/2026"},
		[]string{"Sem Data", "n/a"},
		[]string{"Recente", "20/03/2026"},
		[]string{"Média", "10/02/2026"},
	))

	want := []string{"RECENTE", "MÉDIA", "ANTIGA", "SEM DATA"}
	if len(ds.Records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(ds.Records))
	}
	for i, name := range want {
		if ds.Records[i].LegalName != name {
			t.Fatalf("position %d: want %q, got %q", i, name, ds.Records[i].LegalName)
		}
	}

	// Day-first: 05/01/2026 is January 5th, not May 1st.
	if got := ds.Records[2].LastDelivery; got.Month() != time.January || got.Day() != 5 {
		t.Fatalf("day-first parse failed: got %v", got)
	}
	if ds.Records[3].HasLastDelivery {
		t.Fatalf("unparseable date should be unknown, not a value")
	}
}

func TestClean_UnknownDatesNeverMostRecent(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColLegalName, model.ColLastDelivery},
		[]string{"Sem Data 1", ""},
		[]string{"Com Data", "01/01/2020"},
		[]string{"Sem Data 2", "inválida"},
	))

	if ds.Records[0].LegalName != "COM DATA" {
		t.Fatalf("dated record should sort before unknown dates, got %q first", ds.Records[0].LegalName)
	}
	// Stable: unknown-date rows keep their relative order.
	if ds.Records[1].LegalName != "SEM DATA 1" || ds.Records[2].LegalName != "SEM DATA 2" {
		t.Fatalf("unknown-date rows reordered: %q, %q", ds.Records[1].LegalName, ds.Records[2].LegalName)
	}
}

func TestClean_HierarchySentinel(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColLegalName, model.ColManager, model.ColSupervisor},
		[]string{"Empresa", "carlos silva", ""},
	))

	r := ds.Records[0]
	if r.Manager != "CARLOS SILVA" {
		t.Fatalf("manager not uppercased: %q", r.Manager)
	}
	if r.Supervisor != model.Unassigned {
		t.Fatalf("blank supervisor: want sentinel, got %q", r.Supervisor)
	}
	if r.Salesperson != model.Unassigned {
		t.Fatalf("absent salesperson column: want sentinel, got %q", r.Salesperson)
	}
}

func TestClean_MissingColumnsWarn(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColLegalName},
		[]string{"Empresa"},
	))

	if len(ds.Records) != 1 {
		t.Fatalf("load should degrade, not fail: got %d records", len(ds.Records))
	}
	if len(ds.Warnings) < 2 {
		t.Fatalf("expected warnings for missing Ativo and Ultima Entrega, got %v", ds.Warnings)
	}
	if ds.Has(model.ColActive) || ds.Has(model.ColLastDelivery) {
		t.Fatalf("absent columns marked present")
	}
}

func TestClean_MissingLegalNameColumn(t *testing.T) {
	t.Parallel()

	ds := Clean(rawTable(
		[]string{model.ColCustomer, model.ColPhone},
		[]string{"C1", "111"},
	))

	if len(ds.Records) != 0 {
		t.Fatalf("no legal name column: expected empty dataset, got %d records", len(ds.Records))
	}
	if len(ds.Warnings) == 0 {
		t.Fatalf("expected a warning about the missing legal name column")
	}
}

func TestClean_Idempotent(t *testing.T) {
	t.Parallel()

	first := Clean(rawTable(
		[]string{
			model.ColCustomer, model.ColLegalName, model.ColPhone, model.ColTaxID,
			model.ColManager, model.ColActive, model.ColLastDelivery, model.ColTotal,
		},
		[]string{"C1", "padaria central", "(11) 98765-4321", "123.456.789-00", "ana", "sim", "20/03/2026", "1500.50"},
		[]string{"C2", "mercado sul", "", "12.345.678/0001-95", "", "não", "05/01/2026", ""},
		[]string{"C3", "bar do joão", "x", "y", "bia", "sim", "sem data", "200"},
	))

	now := time.Now()
	second := Clean(RenderTable(first, now))

	if len(second.Records) != len(first.Records) {
		t.Fatalf("record count changed on re-clean: %d -> %d", len(first.Records), len(second.Records))
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.LegalName != b.LegalName || a.Phone != b.Phone || a.TaxID != b.TaxID ||
			a.Manager != b.Manager || a.ActiveFlag != b.ActiveFlag || a.Active != b.Active {
			t.Fatalf("record %d changed on re-clean:\nfirst:  %+v\nsecond: %+v", i, a, b)
		}
		if a.HasLastDelivery != b.HasLastDelivery {
			t.Fatalf("record %d: date availability changed on re-clean", i)
		}
		if a.HasLastDelivery && !a.LastDelivery.Equal(b.LastDelivery) {
			t.Fatalf("record %d: date changed on re-clean: %v -> %v", i, a.LastDelivery, b.LastDelivery)
		}
		if a.TotalBilled != b.TotalBilled {
			t.Fatalf("record %d: total changed on re-clean: %v -> %v", i, a.TotalBilled, b.TotalBilled)
		}
	}
}

func TestParseFloat_BrazilianDecimals(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"1500.50":  1500.50,
		"1.234,56": 1234.56,
		"1,234.56": 1234.56,
		"":         0,
		"200":      200,
	}
	for in, want := range cases {
		if got := parseFloat(in); got != want {
			t.Fatalf("parseFloat(%q) = %v, want %v", in, got, want)
		}
	}
}
