package insight

import (
	"sort"
	"time"

	"churnradar/internal/config"
	"churnradar/internal/model"
	"churnradar/internal/util"
)

// Engine computes dashboard metrics over a cleaned dataset. It is pure: every
// call derives new slices and never touches the cached dataset.
type Engine struct {
	riskWeekMin int
	riskWeekMax int
	recentDays  int
	now         func() time.Time
}

// NewEngine builds an engine from the insight configuration.
func NewEngine(cfg config.InsightConfig) *Engine {
	return &Engine{
		riskWeekMin: cfg.RiskWeekMin,
		riskWeekMax: cfg.RiskWeekMax,
		recentDays:  cfg.RecentWindowDays,
		now:         time.Now,
	}
}

// Apply filters the dataset by the cascade selection and returns the records
// in scope. Selection sets cascade top-down; an empty set at a level is a
// pass-through, and the Unassigned sentinel matches records without an owner.
func (e *Engine) Apply(ds *model.Dataset, f model.FilterSpec) []model.CustomerRecord {
	if ds == nil {
		return nil
	}
	pool := make([]model.CustomerRecord, 0, len(ds.Records))
	for _, r := range ds.Records {
		if !selected(f.Managers, r.Manager) {
			continue
		}
		if !selected(f.Supervisors, r.Supervisor) {
			continue
		}
		if !selected(f.Salespeople, r.Salesperson) {
			continue
		}
		if !selected(f.States, r.State) {
			continue
		}
		pool = append(pool, r)
	}
	return pool
}

// Options returns the selectable values per level. Each level's list comes
// from the pool already filtered by the levels above it, so selecting a
// manager can only shrink the supervisor options.
func (e *Engine) Options(ds *model.Dataset, f model.FilterSpec) model.FilterOptions {
	if ds == nil {
		return model.FilterOptions{}
	}

	opts := model.FilterOptions{
		Managers: distinct(ds.Records, func(r *model.CustomerRecord) string { return r.Manager }),
	}

	pool := e.Apply(ds, model.FilterSpec{Managers: f.Managers})
	opts.Supervisors = distinct(pool, func(r *model.CustomerRecord) string { return r.Supervisor })

	pool = e.Apply(ds, model.FilterSpec{Managers: f.Managers, Supervisors: f.Supervisors})
	opts.Salespeople = distinct(pool, func(r *model.CustomerRecord) string { return r.Salesperson })

	pool = e.Apply(ds, model.FilterSpec{
		Managers:    f.Managers,
		Supervisors: f.Supervisors,
		Salespeople: f.Salespeople,
	})
	opts.States = distinct(pool, func(r *model.CustomerRecord) string { return r.State })

	return opts
}

// Compute runs the full metric pass over the filtered scope: totals, the
// active/inactive split, recent purchasers and the at-risk table.
func (e *Engine) Compute(ds *model.Dataset, f model.FilterSpec) *model.InsightResult {
	result := &model.InsightResult{
		AtRisk:      []model.RiskRow{},
		RiskColumns: RiskColumns(ds),
	}
	if ds == nil {
		result.Summary = summarize(0, 0, 0, 0)
		result.Summary.AtRiskDelta = util.FormatPercent(0, 0)
		return result
	}

	result.Warnings = append(result.Warnings, ds.Warnings...)
	result.Availability = model.Availability{
		Activity: ds.Has(model.ColActive),
		Recency:  ds.Has(model.ColLastDelivery),
	}

	pool := e.Apply(ds, f)
	now := e.now()
	recentCutoff := now.AddDate(0, 0, -e.recentDays)

	total := len(pool)
	active := 0
	recent := 0
	risk := make([]model.RiskRow, 0)

	for i := range pool {
		r := &pool[i]
		if result.Availability.Activity && r.Active {
			active++
		}
		weeks, hasWeeks := r.WeeksSince(now)
		if !result.Availability.Recency || !hasWeeks {
			// Unknown recency: never recent, never at risk.
			continue
		}
		if !r.LastDelivery.Before(recentCutoff) {
			recent++
		}
		if weeks >= e.riskWeekMin && weeks <= e.riskWeekMax {
			risk = append(risk, model.RiskRow{
				Customer:    r.Customer,
				LegalName:   r.LegalName,
				Phone:       r.Phone,
				TaxID:       r.TaxID,
				Weeks:       weeks,
				ActiveFlag:  r.ActiveFlag,
				TotalBilled: r.TotalBilled,
				Segment:     r.Segment,
			})
		}
	}

	// Oldest gap first; stable so ties keep their cleaned-table order.
	sort.SliceStable(risk, func(i, j int) bool {
		return risk[i].Weeks > risk[j].Weeks
	})

	inactive := 0
	if result.Availability.Activity {
		// Derived by complement so the split always sums to the total, no
		// matter how the raw flag was spelled.
		inactive = total - active
	}

	result.Summary = summarize(total, active, inactive, recent)
	result.Summary.AtRisk = len(risk)
	result.Summary.AtRiskDelta = util.FormatPercent(len(risk), total)
	result.AtRisk = risk

	return result
}

// RiskColumns lists the at-risk display columns available in the dataset, in
// canonical order.
func RiskColumns(ds *model.Dataset) []string {
	candidates := []string{
		model.ColCustomer, model.ColLegalName, model.ColPhone, model.ColTaxID,
		model.ColWeeks, model.ColActive, model.ColTotal, model.ColSegment,
	}
	cols := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == model.ColWeeks {
			// Derived from the delivery date rather than read from the sheet.
			if ds.Has(model.ColLastDelivery) {
				cols = append(cols, c)
			}
			continue
		}
		if ds.Has(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func summarize(total, active, inactive, recent int) model.Summary {
	return model.Summary{
		Total:            total,
		Active:           active,
		Inactive:         inactive,
		RecentPurchasers: recent,
		ActiveDelta:      util.FormatPercent(active, total),
		InactiveDelta:    util.FormatPercent(inactive, total),
		RecentDelta:      util.FormatPercent(recent, total),
	}
}

func selected(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func distinct(records []model.CustomerRecord, get func(*model.CustomerRecord) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for i := range records {
		v := get(&records[i])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
