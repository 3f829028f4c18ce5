package finance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// EntryFilter selects persisted entries. Limit/Offset apply to the merged
// set, never to the store query: merging first is required for correct
// totals and page contents.
type EntryFilter struct {
	From            *time.Time
	To              *time.Time
	TransactionType *models.TransactionType
	Category        *models.LedgerCategory
	Limit           int
	Offset          int
}

// LedgerSource reads persisted entries. Implementations must ignore
// Limit/Offset when asked for the unpaginated set (Limit == 0).
type LedgerSource interface {
	Entries(ctx context.Context, f EntryFilter) ([]models.LedgerEntry, error)
}

// Totals is the DRE-style summary: income, expenses, net profit.
type Totals struct {
	IncomeCents    int64 `json:"incomeCents"`
	ExpenseCents   int64 `json:"expenseCents"`
	NetProfitCents int64 `json:"netProfitCents"`
}

// EntryPage is one page of merged entries plus counts over the whole
// (pre-pagination) merged set.
type EntryPage struct {
	Entries      []Entry `json:"entries"`
	Total        int     `json:"total"`
	RealCount    int     `json:"realCount"`
	VirtualCount int     `json:"virtualCount"`
}

type CommissionTotal struct {
	ProfessionalID       uuid.UUID `json:"professionalId"`
	TotalCommissionCents int64     `json:"totalCommissionCents"`
}

// Aggregator merges persisted and virtual entries for reporting. Virtual
// entries are deduplicated by booking id against real income entries, so a
// booking is never counted twice.
type Aggregator struct {
	ledger    LedgerSource
	projector *Projector
}

func NewAggregator(ledger LedgerSource, projector *Projector) *Aggregator {
	return &Aggregator{ledger: ledger, projector: projector}
}

// merged returns all entries in range, real plus non-duplicated virtual,
// sorted by transaction date descending.
func (a *Aggregator) merged(ctx context.Context, from, to time.Time) ([]Entry, error) {
	real, err := a.ledger.Entries(ctx, EntryFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	covered := make(map[uuid.UUID]bool)
	entries := make([]Entry, 0, len(real))
	for _, e := range real {
		if e.BookingID != nil && e.TransactionType == models.TransactionIncome &&
			e.Category == models.CategoryServicePayment {
			covered[*e.BookingID] = true
		}
		entries = append(entries, EntryFromModel(e))
	}

	virtual, err := a.projector.Project(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, e := range virtual {
		if e.BookingID != nil && covered[*e.BookingID] {
			continue
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TransactionDate.After(entries[j].TransactionDate)
	})
	return entries, nil
}

// Totals aggregates income, expenses and net profit over merged entries.
func (a *Aggregator) Totals(ctx context.Context, from, to time.Time) (Totals, error) {
	entries, err := a.merged(ctx, from, to)
	if err != nil {
		return Totals{}, err
	}
	var t Totals
	for _, e := range entries {
		switch e.TransactionType {
		case models.TransactionIncome:
			t.IncomeCents += e.AmountCents
		case models.TransactionExpense:
			t.ExpenseCents += e.AmountCents
		}
	}
	t.NetProfitCents = t.IncomeCents - t.ExpenseCents
	return t, nil
}

// Entries returns one page of merged entries. Type/category filters and
// pagination are applied after merging.
func (a *Aggregator) Entries(ctx context.Context, f EntryFilter) (EntryPage, error) {
	from, to := rangeOrDefault(f.From, f.To)
	entries, err := a.merged(ctx, from, to)
	if err != nil {
		return EntryPage{}, err
	}

	filtered := entries[:0:0]
	for _, e := range entries {
		if f.TransactionType != nil && e.TransactionType != *f.TransactionType {
			continue
		}
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		filtered = append(filtered, e)
	}

	page := EntryPage{Total: len(filtered)}
	for _, e := range filtered {
		if e.Virtual {
			page.VirtualCount++
		} else {
			page.RealCount++
		}
	}

	start := f.Offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := len(filtered)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	page.Entries = filtered[start:end]
	return page, nil
}

// CommissionSummary totals commission per professional over merged entries,
// optionally restricted to one professional.
func (a *Aggregator) CommissionSummary(ctx context.Context, from, to time.Time, professionalID *uuid.UUID) ([]CommissionTotal, error) {
	entries, err := a.merged(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]int64)
	for _, e := range entries {
		if e.Category != models.CategoryCommissionPayment || e.ProfessionalID == nil {
			continue
		}
		if professionalID != nil && *e.ProfessionalID != *professionalID {
			continue
		}
		totals[*e.ProfessionalID] += e.AmountCents
	}

	summary := make([]CommissionTotal, 0, len(totals))
	for id, total := range totals {
		summary = append(summary, CommissionTotal{ProfessionalID: id, TotalCommissionCents: total})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].TotalCommissionCents != summary[j].TotalCommissionCents {
			return summary[i].TotalCommissionCents > summary[j].TotalCommissionCents
		}
		return summary[i].ProfessionalID.String() < summary[j].ProfessionalID.String()
	})
	return summary, nil
}

func rangeOrDefault(from, to *time.Time) (time.Time, time.Time) {
	f := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	t := time.Now().AddDate(10, 0, 0)
	if from != nil {
		f = *from
	}
	if to != nil {
		t = *to
	}
	return f, t
}
