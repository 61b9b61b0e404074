package ledger

import (
	"context"
	"math"
	"time"

	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/utils"
)

// BalanceAggregator combines the two ledgers into the dashboard views. It
// holds no state of its own; every call recomputes from the ledger rows so
// a cached balance can never drift from the transactions underneath it.
type BalanceAggregator struct {
	contributions *ContributionLedger
	expenses      *ExpenseLedger
}

func NewBalanceAggregator(contributions *ContributionLedger, expenses *ExpenseLedger) *BalanceAggregator {
	return &BalanceAggregator{contributions: contributions, expenses: expenses}
}

// MonthlyTimeSeries buckets the year's collections and expenses by calendar
// month. The slice is always length 12 with zero-valued months filled in,
// so chart code never special-cases gaps.
func (a *BalanceAggregator) MonthlyTimeSeries(ctx context.Context, year int) ([]models.FinancialBucket, error) {
	from, to := utils.YearRange(year)

	contributions, err := a.contributions.store.ContributionsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := a.expenses.store.ExpensesBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	buckets := make([]models.FinancialBucket, 12)
	for i := range buckets {
		buckets[i].Month = utils.MonthLabel(time.Month(i + 1))
	}
	for _, c := range contributions {
		if c.TransactionDate.Year() != year {
			continue
		}
		buckets[int(c.TransactionDate.Month())-1].Collections += c.Amount
	}
	for _, e := range expenses {
		if e.TransactionDate.Year() != year || math.IsNaN(e.Amount) || e.Amount <= 0 {
			continue
		}
		buckets[int(e.TransactionDate.Month())-1].Expenses += e.Amount
	}
	for i := range buckets {
		buckets[i].Collections = utils.Round2(buckets[i].Collections)
		buckets[i].Expenses = utils.Round2(buckets[i].Expenses)
	}
	return buckets, nil
}

// YearSummary returns the net position for a year: total collections minus
// total expenses, plus the paid/unpaid member split.
func (a *BalanceAggregator) YearSummary(ctx context.Context, year int) (*models.YearSummary, error) {
	collections, err := a.contributions.AggregateYear(ctx, year)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := a.expenses.AggregateYear(ctx, year)
	if err != nil {
		return nil, err
	}

	return &models.YearSummary{
		Year:             year,
		TotalCollections: collections.TotalCollections,
		TotalExpenses:    totalExpenses,
		NetBalance:       utils.Round2(collections.TotalCollections - totalExpenses),
		PaidMembers:      collections.PaidMembers,
		UnpaidMembers:    collections.UnpaidMembers,
	}, nil
}
