// Package services implements the business logic on top of the ledger:
// metric aggregation, reminder scanning, auto-credit resolution, and the
// coordinating ledger service.
package services

import (
	"fmt"
	"sort"
	"time"

	"fintrack/internal/core"
)

// The aggregation engine converts the heterogeneous multi-currency ledger
// into single-currency metrics. Every headline value is the sum of its
// drill-down line items, so the two can never disagree: there is exactly
// one filtering implementation per metric.

// ComputeSummary evaluates every headline metric plus the category
// breakdown for the current month of now.
func ComputeSummary(l *core.Ledger, rates core.RateTable, display core.CurrencyCode, now time.Time) core.Summary {
	return core.Summary{
		Currency:         display,
		NetWorth:         sumItems(netWorthItems(l, rates, display)),
		TotalDebt:        sumItems(totalDebtItems(l, rates, display)),
		ProjectedBalance: sumItems(projectedBalanceItems(l, rates, display, now)),
		MonthlyResult:    sumItems(monthlyResultItems(l, rates, display, now)),
		ByCategory:       CategoryBreakdown(l, rates, display, now),
	}
}

// DrillDown lists the line items composing one headline metric, in the
// order the metric sums them.
func DrillDown(l *core.Ledger, kind core.MetricKind, rates core.RateTable, display core.CurrencyCode, now time.Time) ([]core.LineItem, error) {
	switch kind {
	case core.MetricNetWorth:
		return netWorthItems(l, rates, display), nil
	case core.MetricTotalDebt:
		return totalDebtItems(l, rates, display), nil
	case core.MetricProjectedBalance:
		return projectedBalanceItems(l, rates, display, now), nil
	case core.MetricMonthlyResult:
		return monthlyResultItems(l, rates, display, now), nil
	}
	return nil, fmt.Errorf("unknown metric %q", string(kind))
}

// CategoryBreakdown sums the current month's expenses per category in the
// display currency, largest first. Expenses without a category fall into
// the generic uncategorized bucket.
func CategoryBreakdown(l *core.Ledger, rates core.RateTable, display core.CurrencyCode, now time.Time) []core.CategoryAmount {
	totals := map[string]float64{}
	for _, e := range l.Expenses {
		if !occursInMonth(e.Schedule, now) {
			continue
		}
		category := e.Category
		if category == "" {
			category = core.UncategorizedLabel
		}
		totals[category] += core.Convert(e.Amount, e.Currency, display, rates)
	}

	breakdown := make([]core.CategoryAmount, 0, len(totals))
	for category, amount := range totals {
		breakdown = append(breakdown, core.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount != breakdown[j].Amount {
			return breakdown[i].Amount > breakdown[j].Amount
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// netWorthItems: received assets count in full, every debt subtracts its
// remaining amount, installment or not.
func netWorthItems(l *core.Ledger, rates core.RateTable, display core.CurrencyCode) []core.LineItem {
	var items []core.LineItem
	for _, a := range l.Assets {
		if !a.Received {
			continue
		}
		items = append(items, item(a.Title, a.Amount, a.Currency, display, rates, 1, &a.Date))
	}
	for _, d := range l.Debts {
		items = append(items, item(d.Title, d.RemainingAmount, d.Currency, display, rates, -1, nil))
	}
	return items
}

func totalDebtItems(l *core.Ledger, rates core.RateTable, display core.CurrencyCode) []core.LineItem {
	var items []core.LineItem
	for _, d := range l.Debts {
		it := item(d.Title, d.RemainingAmount, d.Currency, display, rates, 1, nil)
		if it.Converted > 0 {
			it.Sign = core.SignDebit
		}
		items = append(items, it)
	}
	return items
}

// projectedBalanceItems forecasts the end-of-month cash position: current
// received funds plus the pending deltas expected to resolve this month.
// Regular already-paid expenses are assumed reflected in balances and are
// not re-subtracted.
func projectedBalanceItems(l *core.Ledger, rates core.RateTable, display core.CurrencyCode, now time.Time) []core.LineItem {
	var items []core.LineItem
	for _, a := range l.Assets {
		switch {
		case a.Received:
			items = append(items, item(a.Title, a.Amount, a.Currency, display, rates, 1, &a.Date))
		case a.Date.SameMonth(now):
			items = append(items, item(a.Title, a.Amount, a.Currency, display, rates, 1, &a.Date))
		}
	}
	for _, e := range l.Expenses {
		if e.Paid {
			continue
		}
		switch s := e.Schedule.(type) {
		case core.MonthlySchedule:
			items = append(items, item(e.Title, e.Amount, e.Currency, display, rates, -1, nil))
		case core.OneTimeSchedule:
			if s.Date.SameMonth(now) {
				items = append(items, item(e.Title, e.Amount, e.Currency, display, rates, -1, &s.Date))
			}
		}
	}
	for _, d := range l.Debts {
		if d.Installment == nil || d.RemainingAmount <= 0 {
			continue
		}
		// Once the due day has passed this month the payment is assumed
		// already reflected in current balances.
		dueDay := core.ClampDay(d.DueDay(), now.Year(), now.Month())
		if now.Day() > dueDay {
			continue
		}
		due := core.NewDate(now.Year(), int(now.Month()), dueDay)
		items = append(items, item(d.Title, d.MonthlyPayment(), d.Currency, display, rates, -1, &due))
	}
	return items
}

// monthlyResultItems: this month's income against the monthly-equivalent
// cost of every expense and every open installment payment, without the
// due-day gate the projection applies.
func monthlyResultItems(l *core.Ledger, rates core.RateTable, display core.CurrencyCode, now time.Time) []core.LineItem {
	var items []core.LineItem
	for _, a := range l.Assets {
		if a.Type != core.AssetIncome || !a.Date.SameMonth(now) {
			continue
		}
		items = append(items, item(a.Title, a.Amount, a.Currency, display, rates, 1, &a.Date))
	}
	for _, e := range l.Expenses {
		monthly, ok := monthlyEquivalent(e, now)
		if !ok {
			continue
		}
		items = append(items, item(e.Title, monthly, e.Currency, display, rates, -1, nil))
	}
	for _, d := range l.Debts {
		if d.Installment == nil || d.RemainingAmount <= 0 {
			continue
		}
		items = append(items, item(d.Title, d.MonthlyPayment(), d.Currency, display, rates, -1, nil))
	}
	return items
}

// monthlyEquivalent normalizes an expense to a per-month figure: monthly
// unchanged, weekly times four, yearly divided by twelve, one-time only in
// its own month.
func monthlyEquivalent(e core.Expense, now time.Time) (float64, bool) {
	switch s := e.Schedule.(type) {
	case core.MonthlySchedule:
		return e.Amount, true
	case core.WeeklySchedule:
		return e.Amount * 4, true
	case core.YearlySchedule:
		return e.Amount / 12, true
	case core.OneTimeSchedule:
		if s.Date.SameMonth(now) {
			return e.Amount, true
		}
		return 0, false
	}
	return 0, false
}

// occursInMonth reports whether an expense has an occurrence in the month
// of now: one-time expenses by their date, yearly ones in their anniversary
// month, monthly and weekly ones every month.
func occursInMonth(s core.Schedule, now time.Time) bool {
	switch sched := s.(type) {
	case core.OneTimeSchedule:
		return sched.Date.SameMonth(now)
	case core.YearlySchedule:
		return sched.Date.Time.Month() == now.Month()
	case core.MonthlySchedule, core.WeeklySchedule:
		return true
	}
	return false
}

func item(label string, amount float64, currency, display core.CurrencyCode, rates core.RateTable, direction float64, date *core.Date) core.LineItem {
	converted := core.Convert(amount, currency, display, rates) * direction
	sign := core.SignNeutral
	switch {
	case converted > 0:
		sign = core.SignCredit
	case converted < 0:
		sign = core.SignDebit
	}
	return core.LineItem{
		Label:     label,
		Original:  core.Money{Amount: amount, Currency: currency},
		Converted: converted,
		Sign:      sign,
		Date:      date,
	}
}

func sumItems(items []core.LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Converted
	}
	return total
}
