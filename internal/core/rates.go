package core

import (
	"fmt"
	"math"
)

// AnchorCurrency is the currency the rate table is expressed against: every
// entry is "units of that currency per 1 unit of the anchor".
const AnchorCurrency = USD

// RateTable maps a currency to its rate relative to the anchor currency.
type RateTable map[CurrencyCode]float64

// DefaultRates returns a starter table. The anchor's own rate is always 1.
func DefaultRates() RateTable {
	return RateTable{
		USD: 1,
		EUR: 0.92,
		GBP: 0.79,
		RUB: 90,
		UAH: 41,
	}
}

// rate looks up a currency, falling back to 1 for absent or non-positive
// entries. Aggregation must never fail over a single bad table entry, so a
// missing rate silently degrades to "same as anchor". See MissingFrom for
// surfacing the degradation to the user.
func (t RateTable) rate(c CurrencyCode) float64 {
	r, ok := t[c]
	if !ok || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Convert converts an amount between currencies, composing through the
// anchor currency. Same-currency conversion returns the amount untouched
// and never consults the table.
func Convert(amount float64, from, to CurrencyCode, rates RateTable) float64 {
	if from == to {
		return amount
	}
	return amount / rates.rate(from) * rates.rate(to)
}

// Validate checks that every entry is a positive finite rate and that the
// anchor, when present, is exactly 1.
func (t RateTable) Validate() error {
	for c, r := range t {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCurrency, string(c))
		}
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("rate for %s must be a positive number", c)
		}
	}
	if r, ok := t[AnchorCurrency]; ok && r != 1 {
		return fmt.Errorf("anchor currency %s must have rate 1", AnchorCurrency)
	}
	return nil
}

// MissingFrom returns the currencies used by the ledger that have no usable
// table entry. Conversion treats those as rate 1, which can misstate
// totals; callers use this to warn instead of failing.
func (t RateTable) MissingFrom(l *Ledger) []CurrencyCode {
	used := map[CurrencyCode]bool{}
	for _, d := range l.Debts {
		used[d.Currency] = true
	}
	for _, e := range l.Expenses {
		used[e.Currency] = true
	}
	for _, a := range l.Assets {
		used[a.Currency] = true
	}
	for _, g := range l.Goals {
		used[g.Currency] = true
	}

	var missing []CurrencyCode
	for _, c := range KnownCurrencies() {
		if !used[c] {
			continue
		}
		if r, ok := t[c]; !ok || r <= 0 {
			missing = append(missing, c)
		}
	}
	return missing
}
