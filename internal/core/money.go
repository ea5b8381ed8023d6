// Package core holds the ledger domain model: money and currencies, the
// four record kinds, notifications, and the exchange-rate table.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	RUB CurrencyCode = "RUB"
	UAH CurrencyCode = "UAH"
	GBP CurrencyCode = "GBP"
)

// CurrencyCode is a closed enumeration of the currencies the tracker
// understands.
type CurrencyCode string

// Money is an amount tagged with its currency. Amounts are stored in the
// currency they were entered in; conversion happens only at read time.
type Money struct {
	Amount   float64      `json:"amount"`
	Currency CurrencyCode `json:"currency"`
}

// KnownCurrencies lists every supported currency code.
func KnownCurrencies() []CurrencyCode {
	return []CurrencyCode{USD, EUR, RUB, UAH, GBP}
}

// Valid reports whether c is one of the supported currency codes.
func (c CurrencyCode) Valid() bool {
	switch c {
	case USD, EUR, RUB, UAH, GBP:
		return true
	}
	return false
}

// ParseCurrency normalizes a user-supplied code ("usd", " EUR ") to a
// CurrencyCode.
func ParseCurrency(s string) (CurrencyCode, error) {
	c := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// String formats money for labels and log lines ("1250.50 USD").
func (m Money) String() string {
	return strconv.FormatFloat(m.Amount, 'f', 2, 64) + " " + string(m.Currency)
}
