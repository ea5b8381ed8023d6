package core

import (
	"errors"
	"testing"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CurrencyCode
		wantErr bool
	}{
		{name: "uppercase", input: "USD", want: USD},
		{name: "lowercase", input: "eur", want: EUR},
		{name: "padded", input: "  gbp ", want: GBP},
		{name: "unknown", input: "DOGE", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCurrency) {
					t.Errorf("ParseCurrency(%q) error = %v, want %v", tt.input, err, ErrUnknownCurrency)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseCurrency(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		name  string
		money Money
		want  string
	}{
		{name: "round amount", money: Money{Amount: 1250.5, Currency: USD}, want: "1250.50 USD"},
		{name: "truncated decimals", money: Money{Amount: 9.999, Currency: EUR}, want: "10.00 EUR"},
		{name: "negative", money: Money{Amount: -3, Currency: GBP}, want: "-3.00 GBP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
