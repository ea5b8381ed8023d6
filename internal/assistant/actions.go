package assistant

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

const (
	IntentAddExpense   = "add_expense"
	IntentAddDebt      = "add_debt"
	IntentAddAsset     = "add_asset"
	IntentAddGoal      = "add_goal"
	IntentQueryMetrics = "query_metrics"
	IntentUnknown      = "unknown"
)

// Action is the structured command extracted from a chat message. Exactly
// one payload matches the intent.
type Action struct {
	Intent  string          `json:"intent"`
	Reply   string          `json:"reply,omitempty"`
	Expense *ExpensePayload `json:"expense,omitempty"`
	Debt    *DebtPayload    `json:"debt,omitempty"`
	Asset   *AssetPayload   `json:"asset,omitempty"`
	Goal    *GoalPayload    `json:"goal,omitempty"`
}

// Payload field names mirror the ledger's backup encoding (spelled out in
// the prompt), so decoding is a straight json.Unmarshal.

type ExpensePayload struct {
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Category   string  `json:"category"`
	Frequency  string  `json:"frequency"`
	Date       string  `json:"date"`
	DayOfMonth int     `json:"dayOfMonth"`
	IsPaid     *bool   `json:"isPaid"`
}

type DebtPayload struct {
	Title             string  `json:"title"`
	Source            string  `json:"source"`
	TotalAmount       float64 `json:"totalAmount"`
	RemainingAmount   float64 `json:"remainingAmount"`
	Currency          string  `json:"currency"`
	IsInstallment     bool    `json:"isInstallment"`
	TotalInstallments int     `json:"totalInstallments"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
}

type AssetPayload struct {
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Type       string  `json:"type"`
	IsReceived *bool   `json:"isReceived"`
	AutoCredit bool    `json:"autoCredit"`
	Date       string  `json:"date"`
}

type GoalPayload struct {
	Title         string  `json:"title"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Currency      string  `json:"currency"`
	Deadline      string  `json:"deadline"`
}

var ErrMissingPayload = errors.New("action payload missing for intent")

// currencyOrDefault tolerates an absent or unknown currency by falling back
// to the configured display currency.
func currencyOrDefault(s string, fallback core.CurrencyCode) core.CurrencyCode {
	if c, err := core.ParseCurrency(s); err == nil {
		return c
	}
	return fallback
}

func dateOrDefault(s string, fallback time.Time) core.Date {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err == nil {
		return core.DateOf(t)
	}
	return core.DateOf(fallback)
}

// ToExpense maps the payload onto a ledger expense, defaulting frequency to
// one-time, the date to today, and isPaid to true.
func (p *ExpensePayload) ToExpense(defaultCurrency core.CurrencyCode, now time.Time) (core.Expense, error) {
	if p == nil {
		return core.Expense{}, ErrMissingPayload
	}
	freq, err := core.ParseFrequency(p.Frequency)
	if err != nil {
		freq = core.OneTime
	}
	schedule, err := core.NewSchedule(freq, dateOrDefault(p.Date, now), p.DayOfMonth)
	if err != nil {
		return core.Expense{}, fmt.Errorf("build schedule: %w", err)
	}
	return core.Expense{
		Title:    strings.TrimSpace(p.Title),
		Amount:   p.Amount,
		Currency: currencyOrDefault(p.Currency, defaultCurrency),
		Category: strings.TrimSpace(p.Category),
		Paid:     p.IsPaid == nil || *p.IsPaid,
		Schedule: schedule,
	}, nil
}

// ToDebt maps the payload onto a ledger debt. Remaining amount defaults to
// the total; a non-installment payload carries no plan.
func (p *DebtPayload) ToDebt(defaultCurrency core.CurrencyCode, now time.Time) (core.Debt, error) {
	if p == nil {
		return core.Debt{}, ErrMissingPayload
	}
	d := core.Debt{
		Title:           strings.TrimSpace(p.Title),
		Source:          strings.TrimSpace(p.Source),
		TotalAmount:     p.TotalAmount,
		RemainingAmount: p.RemainingAmount,
		Currency:        currencyOrDefault(p.Currency, defaultCurrency),
		CreatedAt:       core.DateOf(now),
	}
	if d.RemainingAmount == 0 {
		d.RemainingAmount = d.TotalAmount
	}
	if p.IsInstallment {
		d.Installment = &core.InstallmentPlan{
			TotalInstallments: p.TotalInstallments,
			MonthlyPayment:    p.MonthlyPayment,
		}
	}
	return d, nil
}

// ToAsset maps the payload onto a ledger asset, defaulting the type to
// balance, isReceived to true and the date to today.
func (p *AssetPayload) ToAsset(defaultCurrency core.CurrencyCode, now time.Time) (core.Asset, error) {
	if p == nil {
		return core.Asset{}, ErrMissingPayload
	}
	assetType := core.AssetType(strings.ToLower(strings.TrimSpace(p.Type)))
	if assetType != core.AssetIncome {
		assetType = core.AssetBalance
	}
	return core.Asset{
		Title:      strings.TrimSpace(p.Title),
		Amount:     p.Amount,
		Currency:   currencyOrDefault(p.Currency, defaultCurrency),
		Type:       assetType,
		Received:   p.IsReceived == nil || *p.IsReceived,
		AutoCredit: p.AutoCredit,
		Date:       dateOrDefault(p.Date, now),
	}, nil
}

// ToGoal maps the payload onto a savings goal.
func (p *GoalPayload) ToGoal(defaultCurrency core.CurrencyCode, now time.Time) (core.Goal, error) {
	if p == nil {
		return core.Goal{}, ErrMissingPayload
	}
	g := core.Goal{
		Title:         strings.TrimSpace(p.Title),
		TargetAmount:  p.TargetAmount,
		CurrentAmount: p.CurrentAmount,
		Currency:      currencyOrDefault(p.Currency, defaultCurrency),
		CreatedAt:     core.DateOf(now),
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(p.Deadline)); err == nil {
		deadline := core.DateOf(t)
		g.Deadline = &deadline
	}
	return g, nil
}

var (
	amountPattern   = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	currencyPattern = regexp.MustCompile(`(?i)\b(usd|eur|rub|uah|gbp)\b|[$€£]`)
	incomePattern   = regexp.MustCompile(`(?i)\b(got|received|earned|salary|income|paid me)\b`)
	queryPattern    = regexp.MustCompile(`(?i)\b(how much|balance|net worth|total|summary|spent this)\b`)
)

var currencySymbols = map[string]core.CurrencyCode{
	"$": core.USD, "€": core.EUR, "£": core.GBP,
}

// ParseFallback extracts an action from plain text without the model, for
// when the external service is unreachable. It only recognizes the simple
// "spent 50 usd on food" and "received salary 1000" shapes.
func ParseFallback(message string, defaultCurrency core.CurrencyCode) *Action {
	lower := strings.ToLower(message)

	if queryPattern.MatchString(lower) {
		return &Action{Intent: IntentQueryMetrics}
	}

	amountStr := amountPattern.FindString(lower)
	if amountStr == "" {
		return &Action{Intent: IntentUnknown, Reply: "Please include an amount, for example: spent 50 USD on groceries."}
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(amountStr, ",", "."), 64)
	if err != nil || amount <= 0 {
		return &Action{Intent: IntentUnknown, Reply: "I could not read the amount, please rephrase."}
	}

	currency := defaultCurrency
	if m := currencyPattern.FindString(message); m != "" {
		if c, ok := currencySymbols[m]; ok {
			currency = c
		} else if c, err := core.ParseCurrency(m); err == nil {
			currency = c
		}
	}

	title := strings.TrimSpace(message)
	if incomePattern.MatchString(lower) {
		return &Action{
			Intent: IntentAddAsset,
			Asset: &AssetPayload{
				Title:    title,
				Amount:   amount,
				Currency: string(currency),
				Type:     string(core.AssetIncome),
			},
		}
	}
	return &Action{
		Intent: IntentAddExpense,
		Expense: &ExpensePayload{
			Title:    title,
			Amount:   amount,
			Currency: string(currency),
		},
	}
}
