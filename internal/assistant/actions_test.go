package assistant

import (
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

var today = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestParseFallback(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		wantIntent   string
		wantAmount   float64
		wantCurrency string
	}{
		{
			name:       "spent with explicit code",
			message:    "spent 50 USD on groceries",
			wantIntent: IntentAddExpense, wantAmount: 50, wantCurrency: "USD",
		},
		{
			name:       "lowercase code",
			message:    "paid 12.5 eur for lunch",
			wantIntent: IntentAddExpense, wantAmount: 12.5, wantCurrency: "EUR",
		},
		{
			name:       "comma decimal",
			message:    "coffee 3,50 eur",
			wantIntent: IntentAddExpense, wantAmount: 3.5, wantCurrency: "EUR",
		},
		{
			name:       "dollar symbol",
			message:    "spent $20 on parking",
			wantIntent: IntentAddExpense, wantAmount: 20, wantCurrency: "USD",
		},
		{
			name:       "no currency falls back to default",
			message:    "spent 30 on books",
			wantIntent: IntentAddExpense, wantAmount: 30, wantCurrency: "EUR",
		},
		{
			name:       "income wording becomes an asset",
			message:    "received salary 3000 usd",
			wantIntent: IntentAddAsset, wantAmount: 3000, wantCurrency: "USD",
		},
		{
			name:       "metric question",
			message:    "how much do I have?",
			wantIntent: IntentQueryMetrics,
		},
		{
			name:       "no amount",
			message:    "bought some stuff",
			wantIntent: IntentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFallback(tt.message, core.EUR)
			if got.Intent != tt.wantIntent {
				t.Fatalf("Intent = %s, want %s", got.Intent, tt.wantIntent)
			}
			switch tt.wantIntent {
			case IntentAddExpense:
				if got.Expense == nil {
					t.Fatal("expense payload missing")
				}
				if got.Expense.Amount != tt.wantAmount || got.Expense.Currency != tt.wantCurrency {
					t.Errorf("payload = {%v %s}, want {%v %s}",
						got.Expense.Amount, got.Expense.Currency, tt.wantAmount, tt.wantCurrency)
				}
			case IntentAddAsset:
				if got.Asset == nil {
					t.Fatal("asset payload missing")
				}
				if got.Asset.Amount != tt.wantAmount || got.Asset.Currency != tt.wantCurrency {
					t.Errorf("payload = {%v %s}, want {%v %s}",
						got.Asset.Amount, got.Asset.Currency, tt.wantAmount, tt.wantCurrency)
				}
				if got.Asset.Type != string(core.AssetIncome) {
					t.Errorf("Type = %s, want income", got.Asset.Type)
				}
			case IntentUnknown:
				if got.Reply == "" {
					t.Error("unknown intent should carry a reply for the user")
				}
			}
		})
	}
}

func TestExpensePayload_ToExpense(t *testing.T) {
	tests := []struct {
		name     string
		payload  ExpensePayload
		wantFreq core.Frequency
		wantPaid bool
	}{
		{
			name:     "defaults to one-time today, settled",
			payload:  ExpensePayload{Title: "Lunch", Amount: 12, Currency: "USD"},
			wantFreq: core.OneTime,
			wantPaid: true,
		},
		{
			name:     "monthly with day",
			payload:  ExpensePayload{Title: "Rent", Amount: 800, Currency: "usd", Frequency: "monthly", DayOfMonth: 1},
			wantFreq: core.Monthly,
			wantPaid: true,
		},
		{
			name:     "unrecognized frequency degrades to one-time",
			payload:  ExpensePayload{Title: "Thing", Amount: 5, Currency: "USD", Frequency: "fortnightly"},
			wantFreq: core.OneTime,
			wantPaid: true,
		},
		{
			name: "explicit unpaid",
			payload: ExpensePayload{
				Title: "Dentist", Amount: 120, Currency: "USD",
				Date: "2024-06-01", IsPaid: boolPtr(false),
			},
			wantFreq: core.OneTime,
			wantPaid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := tt.payload.ToExpense(core.USD, today)
			if err != nil {
				t.Fatalf("ToExpense: %v", err)
			}
			if e.Schedule.Frequency() != tt.wantFreq {
				t.Errorf("frequency = %s, want %s", e.Schedule.Frequency(), tt.wantFreq)
			}
			if e.Paid != tt.wantPaid {
				t.Errorf("Paid = %v, want %v", e.Paid, tt.wantPaid)
			}
			if err := e.Validate(); err != nil {
				t.Errorf("mapped expense invalid: %v", err)
			}
		})
	}
}

func TestExpensePayload_ToExpense_DefaultsDateToToday(t *testing.T) {
	p := ExpensePayload{Title: "Lunch", Amount: 12, Currency: "USD"}
	e, err := p.ToExpense(core.USD, today)
	if err != nil {
		t.Fatalf("ToExpense: %v", err)
	}
	s, ok := e.Schedule.(core.OneTimeSchedule)
	if !ok {
		t.Fatalf("schedule = %#v, want one-time", e.Schedule)
	}
	if !s.Date.Equal(core.DateOf(today).Time) {
		t.Errorf("date = %v, want today", s.Date)
	}
}

func TestDebtPayload_ToDebt(t *testing.T) {
	p := DebtPayload{Title: "Phone", TotalAmount: 600, Currency: "gbp", IsInstallment: true, TotalInstallments: 6}
	d, err := p.ToDebt(core.USD, today)
	if err != nil {
		t.Fatalf("ToDebt: %v", err)
	}
	if d.RemainingAmount != 600 {
		t.Errorf("RemainingAmount = %v, want the total", d.RemainingAmount)
	}
	if d.Currency != core.GBP {
		t.Errorf("Currency = %s, want GBP", d.Currency)
	}
	if d.Installment == nil || d.Installment.TotalInstallments != 6 {
		t.Errorf("Installment = %+v, want 6 installments", d.Installment)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("mapped debt invalid: %v", err)
	}

	var missing *DebtPayload
	if _, err := missing.ToDebt(core.USD, today); !errors.Is(err, ErrMissingPayload) {
		t.Errorf("nil payload error = %v, want %v", err, ErrMissingPayload)
	}
}

func TestAssetPayload_ToAsset(t *testing.T) {
	tests := []struct {
		name     string
		payload  AssetPayload
		wantType core.AssetType
		wantRecv bool
	}{
		{
			name:     "income type kept",
			payload:  AssetPayload{Title: "Salary", Amount: 3000, Currency: "USD", Type: "Income"},
			wantType: core.AssetIncome,
			wantRecv: true,
		},
		{
			name:     "unknown type becomes balance",
			payload:  AssetPayload{Title: "Wallet", Amount: 100, Currency: "USD", Type: "stash"},
			wantType: core.AssetBalance,
			wantRecv: true,
		},
		{
			name: "pending auto-credit",
			payload: AssetPayload{
				Title: "Invoice", Amount: 500, Currency: "USD", Type: "income",
				IsReceived: boolPtr(false), AutoCredit: true, Date: "2024-05-20",
			},
			wantType: core.AssetIncome,
			wantRecv: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.payload.ToAsset(core.USD, today)
			if err != nil {
				t.Fatalf("ToAsset: %v", err)
			}
			if a.Type != tt.wantType || a.Received != tt.wantRecv {
				t.Errorf("asset = {%s received=%v}, want {%s received=%v}",
					a.Type, a.Received, tt.wantType, tt.wantRecv)
			}
			if err := a.Validate(); err != nil {
				t.Errorf("mapped asset invalid: %v", err)
			}
		})
	}
}

func TestGoalPayload_ToGoal(t *testing.T) {
	p := GoalPayload{Title: "Vacation", TargetAmount: 2000, Currency: "eur", Deadline: "2025-06-01"}
	g, err := p.ToGoal(core.USD, today)
	if err != nil {
		t.Fatalf("ToGoal: %v", err)
	}
	if g.Deadline == nil || !g.Deadline.Equal(core.NewDate(2025, 6, 1).Time) {
		t.Errorf("Deadline = %v, want 2025-06-01", g.Deadline)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("mapped goal invalid: %v", err)
	}

	noDeadline := GoalPayload{Title: "Buffer", TargetAmount: 500, Currency: "usd", Deadline: "someday"}
	g, err = noDeadline.ToGoal(core.USD, today)
	if err != nil {
		t.Fatalf("ToGoal: %v", err)
	}
	if g.Deadline != nil {
		t.Errorf("unparseable deadline should be dropped, got %v", g.Deadline)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare object", input: `{"intent":"unknown"}`, want: `{"intent":"unknown"}`},
		{name: "markdown fenced", input: "```json\n{\"intent\":\"unknown\"}\n```", want: `{"intent":"unknown"}`},
		{name: "surrounded by prose", input: `Sure! {"intent":"add_expense"} Hope that helps.`, want: `{"intent":"add_expense"}`},
		{name: "nested braces", input: `{"intent":"add_expense","expense":{"title":"x"}}`, want: `{"intent":"add_expense","expense":{"title":"x"}}`},
		{name: "no object", input: "I can't do that.", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
