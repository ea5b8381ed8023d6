package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func sampleLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	if err := l.AddDebt(Debt{
		ID: "d1", Title: "Car loan", TotalAmount: 1200, RemainingAmount: 800,
		Currency: USD, CreatedAt: NewDate(2024, 1, 15),
		Installment: &InstallmentPlan{TotalInstallments: 12},
	}); err != nil {
		t.Fatalf("AddDebt: %v", err)
	}
	if err := l.AddExpense(Expense{
		ID: "e1", Title: "Rent", Amount: 900, Currency: EUR, Category: "Housing",
		Schedule: MonthlySchedule{DayOfMonth: 1},
	}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := l.AddAsset(Asset{
		ID: "a1", Title: "Salary", Amount: 3000, Currency: USD, Type: AssetIncome,
		Received: true, Date: NewDate(2024, 5, 1),
	}); err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	return l
}

func TestLedger_Mutations(t *testing.T) {
	l := sampleLedger(t)

	t.Run("duplicate id rejected", func(t *testing.T) {
		err := l.AddDebt(Debt{ID: "d1", Title: "Again", TotalAmount: 1, RemainingAmount: 1, Currency: USD, CreatedAt: NewDate(2024, 1, 1)})
		if !errors.Is(err, ErrDuplicateID) {
			t.Errorf("AddDebt() = %v, want %v", err, ErrDuplicateID)
		}
	})

	t.Run("update replaces record", func(t *testing.T) {
		d := l.Debts[0]
		d.RemainingAmount = 700
		if err := l.UpdateDebt(d); err != nil {
			t.Fatalf("UpdateDebt: %v", err)
		}
		if l.Debts[0].RemainingAmount != 700 {
			t.Errorf("RemainingAmount = %v, want 700", l.Debts[0].RemainingAmount)
		}
	})

	t.Run("update missing record", func(t *testing.T) {
		err := l.UpdateExpense(Expense{ID: "nope", Title: "X", Amount: 1, Currency: USD, Schedule: MonthlySchedule{DayOfMonth: 1}})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateExpense() = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("delete removes record", func(t *testing.T) {
		if err := l.DeleteAsset("a1"); err != nil {
			t.Fatalf("DeleteAsset: %v", err)
		}
		if len(l.Assets) != 0 {
			t.Errorf("assets left = %d, want 0", len(l.Assets))
		}
		if err := l.DeleteAsset("a1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("second DeleteAsset() = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("invalid record never stored", func(t *testing.T) {
		before := len(l.Expenses)
		err := l.AddExpense(Expense{ID: "e2", Title: "", Amount: 5, Currency: USD, Schedule: MonthlySchedule{DayOfMonth: 1}})
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("AddExpense() = %v, want %v", err, ErrEmptyTitle)
		}
		if len(l.Expenses) != before {
			t.Errorf("expenses grew to %d on failed add", len(l.Expenses))
		}
	})
}

func TestLedger_Notifications(t *testing.T) {
	l := NewLedger()
	due := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	n := Notification{
		ID:    NotificationID("e1", NotifyExpense, due),
		Title: "Rent", Message: "due in 2 days", Date: DateOf(due), Type: NotifyExpense,
	}

	added := l.AppendNotifications([]Notification{n})
	if len(added) != 1 {
		t.Fatalf("first append added %d, want 1", len(added))
	}

	// The same deterministic id must not produce a second entry.
	added = l.AppendNotifications([]Notification{n})
	if len(added) != 0 {
		t.Errorf("second append added %d, want 0", len(added))
	}
	if len(l.Notifications) != 1 {
		t.Errorf("stored notifications = %d, want 1", len(l.Notifications))
	}

	if err := l.AcknowledgeNotification(n.ID); err != nil {
		t.Fatalf("AcknowledgeNotification: %v", err)
	}
	if len(l.Notifications) != 0 {
		t.Errorf("notifications left = %d, want 0", len(l.Notifications))
	}
	if err := l.AcknowledgeNotification(n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ack of missing notification = %v, want %v", err, ErrNotFound)
	}
}

func TestNotificationID_Deterministic(t *testing.T) {
	target := time.Date(2024, 5, 12, 18, 30, 0, 0, time.UTC)
	got := NotificationID("d1", NotifyDebt, target)
	if got != "d1:debt:2024-05" {
		t.Errorf("NotificationID() = %q, want %q", got, "d1:debt:2024-05")
	}
	// Any instant in the same month yields the same id.
	other := NotificationID("d1", NotifyDebt, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
	if got != other {
		t.Errorf("ids differ within one month: %q vs %q", got, other)
	}
}

func TestLedger_Clone(t *testing.T) {
	l := sampleLedger(t)
	c := l.Clone()

	c.Debts[0].Installment.PaidInstallments = 99
	c.Expenses[0].Title = "Changed"

	if l.Debts[0].Installment.PaidInstallments == 99 {
		t.Error("clone shares installment plan with original")
	}
	if l.Expenses[0].Title == "Changed" {
		t.Error("clone shares expense slice with original")
	}
}

func TestLedger_JSONRoundTrip(t *testing.T) {
	l := sampleLedger(t)
	if err := l.AddExpense(Expense{
		ID: "e2", Title: "Concert", Amount: 50, Currency: USD, Paid: true,
		Schedule: OneTimeSchedule{Date: NewDate(2024, 6, 20)},
	}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Ledger
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Debts[0].Installment == nil || got.Debts[0].Installment.TotalInstallments != 12 {
		t.Errorf("installment plan lost in round trip: %+v", got.Debts[0].Installment)
	}
	if s, ok := got.Expenses[0].Schedule.(MonthlySchedule); !ok || s.DayOfMonth != 1 {
		t.Errorf("monthly schedule lost: %#v", got.Expenses[0].Schedule)
	}
	if s, ok := got.Expenses[1].Schedule.(OneTimeSchedule); !ok || !s.Date.Equal(NewDate(2024, 6, 20).Time) {
		t.Errorf("one-time schedule lost: %#v", got.Expenses[1].Schedule)
	}
	if !got.Assets[0].Received {
		t.Error("received flag lost in round trip")
	}
}

func TestExpense_UnmarshalBackupShape(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantPaid bool
		wantFreq Frequency
	}{
		{
			name:     "absent isPaid defaults to settled",
			payload:  `{"id":"e1","title":"Rent","amount":900,"currency":"EUR","frequency":"monthly","dayOfMonth":5}`,
			wantPaid: true,
			wantFreq: Monthly,
		},
		{
			name:     "explicit unpaid",
			payload:  `{"id":"e2","title":"Dentist","amount":120,"currency":"USD","frequency":"one-time","date":"2024-07-01","isPaid":false}`,
			wantPaid: false,
			wantFreq: OneTime,
		},
		{
			name:     "empty frequency means one-time",
			payload:  `{"id":"e3","title":"Gift","amount":30,"currency":"USD","frequency":"","date":"2024-03-08"}`,
			wantPaid: true,
			wantFreq: OneTime,
		},
		{
			name:     "mixed case frequency",
			payload:  `{"id":"e4","title":"Gym","amount":25,"currency":"GBP","frequency":"Monthly","dayOfMonth":10}`,
			wantPaid: true,
			wantFreq: Monthly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Expense
			if err := json.Unmarshal([]byte(tt.payload), &e); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if e.Paid != tt.wantPaid {
				t.Errorf("Paid = %v, want %v", e.Paid, tt.wantPaid)
			}
			if e.Schedule == nil || e.Schedule.Frequency() != tt.wantFreq {
				t.Errorf("Schedule = %#v, want frequency %s", e.Schedule, tt.wantFreq)
			}
		})
	}
}

func TestAsset_UnmarshalBackupShape(t *testing.T) {
	var a Asset
	payload := `{"id":"a1","title":"Freelance","amount":500,"currency":"USD","type":"income","date":"2024-05-20","autoCredit":true}`
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !a.Received {
		t.Error("absent isReceived should default to received")
	}
	if !a.AutoCredit {
		t.Error("autoCredit flag lost")
	}
}

func TestDebt_MarshalFlattensInstallment(t *testing.T) {
	d := Debt{
		ID: "d1", Title: "Phone", TotalAmount: 600, RemainingAmount: 400,
		Currency: USD, CreatedAt: NewDate(2024, 2, 10),
		Installment: &InstallmentPlan{TotalInstallments: 6, PaidInstallments: 2},
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	if raw["isInstallment"] != true {
		t.Errorf("isInstallment = %v, want true", raw["isInstallment"])
	}
	if raw["totalInstallments"] != float64(6) {
		t.Errorf("totalInstallments = %v, want 6", raw["totalInstallments"])
	}
	if _, nested := raw["installment"]; nested {
		t.Error("installment plan should be flattened, not nested")
	}
}

func TestDate_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "plain date", input: `"2024-05-12"`, want: NewDate(2024, 5, 12)},
		{name: "rfc3339 timestamp truncates", input: `"2024-05-12T18:30:00Z"`, want: NewDate(2024, 5, 12)},
		{name: "empty string is zero", input: `""`, want: Date{}},
		{name: "garbage", input: `"yesterday"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !d.Equal(tt.want.Time) {
				t.Errorf("date = %v, want %v", d, tt.want)
			}
		})
	}
}
