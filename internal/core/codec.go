package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The wire/backup encoding keeps the flat field layout of the original
// backups (frequency + date + dayOfMonth on one object, isInstallment plus
// plan fields on the debt) while the in-memory model uses tagged schedule
// variants and a nested installment plan. These codecs translate between
// the two.

type debtJSON struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Source            string       `json:"source,omitempty"`
	TotalAmount       float64      `json:"totalAmount"`
	RemainingAmount   float64      `json:"remainingAmount"`
	Currency          CurrencyCode `json:"currency"`
	IsInstallment     bool         `json:"isInstallment"`
	TotalInstallments int          `json:"totalInstallments,omitempty"`
	PaidInstallments  int          `json:"paidInstallments,omitempty"`
	MonthlyPayment    float64      `json:"monthlyPayment,omitempty"`
	CreatedAt         Date         `json:"createdAt"`
}

func (d Debt) MarshalJSON() ([]byte, error) {
	out := debtJSON{
		ID:              d.ID,
		Title:           d.Title,
		Source:          d.Source,
		TotalAmount:     d.TotalAmount,
		RemainingAmount: d.RemainingAmount,
		Currency:        d.Currency,
		CreatedAt:       d.CreatedAt,
	}
	if d.Installment != nil {
		out.IsInstallment = true
		out.TotalInstallments = d.Installment.TotalInstallments
		out.PaidInstallments = d.Installment.PaidInstallments
		out.MonthlyPayment = d.Installment.MonthlyPayment
	}
	return json.Marshal(out)
}

func (d *Debt) UnmarshalJSON(data []byte) error {
	var in debtJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Debt{
		ID:              in.ID,
		Title:           in.Title,
		Source:          in.Source,
		TotalAmount:     in.TotalAmount,
		RemainingAmount: in.RemainingAmount,
		Currency:        in.Currency,
		CreatedAt:       in.CreatedAt,
	}
	if in.IsInstallment {
		d.Installment = &InstallmentPlan{
			TotalInstallments: in.TotalInstallments,
			PaidInstallments:  in.PaidInstallments,
			MonthlyPayment:    in.MonthlyPayment,
		}
	}
	return nil
}

type expenseJSON struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Amount     float64      `json:"amount"`
	Currency   CurrencyCode `json:"currency"`
	Category   string       `json:"category,omitempty"`
	Frequency  string       `json:"frequency"`
	Date       Date         `json:"date,omitempty"`
	DayOfMonth int          `json:"dayOfMonth,omitempty"`
	IsPaid     *bool        `json:"isPaid,omitempty"`
}

func (e Expense) MarshalJSON() ([]byte, error) {
	paid := e.Paid
	out := expenseJSON{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   e.Amount,
		Currency: e.Currency,
		Category: e.Category,
		IsPaid:   &paid,
	}
	switch s := e.Schedule.(type) {
	case OneTimeSchedule:
		out.Frequency = string(OneTime)
		out.Date = s.Date
	case MonthlySchedule:
		out.Frequency = string(Monthly)
		out.DayOfMonth = s.DayOfMonth
	case WeeklySchedule:
		out.Frequency = string(Weekly)
		out.Date = s.Start
	case YearlySchedule:
		out.Frequency = string(Yearly)
		out.Date = s.Date
	default:
		return nil, ErrInvalidSchedule
	}
	return json.Marshal(out)
}

func (e *Expense) UnmarshalJSON(data []byte) error {
	var in expenseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = Expense{
		ID:       in.ID,
		Title:    in.Title,
		Amount:   in.Amount,
		Currency: in.Currency,
		Category: in.Category,
		// Absent isPaid means an already-settled expense.
		Paid: in.IsPaid == nil || *in.IsPaid,
	}
	schedule, err := scheduleFrom(in.Frequency, in.Date, in.DayOfMonth)
	if err != nil {
		return err
	}
	e.Schedule = schedule
	return nil
}

// ParseFrequency normalizes frequency values from backups and API payloads
// ("Monthly", "one-time", "ONE-TIME").
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-time", "onetime", "once", "":
		return OneTime, nil
	case "monthly":
		return Monthly, nil
	case "weekly":
		return Weekly, nil
	case "yearly", "annual":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, s)
}

// NewSchedule builds the schedule variant for a frequency from the flat
// date/dayOfMonth pair.
func NewSchedule(f Frequency, date Date, dayOfMonth int) (Schedule, error) {
	switch f {
	case OneTime:
		return OneTimeSchedule{Date: date}, nil
	case Monthly:
		if dayOfMonth == 0 && !date.IsZero() {
			dayOfMonth = date.Day()
		}
		return MonthlySchedule{DayOfMonth: dayOfMonth}, nil
	case Weekly:
		return WeeklySchedule{Start: date}, nil
	case Yearly:
		return YearlySchedule{Date: date}, nil
	}
	return nil, fmt.Errorf("%w: frequency %q", ErrInvalidSchedule, string(f))
}

func scheduleFrom(freq string, date Date, dayOfMonth int) (Schedule, error) {
	f, err := ParseFrequency(freq)
	if err != nil {
		return nil, err
	}
	return NewSchedule(f, date, dayOfMonth)
}

type assetJSON struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Amount     float64      `json:"amount"`
	Currency   CurrencyCode `json:"currency"`
	Type       AssetType    `json:"type"`
	IsReceived *bool        `json:"isReceived,omitempty"`
	AutoCredit bool         `json:"autoCredit,omitempty"`
	Date       Date         `json:"date"`
}

func (a Asset) MarshalJSON() ([]byte, error) {
	received := a.Received
	return json.Marshal(assetJSON{
		ID:         a.ID,
		Title:      a.Title,
		Amount:     a.Amount,
		Currency:   a.Currency,
		Type:       a.Type,
		IsReceived: &received,
		AutoCredit: a.AutoCredit,
		Date:       a.Date,
	})
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	var in assetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*a = Asset{
		ID:       in.ID,
		Title:    in.Title,
		Amount:   in.Amount,
		Currency: in.Currency,
		Type:     in.Type,
		// Absent isReceived means funds already on hand.
		Received:   in.IsReceived == nil || *in.IsReceived,
		AutoCredit: in.AutoCredit,
		Date:       in.Date,
	}
	return nil
}

type goalJSON struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	TargetAmount  float64      `json:"targetAmount"`
	CurrentAmount float64      `json:"currentAmount"`
	Currency      CurrencyCode `json:"currency"`
	Deadline      *Date        `json:"deadline,omitempty"`
	CreatedAt     Date         `json:"createdAt"`
}

func (g Goal) MarshalJSON() ([]byte, error) {
	return json.Marshal(goalJSON{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Currency:      g.Currency,
		Deadline:      g.Deadline,
		CreatedAt:     g.CreatedAt,
	})
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	var in goalJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*g = Goal{
		ID:            in.ID,
		Title:         in.Title,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Currency:      in.Currency,
		Deadline:      in.Deadline,
		CreatedAt:     in.CreatedAt,
	}
	return nil
}
