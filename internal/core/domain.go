package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	OneTime Frequency = "one-time"
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
	Yearly  Frequency = "yearly"
)

const (
	AssetIncome  AssetType = "income"
	AssetBalance AssetType = "balance"
)

type (
	Frequency string

	AssetType string

	Date struct {
		time.Time
	}

	// Schedule describes when an expense occurs. Each frequency has its own
	// variant so that, for example, a weekly expense cannot carry a day of
	// month.
	Schedule interface {
		Frequency() Frequency
	}

	// OneTimeSchedule is a single occurrence on a specific date.
	OneTimeSchedule struct {
		Date Date
	}

	// MonthlySchedule recurs every month on a fixed day. Days beyond the
	// end of a month clamp to its last day.
	MonthlySchedule struct {
		DayOfMonth int
	}

	// WeeklySchedule recurs every week, anchored on a start date.
	WeeklySchedule struct {
		Start Date
	}

	// YearlySchedule recurs every year on the anniversary of a date.
	YearlySchedule struct {
		Date Date
	}

	// InstallmentPlan is present on debts repaid in fixed monthly
	// installments. MonthlyPayment may be zero, in which case it is derived
	// from the debt's total amount.
	InstallmentPlan struct {
		TotalInstallments int
		PaidInstallments  int
		MonthlyPayment    float64
	}

	Debt struct {
		ID              string
		Title           string
		Source          string
		TotalAmount     float64
		RemainingAmount float64
		Currency        CurrencyCode
		Installment     *InstallmentPlan
		CreatedAt       Date
	}

	Expense struct {
		ID       string
		Title    string
		Amount   float64
		Currency CurrencyCode
		Category string
		Paid     bool
		Schedule Schedule
	}

	Asset struct {
		ID         string
		Title      string
		Amount     float64
		Currency   CurrencyCode
		Type       AssetType
		Received   bool
		AutoCredit bool
		Date       Date
	}

	Goal struct {
		ID            string
		Title         string
		TargetAmount  float64
		CurrentAmount float64
		Currency      CurrencyCode
		Deadline      *Date
		CreatedAt     Date
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyTitle          = errors.New("empty title")
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrInvalidInstallments = errors.New("installment count must be at least 1")
	ErrInvalidDay          = errors.New("invalid day of month")
	ErrInvalidSchedule     = errors.New("invalid schedule")
	ErrInvalidAssetType    = errors.New("invalid asset type")
)

func (OneTimeSchedule) Frequency() Frequency { return OneTime }
func (MonthlySchedule) Frequency() Frequency { return Monthly }
func (WeeklySchedule) Frequency() Frequency  { return Weekly }
func (YearlySchedule) Frequency() Frequency  { return Yearly }

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// SameMonth reports whether d falls in the same calendar month as t.
func (d Date) SameMonth(t time.Time) bool {
	return d.Year() == t.Year() && d.Time.Month() == t.Month()
}

// validAmount rejects NaN, infinities and non-positive values up front so
// the ledger never holds a field that poisons later arithmetic.
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// validMagnitude is validAmount relaxed to allow zero, for fields such as a
// debt's remaining amount or a goal's current amount.
func validMagnitude(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validTitle(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmptyTitle
	}
	if len(s) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	return nil
}

func (p InstallmentPlan) Validate() error {
	if p.TotalInstallments < 1 {
		return ErrInvalidInstallments
	}
	if p.PaidInstallments < 0 {
		return fmt.Errorf("paid installments cannot be negative")
	}
	if !validMagnitude(p.MonthlyPayment) {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if err := validTitle(d.Title); err != nil {
		return err
	}
	if !validAmount(d.TotalAmount) {
		return ErrInvalidAmount
	}
	if !validMagnitude(d.RemainingAmount) {
		return ErrInvalidAmount
	}
	if !d.Currency.Valid() {
		return ErrUnknownCurrency
	}
	if err := d.CreatedAt.Validate(); err != nil {
		return fmt.Errorf("creation date: %w", err)
	}
	if d.Installment != nil {
		if err := d.Installment.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MonthlyPayment returns the per-month payment for an installment debt.
// When no explicit payment is stored it is derived from the total amount.
// Non-installment debts pay zero.
func (d Debt) MonthlyPayment() float64 {
	if d.Installment == nil {
		return 0
	}
	if d.Installment.MonthlyPayment > 0 {
		return d.Installment.MonthlyPayment
	}
	if d.Installment.TotalInstallments < 1 {
		return 0
	}
	return d.TotalAmount / float64(d.Installment.TotalInstallments)
}

// DueDay returns the recurring payment due day, the day of month the debt
// was created on.
func (d Debt) DueDay() int {
	return d.CreatedAt.Day()
}

func (e Expense) Validate() error {
	if err := validTitle(e.Title); err != nil {
		return err
	}
	if !validAmount(e.Amount) {
		return ErrInvalidAmount
	}
	if !e.Currency.Valid() {
		return ErrUnknownCurrency
	}
	switch s := e.Schedule.(type) {
	case OneTimeSchedule:
		return s.Date.Validate()
	case MonthlySchedule:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return ErrInvalidDay
		}
	case WeeklySchedule:
		return s.Start.Validate()
	case YearlySchedule:
		return s.Date.Validate()
	default:
		return ErrInvalidSchedule
	}
	return nil
}

func (a Asset) Validate() error {
	if err := validTitle(a.Title); err != nil {
		return err
	}
	if !validAmount(a.Amount) {
		return ErrInvalidAmount
	}
	if !a.Currency.Valid() {
		return ErrUnknownCurrency
	}
	switch a.Type {
	case AssetIncome, AssetBalance:
	default:
		return ErrInvalidAssetType
	}
	return a.Date.Validate()
}

func (g Goal) Validate() error {
	if err := validTitle(g.Title); err != nil {
		return err
	}
	if !validAmount(g.TargetAmount) {
		return ErrInvalidAmount
	}
	if !validMagnitude(g.CurrentAmount) {
		return ErrInvalidAmount
	}
	if !g.Currency.Valid() {
		return ErrUnknownCurrency
	}
	if g.Deadline != nil {
		if err := g.Deadline.Validate(); err != nil {
			return fmt.Errorf("deadline: %w", err)
		}
	}
	return g.CreatedAt.Validate()
}

// ClampDay fits a day of month into the given month, so a payment due on
// the 31st falls on the 30th (or 28th/29th) in shorter months.
func ClampDay(day, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}
