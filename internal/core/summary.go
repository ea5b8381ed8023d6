package core

const (
	MetricNetWorth         MetricKind = "netWorth"
	MetricTotalDebt        MetricKind = "totalDebt"
	MetricProjectedBalance MetricKind = "projectedBalance"
	MetricMonthlyResult    MetricKind = "monthlyResult"
)

const (
	SignCredit  Sign = "credit"
	SignDebit   Sign = "debit"
	SignNeutral Sign = "neutral"
)

// UncategorizedLabel groups expenses without a category in the breakdown.
const UncategorizedLabel = "Uncategorized"

type (
	MetricKind string

	Sign string

	// LineItem is one contribution to a headline metric. Converted is the
	// signed value in the display currency; the headline metric is exactly
	// the sum of its line items' Converted values.
	LineItem struct {
		Label     string  `json:"label"`
		Original  Money   `json:"original"`
		Converted float64 `json:"converted"`
		Sign      Sign    `json:"sign"`
		Date      *Date   `json:"date,omitempty"`
	}

	// CategoryAmount is one slice of the per-category expense breakdown,
	// in the display currency.
	CategoryAmount struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// Summary bundles the headline metrics in the display currency.
	Summary struct {
		Currency         CurrencyCode     `json:"currency"`
		NetWorth         float64          `json:"netWorth"`
		TotalDebt        float64          `json:"totalDebt"`
		ProjectedBalance float64          `json:"projectedBalance"`
		MonthlyResult    float64          `json:"monthlyResult"`
		ByCategory       []CategoryAmount `json:"byCategory"`
	}
)

// ValidMetricKind reports whether k names one of the drillable metrics.
func ValidMetricKind(k MetricKind) bool {
	switch k {
	case MetricNetWorth, MetricTotalDebt, MetricProjectedBalance, MetricMonthlyResult:
		return true
	}
	return false
}
