package domain

import (
	"fmt"
	"time"
)

// PayFrequency buckets the cadence of detected income deposits.
type PayFrequency string

const (
	PayFrequencyWeekly   PayFrequency = "weekly"
	PayFrequencyBiweekly PayFrequency = "biweekly"
	PayFrequencyMonthly  PayFrequency = "monthly"
	PayFrequencyVariable PayFrequency = "variable"
)

// CreditSignals are point-in-time credit health metrics; they are not
// windowed, except the interest-charge flag which looks back over the long
// window for a posted interest transaction.
type CreditSignals struct {
	CardCount                int
	TotalBalance             float64
	MaxUtilizationPct        float64
	MeanUtilizationPct       float64
	UtilizationAbove30       bool
	UtilizationAbove50       bool
	UtilizationAbove80       bool
	InterestCharged          bool
	MinimumPaymentOnly       bool
	Overdue                  bool
	EstimatedMonthlyInterest float64
}

// IncomeSignals describe deposit cadence within one window. Detected is false
// when fewer than two qualifying deposits were found; the remaining fields are
// zero in that case.
type IncomeSignals struct {
	Detected         bool
	Occurrences      int
	MedianGapDays    float64
	Frequency        PayFrequency
	AmountCoV        float64
	CashBufferMonths float64
}

// RecurringMerchant is one merchant whose debits form a confirmed
// subscription-like pattern.
type RecurringMerchant struct {
	Name        string
	Occurrences int
	AvgAmount   float64
}

// SubscriptionSignals summarize recurring-merchant spend within one window.
type SubscriptionSignals struct {
	RecurringCount int
	MonthlySpend   float64
	SharePct       float64
	Merchants      []RecurringMerchant
}

// SavingsSignals summarize savings-account movement within one window.
type SavingsSignals struct {
	HasSavings          bool
	Balance             float64
	NetInflow           float64
	GrowthPct           float64
	EmergencyFundMonths float64
	MonthlyExpenses     float64
}

// WindowSignals bundles the windowed signal categories for one window length.
type WindowSignals struct {
	WindowDays    int
	Income        IncomeSignals
	Subscriptions SubscriptionSignals
	Savings       SavingsSignals
}

// SignalSet is the full derived view of one user as of one date. It is
// recomputed on every run and never persisted as mutable state.
type SignalSet struct {
	UserID string
	AsOf   time.Time
	Credit CreditSignals
	Short  WindowSignals
	Long   WindowSignals
}

// Flatten renders the set as window-prefixed metric names for tracing.
func (s SignalSet) Flatten() map[string]any {
	out := map[string]any{
		"credit.card_count":                 s.Credit.CardCount,
		"credit.total_balance":              s.Credit.TotalBalance,
		"credit.max_utilization_pct":        s.Credit.MaxUtilizationPct,
		"credit.mean_utilization_pct":       s.Credit.MeanUtilizationPct,
		"credit.utilization_above_30":       s.Credit.UtilizationAbove30,
		"credit.utilization_above_50":       s.Credit.UtilizationAbove50,
		"credit.utilization_above_80":       s.Credit.UtilizationAbove80,
		"credit.interest_charged":           s.Credit.InterestCharged,
		"credit.minimum_payment_only":       s.Credit.MinimumPaymentOnly,
		"credit.overdue":                    s.Credit.Overdue,
		"credit.estimated_monthly_interest": s.Credit.EstimatedMonthlyInterest,
	}
	for _, w := range []WindowSignals{s.Short, s.Long} {
		prefix := fmt.Sprintf("%dd.", w.WindowDays)
		out[prefix+"income.detected"] = w.Income.Detected
		out[prefix+"income.occurrences"] = w.Income.Occurrences
		out[prefix+"income.median_gap_days"] = w.Income.MedianGapDays
		out[prefix+"income.frequency"] = string(w.Income.Frequency)
		out[prefix+"income.amount_cov"] = w.Income.AmountCoV
		out[prefix+"income.cash_buffer_months"] = w.Income.CashBufferMonths
		out[prefix+"subscriptions.recurring_count"] = w.Subscriptions.RecurringCount
		out[prefix+"subscriptions.monthly_spend"] = w.Subscriptions.MonthlySpend
		out[prefix+"subscriptions.share_pct"] = w.Subscriptions.SharePct
		out[prefix+"savings.has_savings"] = w.Savings.HasSavings
		out[prefix+"savings.balance"] = w.Savings.Balance
		out[prefix+"savings.net_inflow"] = w.Savings.NetInflow
		out[prefix+"savings.growth_pct"] = w.Savings.GrowthPct
		out[prefix+"savings.emergency_fund_months"] = w.Savings.EmergencyFundMonths
		out[prefix+"savings.monthly_expenses"] = w.Savings.MonthlyExpenses
	}
	return out
}
