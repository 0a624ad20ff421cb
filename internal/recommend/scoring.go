package recommend

import (
	"github.com/mhollis/finadvisor/internal/catalog"
	"github.com/mhollis/finadvisor/internal/domain"
)

// Scores are additive per category on top of a neutral base, clamped to
// 0..100. Each rule names the signal condition that earned its points so the
// contribution can be logged.
const (
	baseScore = 50
	maxScore  = 100
)

type scoreRule struct {
	points int
	reason string
	holds  func(Context) bool
}

var scoreTables = map[string][]scoreRule{
	"credit": {
		{30, "max utilization above 70%", func(c Context) bool { return c.Signals.Credit.MaxUtilizationPct > 70 }},
		{20, "max utilization at or above 50%", func(c Context) bool { return c.Signals.Credit.MaxUtilizationPct >= 50 }},
		{15, "interest charged in window", func(c Context) bool { return c.Signals.Credit.InterestCharged }},
		{15, "paying minimum only", func(c Context) bool { return c.Signals.Credit.MinimumPaymentOnly }},
		{10, "account overdue", func(c Context) bool { return c.Signals.Credit.Overdue }},
		{5, "three or more cards", func(c Context) bool { return c.Signals.Credit.CardCount >= 3 }},
	},
	"loans": {
		{20, "interest charged in window", func(c Context) bool { return c.Signals.Credit.InterestCharged }},
		{15, "card balances above $5,000", func(c Context) bool { return c.Signals.Credit.TotalBalance > 5000 }},
		{10, "account overdue", func(c Context) bool { return c.Signals.Credit.Overdue }},
	},
	"subscriptions": {
		{20, "six or more recurring subscriptions", func(c Context) bool { return c.Signals.Long.Subscriptions.RecurringCount >= 6 }},
		{15, "subscription spend above $100 per month", func(c Context) bool { return c.Signals.Long.Subscriptions.MonthlySpend > 100 }},
		{10, "subscriptions above 15% of spending", func(c Context) bool { return c.Signals.Long.Subscriptions.SharePct > 15 }},
	},
	"budgeting": {
		{20, "cash buffer below one month", func(c Context) bool { return c.Signals.Long.Income.CashBufferMonths < 1 }},
		{10, "cash buffer below two months", func(c Context) bool { return c.Signals.Long.Income.CashBufferMonths < 2 }},
		{10, "savings net inflow below $100", func(c Context) bool { return c.Signals.Long.Savings.NetInflow < 100 }},
		{10, "variable pay cadence", func(c Context) bool { return c.Signals.Long.Income.Frequency == domain.PayFrequencyVariable }},
	},
	"savings": {
		{20, "savings net inflow above $2,000", func(c Context) bool { return c.Signals.Long.Savings.NetInflow > 2000 }},
		{15, "savings growth at or above 5%", func(c Context) bool { return c.Signals.Long.Savings.GrowthPct >= 5 }},
		{10, "emergency fund below three months", func(c Context) bool {
			return c.Signals.Long.Savings.HasSavings && c.Signals.Long.Savings.EmergencyFundMonths < 3
		}},
		{10, "no savings account", func(c Context) bool { return !c.Signals.Long.Savings.HasSavings }},
	},
	"investing": {
		{20, "emergency fund above six months", func(c Context) bool { return c.Signals.Long.Savings.EmergencyFundMonths > 6 }},
		{15, "savings net inflow above $500", func(c Context) bool { return c.Signals.Long.Savings.NetInflow > 500 }},
		{10, "max utilization below 10%", func(c Context) bool { return c.Signals.Credit.MaxUtilizationPct < 10 }},
	},
}

// scoreEntry computes the 0..100 score for one candidate and the reasons
// behind it.
func scoreEntry(e catalog.Entry, ctx Context) (int, []string) {
	score := baseScore
	var reasons []string
	for _, r := range scoreTables[e.Category] {
		if r.holds(ctx) {
			score += r.points
			reasons = append(reasons, r.reason)
		}
	}
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score, reasons
}
