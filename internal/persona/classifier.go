// Package persona assigns one behavioral label per user by evaluating a
// fixed, strictly ordered rule list against the derived signal set. The first
// rule whose predicate holds wins; no rule reads demographic fields.
package persona

import (
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// Threshold constants for the classifier rules. These are the single source
// of truth; rules never embed literals directly.
const (
	utilizationHighPct      = 50.0
	utilizationLowCeilPct   = 30.0
	payGapVariableDays      = 45.0
	cashBufferTightMonths   = 1.0
	cashBufferLowMonths     = 2.0
	recurringHeavyCount     = 3
	subscriptionSpendFloor  = 50.0
	subscriptionShareFloor  = 10.0
	savingsGrowthStallPct   = 1.0
	savingsGrowthHealthyPct = 2.0
	netInflowStallAmount    = 100.0
	netInflowHealthyAmount  = 200.0
)

// rule pairs a persona label with its predicate. eval returns whether the
// rule matched and the named sub-predicates that held, for audit.
type rule struct {
	persona domain.Persona
	eval    func(domain.SignalSet) (bool, []string)
}

// rules is evaluated top-down with short-circuit; order is priority.
var rules = []rule{
	{domain.PersonaHighUtilization, evalHighUtilization},
	{domain.PersonaVariableIncome, evalVariableIncome},
	{domain.PersonaSubscriptionHeavy, evalSubscriptionHeavy},
	{domain.PersonaCashflowOptimizer, evalCashflowOptimizer},
	{domain.PersonaSavingsBuilder, evalSavingsBuilder},
}

// Classify evaluates the ordered rule list against s and returns the first
// matching label, or the general default. Identical input always yields an
// identical assignment, including the matched-criteria evidence.
func Classify(s domain.SignalSet, at time.Time) domain.PersonaAssignment {
	for _, r := range rules {
		if ok, matched := r.eval(s); ok {
			return domain.PersonaAssignment{
				UserID:          s.UserID,
				Persona:         r.persona,
				MatchedCriteria: matched,
				AssignedAt:      at,
			}
		}
	}
	return domain.PersonaAssignment{
		UserID:     s.UserID,
		Persona:    domain.PersonaGeneral,
		AssignedAt: at,
	}
}

func evalHighUtilization(s domain.SignalSet) (bool, []string) {
	var matched []string
	if s.Credit.MaxUtilizationPct >= utilizationHighPct {
		matched = append(matched, "max_utilization_pct>=50")
	}
	if s.Credit.InterestCharged {
		matched = append(matched, "interest_charged")
	}
	if s.Credit.MinimumPaymentOnly {
		matched = append(matched, "minimum_payment_only")
	}
	if s.Credit.Overdue {
		matched = append(matched, "overdue")
	}
	return len(matched) > 0, matched
}

func evalVariableIncome(s domain.SignalSet) (bool, []string) {
	income := s.Long.Income
	if !income.Detected {
		return false, nil
	}
	if income.MedianGapDays > payGapVariableDays && income.CashBufferMonths < cashBufferTightMonths {
		return true, []string{"median_gap_days>45", "cash_buffer_months<1"}
	}
	return false, nil
}

func evalSubscriptionHeavy(s domain.SignalSet) (bool, []string) {
	subs := s.Long.Subscriptions
	if subs.RecurringCount < recurringHeavyCount {
		return false, nil
	}
	matched := []string{"recurring_count>=3"}
	var spendOrShare bool
	if subs.MonthlySpend >= subscriptionSpendFloor {
		matched = append(matched, "monthly_spend>=50")
		spendOrShare = true
	}
	if subs.SharePct >= subscriptionShareFloor {
		matched = append(matched, "share_pct>=10")
		spendOrShare = true
	}
	if !spendOrShare {
		return false, nil
	}
	return true, matched
}

func evalCashflowOptimizer(s domain.SignalSet) (bool, []string) {
	income := s.Long.Income
	savings := s.Long.Savings
	// Pay-gap and buffer comparisons are meaningless without detected income.
	if !income.Detected {
		return false, nil
	}
	if income.CashBufferMonths >= cashBufferLowMonths {
		return false, nil
	}
	if income.MedianGapDays > payGapVariableDays {
		return false, nil
	}
	matched := []string{"cash_buffer_months<2", "median_gap_days<=45"}
	var stalled bool
	if savings.GrowthPct < savingsGrowthStallPct {
		matched = append(matched, "savings_growth_pct<1")
		stalled = true
	}
	if savings.NetInflow < netInflowStallAmount {
		matched = append(matched, "savings_net_inflow<100")
		stalled = true
	}
	if !stalled {
		return false, nil
	}
	return true, matched
}

func evalSavingsBuilder(s domain.SignalSet) (bool, []string) {
	savings := s.Long.Savings
	if s.Credit.MaxUtilizationPct >= utilizationLowCeilPct {
		return false, nil
	}
	var matched []string
	if savings.GrowthPct >= savingsGrowthHealthyPct {
		matched = append(matched, "savings_growth_pct>=2")
	}
	if savings.NetInflow >= netInflowHealthyAmount {
		matched = append(matched, "savings_net_inflow>=200")
	}
	if len(matched) == 0 {
		return false, nil
	}
	return true, append(matched, "max_utilization_pct<30")
}
