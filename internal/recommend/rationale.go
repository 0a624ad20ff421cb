package recommend

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mhollis/finadvisor/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// fillTemplate substitutes every {name} placeholder with its live value.
// An unresolved or empty placeholder is an error: rationales must cite
// concrete values, never placeholder text.
func fillTemplate(tmpl string, vals map[string]string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := vals[name]; ok && v != "" {
			return v
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved placeholders %v", missing)
	}
	return out, nil
}

// templateValues builds the formatted substitution map from the user's live
// signals and accounts. Keys absent from the map (no matching account, no
// detected income) fail any template that references them.
func templateValues(ctx Context) map[string]string {
	s := ctx.Signals
	long := s.Long

	vals := map[string]string{
		"max_utilization":            FormatPercent(s.Credit.MaxUtilizationPct),
		"mean_utilization":           FormatPercent(s.Credit.MeanUtilizationPct),
		"card_count":                 strconv.Itoa(s.Credit.CardCount),
		"total_credit_balance":       FormatCurrency(s.Credit.TotalBalance),
		"interest_estimate":          FormatCurrency(s.Credit.EstimatedMonthlyInterest),
		"recurring_count":            strconv.Itoa(long.Subscriptions.RecurringCount),
		"monthly_subscription_spend": FormatCurrency(long.Subscriptions.MonthlySpend),
		"subscription_share":         FormatPercent(long.Subscriptions.SharePct),
		"net_savings_inflow":         FormatCurrency(long.Savings.NetInflow),
		"savings_growth":             FormatPercent(long.Savings.GrowthPct),
		"savings_balance":            FormatCurrency(long.Savings.Balance),
		"emergency_fund_months":      FormatMonths(long.Savings.EmergencyFundMonths),
		"cash_buffer_months":         FormatMonths(long.Income.CashBufferMonths),
		"median_pay_gap":             FormatDays(long.Income.MedianGapDays),
		"pay_frequency":              string(long.Income.Frequency),
		"monthly_expenses":           FormatCurrency(long.Savings.MonthlyExpenses),
		"income_variation":           FormatPercent(long.Income.AmountCoV * 100),
	}

	if top := topSubscription(long.Subscriptions); top != "" {
		vals["top_subscription"] = top
	}
	for _, a := range ctx.Accounts {
		key := ""
		switch a.Type {
		case domain.AccountTypeChecking:
			key = "checking_account"
		case domain.AccountTypeSavings:
			key = "savings_account"
		case domain.AccountTypeCredit:
			key = "credit_account"
		}
		if key == "" || vals[key] != "" {
			continue
		}
		vals[key] = MaskAccount(a.ID)
	}
	return vals
}

// topSubscription names the recurring merchant with the largest average
// charge, with its normalized monthly cost.
func topSubscription(subs domain.SubscriptionSignals) string {
	var best *domain.RecurringMerchant
	for i := range subs.Merchants {
		m := &subs.Merchants[i]
		if best == nil || m.AvgAmount > best.AvgAmount {
			best = m
		}
	}
	if best == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s per charge)", best.Name, FormatCurrency(best.AvgAmount))
}
