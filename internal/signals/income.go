package signals

import (
	"math"
	"sort"
	"strings"

	"github.com/mhollis/finadvisor/internal/domain"
)

// frequencyToleranceDays is the slack around the weekly/biweekly/monthly
// anchors when bucketing the median pay gap.
const frequencyToleranceDays = 3

var payrollKeywords = []string{
	"payroll",
	"direct deposit",
	"salary",
	"paycheck",
	"wages",
	"employer",
}

var incomeCategories = map[string]bool{
	"income":   true,
	"paycheck": true,
	"salary":   true,
}

func incomeSignals(accounts []domain.Account, txns []domain.Transaction, windowDays int) domain.IncomeSignals {
	var out domain.IncomeSignals
	out.CashBufferMonths = cashBufferMonths(accounts, txns, windowDays)

	var deposits []domain.Transaction
	for _, t := range txns {
		if t.IsInflow() && isIncomeDeposit(t) {
			deposits = append(deposits, t)
		}
	}
	// A single deposit gives no cadence to measure.
	if len(deposits) < 2 {
		return out
	}

	sort.Slice(deposits, func(i, j int) bool { return deposits[i].Date.Before(deposits[j].Date) })

	gaps := make([]float64, 0, len(deposits)-1)
	amounts := make([]float64, 0, len(deposits))
	for i, d := range deposits {
		amounts = append(amounts, math.Abs(d.Amount))
		if i > 0 {
			gaps = append(gaps, d.Date.Sub(deposits[i-1].Date).Hours()/24)
		}
	}

	out.Detected = true
	out.Occurrences = len(deposits)
	out.MedianGapDays = median(gaps)
	out.AmountCoV = coefficientOfVariation(amounts)
	out.Frequency = frequencyBucket(out.MedianGapDays)
	return out
}

func isIncomeDeposit(t domain.Transaction) bool {
	if incomeCategories[strings.ToLower(strings.TrimSpace(t.Category))] {
		return true
	}
	merchant := strings.ToLower(t.Merchant)
	for _, kw := range payrollKeywords {
		if strings.Contains(merchant, kw) {
			return true
		}
	}
	return false
}

func frequencyBucket(medianGapDays float64) domain.PayFrequency {
	switch {
	case math.Abs(medianGapDays-7) <= frequencyToleranceDays:
		return domain.PayFrequencyWeekly
	case math.Abs(medianGapDays-14) <= frequencyToleranceDays:
		return domain.PayFrequencyBiweekly
	case math.Abs(medianGapDays-30) <= frequencyToleranceDays:
		return domain.PayFrequencyMonthly
	default:
		return domain.PayFrequencyVariable
	}
}

// cashBufferMonths is the checking balance divided by the window's debit
// total normalized to a 30-day month.
func cashBufferMonths(accounts []domain.Account, txns []domain.Transaction, windowDays int) float64 {
	var checking float64
	for _, a := range accounts {
		if a.Type == domain.AccountTypeChecking {
			checking += a.CurrentBalance
		}
	}

	var debits float64
	for _, t := range txns {
		if t.IsOutflow() {
			debits += t.Amount
		}
	}
	monthly := debits * 30 / float64(windowDays)
	if monthly <= 0 {
		return 0
	}
	return checking / monthly
}
