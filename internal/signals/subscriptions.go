package signals

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// Recurring-pattern thresholds. A merchant is recurring when its debits in
// the 90-day lookback occur at least three times with near-stable amounts
// over a span long enough to confirm periodicity. Patterns are rejected only
// for being too short, never for outlasting the lookback.
const (
	recurringLookbackDays   = 90
	recurringMinOccurrences = 3
	recurringMaxCoV         = 0.10
	recurringMinSpanDays    = 30
)

func subscriptionSignals(all []domain.Transaction, window []domain.Transaction, asOf time.Time, windowDays int) domain.SubscriptionSignals {
	var out domain.SubscriptionSignals

	groups := make(map[string][]domain.Transaction)
	for _, t := range filterWindow(all, asOf, recurringLookbackDays) {
		if !t.IsOutflow() {
			continue
		}
		key := normalizeMerchant(t.Merchant)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], t)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	recurringKeys := make(map[string]bool)
	for _, key := range keys {
		txs := groups[key]
		if len(txs) < recurringMinOccurrences {
			continue
		}
		amounts := make([]float64, 0, len(txs))
		first, last := txs[0].Date, txs[0].Date
		for _, t := range txs {
			amounts = append(amounts, t.Amount)
			if t.Date.Before(first) {
				first = t.Date
			}
			if t.Date.After(last) {
				last = t.Date
			}
		}
		if coefficientOfVariation(amounts) > recurringMaxCoV {
			continue
		}
		if last.Sub(first).Hours()/24 < recurringMinSpanDays {
			continue
		}
		recurringKeys[key] = true
		out.Merchants = append(out.Merchants, domain.RecurringMerchant{
			Name:        strings.TrimSpace(txs[0].Merchant),
			Occurrences: len(txs),
			AvgAmount:   mean(amounts),
		})
	}
	out.RecurringCount = len(out.Merchants)

	var recurringSpend, totalSpend float64
	for _, t := range window {
		if !t.IsOutflow() {
			continue
		}
		totalSpend += t.Amount
		if recurringKeys[normalizeMerchant(t.Merchant)] {
			recurringSpend += t.Amount
		}
	}
	out.MonthlySpend = round2(recurringSpend * 30 / float64(windowDays))
	totalMonthly := totalSpend * 30 / float64(windowDays)
	if totalMonthly > 0 {
		out.SharePct = out.MonthlySpend / totalMonthly * 100
	}
	return out
}

func normalizeMerchant(merchant string) string {
	return strings.ToLower(strings.TrimSpace(merchant))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
