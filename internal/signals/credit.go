package signals

import (
	"math"
	"strings"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// A last payment within this fraction of the minimum due counts as paying
// minimum only.
const minimumPaymentTolerance = 0.05

// interestMerchants marks merchant descriptors that indicate a posted
// interest transaction on a credit account.
var interestMerchants = []string{
	"interest charge",
	"interest fee",
	"finance charge",
	"purchase interest",
}

func creditSignals(rec Records, asOf time.Time) domain.CreditSignals {
	var out domain.CreditSignals

	creditAccounts := make(map[string]domain.Account)
	var utilSum float64
	var utilCount int
	for _, a := range rec.Accounts {
		if a.Type != domain.AccountTypeCredit {
			continue
		}
		creditAccounts[a.ID] = a
		out.CardCount++
		out.TotalBalance += a.CurrentBalance
		if a.Limit > 0 {
			util := a.CurrentBalance / a.Limit * 100
			utilSum += util
			utilCount++
			if util > out.MaxUtilizationPct {
				out.MaxUtilizationPct = util
			}
		}
	}
	if utilCount > 0 {
		out.MeanUtilizationPct = utilSum / float64(utilCount)
	}
	out.UtilizationAbove30 = out.MaxUtilizationPct >= 30
	out.UtilizationAbove50 = out.MaxUtilizationPct >= 50
	out.UtilizationAbove80 = out.MaxUtilizationPct >= 80

	for _, l := range rec.Liabilities {
		acct, ok := creditAccounts[l.AccountID]
		if !ok {
			continue
		}
		if l.IsOverdue {
			out.Overdue = true
		}
		if l.MinimumPayment > 0 && l.LastPaymentAmount > 0 &&
			math.Abs(l.LastPaymentAmount-l.MinimumPayment) <= minimumPaymentTolerance*l.MinimumPayment {
			out.MinimumPaymentOnly = true
		}
		out.EstimatedMonthlyInterest += acct.CurrentBalance * l.APRPct / 100 / 12
	}

	// Interest is flagged only on a posted interest transaction, not on a
	// nonzero APR alone.
	start := asOf.AddDate(0, 0, -LongWindowDays)
	for _, t := range rec.Transactions {
		if _, ok := creditAccounts[t.AccountID]; !ok {
			continue
		}
		if !t.IsOutflow() || t.Date.After(asOf) || !t.Date.After(start) {
			continue
		}
		if isInterestCharge(t) {
			out.InterestCharged = true
			break
		}
	}

	return out
}

func isInterestCharge(t domain.Transaction) bool {
	if strings.Contains(strings.ToLower(t.Category), "interest") {
		return true
	}
	merchant := strings.ToLower(t.Merchant)
	for _, kw := range interestMerchants {
		if strings.Contains(merchant, kw) {
			return true
		}
	}
	return false
}
