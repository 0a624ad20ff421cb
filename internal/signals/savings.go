package signals

import (
	"github.com/mhollis/finadvisor/internal/domain"
)

func savingsSignals(accounts []domain.Account, txns []domain.Transaction, windowDays int) domain.SavingsSignals {
	var out domain.SavingsSignals

	savingsIDs := make(map[string]bool)
	for _, a := range accounts {
		if a.Type == domain.AccountTypeSavings {
			savingsIDs[a.ID] = true
			out.HasSavings = true
			out.Balance += a.CurrentBalance
		}
	}

	var deposits, withdrawals, expenses float64
	for _, t := range txns {
		if savingsIDs[t.AccountID] {
			if t.IsInflow() {
				deposits += -t.Amount
			} else {
				withdrawals += t.Amount
			}
			continue
		}
		if t.IsOutflow() {
			expenses += t.Amount
		}
	}
	out.NetInflow = deposits - withdrawals

	// The window beginning is estimated by unwinding the net inflow from the
	// current balance; a non-positive estimate reports zero growth.
	beginning := out.Balance - out.NetInflow
	if beginning > 0 {
		out.GrowthPct = (out.Balance - beginning) / beginning * 100
	}

	out.MonthlyExpenses = expenses * 30 / float64(windowDays)
	if out.MonthlyExpenses > 0 {
		out.EmergencyFundMonths = out.Balance / out.MonthlyExpenses
	}
	return out
}
