// Package signals derives per-user behavioral signals from account,
// transaction, and liability records over rolling windows ending at an
// as-of date. All computation is pure: a user with no transactions in a
// window yields zero-valued signals, never an error.
package signals

import (
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// Window lengths in days. Credit signals are point-in-time; income,
// subscription, and savings signals are computed for both windows.
const (
	ShortWindowDays = 30
	LongWindowDays  = 180
)

// Records bundles one user's read-only inputs for signal detection.
type Records struct {
	Accounts     []domain.Account
	Transactions []domain.Transaction
	Liabilities  []domain.Liability
}

// Compute derives the full signal set for one user as of the given date.
func Compute(userID string, rec Records, asOf time.Time) domain.SignalSet {
	return domain.SignalSet{
		UserID: userID,
		AsOf:   asOf,
		Credit: creditSignals(rec, asOf),
		Short:  windowSignals(rec, asOf, ShortWindowDays),
		Long:   windowSignals(rec, asOf, LongWindowDays),
	}
}

func windowSignals(rec Records, asOf time.Time, days int) domain.WindowSignals {
	txns := filterWindow(rec.Transactions, asOf, days)
	return domain.WindowSignals{
		WindowDays:    days,
		Income:        incomeSignals(rec.Accounts, txns, days),
		Subscriptions: subscriptionSignals(rec.Transactions, txns, asOf, days),
		Savings:       savingsSignals(rec.Accounts, txns, days),
	}
}

// filterWindow keeps transactions with asOf-days < date <= asOf.
func filterWindow(txns []domain.Transaction, asOf time.Time, days int) []domain.Transaction {
	start := asOf.AddDate(0, 0, -days)
	var out []domain.Transaction
	for _, t := range txns {
		if t.Date.After(start) && !t.Date.After(asOf) {
			out = append(out, t)
		}
	}
	return out
}
