package domain

import "time"

// Transaction is one immutable ledger row. Amount is signed: positive values
// are outflows (debits), negative values are inflows (credits).
type Transaction struct {
	ID        string
	AccountID string
	Date      time.Time
	Amount    float64
	Merchant  string
	Category  string
}

// IsOutflow reports whether the transaction debits the account.
func (t Transaction) IsOutflow() bool { return t.Amount > 0 }

// IsInflow reports whether the transaction credits the account.
func (t Transaction) IsInflow() bool { return t.Amount < 0 }
