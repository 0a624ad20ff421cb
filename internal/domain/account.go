package domain

import "time"

// AccountType is the coarse classification of a financial account.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeInvestment AccountType = "investment"
)

// Account is a point-in-time snapshot of one account as of the run date.
type Account struct {
	ID               string
	UserID           string
	Name             string
	Type             AccountType
	Subtype          string
	CurrentBalance   float64
	AvailableBalance float64
	// Limit is the credit limit; zero for non-credit accounts.
	Limit float64
}

// Liability carries the credit-side detail for one credit account.
type Liability struct {
	AccountID         string
	APRPct            float64
	MinimumPayment    float64
	LastPaymentAmount float64
	LastPaymentDate   *time.Time
	IsOverdue         bool
	OverdueAmount     float64
}
