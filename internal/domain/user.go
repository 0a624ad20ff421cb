package domain

import "time"

// IncomeTier buckets a user's self-reported income for offer eligibility.
type IncomeTier string

const (
	IncomeTierLow    IncomeTier = "low"
	IncomeTierMiddle IncomeTier = "middle"
	IncomeTierHigh   IncomeTier = "high"
)

// Rank orders income tiers for floor comparisons. Unknown tiers rank lowest.
func (t IncomeTier) Rank() int {
	switch t {
	case IncomeTierLow:
		return 1
	case IncomeTierMiddle:
		return 2
	case IncomeTierHigh:
		return 3
	default:
		return 0
	}
}

// ConsentState captures whether a user has authorized data use for
// recommendations. UpdatedAt increases monotonically across changes.
type ConsentState struct {
	Granted   bool
	GrantedAt *time.Time
	RevokedAt *time.Time
	UpdatedAt time.Time
}

// User aggregates the canonical user record. Only the consent write path
// mutates it; everything else treats it as a per-run snapshot.
type User struct {
	ID         string
	FullName   string
	IncomeTier IncomeTier
	Consent    ConsentState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
