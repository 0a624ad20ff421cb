package guardrail

import (
	"github.com/mhollis/finadvisor/internal/catalog"
	"github.com/mhollis/finadvisor/internal/domain"
)

// predatoryCategories is the zero-tolerance offer blocklist, applied before
// any other eligibility check. Keys are catalog categories; values are the
// recorded removal reasons.
var predatoryCategories = map[string]string{
	"payday_loan":         "payday lending is a blocked category",
	"title_loan":          "vehicle title lending is a blocked category",
	"pawn_loan":           "pawn lending is a blocked category",
	"rent_to_own":         "rent-to-own financing is a blocked category",
	"high_cost_installment": "high-cost installment lending is a blocked category",
	"credit_repair":       "paid credit repair is a blocked category",
}

// IsPredatoryCategory reports whether a catalog category is blocklisted and,
// when it is, the reason to record.
func IsPredatoryCategory(category string) (string, bool) {
	reason, ok := predatoryCategories[category]
	return reason, ok
}

// FilterPredatory removes blocklisted offers from candidates, returning the
// survivors plus one audit event per removal.
func FilterPredatory(candidates []catalog.Entry) ([]catalog.Entry, []domain.GuardrailEvent) {
	kept := make([]catalog.Entry, 0, len(candidates))
	var events []domain.GuardrailEvent
	for _, e := range candidates {
		if reason, blocked := IsPredatoryCategory(e.Category); blocked {
			events = append(events, domain.GuardrailEvent{
				Kind:    domain.GuardrailOfferBlocked,
				Subject: e.Title,
				Reason:  reason,
			})
			continue
		}
		kept = append(kept, e)
	}
	return kept, events
}
