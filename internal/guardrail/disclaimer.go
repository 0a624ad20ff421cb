package guardrail

import "github.com/mhollis/finadvisor/internal/domain"

// Disclaimer is appended unconditionally to every recommendation instance
// before output. The string is fixed; tests assert its exact presence.
const Disclaimer = "This is educational information, not individualized financial advice. Consider speaking with a licensed financial professional before making financial decisions."

// ApplyDisclaimer stamps the fixed disclaimer onto a recommendation.
func ApplyDisclaimer(rec *domain.Recommendation) {
	rec.Disclaimer = Disclaimer
}
