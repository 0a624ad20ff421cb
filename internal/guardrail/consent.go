// Package guardrail holds the policy checks interleaved into recommendation
// selection: the blocking consent gate and predatory filter, the non-blocking
// tone validator, and the unconditional disclaimer.
package guardrail

import (
	"errors"

	"github.com/mhollis/finadvisor/internal/domain"
)

// ConsentDeniedMessage is the fixed message returned when the consent gate
// short-circuits a request.
const ConsentDeniedMessage = "Recommendations are unavailable because data-use consent has not been granted."

// ErrNoConsent marks a request blocked by the consent gate.
var ErrNoConsent = errors.New("consent not granted")

// CheckConsent is the blocking entry gate; it must run before any signal
// computation for the user.
func CheckConsent(u domain.User) error {
	if !u.Consent.Granted {
		return ErrNoConsent
	}
	return nil
}

// ConsentDeniedEvent builds the audit event recorded when the gate blocks.
func ConsentDeniedEvent() domain.GuardrailEvent {
	return domain.GuardrailEvent{
		Kind:   domain.GuardrailConsentDenied,
		Reason: ConsentDeniedMessage,
	}
}
