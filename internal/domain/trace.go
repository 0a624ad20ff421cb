package domain

import "time"

// GuardrailEventKind identifies the policy check that produced an event.
type GuardrailEventKind string

const (
	GuardrailConsentDenied       GuardrailEventKind = "consent_denied"
	GuardrailOfferBlocked        GuardrailEventKind = "offer_blocked"
	GuardrailCandidateIneligible GuardrailEventKind = "candidate_ineligible"
	GuardrailToneViolation       GuardrailEventKind = "tone_violation"
)

// GuardrailEvent records one guardrail decision for audit. Subject names the
// affected candidate (empty for pipeline-level events); Suggestion carries the
// replacement text for tone violations.
type GuardrailEvent struct {
	Kind       GuardrailEventKind `json:"kind" bson:"kind"`
	Subject    string             `json:"subject,omitempty" bson:"subject,omitempty"`
	Reason     string             `json:"reason" bson:"reason"`
	Suggestion string             `json:"suggestion,omitempty" bson:"suggestion,omitempty"`
}

// OverrideRecord captures a human operator intervention on a trace.
type OverrideRecord struct {
	OperatorID string    `json:"operator_id" bson:"operator_id"`
	Action     string    `json:"action" bson:"action"`
	Reason     string    `json:"reason" bson:"reason"`
	At         time.Time `json:"at" bson:"at"`
}

// Trace is the append-only audit document for one user in one run. Failure is
// set when the user's pipeline aborted; the other decision fields are then
// partial.
type Trace struct {
	ID              string           `json:"id" bson:"_id"`
	RunID           string           `json:"run_id" bson:"run_id"`
	UserID          string           `json:"user_id" bson:"user_id"`
	AsOf            time.Time        `json:"as_of" bson:"as_of"`
	Signals         map[string]any   `json:"signals,omitempty" bson:"signals,omitempty"`
	Persona         Persona          `json:"persona,omitempty" bson:"persona,omitempty"`
	MatchedCriteria []string         `json:"matched_criteria,omitempty" bson:"matched_criteria,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty" bson:"recommendations,omitempty"`
	GuardrailEvents []GuardrailEvent `json:"guardrail_events,omitempty" bson:"guardrail_events,omitempty"`
	Overrides       []OverrideRecord `json:"overrides,omitempty" bson:"overrides,omitempty"`
	Failure         string           `json:"failure,omitempty" bson:"failure,omitempty"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
}
