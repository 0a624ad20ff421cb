package domain

// RecommendationType distinguishes educational content from partner offers.
type RecommendationType string

const (
	RecommendationEducation RecommendationType = "education"
	RecommendationOffer     RecommendationType = "offer"
)

// Recommendation is one rationale-filled, tone-checked, disclaimer-appended
// item built per request. Instances are ephemeral and never persisted back
// into the catalog.
type Recommendation struct {
	Type       RecommendationType `json:"type" bson:"type"`
	Title      string             `json:"title" bson:"title"`
	Category   string             `json:"category" bson:"category"`
	Topic      string             `json:"topic" bson:"topic"`
	Rationale  string             `json:"rationale" bson:"rationale"`
	Disclaimer string             `json:"disclaimer" bson:"disclaimer"`
	Score      int                `json:"-" bson:"score"`
}

// ResultMetadata summarizes guardrail outcomes for one user's result.
type ResultMetadata struct {
	EducationCount  int  `json:"education_count"`
	OfferCount      int  `json:"offer_count"`
	ToneCheckPassed bool `json:"tone_check_passed"`
	ConsentGranted  bool `json:"consent_granted"`
}

// Result is the structured per-user output of one pipeline run. Message is
// set only when Recommendations is empty and explains why.
type Result struct {
	UserID          string           `json:"user_id"`
	Persona         Persona          `json:"persona"`
	Recommendations []Recommendation `json:"recommendations"`
	Message         string           `json:"message,omitempty"`
	Metadata        ResultMetadata   `json:"metadata"`
}
