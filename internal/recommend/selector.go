// Package recommend selects, scores, and fills the bounded recommendation
// list for one classified user, with the guardrail checks interleaved in
// their required order: consent first, predatory filter before any scoring,
// tone validation last.
package recommend

import (
	"sort"

	"go.uber.org/zap"

	"github.com/mhollis/finadvisor/internal/catalog"
	"github.com/mhollis/finadvisor/internal/domain"
	"github.com/mhollis/finadvisor/internal/guardrail"
)

// Pool bounds and the cross-pool category cap.
const (
	educationMin = 3
	educationMax = 5
	offerMax     = 3
	categoryCap  = 2
)

// Fixed explanatory messages for empty selections.
const (
	generalPersonaMessage = "No persona-specific recommendations are available for a general profile."
	emptyCatalogMessage   = "No recommendation templates are available for this persona."
)

// Context carries everything the selector needs for one user.
type Context struct {
	User       domain.User
	Accounts   []domain.Account
	Signals    domain.SignalSet
	Assignment domain.PersonaAssignment
}

// Selector scores and filters catalog candidates into a final list.
type Selector struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewSelector builds a Selector over an immutable catalog.
func NewSelector(cat *catalog.Catalog, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{catalog: cat, logger: logger}
}

type scoredEntry struct {
	entry   catalog.Entry
	score   int
	reasons []string
}

// Select builds the recommendation list for one user. It returns the result
// plus every guardrail event produced along the way. When consent is absent
// or the persona is the default label, no scoring is performed and the result
// carries an explanatory message.
func (s *Selector) Select(ctx Context) (domain.Result, []domain.GuardrailEvent) {
	res := domain.Result{
		UserID:          ctx.User.ID,
		Persona:         ctx.Assignment.Persona,
		Recommendations: []domain.Recommendation{},
		Metadata: domain.ResultMetadata{
			ToneCheckPassed: true,
			ConsentGranted:  ctx.User.Consent.Granted,
		},
	}

	if !ctx.User.Consent.Granted {
		res.Message = guardrail.ConsentDeniedMessage
		return res, []domain.GuardrailEvent{guardrail.ConsentDeniedEvent()}
	}
	if ctx.Assignment.Persona == domain.PersonaGeneral {
		res.Message = generalPersonaMessage
		return res, nil
	}

	candidates := s.catalog.ForPersona(ctx.Assignment.Persona)
	if len(candidates) == 0 {
		res.Message = emptyCatalogMessage
		return res, nil
	}

	var education, offers []catalog.Entry
	for _, e := range candidates {
		if e.Type == domain.RecommendationOffer {
			offers = append(offers, e)
		} else {
			education = append(education, e)
		}
	}

	var events []domain.GuardrailEvent

	// The predatory blocklist runs before every other check.
	offers, blocked := guardrail.FilterPredatory(offers)
	for _, ev := range blocked {
		s.logger.Info("offer blocked", zap.String("user", ctx.User.ID),
			zap.String("offer", ev.Subject), zap.String("reason", ev.Reason))
	}
	events = append(events, blocked...)

	offers = s.filterEligible(offers, ctx, &events)
	education = s.filterEligible(education, ctx, &events)

	offerPool := s.scoreAndSort(offers, ctx)
	eduPool := s.scoreAndSort(education, ctx)

	vals := templateValues(ctx)
	categoryCount := make(map[string]int)

	// Offers win category slots and deduplication conflicts, so they are
	// placed first.
	selectedOffers := s.place(offerPool, offerMax, categoryCount, nil, ctx)
	offerTopics := make(map[string]bool)
	for _, se := range selectedOffers {
		offerTopics[se.entry.Topic] = true
	}
	selectedEdu := s.place(eduPool, educationMax, categoryCount, offerTopics, ctx)
	if len(selectedEdu) < educationMin {
		s.logger.Debug("education pool exhausted below minimum",
			zap.String("user", ctx.User.ID), zap.Int("selected", len(selectedEdu)))
	}

	for _, se := range append(selectedEdu, selectedOffers...) {
		rec, ok := s.buildInstance(se, vals, ctx, &events)
		if !ok {
			continue
		}
		res.Recommendations = append(res.Recommendations, rec)
		if rec.Type == domain.RecommendationOffer {
			res.Metadata.OfferCount++
		} else {
			res.Metadata.EducationCount++
		}
	}

	sort.SliceStable(res.Recommendations, func(i, j int) bool {
		a, b := res.Recommendations[i], res.Recommendations[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Title < b.Title
	})

	for _, ev := range events {
		if ev.Kind == domain.GuardrailToneViolation {
			res.Metadata.ToneCheckPassed = false
			break
		}
	}
	return res, events
}

func (s *Selector) filterEligible(pool []catalog.Entry, ctx Context, events *[]domain.GuardrailEvent) []catalog.Entry {
	kept := pool[:0]
	for _, e := range pool {
		reason, ok := checkEligibility(e, ctx)
		if ok {
			kept = append(kept, e)
			continue
		}
		*events = append(*events, domain.GuardrailEvent{
			Kind:    domain.GuardrailCandidateIneligible,
			Subject: e.Title,
			Reason:  reason,
		})
		s.logger.Info("candidate removed", zap.String("user", ctx.User.ID),
			zap.String("candidate", e.ID), zap.String("reason", reason))
	}
	return kept
}

func (s *Selector) scoreAndSort(pool []catalog.Entry, ctx Context) []scoredEntry {
	scored := make([]scoredEntry, 0, len(pool))
	for _, e := range pool {
		score, reasons := scoreEntry(e, ctx)
		scored = append(scored, scoredEntry{entry: e, score: score, reasons: reasons})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].entry.Title < scored[j].entry.Title
	})
	return scored
}

// place walks a sorted pool and keeps up to max entries, honoring the
// cross-pool category cap and, for education, skipping partner-equivalent
// items whose topic an already-selected offer covers.
func (s *Selector) place(pool []scoredEntry, max int, categoryCount map[string]int, offerTopics map[string]bool, ctx Context) []scoredEntry {
	var out []scoredEntry
	for _, se := range pool {
		if len(out) >= max {
			break
		}
		if offerTopics != nil && se.entry.PartnerEquivalent && offerTopics[se.entry.Topic] {
			s.logger.Info("education item deduplicated against offer",
				zap.String("user", ctx.User.ID), zap.String("candidate", se.entry.ID),
				zap.String("topic", se.entry.Topic))
			continue
		}
		if categoryCount[se.entry.Category] >= categoryCap {
			s.logger.Info("category cap reached", zap.String("user", ctx.User.ID),
				zap.String("candidate", se.entry.ID), zap.String("category", se.entry.Category))
			continue
		}
		categoryCount[se.entry.Category]++
		out = append(out, se)
	}
	return out
}

func (s *Selector) buildInstance(se scoredEntry, vals map[string]string, ctx Context, events *[]domain.GuardrailEvent) (domain.Recommendation, bool) {
	rationale, err := fillTemplate(se.entry.RationaleTemplate, vals)
	if err != nil {
		// A template that cannot cite live values is dropped rather than
		// emitted with placeholder text.
		s.logger.Warn("rationale template unresolved", zap.String("user", ctx.User.ID),
			zap.String("candidate", se.entry.ID), zap.Error(err))
		return domain.Recommendation{}, false
	}

	rec := domain.Recommendation{
		Type:      se.entry.Type,
		Title:     se.entry.Title,
		Category:  se.entry.Category,
		Topic:     se.entry.Topic,
		Rationale: rationale,
		Score:     se.score,
	}

	toneEvents := guardrail.CheckRecommendation(rec)
	for _, v := range guardrail.ScanText("description", se.entry.Description) {
		toneEvents = append(toneEvents, domain.GuardrailEvent{
			Kind:       domain.GuardrailToneViolation,
			Subject:    rec.Title,
			Reason:     "prohibited phrase \"" + v.Phrase + "\" in description",
			Suggestion: v.Suggestion,
		})
	}
	*events = append(*events, toneEvents...)

	guardrail.ApplyDisclaimer(&rec)
	return rec, true
}
