package recommend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhollis/finadvisor/internal/catalog"
	"github.com/mhollis/finadvisor/internal/domain"
	"github.com/mhollis/finadvisor/internal/guardrail"
)

func consentingUser(id string, tier domain.IncomeTier) domain.User {
	return domain.User{
		ID:         id,
		IncomeTier: tier,
		Consent:    domain.ConsentState{Granted: true},
	}
}

func highUtilizationContext() Context {
	signals := domain.SignalSet{
		UserID: "user-a",
		Credit: domain.CreditSignals{
			CardCount:                3,
			TotalBalance:             4000,
			MaxUtilizationPct:        68,
			MeanUtilizationPct:       41,
			UtilizationAbove30:       true,
			UtilizationAbove50:       true,
			InterestCharged:          true,
			EstimatedMonthlyInterest: 81.67,
		},
		Short: domain.WindowSignals{WindowDays: 30},
		Long: domain.WindowSignals{
			WindowDays: 180,
			Income: domain.IncomeSignals{
				Detected:         true,
				MedianGapDays:    14,
				Frequency:        domain.PayFrequencyBiweekly,
				CashBufferMonths: 2.5,
			},
			Savings: domain.SavingsSignals{
				HasSavings:      true,
				Balance:         1500,
				NetInflow:       150,
				GrowthPct:       1.5,
				MonthlyExpenses: 2400,
			},
		},
	}
	return Context{
		User: consentingUser("user-a", domain.IncomeTierMiddle),
		Accounts: []domain.Account{
			{ID: "chk-112233", UserID: "user-a", Type: domain.AccountTypeChecking},
			{ID: "cc-448812", UserID: "user-a", Type: domain.AccountTypeCredit, CurrentBalance: 4000, Limit: 5900},
			{ID: "sav-7710", UserID: "user-a", Type: domain.AccountTypeSavings, CurrentBalance: 1500},
		},
		Signals: signals,
		Assignment: domain.PersonaAssignment{
			UserID:          "user-a",
			Persona:         domain.PersonaHighUtilization,
			MatchedCriteria: []string{"max_utilization_pct>=50", "interest_charged"},
		},
	}
}

func defaultSelector(t *testing.T) *Selector {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewSelector(cat, nil)
}

func TestSelectScenarioHighUtilization(t *testing.T) {
	s := defaultSelector(t)
	ctx := highUtilizationContext()

	res, events := s.Select(ctx)

	require.NotEmpty(t, res.Recommendations)
	require.Equal(t, domain.PersonaHighUtilization, res.Persona)
	require.True(t, res.Metadata.ConsentGranted)

	// The top recommendation cites the utilization percentage and the
	// interest estimate with live formatted values.
	top := res.Recommendations[0]
	require.Contains(t, top.Rationale, "68.0%")
	require.Contains(t, top.Rationale, "$81.67")

	for _, rec := range res.Recommendations {
		require.Equal(t, guardrail.Disclaimer, rec.Disclaimer, "disclaimer on every item")
		require.NotEmpty(t, rec.Rationale)
		require.NotContains(t, rec.Rationale, "{", "no unresolved placeholder text")
		_, predatory := guardrail.IsPredatoryCategory(rec.Category)
		require.False(t, predatory, "no predatory category in output")
	}

	require.Equal(t, res.Metadata.EducationCount+res.Metadata.OfferCount, len(res.Recommendations))
	require.LessOrEqual(t, res.Metadata.EducationCount, educationMax)
	require.LessOrEqual(t, res.Metadata.OfferCount, offerMax)
	require.GreaterOrEqual(t, res.Metadata.OfferCount, 1)

	for _, ev := range events {
		require.NotEqual(t, domain.GuardrailConsentDenied, ev.Kind)
	}
}

func TestSelectWithoutConsentShortCircuits(t *testing.T) {
	s := defaultSelector(t)
	ctx := highUtilizationContext()
	ctx.User.Consent = domain.ConsentState{}

	res, events := s.Select(ctx)

	require.Empty(t, res.Recommendations)
	require.Equal(t, guardrail.ConsentDeniedMessage, res.Message)
	require.False(t, res.Metadata.ConsentGranted)
	require.Len(t, events, 1)
	require.Equal(t, domain.GuardrailConsentDenied, events[0].Kind)
}

func TestSelectGeneralPersonaIsEmptyWithMessage(t *testing.T) {
	s := defaultSelector(t)
	ctx := Context{
		User:       consentingUser("user-b", domain.IncomeTierLow),
		Signals:    domain.SignalSet{UserID: "user-b"},
		Assignment: domain.PersonaAssignment{UserID: "user-b", Persona: domain.PersonaGeneral},
	}

	res, events := s.Select(ctx)

	require.Empty(t, res.Recommendations)
	require.NotEmpty(t, res.Message)
	require.Empty(t, events)
}

func TestSelectPredatoryOffersNeverSurface(t *testing.T) {
	cat := mustCatalog(t, `
version: "test"
entries:
  - id: edu-1
    type: education
    persona: high_utilization
    category: credit
    topic: utilization
    title: "Utilization basics"
    rationale_template: "Utilization is {max_utilization}."
  - id: edu-2
    type: education
    persona: high_utilization
    category: budgeting
    topic: payoff
    title: "Payoff basics"
    rationale_template: "Balances total {total_credit_balance}."
  - id: edu-3
    type: education
    persona: high_utilization
    category: loans
    topic: consolidation
    title: "Consolidation basics"
    rationale_template: "Interest runs about {interest_estimate} monthly."
  - id: offer-bad
    type: offer
    persona: high_utilization
    category: payday_loan
    topic: fast_cash
    title: "Fast cash today"
    rationale_template: "Cash against your {interest_estimate}."
  - id: offer-ok
    type: offer
    persona: high_utilization
    category: credit
    topic: balance_transfer
    title: "Transfer card"
    rationale_template: "Transfer {total_credit_balance} at a lower rate."
`)
	s := NewSelector(cat, nil)

	res, events := s.Select(highUtilizationContext())

	for _, rec := range res.Recommendations {
		require.NotEqual(t, "Fast cash today", rec.Title)
		require.NotEqual(t, "payday_loan", rec.Category)
	}
	var blocked int
	for _, ev := range events {
		if ev.Kind == domain.GuardrailOfferBlocked {
			blocked++
			require.Equal(t, "Fast cash today", ev.Subject)
			require.NotEmpty(t, ev.Reason)
		}
	}
	require.Equal(t, 1, blocked)
}

func TestSelectDeduplicatesPartnerEquivalentEducation(t *testing.T) {
	cat := mustCatalog(t, `
version: "test"
entries:
  - id: edu-partner
    type: education
    persona: high_utilization
    category: budgeting
    topic: balance_transfer
    title: "Balance transfers explained"
    partner_equivalent: true
    rationale_template: "At {max_utilization} a transfer may help."
  - id: edu-kept
    type: education
    persona: high_utilization
    category: credit
    topic: utilization
    title: "Utilization basics"
    rationale_template: "Utilization is {max_utilization}."
  - id: offer-transfer
    type: offer
    persona: high_utilization
    category: credit
    topic: balance_transfer
    title: "Transfer card"
    rationale_template: "Transfer {total_credit_balance} at a lower rate."
`)
	s := NewSelector(cat, nil)

	res, _ := s.Select(highUtilizationContext())

	titles := make([]string, 0, len(res.Recommendations))
	for _, rec := range res.Recommendations {
		titles = append(titles, rec.Title)
	}
	require.Contains(t, titles, "Transfer card", "offers win the topic")
	require.Contains(t, titles, "Utilization basics")
	require.NotContains(t, titles, "Balance transfers explained", "partner-equivalent education deduplicated")
}

func TestSelectCategoryCapAcrossPools(t *testing.T) {
	cat := mustCatalog(t, `
version: "test"
entries:
  - id: edu-1
    type: education
    persona: high_utilization
    category: credit
    topic: t1
    title: "A credit item"
    rationale_template: "Utilization is {max_utilization}."
  - id: edu-2
    type: education
    persona: high_utilization
    category: credit
    topic: t2
    title: "B credit item"
    rationale_template: "Balances total {total_credit_balance}."
  - id: edu-3
    type: education
    persona: high_utilization
    category: credit
    topic: t3
    title: "C credit item"
    rationale_template: "Interest is {interest_estimate}."
  - id: offer-1
    type: offer
    persona: high_utilization
    category: credit
    topic: t4
    title: "D credit offer"
    rationale_template: "Transfer {total_credit_balance}."
`)
	s := NewSelector(cat, nil)

	res, _ := s.Select(highUtilizationContext())

	var creditItems int
	for _, rec := range res.Recommendations {
		if rec.Category == "credit" {
			creditItems++
		}
	}
	require.Equal(t, categoryCap, creditItems, "at most two items per category across both pools")
}

func TestSelectEligibilityRemovals(t *testing.T) {
	cat := mustCatalog(t, `
version: "test"
entries:
  - id: edu-1
    type: education
    persona: high_utilization
    category: credit
    topic: utilization
    title: "Utilization basics"
    rationale_template: "Utilization is {max_utilization}."
  - id: offer-tier
    type: offer
    persona: high_utilization
    category: loans
    topic: consolidation
    title: "Consolidation loan"
    rationale_template: "Consolidate {total_credit_balance}."
    eligibility:
      min_income_tier: high
  - id: offer-holding
    type: offer
    persona: high_utilization
    category: savings
    topic: high_yield
    title: "High-yield savings"
    rationale_template: "Move savings of {savings_balance}."
    eligibility:
      excluded_account_types: [savings]
`)
	s := NewSelector(cat, nil)

	// Middle tier user who already holds a savings account.
	res, events := s.Select(highUtilizationContext())

	for _, rec := range res.Recommendations {
		require.NotEqual(t, "Consolidation loan", rec.Title)
		require.NotEqual(t, "High-yield savings", rec.Title)
	}
	reasons := map[string]string{}
	for _, ev := range events {
		if ev.Kind == domain.GuardrailCandidateIneligible {
			reasons[ev.Subject] = ev.Reason
		}
	}
	require.Contains(t, reasons["Consolidation loan"], "income tier")
	require.Contains(t, reasons["High-yield savings"], "savings account")
}

func TestSelectToneViolationRecordedButKept(t *testing.T) {
	cat := mustCatalog(t, `
version: "test"
entries:
  - id: edu-tone
    type: education
    persona: high_utilization
    category: credit
    topic: utilization
    title: "Pushy item"
    rationale_template: "You should cut utilization from {max_utilization}."
`)
	s := NewSelector(cat, nil)

	res, events := s.Select(highUtilizationContext())

	require.Len(t, res.Recommendations, 1, "tone violations never remove items")
	require.False(t, res.Metadata.ToneCheckPassed)

	var tone []domain.GuardrailEvent
	for _, ev := range events {
		if ev.Kind == domain.GuardrailToneViolation {
			tone = append(tone, ev)
		}
	}
	require.Len(t, tone, 1)
	require.Equal(t, "Pushy item", tone[0].Subject)
	require.NotEmpty(t, tone[0].Suggestion)
}

func TestSelectRationaleRoundTrip(t *testing.T) {
	s := defaultSelector(t)
	ctx := highUtilizationContext()

	res, _ := s.Select(ctx)
	require.NotEmpty(t, res.Recommendations)

	vals := templateValues(ctx)
	// Any rationale that mentions a utilization figure must carry the exact
	// formatted value from the signal set.
	for _, rec := range res.Recommendations {
		if strings.Contains(rec.Rationale, "%") && strings.Contains(rec.Rationale, "utilization") {
			require.Contains(t, rec.Rationale, vals["max_utilization"])
		}
	}
}

func mustCatalog(t *testing.T, content string) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}
