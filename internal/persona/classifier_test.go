package persona

import (
	"reflect"
	"testing"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

var classifiedAt = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func longWindow(w domain.WindowSignals) domain.WindowSignals {
	w.WindowDays = 180
	return w
}

func TestClassifyPriorityHighUtilizationWins(t *testing.T) {
	// Matches both high_utilization and savings_builder predicates; priority
	// order must pick high_utilization.
	s := domain.SignalSet{
		UserID: "user-1",
		Credit: domain.CreditSignals{
			MaxUtilizationPct:  68,
			UtilizationAbove50: true,
			InterestCharged:    true,
			CardCount:          3,
		},
		Long: longWindow(domain.WindowSignals{
			Savings: domain.SavingsSignals{GrowthPct: 3.2, NetInflow: 400},
		}),
	}

	got := Classify(s, classifiedAt)
	if got.Persona != domain.PersonaHighUtilization {
		t.Fatalf("expected high_utilization, got %s", got.Persona)
	}
	if len(got.MatchedCriteria) == 0 {
		t.Fatalf("expected matched criteria evidence")
	}
}

func TestClassifyUtilizationBoundary(t *testing.T) {
	below := domain.SignalSet{Credit: domain.CreditSignals{MaxUtilizationPct: 49.9}}
	if got := Classify(below, classifiedAt); got.Persona == domain.PersonaHighUtilization {
		t.Fatalf("49.9%% utilization must not classify high_utilization")
	}

	at := domain.SignalSet{Credit: domain.CreditSignals{MaxUtilizationPct: 50.0}}
	if got := Classify(at, classifiedAt); got.Persona != domain.PersonaHighUtilization {
		t.Fatalf("50.0%% utilization must classify high_utilization, got %s", got.Persona)
	}
}

func TestClassifyVariableIncome(t *testing.T) {
	s := domain.SignalSet{
		Long: longWindow(domain.WindowSignals{
			Income: domain.IncomeSignals{
				Detected:         true,
				MedianGapDays:    52,
				CashBufferMonths: 0.6,
				Frequency:        domain.PayFrequencyVariable,
			},
		}),
	}

	got := Classify(s, classifiedAt)
	if got.Persona != domain.PersonaVariableIncome {
		t.Fatalf("expected variable_income, got %s", got.Persona)
	}
}

func TestClassifySubscriptionHeavyRequiresThreeRecurring(t *testing.T) {
	s := domain.SignalSet{
		Long: longWindow(domain.WindowSignals{
			Subscriptions: domain.SubscriptionSignals{
				RecurringCount: 2,
				MonthlySpend:   240,
				SharePct:       35,
			},
		}),
	}

	got := Classify(s, classifiedAt)
	if got.Persona == domain.PersonaSubscriptionHeavy {
		t.Fatalf("recurring count below three must not classify subscription_heavy regardless of spend")
	}

	s.Long.Subscriptions.RecurringCount = 3
	got = Classify(s, classifiedAt)
	if got.Persona != domain.PersonaSubscriptionHeavy {
		t.Fatalf("expected subscription_heavy, got %s", got.Persona)
	}
}

func TestClassifyCashflowOptimizer(t *testing.T) {
	s := domain.SignalSet{
		Long: longWindow(domain.WindowSignals{
			Income: domain.IncomeSignals{
				Detected:         true,
				MedianGapDays:    14,
				CashBufferMonths: 1.2,
			},
			Savings: domain.SavingsSignals{GrowthPct: 0.4, NetInflow: 20},
		}),
	}

	got := Classify(s, classifiedAt)
	if got.Persona != domain.PersonaCashflowOptimizer {
		t.Fatalf("expected cashflow_optimizer, got %s", got.Persona)
	}
}

func TestClassifySavingsBuilder(t *testing.T) {
	s := domain.SignalSet{
		Credit: domain.CreditSignals{MaxUtilizationPct: 12},
		Long: longWindow(domain.WindowSignals{
			Income: domain.IncomeSignals{
				Detected:         true,
				MedianGapDays:    14,
				CashBufferMonths: 3.5,
			},
			Savings: domain.SavingsSignals{GrowthPct: 2.5, NetInflow: 350},
		}),
	}

	got := Classify(s, classifiedAt)
	if got.Persona != domain.PersonaSavingsBuilder {
		t.Fatalf("expected savings_builder, got %s", got.Persona)
	}
}

func TestClassifyZeroSignalsDefaultsToGeneral(t *testing.T) {
	got := Classify(domain.SignalSet{UserID: "empty"}, classifiedAt)
	if got.Persona != domain.PersonaGeneral {
		t.Fatalf("zero signals must classify general, got %s", got.Persona)
	}
	if len(got.MatchedCriteria) != 0 {
		t.Fatalf("default label carries no matched criteria")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	s := domain.SignalSet{
		UserID: "user-9",
		Credit: domain.CreditSignals{MaxUtilizationPct: 81, UtilizationAbove80: true, Overdue: true},
	}

	first := Classify(s, classifiedAt)
	second := Classify(s, classifiedAt)
	if first.Persona != second.Persona {
		t.Fatalf("labels differ: %s vs %s", first.Persona, second.Persona)
	}
	if !reflect.DeepEqual(first.MatchedCriteria, second.MatchedCriteria) {
		t.Fatalf("matched criteria differ: %v vs %v", first.MatchedCriteria, second.MatchedCriteria)
	}
}

func TestClassifyAlwaysYieldsValidLabel(t *testing.T) {
	sets := []domain.SignalSet{
		{},
		{Credit: domain.CreditSignals{MaxUtilizationPct: 95}},
		{Long: longWindow(domain.WindowSignals{Subscriptions: domain.SubscriptionSignals{RecurringCount: 6, MonthlySpend: 120}})},
		{Long: longWindow(domain.WindowSignals{Income: domain.IncomeSignals{Detected: true, MedianGapDays: 60, CashBufferMonths: 0.2}})},
		{Long: longWindow(domain.WindowSignals{Savings: domain.SavingsSignals{NetInflow: 900, GrowthPct: 8}})},
	}

	for i, s := range sets {
		got := Classify(s, classifiedAt)
		if !got.Persona.Valid() {
			t.Errorf("case %d: invalid persona %q", i, got.Persona)
		}
	}
}
