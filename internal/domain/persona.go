package domain

import "time"

// Persona is one label from the fixed six-value behavioral set.
type Persona string

const (
	PersonaHighUtilization   Persona = "high_utilization"
	PersonaVariableIncome    Persona = "variable_income"
	PersonaSubscriptionHeavy Persona = "subscription_heavy"
	PersonaCashflowOptimizer Persona = "cashflow_optimizer"
	PersonaSavingsBuilder    Persona = "savings_builder"
	PersonaGeneral           Persona = "general"
)

// Personas lists every valid label in classifier priority order.
func Personas() []Persona {
	return []Persona{
		PersonaHighUtilization,
		PersonaVariableIncome,
		PersonaSubscriptionHeavy,
		PersonaCashflowOptimizer,
		PersonaSavingsBuilder,
		PersonaGeneral,
	}
}

// Valid reports whether p belongs to the fixed label set.
func (p Persona) Valid() bool {
	switch p {
	case PersonaHighUtilization, PersonaVariableIncome, PersonaSubscriptionHeavy,
		PersonaCashflowOptimizer, PersonaSavingsBuilder, PersonaGeneral:
		return true
	}
	return false
}

// PersonaAssignment is the classifier's decision for one user in one run,
// including the exact sub-predicates that matched for audit.
type PersonaAssignment struct {
	UserID          string
	Persona         Persona
	MatchedCriteria []string
	AssignedAt      time.Time
}
