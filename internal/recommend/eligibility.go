package recommend

import (
	"fmt"

	"github.com/mhollis/finadvisor/internal/catalog"
)

// checkEligibility evaluates a candidate's declarative eligibility predicate
// against the user's context. It returns the removal reason when the
// candidate is ineligible.
func checkEligibility(e catalog.Entry, ctx Context) (string, bool) {
	el := e.Eligibility

	if el.MinIncomeTier != "" && ctx.User.IncomeTier.Rank() < el.MinIncomeTier.Rank() {
		return fmt.Sprintf("income tier %q below required %q", ctx.User.IncomeTier, el.MinIncomeTier), false
	}

	for _, excluded := range el.ExcludedAccountTypes {
		for _, a := range ctx.Accounts {
			if a.Type == excluded {
				return fmt.Sprintf("user already holds a %s account", excluded), false
			}
		}
	}

	util := ctx.Signals.Credit.MaxUtilizationPct
	if el.MinUtilizationPct != nil && util < *el.MinUtilizationPct {
		return fmt.Sprintf("utilization %.1f%% below %.0f%% floor", util, *el.MinUtilizationPct), false
	}
	if el.MaxUtilizationPct != nil && util > *el.MaxUtilizationPct {
		return fmt.Sprintf("utilization %.1f%% above %.0f%% ceiling", util, *el.MaxUtilizationPct), false
	}

	if el.MinRecurringCount != nil && ctx.Signals.Long.Subscriptions.RecurringCount < *el.MinRecurringCount {
		return fmt.Sprintf("recurring count %d below %d floor",
			ctx.Signals.Long.Subscriptions.RecurringCount, *el.MinRecurringCount), false
	}

	return "", true
}
