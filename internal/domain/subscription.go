package domain

import (
	"encoding/json"
	"fmt"
)

// Tier is a named subscription level controlling quotas and history windows.
type Tier string

// Known subscription tiers, ordered free < premium < enterprise.
const (
	TierFree       Tier = "free"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// ParseTier validates a tier name against the plan catalog.
// Unlike LookupPlan, it rejects unknown names instead of defaulting,
// because it guards the upgrade operation.
func ParseTier(name string) (Tier, error) {
	tier := Tier(name)
	if _, ok := plans[tier]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, name)
	}
	return tier, nil
}

// Limit is a plan ceiling that is either a finite count or unbounded.
// The unbounded case is an explicit sentinel rather than a numeric
// infinity, so comparisons never go through float arithmetic.
type Limit struct {
	value     int
	unbounded bool
}

// LimitOf returns a finite limit.
func LimitOf(n int) Limit {
	return Limit{value: n}
}

// Unlimited returns the unbounded sentinel.
func Unlimited() Limit {
	return Limit{unbounded: true}
}

// IsUnbounded reports whether the limit is the unbounded sentinel.
func (l Limit) IsUnbounded() bool {
	return l.unbounded
}

// Value returns the finite ceiling. It is meaningless when IsUnbounded.
func (l Limit) Value() int {
	return l.value
}

// Reached reports whether current usage has hit the ceiling.
// An unbounded limit is never reached.
func (l Limit) Reached(current int) bool {
	if l.unbounded {
		return false
	}
	return current >= l.value
}

// MarshalJSON encodes a finite limit as a number and the unbounded
// sentinel as the string "unlimited".
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.unbounded {
		return json.Marshal("unlimited")
	}
	return json.Marshal(l.value)
}

// UnmarshalJSON accepts either a number or the string "unlimited".
func (l *Limit) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = LimitOf(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s != "unlimited" {
		return fmt.Errorf("invalid limit value %s", data)
	}
	*l = Unlimited()
	return nil
}

// Plan describes what a subscription tier grants: the monthly entry quota,
// the listing history window, and the marketing feature list.
type Plan struct {
	Tier         Tier    `json:"tier"`
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthly_price"`
	MaxEntries   Limit   `json:"max_entries"`
	HistoryDays  Limit   `json:"history_days"`
	Features     []string `json:"features"`
}

// plans is the immutable tier catalog. It is package-level constant data
// initialized once at startup and never mutated afterwards.
var plans = map[Tier]Plan{
	TierFree: {
		Tier:         TierFree,
		Name:         "Free",
		MonthlyPrice: 0,
		MaxEntries:   LimitOf(5),
		HistoryDays:  LimitOf(7),
		Features:     []string{"Basic emotion analysis", "7-day history"},
	},
	TierPremium: {
		Tier:         TierPremium,
		Name:         "Premium",
		MonthlyPrice: 9.99,
		MaxEntries:   LimitOf(1000),
		HistoryDays:  LimitOf(30),
		Features: []string{
			"Detailed emotion analysis",
			"30-day history",
			"Advanced analytics",
		},
	},
	TierEnterprise: {
		Tier:         TierEnterprise,
		Name:         "Enterprise",
		MonthlyPrice: 29.99,
		MaxEntries:   Unlimited(),
		HistoryDays:  Unlimited(),
		Features: []string{
			"Unlimited entries",
			"Unlimited history",
			"Advanced analytics",
			"API access",
		},
	},
}

// planOrder lists tiers from cheapest to most capable, for catalog listings.
var planOrder = []Tier{TierFree, TierPremium, TierEnterprise}

// LookupPlan resolves a tier to its plan. Unknown tiers resolve to the free
// plan rather than failing, so a corrupt or legacy tier value degrades to
// the most restrictive quota instead of breaking reads.
func LookupPlan(tier Tier) Plan {
	if plan, ok := plans[tier]; ok {
		return plan
	}
	return plans[TierFree]
}

// Plans returns the full catalog in ascending tier order.
func Plans() []Plan {
	out := make([]Plan, 0, len(planOrder))
	for _, tier := range planOrder {
		out = append(out, plans[tier])
	}
	return out
}
