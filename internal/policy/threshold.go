// =============================================================================
// Political Fund Report Compiler - Threshold Policy
// =============================================================================
//
// The threshold policy answers two questions for a (transaction type,
// category) pair:
//   1. Does the report need counterpart or donor detail for it at all?
//   2. From which rounded yen amount is a transaction itemized?
//
// The table is immutable once built. It is loaded once at start-up (defaults
// below, optionally overridden from the YAML config) and injected into the
// converters.
//
// =============================================================================

package policy

import (
	"fmt"
	"sort"
)

// Detail states whether a category requires counterpart/donor detail.
type Detail string

const (
	DetailNone     Detail = "none"
	DetailRequired Detail = "required"
)

// Yen cutoffs defined by the filing rules.
const (
	RoutineThreshold     int64 = 100000
	PoliticalThreshold   int64 = 50000
	OtherIncomeThreshold int64 = 100000
)

// Rule is one row of the threshold table.
type Rule struct {
	TransactionType TransactionType `yaml:"transaction_type"`
	Category        Category        `yaml:"category"`
	Detail          Detail          `yaml:"detail"`

	// Threshold is the itemization cutoff in yen. Zero means every
	// transaction is itemized.
	Threshold int64 `yaml:"threshold"`
}

type ruleKey struct {
	transactionType TransactionType
	category        Category
}

// ThresholdPolicy is the immutable lookup table.
type ThresholdPolicy struct {
	rules map[ruleKey]Rule
}

// DefaultRules returns the statutory table.
func DefaultRules() []Rule {
	rules := []Rule{
		{TransactionType: Income, Category: LoanIncome, Detail: DetailRequired},
		{TransactionType: Income, Category: GrantIncome, Detail: DetailRequired},
		{TransactionType: Income, Category: OtherIncome, Detail: DetailNone, Threshold: OtherIncomeThreshold},
	}
	for _, c := range RoutineCategories() {
		rules = append(rules, Rule{TransactionType: Expense, Category: c, Detail: DetailRequired, Threshold: RoutineThreshold})
	}
	for _, c := range PoliticalCategories() {
		rules = append(rules, Rule{TransactionType: Expense, Category: c, Detail: DetailRequired, Threshold: PoliticalThreshold})
	}
	return rules
}

// DefaultThresholdPolicy builds the policy from DefaultRules.
func DefaultThresholdPolicy() *ThresholdPolicy {
	p, err := NewThresholdPolicy(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("default threshold rules are invalid: %v", err))
	}
	return p
}

// NewThresholdPolicy builds a policy from rules. Categories that have no rule
// require no detail and have no threshold.
func NewThresholdPolicy(rules []Rule) (*ThresholdPolicy, error) {
	p := &ThresholdPolicy{rules: make(map[ruleKey]Rule, len(rules))}
	for _, r := range rules {
		if r.TransactionType != Income && r.TransactionType != Expense {
			return nil, fmt.Errorf("category %s: unknown transaction type %q", r.Category, r.TransactionType)
		}
		if r.Detail == "" {
			r.Detail = DetailNone
		}
		if r.Detail != DetailNone && r.Detail != DetailRequired {
			return nil, fmt.Errorf("category %s: unknown detail %q", r.Category, r.Detail)
		}
		if r.Threshold < 0 {
			return nil, fmt.Errorf("category %s: negative threshold %d", r.Category, r.Threshold)
		}
		k := ruleKey{r.TransactionType, r.Category}
		if _, dup := p.rules[k]; dup {
			return nil, fmt.Errorf("category %s: duplicate rule for %s", r.Category, r.TransactionType)
		}
		p.rules[k] = r
	}
	return p, nil
}

// IsCounterpartRequired reports whether the category needs counterpart or
// donor detail.
func (p *ThresholdPolicy) IsCounterpartRequired(t TransactionType, c Category) bool {
	return p.rules[ruleKey{t, c}].Detail == DetailRequired
}

// IsAboveDetailThreshold reports whether a rounded amount reaches the
// category's cutoff. Always true for categories without a cutoff.
func (p *ThresholdPolicy) IsAboveDetailThreshold(t TransactionType, c Category, amount int64) bool {
	threshold, ok := p.Threshold(t, c)
	if !ok {
		return true
	}
	return amount >= threshold
}

// RequiresCounterpartDetail is IsCounterpartRequired && IsAboveDetailThreshold.
func (p *ThresholdPolicy) RequiresCounterpartDetail(t TransactionType, c Category, amount int64) bool {
	return p.IsCounterpartRequired(t, c) && p.IsAboveDetailThreshold(t, c, amount)
}

// Threshold returns the itemization cutoff and whether one is defined.
func (p *ThresholdPolicy) Threshold(t TransactionType, c Category) (int64, bool) {
	r, ok := p.rules[ruleKey{t, c}]
	if !ok || r.Threshold == 0 {
		return 0, false
	}
	return r.Threshold, true
}

// Rules returns a copy of the table sorted by type and category.
func (p *ThresholdPolicy) Rules() []Rule {
	out := make([]Rule, 0, len(p.rules))
	for _, r := range p.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TransactionType != out[j].TransactionType {
			return out[i].TransactionType < out[j].TransactionType
		}
		return out[i].Category < out[j].Category
	})
	return out
}
