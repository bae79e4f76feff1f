// =============================================================================
// Political Fund Report Compiler - Category Definitions
// =============================================================================
//
// This file defines the ledger categories the report understands. A category
// key is the stable identifier the transaction source files a transaction
// under; the label is the wording the report sheets print.
//
// CATEGORY GROUPS:
//   - Income:    business, loans, grants, other income, personal donations
//   - Routine:   personnel, utilities, supplies, office (経常経費)
//   - Political: nine political-activity categories (政治活動費)
//
// =============================================================================

package policy

// TransactionType is the direction of a ledger transaction.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Category is a ledger category key.
type Category string

const (
	BusinessIncome   Category = "business_income"
	LoanIncome       Category = "loan_income"
	GrantIncome      Category = "grant_income"
	OtherIncome      Category = "other_income"
	PersonalDonation Category = "personal_donation"

	Personnel Category = "personnel"
	Utilities Category = "utilities"
	Supplies  Category = "supplies"
	Office    Category = "office"

	OrganizationalActivity Category = "organizational_activity"
	Election               Category = "election"
	Publication            Category = "publication"
	Advertising            Category = "advertising"
	FundraisingParty       Category = "fundraising_party"
	OtherBusiness          Category = "other_business"
	Research               Category = "research"
	DonationsGrants        Category = "donations_grants"
	OtherExpense           Category = "other_expense"
)

var categoryLabels = map[Category]string{
	BusinessIncome:         "事業による収入",
	LoanIncome:             "借入金",
	GrantIncome:            "本部又は支部から供与された交付金",
	OtherIncome:            "その他の収入",
	PersonalDonation:       "個人からの寄附",
	Personnel:              "人件費",
	Utilities:              "光熱水費",
	Supplies:               "備品・消耗品費",
	Office:                 "事務所費",
	OrganizationalActivity: "組織活動費",
	Election:               "選挙関係費",
	Publication:            "機関紙誌の発行事業費",
	Advertising:            "宣伝事業費",
	FundraisingParty:       "政治資金パーティー開催事業費",
	OtherBusiness:          "その他の事業費",
	Research:               "調査研究費",
	DonationsGrants:        "寄附・交付金",
	OtherExpense:           "その他の経費",
}

// Label returns the sheet wording for the category, or the key itself when
// the category is unknown.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// IncomeCategories lists the income-side categories in sheet order.
func IncomeCategories() []Category {
	return []Category{BusinessIncome, LoanIncome, GrantIncome, OtherIncome}
}

// RoutineCategories lists the itemized routine-expense categories
// (SYUUSHI07_14 KUBUN1..3). Personnel is reported as a total only.
func RoutineCategories() []Category {
	return []Category{Utilities, Supplies, Office}
}

// PoliticalCategories lists the political-activity categories in
// SYUUSHI07_15 KUBUN order.
func PoliticalCategories() []Category {
	return []Category{
		OrganizationalActivity,
		Election,
		Publication,
		Advertising,
		FundraisingParty,
		OtherBusiness,
		Research,
		DonationsGrants,
		OtherExpense,
	}
}

// ExpenseCategories lists every expense category, personnel first.
func ExpenseCategories() []Category {
	out := []Category{Personnel}
	out = append(out, RoutineCategories()...)
	return append(out, PoliticalCategories()...)
}

// DirectionOf returns the transaction type a category is filed under.
// ok is false for unknown categories.
func DirectionOf(c Category) (t TransactionType, ok bool) {
	if c == PersonalDonation {
		return Income, true
	}
	for _, ic := range IncomeCategories() {
		if c == ic {
			return Income, true
		}
	}
	for _, ec := range ExpenseCategories() {
		if c == ec {
			return Expense, true
		}
	}
	return "", false
}

// IsMultiSheet reports whether a category is reported as one sheet per
// business (機関紙誌・宣伝・パーティー・その他の事業).
func IsMultiSheet(c Category) bool {
	switch c {
	case Publication, Advertising, FundraisingParty, OtherBusiness:
		return true
	}
	return false
}
