package types

import "github.com/ginjaninja78/fund-report-compiler/internal/policy"

// Section is one report sheet.
//
// Invariant: sum(Rows[i].Amount) + UnderThresholdAmount == TotalAmount.
// UnderThresholdAmount is nil for sheets that itemize every transaction.
type Section[R Row] struct {
	TotalAmount          int64
	UnderThresholdAmount *int64
	Rows                 []R
}

// HasData reports whether the sheet has a row or a non-zero total.
func (s Section[R]) HasData() bool {
	return len(s.Rows) > 0 || s.TotalAmount != 0
}

// RowsAmount sums the itemized amounts.
func (s Section[R]) RowsAmount() int64 {
	var sum int64
	for _, r := range s.Rows {
		sum += r.Yen()
	}
	return sum
}

type (
	BusinessIncomeSection   = Section[BusinessIncomeRow]
	LoanIncomeSection       = Section[LoanIncomeRow]
	GrantIncomeSection      = Section[GrantIncomeRow]
	OtherIncomeSection      = Section[OtherIncomeRow]
	PersonalDonationSection = Section[PersonalDonationRow]
	ExpenseSection          = Section[ExpenseRow]
	GrantExpenditureSection = Section[GrantExpenditureRow]
)

// IncomeData is the income aggregate.
type IncomeData struct {
	BusinessIncome BusinessIncomeSection
	LoanIncome     LoanIncomeSection
	GrantIncome    GrantIncomeSection
	OtherIncome    OtherIncomeSection
}

// Total sums every income sheet.
func (d IncomeData) Total() int64 {
	return d.BusinessIncome.TotalAmount + d.LoanIncome.TotalAmount +
		d.GrantIncome.TotalAmount + d.OtherIncome.TotalAmount
}

// DonationData is the donation aggregate.
type DonationData struct {
	PersonalDonation PersonalDonationSection
}

// Total sums every donation sheet.
func (d DonationData) Total() int64 {
	return d.PersonalDonation.TotalAmount
}

// PersonnelSection carries personnel expenses, which are never itemized.
type PersonnelSection struct {
	TotalAmount       int64
	GrantFundedAmount int64
}

// BusinessSheet is one sheet of a multi-sheet category.
type BusinessSheet struct {
	BusinessName string
	Section      ExpenseSection
}

// ExpenseData is the expense aggregate: personnel, three routine sheets and
// nine political-activity categories, four of which hold one sheet per
// business.
type ExpenseData struct {
	Personnel PersonnelSection

	Utilities ExpenseSection
	Supplies  ExpenseSection
	Office    ExpenseSection

	OrganizationalActivity ExpenseSection
	Election               ExpenseSection
	Publication            []BusinessSheet
	Advertising            []BusinessSheet
	FundraisingParty       []BusinessSheet
	OtherBusiness          []BusinessSheet
	Research               ExpenseSection
	DonationsGrants        ExpenseSection
	OtherExpense           ExpenseSection
}

// ExpenseSheet is a flattened view of one itemized expense sheet.
type ExpenseSheet struct {
	Category     policy.Category
	BusinessName string
	Section      ExpenseSection
}

// Sheets flattens every itemized sheet in routine-then-political order.
func (d ExpenseData) Sheets() []ExpenseSheet {
	var out []ExpenseSheet
	for _, c := range append(policy.RoutineCategories(), policy.PoliticalCategories()...) {
		out = append(out, d.CategorySheets(c)...)
	}
	return out
}

// CategorySheets returns the sheets of a single itemized category.
func (d ExpenseData) CategorySheets(c policy.Category) []ExpenseSheet {
	if policy.IsMultiSheet(c) {
		var sheets []BusinessSheet
		switch c {
		case policy.Publication:
			sheets = d.Publication
		case policy.Advertising:
			sheets = d.Advertising
		case policy.FundraisingParty:
			sheets = d.FundraisingParty
		case policy.OtherBusiness:
			sheets = d.OtherBusiness
		}
		out := make([]ExpenseSheet, 0, len(sheets))
		for _, s := range sheets {
			out = append(out, ExpenseSheet{Category: c, BusinessName: s.BusinessName, Section: s.Section})
		}
		return out
	}

	var s ExpenseSection
	switch c {
	case policy.Utilities:
		s = d.Utilities
	case policy.Supplies:
		s = d.Supplies
	case policy.Office:
		s = d.Office
	case policy.OrganizationalActivity:
		s = d.OrganizationalActivity
	case policy.Election:
		s = d.Election
	case policy.Research:
		s = d.Research
	case policy.DonationsGrants:
		s = d.DonationsGrants
	case policy.OtherExpense:
		s = d.OtherExpense
	default:
		return nil
	}
	return []ExpenseSheet{{Category: c, Section: s}}
}

// CategoryTotal sums a category across its sheets. Personnel included.
func (d ExpenseData) CategoryTotal(c policy.Category) int64 {
	if c == policy.Personnel {
		return d.Personnel.TotalAmount
	}
	var sum int64
	for _, s := range d.CategorySheets(c) {
		sum += s.Section.TotalAmount
	}
	return sum
}

// CategoryHasData reports whether any sheet of the category has data.
func (d ExpenseData) CategoryHasData(c policy.Category) bool {
	if c == policy.Personnel {
		return d.Personnel.TotalAmount != 0
	}
	for _, s := range d.CategorySheets(c) {
		if s.Section.HasData() {
			return true
		}
	}
	return false
}

// RoutineTotal sums personnel and the routine sheets.
func (d ExpenseData) RoutineTotal() int64 {
	sum := d.Personnel.TotalAmount
	for _, c := range policy.RoutineCategories() {
		sum += d.CategoryTotal(c)
	}
	return sum
}

// PoliticalTotal sums the political-activity sheets.
func (d ExpenseData) PoliticalTotal() int64 {
	var sum int64
	for _, c := range policy.PoliticalCategories() {
		sum += d.CategoryTotal(c)
	}
	return sum
}

// Total sums every expense.
func (d ExpenseData) Total() int64 {
	return d.RoutineTotal() + d.PoliticalTotal()
}

// SummaryData is the SYUUSHI07_02 overview.
type SummaryData struct {
	PreviousYearCarryover int64
	CurrentYearIncome     int64
	TotalIncome           int64
	TotalExpense          int64
	NextYearCarryover     int64

	PersonalDonationTotal int64
	DonationTotal         int64
	BusinessIncomeTotal   int64
	LoanIncomeTotal       int64
	GrantIncomeTotal      int64
	OtherIncomeTotal      int64

	PersonnelTotal   int64
	RoutineTotal     int64
	PoliticalTotal   int64
	GrantFundedTotal int64
}
