package validation

import (
	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// ValidateIncome checks the four income sheets.
func ValidateIncome(d types.IncomeData) []*ValidationError {
	c := &collector{}

	base := "income.businessIncome"
	c.nonNegative(join(base, "totalAmount"), d.BusinessIncome.TotalAmount)
	for i, r := range d.BusinessIncome.Rows {
		rb := join(base, index("rows", i))
		c.positive(join(rb, "amount"), r.Amount)
		c.required(join(rb, "businessKind"), r.BusinessKind, MaxPurposeLength)
		c.maxLength(join(rb, "remarks"), r.Remarks, MaxRemarksLength)
	}

	base = "income.loanIncome"
	c.nonNegative(join(base, "totalAmount"), d.LoanIncome.TotalAmount)
	for i, r := range d.LoanIncome.Rows {
		rb := join(base, index("rows", i))
		c.positive(join(rb, "amount"), r.Amount)
		party(c, join(rb, "lender"), r.Lender)
		c.maxLength(join(rb, "remarks"), r.Remarks, MaxRemarksLength)
	}

	base = "income.grantIncome"
	c.nonNegative(join(base, "totalAmount"), d.GrantIncome.TotalAmount)
	for i, r := range d.GrantIncome.Rows {
		rb := join(base, index("rows", i))
		c.positive(join(rb, "amount"), r.Amount)
		party(c, join(rb, "grantor"), r.Grantor)
		c.maxLength(join(rb, "remarks"), r.Remarks, MaxRemarksLength)
	}

	base = "income.otherIncome"
	c.nonNegative(join(base, "totalAmount"), d.OtherIncome.TotalAmount)
	under(c, base, d.OtherIncome.UnderThresholdAmount)
	for i, r := range d.OtherIncome.Rows {
		rb := join(base, index("rows", i))
		c.positive(join(rb, "amount"), r.Amount)
		c.required(join(rb, "description"), r.Description, MaxPurposeLength)
		c.maxLength(join(rb, "remarks"), r.Remarks, MaxRemarksLength)
	}

	return c.errs
}

// ValidateDonation checks the personal donation sheet.
func ValidateDonation(d types.DonationData) []*ValidationError {
	c := &collector{}

	base := "donation.personalDonation"
	c.nonNegative(join(base, "totalAmount"), d.PersonalDonation.TotalAmount)
	for i, r := range d.PersonalDonation.Rows {
		rb := join(base, index("rows", i))
		c.positive(join(rb, "amount"), r.Amount)
		party(c, join(rb, "donor"), r.Donor)
		c.maxLength(join(rb, "occupation"), r.Occupation, MaxPersonNameLength)
		c.maxLength(join(rb, "remarks"), r.Remarks, MaxRemarksLength)
	}
	return c.errs
}

// ValidateExpense checks personnel and every itemized expense sheet.
func ValidateExpense(d types.ExpenseData) []*ValidationError {
	c := &collector{}

	c.nonNegative("expense.personnel.totalAmount", d.Personnel.TotalAmount)
	c.nonNegative("expense.personnel.grantFundedAmount", d.Personnel.GrantFundedAmount)

	for _, category := range append(policy.RoutineCategories(), policy.PoliticalCategories()...) {
		for i, sheet := range d.CategorySheets(category) {
			base := join("expense", jsonName(category))
			if policy.IsMultiSheet(category) {
				base = index(base, i)
				c.required(join(base, "businessName"), sheet.BusinessName, MaxNameLength)
			}
			expenseSection(c, base, sheet.Section)
		}
	}
	return c.errs
}

// ValidateGrantExpenditure checks the grant-expenditure sheet.
func ValidateGrantExpenditure(s types.GrantExpenditureSection) []*ValidationError {
	c := &collector{}

	base := "grantExpenditure"
	c.nonNegative(join(base, "totalAmount"), s.TotalAmount)
	for i, r := range s.Rows {
		rb := join(base, index("rows", i))
		c.positive(join(rb, "amount"), r.Amount)
		c.required(join(rb, "sourceLabel"), r.SourceLabel, MaxPurposeLength)
		c.required(join(rb, "purpose"), r.Purpose, MaxPurposeLength)
		party(c, join(rb, "counterpart"), r.Counterpart)
		c.maxLength(join(rb, "remarks"), r.Remarks, MaxRemarksLength)
	}
	return c.errs
}

// Validate runs every validator over a report and concatenates the errors
// in document order.
func Validate(data *types.ReportData) []*ValidationError {
	var errs []*ValidationError
	errs = append(errs, ValidateProfile(data.Profile)...)
	errs = append(errs, ValidateDonation(data.Donation)...)
	errs = append(errs, ValidateIncome(data.Income)...)
	errs = append(errs, ValidateExpense(data.Expense)...)
	errs = append(errs, ValidateGrantExpenditure(data.GrantExpenditure)...)
	return errs
}

func expenseSection(c *collector, base string, s types.ExpenseSection) {
	c.nonNegative(join(base, "totalAmount"), s.TotalAmount)
	under(c, base, s.UnderThresholdAmount)
	for i, r := range s.Rows {
		rb := join(base, index("rows", i))
		c.positive(join(rb, "amount"), r.Amount)
		c.required(join(rb, "purpose"), r.Purpose, MaxPurposeLength)
		if r.Date.IsZero() {
			c.add(Required, join(rb, "date"))
		}
		party(c, join(rb, "counterpart"), r.Counterpart)
		c.maxLength(join(rb, "remarks"), r.Remarks, MaxRemarksLength)
	}
}

func party(c *collector, base string, p types.Party) {
	c.required(join(base, "name"), p.Name, MaxNameLength)
	c.required(join(base, "address"), p.Address, MaxAddressLength)
}

func under(c *collector, base string, amount *int64) {
	if amount != nil {
		c.nonNegative(join(base, "underThresholdAmount"), *amount)
	}
}

// jsonName turns a category key into the lowerCamel path segment.
func jsonName(category policy.Category) string {
	key := string(category)
	out := make([]byte, 0, len(key))
	upper := false
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch == '_' {
			upper = true
			continue
		}
		if upper && ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		upper = false
		out = append(out, ch)
	}
	return string(out)
}
