package converter

import (
	"strconv"

	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// ExtractGrantExpenditure collects every grant-funded expense row into the
// SYUUSHI07_16 sheet. Rows are visited routine sheets first, then political
// sheets in KUBUN order, and are renumbered 1, 2, 3 ... across the whole
// output. Each row keeps the label of the sheet it came from.
func ExtractGrantExpenditure(data types.ExpenseData) types.GrantExpenditureSection {
	section := types.GrantExpenditureSection{Rows: []types.GrantExpenditureRow{}}

	for _, sheet := range data.Sheets() {
		for _, r := range sheet.Section.Rows {
			if !r.GrantFunded {
				continue
			}
			section.Rows = append(section.Rows, types.GrantExpenditureRow{
				RowBase: types.RowBase{
					RowNumber: strconv.Itoa(len(section.Rows) + 1),
					Amount:    r.Amount,
				},
				SourceCategory: sheet.Category,
				SourceLabel:    sheet.Category.Label(),
				Purpose:        r.Purpose,
				Date:           r.Date,
				Counterpart:    r.Counterpart,
				Remarks:        r.Remarks,
			})
			section.TotalAmount += r.Amount
		}
	}
	return section
}

// ShouldOutputSheet reports whether the grant-expenditure sheet is emitted.
func ShouldOutputSheet(section types.GrantExpenditureSection) bool {
	return len(section.Rows) > 0
}

// BuildSummary computes the SYUUSHI07_02 overview from the converted
// aggregates and the previous year's carryover.
func BuildSummary(carryover float64, income types.IncomeData, donation types.DonationData, expense types.ExpenseData, grant types.GrantExpenditureSection) types.SummaryData {
	s := types.SummaryData{
		PreviousYearCarryover: RoundAmount(carryover),

		PersonalDonationTotal: donation.PersonalDonation.TotalAmount,
		DonationTotal:         donation.Total(),
		BusinessIncomeTotal:   income.BusinessIncome.TotalAmount,
		LoanIncomeTotal:       income.LoanIncome.TotalAmount,
		GrantIncomeTotal:      income.GrantIncome.TotalAmount,
		OtherIncomeTotal:      income.OtherIncome.TotalAmount,

		PersonnelTotal:   expense.Personnel.TotalAmount,
		RoutineTotal:     expense.RoutineTotal(),
		PoliticalTotal:   expense.PoliticalTotal(),
		GrantFundedTotal: grant.TotalAmount + expense.Personnel.GrantFundedAmount,
	}

	s.CurrentYearIncome = income.Total() + donation.Total()
	s.TotalIncome = s.PreviousYearCarryover + s.CurrentYearIncome
	s.TotalExpense = expense.Total()
	s.NextYearCarryover = s.TotalIncome - s.TotalExpense
	return s
}
