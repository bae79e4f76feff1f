// =============================================================================
// Political Fund Report Compiler - Section Serializers
// =============================================================================
//
// Serializers turn converted, already rounded sections into element trees
// with the fixed tag names of the filing schema.
//
// SHEET LAYOUT:
//   <SYUUSHI07_xx>
//     <SHEET>
//       <KINGAKU_GK>total</KINGAKU_GK>
//       <MIMAN_GK>under-threshold total</MIMAN_GK>   <!-- empty when n/a -->
//       <ROW>…</ROW>
//     </SHEET>
//   </SYUUSHI07_xx>
//
// Expense forms nest one KUBUN element per category:
//   <SYUUSHI07_15><KUBUN5><SHEET>…</SHEET><SHEET>…</SHEET></KUBUN5></SYUUSHI07_15>
//
// =============================================================================

package xmlwriter

import (
	"fmt"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// =============================================================================
// ROWS
// =============================================================================

// RowElement renders one row. Every row variant has a case; adding a form
// means adding its case here.
func RowElement(r types.Row) Element {
	row := Node("ROW", Leaf("ICHIREN_NO", r.Number()))

	switch v := r.(type) {
	case types.BusinessIncomeRow:
		return row.Add(
			Leaf("JIGYOU_SYURUI", v.BusinessKind),
			Leaf("KINGAKU", FormatYen(v.Amount)),
			Leaf("BIKOU", v.Remarks),
		)
	case types.LoanIncomeRow:
		return row.Add(
			Leaf("KINGAKU", FormatYen(v.Amount)),
			Leaf("DT", FormatWareki(v.Date)),
		).Add(party(v.Lender)...).Add(
			Leaf("BIKOU", v.Remarks),
		)
	case types.GrantIncomeRow:
		return row.Add(
			Leaf("KINGAKU", FormatYen(v.Amount)),
			Leaf("DT", FormatWareki(v.Date)),
		).Add(party(v.Grantor)...).Add(
			Leaf("BIKOU", v.Remarks),
		)
	case types.OtherIncomeRow:
		return row.Add(
			Leaf("TEKIYOU", v.Description),
			Leaf("KINGAKU", FormatYen(v.Amount)),
			Leaf("BIKOU", v.Remarks),
		)
	case types.PersonalDonationRow:
		return row.Add(
			Leaf("KINGAKU", FormatYen(v.Amount)),
			Leaf("DT", FormatWareki(v.Date)),
		).Add(party(v.Donor)...).Add(
			Leaf("SYOKUGYO", v.Occupation),
			Leaf("BIKOU", v.Remarks),
		)
	case types.ExpenseRow:
		return row.Add(
			Leaf("MOKUTEKI", v.Purpose),
			Leaf("KINGAKU", FormatYen(v.Amount)),
			Leaf("DT", FormatWareki(v.Date)),
		).Add(party(v.Counterpart)...).Add(
			Leaf("BIKOU", v.Remarks),
			Leaf("KOUFUKIN", flag(v.GrantFunded)),
		)
	case types.GrantExpenditureRow:
		return row.Add(
			Leaf("SISYUTU_KMK", v.SourceLabel),
			Leaf("MOKUTEKI", v.Purpose),
			Leaf("KINGAKU", FormatYen(v.Amount)),
			Leaf("DT", FormatWareki(v.Date)),
		).Add(party(v.Counterpart)...).Add(
			Leaf("BIKOU", v.Remarks),
		)
	default:
		panic(fmt.Sprintf("xmlwriter: unhandled row type %T", r))
	}
}

func party(p types.Party) []Element {
	return []Element{Leaf("NM", p.Name), Leaf("ADR", p.Address)}
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// =============================================================================
// SHEETS
// =============================================================================

// SheetElement renders a section as a SHEET. head elements are written
// before the totals.
func SheetElement[R types.Row](s types.Section[R], head ...Element) Element {
	sheet := Node("SHEET", head...)
	sheet = sheet.Add(
		Leaf("KINGAKU_GK", FormatYen(s.TotalAmount)),
		Leaf("MIMAN_GK", optionalYen(s.UnderThresholdAmount)),
	)
	for _, r := range s.Rows {
		sheet = sheet.Add(RowElement(r))
	}
	return sheet
}

func optionalYen(v *int64) string {
	if v == nil {
		return ""
	}
	return FormatYen(*v)
}

// SerializeBusinessIncome renders SYUUSHI07_03.
func SerializeBusinessIncome(s types.BusinessIncomeSection) Element {
	return Node(string(policy.FormBusinessIncome), SheetElement(s))
}

// SerializeLoanIncome renders SYUUSHI07_04.
func SerializeLoanIncome(s types.LoanIncomeSection) Element {
	return Node(string(policy.FormLoanIncome), SheetElement(s))
}

// SerializeGrantIncome renders SYUUSHI07_05.
func SerializeGrantIncome(s types.GrantIncomeSection) Element {
	return Node(string(policy.FormGrantIncome), SheetElement(s))
}

// SerializeOtherIncome renders SYUUSHI07_06.
func SerializeOtherIncome(s types.OtherIncomeSection) Element {
	return Node(string(policy.FormOtherIncome), SheetElement(s))
}

// SerializePersonalDonation renders SYUUSHI07_07.
func SerializePersonalDonation(s types.PersonalDonationSection) Element {
	return Node(string(policy.FormPersonalDonation), SheetElement(s))
}

// SerializePersonnel renders SYUUSHI07_13.
func SerializePersonnel(s types.PersonnelSection) Element {
	return Node(string(policy.FormPersonnel), Node("SHEET",
		Leaf("KINGAKU_GK", FormatYen(s.TotalAmount)),
		Leaf("KOUFUKIN_GK", FormatYen(s.GrantFundedAmount)),
	))
}

// SerializeGrantExpenditure renders SYUUSHI07_16.
func SerializeGrantExpenditure(s types.GrantExpenditureSection) Element {
	return Node(string(policy.FormGrantExpenditure), SheetElement(s))
}

// SerializeRoutineExpenses renders SYUUSHI07_14 with a KUBUN element for
// every routine category that has data. ok is false when none has.
func SerializeRoutineExpenses(d types.ExpenseData) (e Element, ok bool) {
	return expenseForm("SYUUSHI07_14", d, policy.RoutineCategories())
}

// SerializePoliticalExpenses renders SYUUSHI07_15 the same way for the nine
// political-activity categories. Multi-sheet categories write one SHEET per
// business, each headed by JIGYOU_NM.
func SerializePoliticalExpenses(d types.ExpenseData) (e Element, ok bool) {
	return expenseForm("SYUUSHI07_15", d, policy.PoliticalCategories())
}

func expenseForm(name string, d types.ExpenseData, categories []policy.Category) (Element, bool) {
	form := Node(name)
	for i, c := range categories {
		if !d.CategoryHasData(c) {
			continue
		}
		kubun := Node(fmt.Sprintf("KUBUN%d", i+1))
		for _, s := range d.CategorySheets(c) {
			if policy.IsMultiSheet(c) {
				if !s.Section.HasData() {
					continue
				}
				kubun = kubun.Add(SheetElement(s.Section, Leaf("JIGYOU_NM", s.BusinessName)))
				continue
			}
			kubun = kubun.Add(SheetElement(s.Section))
		}
		form = form.Add(kubun)
	}
	return form, len(form.Children) > 0
}

// SerializeExpenseTotals renders SYUUSHI07_17: per-category totals for
// routine (KUBUN1) and political-activity (KUBUN2) expenses. A KUBUN is
// written only when one of its categories has data; ok is false when
// neither is.
func SerializeExpenseTotals(d types.ExpenseData) (e Element, ok bool) {
	form := Node("SYUUSHI07_17")
	routine := append([]policy.Category{policy.Personnel}, policy.RoutineCategories()...)
	if anyData(d, routine) {
		form = form.Add(Node("KUBUN1", totalsSheet(d, routine, d.RoutineTotal())))
	}
	if political := policy.PoliticalCategories(); anyData(d, political) {
		form = form.Add(Node("KUBUN2", totalsSheet(d, political, d.PoliticalTotal())))
	}
	return form, len(form.Children) > 0
}

func anyData(d types.ExpenseData, categories []policy.Category) bool {
	for _, c := range categories {
		if d.CategoryHasData(c) {
			return true
		}
	}
	return false
}

func totalsSheet(d types.ExpenseData, categories []policy.Category, total int64) Element {
	sheet := Node("SHEET")
	for _, c := range categories {
		sheet = sheet.Add(totalRow(c, d.CategoryTotal(c)))
	}
	return sheet.Add(Leaf("KINGAKU_GK", FormatYen(total)))
}

func totalRow(c policy.Category, amount int64) Element {
	return Node("ROW",
		Leaf("HIMOKU", c.Label()),
		Leaf("KINGAKU", FormatYen(amount)),
	)
}
