// =============================================================================
// Political Fund Report Compiler - Section Converters
// =============================================================================
//
// Converters are pure functions from a category's transaction list to the
// report section of that category. They perform no I/O and never fail:
// unusable amounts normalize to 0 and missing text normalizes to "".
//
// CONVERSION PIPELINE (per transaction):
//   1. Resolve the signed amount (credit first for income, debit first for
//      expense)
//   2. Round it half-up to whole yen
//   3. Compare the ROUNDED amount with the category threshold
//   4. At or above the threshold: emit a row numbered 1, 2, 3 ...
//      Below: add to the under-threshold bucket only
//   5. Always add the rounded amount to the section total
//
// Rounding happens before the comparison and before summation, so
// sum(rows) + underThreshold == total holds for every input.
//
// =============================================================================

package converter

import (
	"strconv"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// Converter holds the injected threshold policy.
type Converter struct {
	policy *policy.ThresholdPolicy
}

// New creates a Converter. A nil policy selects the statutory defaults.
func New(p *policy.ThresholdPolicy) *Converter {
	if p == nil {
		p = policy.DefaultThresholdPolicy()
	}
	return &Converter{policy: p}
}

// Policy returns the threshold policy in use.
func (c *Converter) Policy() *policy.ThresholdPolicy { return c.policy }

// =============================================================================
// BUCKETING
// =============================================================================

// bucket runs the conversion pipeline for one sheet. makeRow builds a row for
// an itemized transaction from its 1-based number and rounded amount.
func bucket[R types.Row](
	c *Converter,
	txType policy.TransactionType,
	category policy.Category,
	txs []types.Transaction,
	makeRow func(tx types.Transaction, base types.RowBase) R,
) types.Section[R] {
	threshold, bucketed := c.policy.Threshold(txType, category)

	section := types.Section[R]{Rows: []R{}}
	var under int64

	for _, tx := range txs {
		amount := RoundAmount(resolve(txType, tx))
		section.TotalAmount += amount

		if bucketed && amount < threshold {
			under += amount
			continue
		}

		base := types.RowBase{
			RowNumber: strconv.Itoa(len(section.Rows) + 1),
			Amount:    amount,
		}
		section.Rows = append(section.Rows, makeRow(tx, base))
	}

	if bucketed {
		section.UnderThresholdAmount = &under
	}
	return section
}

func resolve(txType policy.TransactionType, tx types.Transaction) float64 {
	if txType == policy.Income {
		return ResolveIncomeAmount(tx.DebitAmount, tx.CreditAmount)
	}
	return ResolveExpenseAmount(tx.DebitAmount, tx.CreditAmount)
}

// =============================================================================
// INCOME CONVERTERS
// =============================================================================

// ConvertBusinessIncome builds SYUUSHI07_03: one row per transaction.
func (c *Converter) ConvertBusinessIncome(txs []types.Transaction) types.BusinessIncomeSection {
	return bucket(c, policy.Income, policy.BusinessIncome, txs,
		func(tx types.Transaction, base types.RowBase) types.BusinessIncomeRow {
			return types.BusinessIncomeRow{
				RowBase:      base,
				BusinessKind: purposeOf(tx),
				Remarks:      BuildRemarks(tx),
			}
		})
}

// ConvertLoanIncome builds SYUUSHI07_04: one row per loan with lender detail.
func (c *Converter) ConvertLoanIncome(txs []types.Transaction) types.LoanIncomeSection {
	return bucket(c, policy.Income, policy.LoanIncome, txs,
		func(tx types.Transaction, base types.RowBase) types.LoanIncomeRow {
			return types.LoanIncomeRow{
				RowBase: base,
				Lender:  counterpartOf(tx),
				Date:    tx.TransactionDate,
				Remarks: BuildRemarks(tx),
			}
		})
}

// ConvertGrantIncome builds SYUUSHI07_05: one row per grant with grantor detail.
func (c *Converter) ConvertGrantIncome(txs []types.Transaction) types.GrantIncomeSection {
	return bucket(c, policy.Income, policy.GrantIncome, txs,
		func(tx types.Transaction, base types.RowBase) types.GrantIncomeRow {
			return types.GrantIncomeRow{
				RowBase: base,
				Grantor: counterpartOf(tx),
				Date:    tx.TransactionDate,
				Remarks: BuildRemarks(tx),
			}
		})
}

// ConvertOtherIncome builds SYUUSHI07_06, itemizing from 100,000 yen.
func (c *Converter) ConvertOtherIncome(txs []types.Transaction) types.OtherIncomeSection {
	return bucket(c, policy.Income, policy.OtherIncome, txs,
		func(tx types.Transaction, base types.RowBase) types.OtherIncomeRow {
			return types.OtherIncomeRow{
				RowBase:     base,
				Description: purposeOf(tx),
				Remarks:     BuildRemarks(tx),
			}
		})
}

// =============================================================================
// DONATION CONVERTER
// =============================================================================

// ConvertPersonalDonation builds SYUUSHI07_07: one row per donation.
func (c *Converter) ConvertPersonalDonation(txs []types.Transaction) types.PersonalDonationSection {
	return bucket(c, policy.Income, policy.PersonalDonation, txs,
		func(tx types.Transaction, base types.RowBase) types.PersonalDonationRow {
			donor, occupation := donorOf(tx)
			return types.PersonalDonationRow{
				RowBase:    base,
				Donor:      donor,
				Occupation: occupation,
				Date:       tx.TransactionDate,
				Remarks:    BuildRemarks(tx),
			}
		})
}

// =============================================================================
// EXPENSE CONVERTERS
// =============================================================================

// ConvertPersonnel totals SYUUSHI07_13. Personnel expenses are never itemized.
func (c *Converter) ConvertPersonnel(txs []types.Transaction) types.PersonnelSection {
	var s types.PersonnelSection
	for _, tx := range txs {
		amount := RoundAmount(resolve(policy.Expense, tx))
		s.TotalAmount += amount
		if tx.GrantFunded {
			s.GrantFundedAmount += amount
		}
	}
	return s
}

// ConvertExpense builds one itemized expense sheet for a single-sheet
// category (utilities, supplies, office, organizational activity, election,
// research, donations/grants, other expense).
func (c *Converter) ConvertExpense(category policy.Category, txs []types.Transaction) types.ExpenseSection {
	return bucket(c, policy.Expense, category, txs,
		func(tx types.Transaction, base types.RowBase) types.ExpenseRow {
			return types.ExpenseRow{
				RowBase:     base,
				Category:    category,
				Purpose:     purposeOf(tx),
				Date:        tx.TransactionDate,
				Counterpart: counterpartOf(tx),
				Remarks:     BuildRemarks(tx),
				GrantFunded: tx.GrantFunded,
			}
		})
}

// ConvertBusinessSheets builds the sheets of a multi-sheet category
// (publication, advertising, fundraising party, other business). Transactions
// are grouped by their label, in order of first appearance; each group is
// bucketed and numbered independently.
func (c *Converter) ConvertBusinessSheets(category policy.Category, txs []types.Transaction) []types.BusinessSheet {
	var order []string
	groups := make(map[string][]types.Transaction)
	for _, tx := range txs {
		name := SanitizeText(tx.Label)
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], tx)
	}

	sheets := make([]types.BusinessSheet, 0, len(order))
	for _, name := range order {
		sheets = append(sheets, types.BusinessSheet{
			BusinessName: name,
			Section:      c.ConvertExpense(category, groups[name]),
		})
	}
	return sheets
}

// ConvertExpenseData runs every expense converter over a category-keyed map
// of transaction lists. Missing categories convert as empty.
func (c *Converter) ConvertExpenseData(byCategory map[policy.Category][]types.Transaction) types.ExpenseData {
	sheet := func(cat policy.Category) types.ExpenseSection {
		return c.ConvertExpense(cat, byCategory[cat])
	}
	sheets := func(cat policy.Category) []types.BusinessSheet {
		return c.ConvertBusinessSheets(cat, byCategory[cat])
	}

	return types.ExpenseData{
		Personnel: c.ConvertPersonnel(byCategory[policy.Personnel]),

		Utilities: sheet(policy.Utilities),
		Supplies:  sheet(policy.Supplies),
		Office:    sheet(policy.Office),

		OrganizationalActivity: sheet(policy.OrganizationalActivity),
		Election:               sheet(policy.Election),
		Publication:            sheets(policy.Publication),
		Advertising:            sheets(policy.Advertising),
		FundraisingParty:       sheets(policy.FundraisingParty),
		OtherBusiness:          sheets(policy.OtherBusiness),
		Research:               sheet(policy.Research),
		DonationsGrants:        sheet(policy.DonationsGrants),
		OtherExpense:           sheet(policy.OtherExpense),
	}
}

// ConvertIncomeData runs the four income converters.
func (c *Converter) ConvertIncomeData(byCategory map[policy.Category][]types.Transaction) types.IncomeData {
	return types.IncomeData{
		BusinessIncome: c.ConvertBusinessIncome(byCategory[policy.BusinessIncome]),
		LoanIncome:     c.ConvertLoanIncome(byCategory[policy.LoanIncome]),
		GrantIncome:    c.ConvertGrantIncome(byCategory[policy.GrantIncome]),
		OtherIncome:    c.ConvertOtherIncome(byCategory[policy.OtherIncome]),
	}
}

// ConvertDonationData runs the donation converter.
func (c *Converter) ConvertDonationData(byCategory map[policy.Category][]types.Transaction) types.DonationData {
	return types.DonationData{
		PersonalDonation: c.ConvertPersonalDonation(byCategory[policy.PersonalDonation]),
	}
}
