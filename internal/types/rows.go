package types

import (
	"time"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
)

// Row is the closed set of report rows, one variant per form. Only types in
// this package implement it.
type Row interface {
	Number() string
	Yen() int64
	Form() policy.FormID
	sealed()
}

// RowBase carries the fields every row variant has.
type RowBase struct {
	// RowNumber is the 1-based sequence number within the sheet.
	RowNumber string
	// Amount is a non-negative, already rounded yen amount.
	Amount int64
}

func (b RowBase) Number() string { return b.RowNumber }
func (b RowBase) Yen() int64     { return b.Amount }
func (RowBase) sealed()          {}

// Party is a counterpart or donor as printed on a sheet.
//
// TODO: remove Pending once every counterpart and donor is joined at the
// transaction source; converters fall back to placeholder text until then.
type Party struct {
	Name    string
	Address string
	Pending bool
}

// BusinessIncomeRow is a SYUUSHI07_03 row.
type BusinessIncomeRow struct {
	RowBase
	BusinessKind string
	Remarks      string
}

func (BusinessIncomeRow) Form() policy.FormID { return policy.FormBusinessIncome }

// LoanIncomeRow is a SYUUSHI07_04 row.
type LoanIncomeRow struct {
	RowBase
	Lender  Party
	Date    time.Time
	Remarks string
}

func (LoanIncomeRow) Form() policy.FormID { return policy.FormLoanIncome }

// GrantIncomeRow is a SYUUSHI07_05 row.
type GrantIncomeRow struct {
	RowBase
	Grantor Party
	Date    time.Time
	Remarks string
}

func (GrantIncomeRow) Form() policy.FormID { return policy.FormGrantIncome }

// OtherIncomeRow is a SYUUSHI07_06 row.
type OtherIncomeRow struct {
	RowBase
	Description string
	Remarks     string
}

func (OtherIncomeRow) Form() policy.FormID { return policy.FormOtherIncome }

// PersonalDonationRow is a SYUUSHI07_07 row.
type PersonalDonationRow struct {
	RowBase
	Donor      Party
	Occupation string
	Date       time.Time
	Remarks    string
}

func (PersonalDonationRow) Form() policy.FormID { return policy.FormPersonalDonation }

// ExpenseRow is a SYUUSHI07_14 / SYUUSHI07_15 row.
type ExpenseRow struct {
	RowBase
	Category    policy.Category
	Purpose     string
	Date        time.Time
	Counterpart Party
	Remarks     string
	GrantFunded bool
}

func (r ExpenseRow) Form() policy.FormID {
	id, _ := policy.ExpenseForm(r.Category)
	return id
}

// GrantExpenditureRow is a SYUUSHI07_16 row: an expense row re-emitted
// because it was paid from granted funds.
type GrantExpenditureRow struct {
	RowBase
	SourceCategory policy.Category
	SourceLabel    string
	Purpose        string
	Date           time.Time
	Counterpart    Party
	Remarks        string
}

func (GrantExpenditureRow) Form() policy.FormID { return policy.FormGrantExpenditure }
