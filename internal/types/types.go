// =============================================================================
// Political Fund Report Compiler - Shared Types
// =============================================================================
//
// This package contains the data model shared by the converters, validators,
// serializers and the compiler. Keeping it in one leaf package avoids import
// cycles between those modules.
//
//   Transaction   : ledger input, owned by the transaction source (read only)
//   Row variants  : one per report form (rows.go)
//   Section[R]    : a sheet's totals plus its itemized rows (sections.go)
//   Profile       : per-organization, per-year filing metadata (profile.go)
//   ReportData    : the whole aggregate for a single compilation
//
// =============================================================================

package types

import (
	"time"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// Transaction is a single ledger transaction. Amounts are raw values as the
// ledger holds them: NaN, negative or zero means "absent".
type Transaction struct {
	TransactionNo    string
	TransactionDate  time.Time
	TransactionType  policy.TransactionType
	CategoryKey      policy.Category
	FriendlyCategory string
	Label            string
	Description      string
	Memo             string
	DebitAmount      float64
	CreditAmount     float64
	DebitPartner     string
	CreditPartner    string

	// Counterpart and Donor are set once the transaction has been joined
	// with master data. Nil means the join has not happened yet.
	Counterpart *CounterpartRef
	Donor       *DonorRef

	// GrantFunded marks expenses paid from funds granted by headquarters.
	GrantFunded bool
}

// CounterpartRef is the enriched counterpart of an income or expense.
type CounterpartRef struct {
	Name    string
	Address string
}

// DonorRef is the enriched donor of a donation.
type DonorRef struct {
	Name       string
	Address    string
	Occupation string
}

// Filter selects the ledger slice one compilation works on.
type Filter struct {
	OrganizationID string
	FinancialYear  int
}

// =============================================================================
// REPORT AGGREGATE
// =============================================================================

// ReportData is assembled fresh for every compilation and never persisted.
type ReportData struct {
	Profile          *OrganizationReportProfile
	Summary          SummaryData
	Donation         DonationData
	Income           IncomeData
	Expense          ExpenseData
	GrantExpenditure GrantExpenditureSection
}
