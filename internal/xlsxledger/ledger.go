// =============================================================================
// Political Fund Report Compiler - XLSX Ledger Source
// =============================================================================
//
// This module reads a categorized ledger export from an XLSX workbook and
// serves it as the compiler's transaction source. The workbook is read once;
// lookups afterwards are in-memory and safe for concurrent use.
//
// WORKBOOK STRUCTURE:
//   Sheet "transactions" (header row 1, data from row 2). Column positions
//   are configurable via the LedgerColumns struct.
//
//   | Column | Field              | Example                |
//   |--------|--------------------|------------------------|
//   | A      | organization_id    | org-1                  |
//   | B      | financial_year     | 2025                   |
//   | C      | transaction_no     | 42                     |
//   | D      | date               | 2025-06-01             |
//   | E      | type               | income / expense       |
//   | F      | category           | election               |
//   | G      | friendly_category  | ポスター印刷           |
//   | H      | label              | 機関紙「みらい」       |
//   | I      | description        |                        |
//   | J      | memo               |                        |
//   | K      | debit_amount       | 120000                 |
//   | L      | credit_amount      |                        |
//   | M      | debit_partner      |                        |
//   | N      | credit_partner     |                        |
//   | O      | counterpart_name   | 株式会社 印刷所        |
//   | P      | counterpart_address| 東京都千代田区         |
//   | Q      | donor_name         |                        |
//   | R      | donor_address      |                        |
//   | S      | donor_occupation   |                        |
//   | T      | grant_funded       | yes                    |
//
//   Sheet "carryover": organization_id, financial_year, amount.
//
// =============================================================================

package xlsxledger

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

const (
	TransactionsSheet = "transactions"
	CarryoverSheet    = "carryover"
)

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// LedgerColumns defines which column of the transactions sheet holds which
// field. Indices are 0-based (A=0, B=1, ...).
type LedgerColumns struct {
	OrganizationID     int
	FinancialYear      int
	TransactionNo      int
	Date               int
	Type               int
	Category           int
	FriendlyCategory   int
	Label              int
	Description        int
	Memo               int
	DebitAmount        int
	CreditAmount       int
	DebitPartner       int
	CreditPartner      int
	CounterpartName    int
	CounterpartAddress int
	DonorName          int
	DonorAddress       int
	DonorOccupation    int
	GrantFunded        int

	// DataStartRow is the first data row (0-based).
	DataStartRow int
}

// DefaultLedgerColumns returns the layout written by WriteTemplate.
func DefaultLedgerColumns() LedgerColumns {
	return LedgerColumns{
		OrganizationID:     0,  // A
		FinancialYear:      1,  // B
		TransactionNo:      2,  // C
		Date:               3,  // D
		Type:               4,  // E
		Category:           5,  // F
		FriendlyCategory:   6,  // G
		Label:              7,  // H
		Description:        8,  // I
		Memo:               9,  // J
		DebitAmount:        10, // K
		CreditAmount:       11, // L
		DebitPartner:       12, // M
		CreditPartner:      13, // N
		CounterpartName:    14, // O
		CounterpartAddress: 15, // P
		DonorName:          16, // Q
		DonorAddress:       17, // R
		DonorOccupation:    18, // S
		GrantFunded:        19, // T
		DataStartRow:       1,
	}
}

// Headers is the header row of the transactions sheet in default layout.
var Headers = []string{
	"organization_id", "financial_year", "transaction_no", "date", "type",
	"category", "friendly_category", "label", "description", "memo",
	"debit_amount", "credit_amount", "debit_partner", "credit_partner",
	"counterpart_name", "counterpart_address", "donor_name", "donor_address",
	"donor_occupation", "grant_funded",
}

// CarryoverHeaders is the header row of the carryover sheet.
var CarryoverHeaders = []string{"organization_id", "financial_year", "amount"}

// =============================================================================
// LEDGER
// =============================================================================

type ledgerKey struct {
	organizationID string
	year           int
}

type entry struct {
	key ledgerKey
	tx  types.Transaction
}

// Ledger is a parsed workbook.
type Ledger struct {
	path      string
	entries   []entry
	carryover map[ledgerKey]float64
}

// Open reads the workbook at path with the default layout.
//
// PARAMETERS:
//   - path: The path to the XLSX ledger.
//
// RETURNS:
//   - The parsed ledger.
//   - An error if the file cannot be read or a row cannot be parsed.
func Open(path string) (*Ledger, error) {
	return OpenWithConfig(path, DefaultLedgerColumns())
}

// OpenWithConfig reads the workbook using a custom column layout.
func OpenWithConfig(path string, columns LedgerColumns) (*Ledger, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	l := &Ledger{path: path, carryover: make(map[ledgerKey]float64)}

	if idx, _ := f.GetSheetIndex(TransactionsSheet); idx < 0 {
		return nil, fmt.Errorf("ledger file has no %q sheet", TransactionsSheet)
	}
	rows, err := f.GetRows(TransactionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		e, err := parseTransaction(row, columns)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s row %d: %w", TransactionsSheet, i+1, err)
		}
		l.entries = append(l.entries, e)
	}

	// The carryover sheet is optional; a missing balance is zero.
	if idx, _ := f.GetSheetIndex(CarryoverSheet); idx >= 0 {
		rows, err := f.GetRows(CarryoverSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read carryover rows: %w", err)
		}
		for i := 1; i < len(rows); i++ {
			if isRowEmpty(rows[i]) {
				continue
			}
			key, amount, err := parseCarryover(rows[i])
			if err != nil {
				return nil, fmt.Errorf("error parsing %s row %d: %w", CarryoverSheet, i+1, err)
			}
			l.carryover[key] = amount
		}
	}

	slices.SortStableFunc(l.entries, func(a, b entry) int {
		if c := a.tx.TransactionDate.Compare(b.tx.TransactionDate); c != 0 {
			return c
		}
		return compareTransactionNo(a.tx.TransactionNo, b.tx.TransactionNo)
	})
	return l, nil
}

// Path returns the workbook path.
func (l *Ledger) Path() string { return l.path }

// Len returns the number of transactions across all organizations.
func (l *Ledger) Len() int { return len(l.entries) }

// FindTransactions returns the transactions of one category ordered by date
// then transaction number.
func (l *Ledger) FindTransactions(ctx context.Context, filter types.Filter, category policy.Category) ([]types.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := ledgerKey{filter.OrganizationID, filter.FinancialYear}
	var out []types.Transaction
	for _, e := range l.entries {
		if e.key == key && e.tx.CategoryKey == category {
			out = append(out, e.tx)
		}
	}
	return out, nil
}

// FindCarryover returns the previous year's balance, or zero.
func (l *Ledger) FindCarryover(ctx context.Context, filter types.Filter) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return l.carryover[ledgerKey{filter.OrganizationID, filter.FinancialYear}], nil
}

// Organizations lists the organization ids that have transactions in year,
// in first-appearance order.
func (l *Ledger) Organizations(year int) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range l.entries {
		if e.key.year == year && !seen[e.key.organizationID] {
			seen[e.key.organizationID] = true
			ids = append(ids, e.key.organizationID)
		}
	}
	return ids
}

// =============================================================================
// ROW PARSING
// =============================================================================

func parseTransaction(row []string, columns LedgerColumns) (entry, error) {
	getCell := func(index int) string {
		if index >= 0 && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	var e entry
	e.key.organizationID = getCell(columns.OrganizationID)
	if e.key.organizationID == "" {
		return e, fmt.Errorf("organization_id is empty")
	}
	year, err := strconv.Atoi(getCell(columns.FinancialYear))
	if err != nil {
		return e, fmt.Errorf("financial_year: %w", err)
	}
	e.key.year = year

	date, err := parseDate(getCell(columns.Date))
	if err != nil {
		return e, fmt.Errorf("date: %w", err)
	}
	txType, err := normalizeType(getCell(columns.Type))
	if err != nil {
		return e, err
	}
	category := policy.Category(strings.ToLower(getCell(columns.Category)))
	direction, ok := policy.DirectionOf(category)
	if !ok {
		return e, fmt.Errorf("unknown category %q", category)
	}
	if direction != txType {
		return e, fmt.Errorf("category %s is filed as %s, row says %s", category, direction, txType)
	}
	debit, err := parseAmount(getCell(columns.DebitAmount))
	if err != nil {
		return e, fmt.Errorf("debit_amount: %w", err)
	}
	credit, err := parseAmount(getCell(columns.CreditAmount))
	if err != nil {
		return e, fmt.Errorf("credit_amount: %w", err)
	}

	e.tx = types.Transaction{
		TransactionNo:    getCell(columns.TransactionNo),
		TransactionDate:  date,
		TransactionType:  txType,
		CategoryKey:      category,
		FriendlyCategory: getCell(columns.FriendlyCategory),
		Label:            getCell(columns.Label),
		Description:      getCell(columns.Description),
		Memo:             getCell(columns.Memo),
		DebitAmount:      debit,
		CreditAmount:     credit,
		DebitPartner:     getCell(columns.DebitPartner),
		CreditPartner:    getCell(columns.CreditPartner),
		GrantFunded:      normalizeBool(getCell(columns.GrantFunded)),
	}

	// Blank master-data columns mean the join has not happened yet.
	if name := getCell(columns.CounterpartName); name != "" {
		e.tx.Counterpart = &types.CounterpartRef{Name: name, Address: getCell(columns.CounterpartAddress)}
	}
	if name := getCell(columns.DonorName); name != "" {
		e.tx.Donor = &types.DonorRef{
			Name:       name,
			Address:    getCell(columns.DonorAddress),
			Occupation: getCell(columns.DonorOccupation),
		}
	}
	return e, nil
}

func parseCarryover(row []string) (ledgerKey, float64, error) {
	var key ledgerKey
	if len(row) < 3 {
		return key, 0, fmt.Errorf("expected 3 columns, got %d", len(row))
	}
	key.organizationID = strings.TrimSpace(row[0])
	year, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return key, 0, fmt.Errorf("financial_year: %w", err)
	}
	key.year = year
	amount, err := parseAmount(row[2])
	if err != nil {
		return key, 0, fmt.Errorf("amount: %w", err)
	}
	return key, amount, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006/1/2", "01-02-06", time.RFC3339}

// parseDate accepts the common text layouts and Excel serial dates.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseAmount reads a ledger amount. Blank is zero; thousands separators
// and a leading yen sign are accepted.
func parseAmount(value string) (float64, error) {
	value = strings.NewReplacer(",", "", "¥", "", "￥", "").Replace(strings.TrimSpace(value))
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func normalizeType(value string) (policy.TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "income", "in", "収入":
		return policy.Income, nil
	case "expense", "out", "支出":
		return policy.Expense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", value)
	}
}

func normalizeBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "○":
		return true
	default:
		return false
	}
}

// compareTransactionNo orders numeric transaction numbers numerically and
// everything else lexically.
func compareTransactionNo(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
