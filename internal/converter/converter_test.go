package converter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

func expenseTx(no string, amount float64) types.Transaction {
	return types.Transaction{
		TransactionNo:    no,
		TransactionDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		TransactionType:  policy.Expense,
		FriendlyCategory: "会場費",
		DebitAmount:      amount,
		Counterpart:      &types.CounterpartRef{Name: "株式会社 会場", Address: "東京都千代田区"},
	}
}

func incomeTx(no string, amount float64) types.Transaction {
	return types.Transaction{
		TransactionNo:   no,
		TransactionType: policy.Income,
		CreditAmount:    amount,
	}
}

func TestResolveAmounts(t *testing.T) {
	nan := math.NaN()

	assert.Equal(t, 150000.0, ResolveIncomeAmount(0, 150000))
	assert.Equal(t, 120000.0, ResolveIncomeAmount(120000, 0))
	assert.Equal(t, 0.0, ResolveIncomeAmount(nan, nan))
	assert.Equal(t, 5.0, ResolveIncomeAmount(7, 5))
	assert.Equal(t, 7.0, ResolveIncomeAmount(7, -5))

	assert.Equal(t, 150000.0, ResolveExpenseAmount(150000, 0))
	assert.Equal(t, 120000.0, ResolveExpenseAmount(0, 120000))
	assert.Equal(t, 0.0, ResolveExpenseAmount(nan, nan))
	assert.Equal(t, 7.0, ResolveExpenseAmount(7, 5))
	assert.Equal(t, 5.0, ResolveExpenseAmount(math.Inf(1), 5))
}

func TestRoundAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{100000.50, 100001},
		{100000.40, 100000},
		{0.5, 1},
		{49999.5, 50000},
		{-0.5, 0},
		{-1.5, -1},
		{math.NaN(), 0},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundAmount(tt.in), "RoundAmount(%v)", tt.in)
	}
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "東京都 千代田区 永田町", SanitizeText("  東京都\t千代田区　永田町  "))
	assert.Equal(t, "a b", SanitizeText("a\n\n b"))
	assert.Equal(t, "", SanitizeText(" \t "))

	once := SanitizeText("  x   y ")
	assert.Equal(t, once, SanitizeText(once))
}

func TestBuildRemarks(t *testing.T) {
	assert.Equal(t, "MF行番号: 42", BuildRemarks(types.Transaction{TransactionNo: "42"}))
	assert.Equal(t, "会場費 前払い MF行番号: 7",
		BuildRemarks(types.Transaction{TransactionNo: "7", Memo: " 会場費  前払い "}))
}

func assertBalanced[R types.Row](t *testing.T, s types.Section[R]) {
	t.Helper()
	var under int64
	if s.UnderThresholdAmount != nil {
		under = *s.UnderThresholdAmount
	}
	assert.Equal(t, s.TotalAmount, s.RowsAmount()+under)
}

func TestConvertExpense_RoundThenBucket(t *testing.T) {
	c := New(nil)

	s := c.ConvertExpense(policy.Utilities, []types.Transaction{
		expenseTx("1", 100000.50),
		expenseTx("2", 99999.40),
		expenseTx("3", 99999.50),
		expenseTx("4", 100000.40),
	})

	require.Len(t, s.Rows, 3)
	assert.Equal(t, int64(100001), s.Rows[0].Amount)
	assert.Equal(t, int64(100000), s.Rows[1].Amount)
	assert.Equal(t, int64(100000), s.Rows[2].Amount)
	assert.Equal(t, []string{"1", "2", "3"}, []string{s.Rows[0].RowNumber, s.Rows[1].RowNumber, s.Rows[2].RowNumber})

	require.NotNil(t, s.UnderThresholdAmount)
	assert.Equal(t, int64(99999), *s.UnderThresholdAmount)
	assert.Equal(t, int64(100001+99999+100000+100000), s.TotalAmount)
	assertBalanced(t, s)
}

func TestConvertExpense_PoliticalThreshold(t *testing.T) {
	c := New(nil)

	s := c.ConvertExpense(policy.Election, []types.Transaction{
		expenseTx("10", 49999),
		expenseTx("11", 50000),
		expenseTx("12", math.NaN()),
	})

	require.Len(t, s.Rows, 1)
	row := s.Rows[0]
	assert.Equal(t, "1", row.RowNumber)
	assert.Equal(t, int64(50000), row.Amount)
	assert.Equal(t, "会場費", row.Purpose)
	assert.Equal(t, "株式会社 会場", row.Counterpart.Name)
	assert.False(t, row.Counterpart.Pending)
	assert.Equal(t, "MF行番号: 11", row.Remarks)
	assert.Equal(t, policy.FormElection, row.Form())
	assert.Equal(t, int64(49999), *s.UnderThresholdAmount)
	assertBalanced(t, s)
}

func TestConvertExpense_Empty(t *testing.T) {
	s := New(nil).ConvertExpense(policy.Office, nil)
	assert.False(t, s.HasData())
	assert.Empty(t, s.Rows)
	require.NotNil(t, s.UnderThresholdAmount)
	assert.Zero(t, *s.UnderThresholdAmount)
}

func TestConvertExpense_PendingCounterpart(t *testing.T) {
	tx := expenseTx("5", 200000)
	tx.Counterpart = nil

	s := New(nil).ConvertExpense(policy.Supplies, []types.Transaction{tx})
	require.Len(t, s.Rows, 1)
	assert.True(t, s.Rows[0].Counterpart.Pending)
	assert.Equal(t, PendingName, s.Rows[0].Counterpart.Name)
}

func TestConvertBusinessSheets(t *testing.T) {
	a1 := expenseTx("1", 60000)
	a1.Label = "春の集い"
	b1 := expenseTx("2", 70000)
	b1.Label = "夏の集い"
	a2 := expenseTx("3", 1000)
	a2.Label = " 春の集い "

	sheets := New(nil).ConvertBusinessSheets(policy.FundraisingParty, []types.Transaction{a1, b1, a2})
	require.Len(t, sheets, 2)

	assert.Equal(t, "春の集い", sheets[0].BusinessName)
	assert.Equal(t, int64(61000), sheets[0].Section.TotalAmount)
	assert.Len(t, sheets[0].Section.Rows, 1)
	assert.Equal(t, "夏の集い", sheets[1].BusinessName)
	assert.Equal(t, "1", sheets[1].Section.Rows[0].RowNumber)
	for _, s := range sheets {
		assertBalanced(t, s.Section)
	}
}

func TestConvertIncome(t *testing.T) {
	c := New(nil)

	loans := c.ConvertLoanIncome([]types.Transaction{incomeTx("1", 1), incomeTx("2", 300000)})
	assert.Len(t, loans.Rows, 2)
	assert.Nil(t, loans.UnderThresholdAmount)
	assert.True(t, loans.Rows[0].Lender.Pending)

	other := c.ConvertOtherIncome([]types.Transaction{incomeTx("1", 99999.5), incomeTx("2", 99999.4)})
	require.Len(t, other.Rows, 1)
	assert.Equal(t, int64(100000), other.Rows[0].Amount)
	assert.Equal(t, int64(99999), *other.UnderThresholdAmount)
	assertBalanced(t, other)

	business := c.ConvertBusinessIncome([]types.Transaction{incomeTx("1", 10)})
	assert.Len(t, business.Rows, 1)
	assert.Equal(t, policy.FormBusinessIncome, business.Rows[0].Form())
}

func TestConvertPersonalDonation(t *testing.T) {
	tx := incomeTx("9", 3000)
	tx.Donor = &types.DonorRef{Name: "山田 太郎", Address: "大阪府", Occupation: "会社員"}

	s := New(nil).ConvertPersonalDonation([]types.Transaction{tx, incomeTx("10", 500)})
	require.Len(t, s.Rows, 2)
	assert.Equal(t, "山田 太郎", s.Rows[0].Donor.Name)
	assert.Equal(t, "会社員", s.Rows[0].Occupation)
	assert.True(t, s.Rows[1].Donor.Pending)
	assert.Equal(t, int64(3500), s.TotalAmount)
}

func TestConvertPersonnel(t *testing.T) {
	a := expenseTx("1", 250000.5)
	b := expenseTx("2", 1000)
	b.GrantFunded = true

	s := New(nil).ConvertPersonnel([]types.Transaction{a, b})
	assert.Equal(t, int64(251001), s.TotalAmount)
	assert.Equal(t, int64(1000), s.GrantFundedAmount)
}

func TestExtractGrantExpenditure(t *testing.T) {
	c := New(nil)

	office := expenseTx("1", 150000)
	office.GrantFunded = true
	party := expenseTx("2", 80000)
	party.GrantFunded = true
	party.Label = "新年会"
	plain := expenseTx("3", 90000)

	data := c.ConvertExpenseData(map[policy.Category][]types.Transaction{
		policy.Office:           {office},
		policy.Research:         {plain},
		policy.FundraisingParty: {party},
	})

	grant := ExtractGrantExpenditure(data)
	require.Len(t, grant.Rows, 2)
	assert.True(t, ShouldOutputSheet(grant))

	assert.Equal(t, "1", grant.Rows[0].RowNumber)
	assert.Equal(t, policy.Office, grant.Rows[0].SourceCategory)
	assert.Equal(t, "事務所費", grant.Rows[0].SourceLabel)
	assert.Equal(t, "2", grant.Rows[1].RowNumber)
	assert.Equal(t, "政治資金パーティー開催事業費", grant.Rows[1].SourceLabel)
	assert.Equal(t, int64(230000), grant.TotalAmount)

	assert.False(t, ShouldOutputSheet(ExtractGrantExpenditure(types.ExpenseData{})))
}

func TestBuildSummary(t *testing.T) {
	c := New(nil)
	income := c.ConvertIncomeData(map[policy.Category][]types.Transaction{
		policy.LoanIncome: {incomeTx("1", 100000)},
	})
	donation := c.ConvertDonationData(map[policy.Category][]types.Transaction{
		policy.PersonalDonation: {incomeTx("2", 20000)},
	})
	expense := c.ConvertExpenseData(map[policy.Category][]types.Transaction{
		policy.Personnel: {expenseTx("3", 30000)},
		policy.Election:  {expenseTx("4", 40000)},
	})

	s := BuildSummary(5000.4, income, donation, expense, ExtractGrantExpenditure(expense))
	assert.Equal(t, int64(5000), s.PreviousYearCarryover)
	assert.Equal(t, int64(120000), s.CurrentYearIncome)
	assert.Equal(t, int64(125000), s.TotalIncome)
	assert.Equal(t, int64(70000), s.TotalExpense)
	assert.Equal(t, int64(55000), s.NextYearCarryover)
	assert.Equal(t, int64(30000), s.RoutineTotal)
	assert.Equal(t, int64(40000), s.PoliticalTotal)
}
