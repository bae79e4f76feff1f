package assembler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fund-report-compiler/internal/converter"
	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FindTransactions(ctx context.Context, filter types.Filter, category policy.Category) ([]types.Transaction, error) {
	args := m.Called(ctx, filter, category)
	txs, _ := args.Get(0).([]types.Transaction)
	return txs, args.Error(1)
}

var testFilter = types.Filter{OrganizationID: "org-1", FinancialYear: 2025}

func TestIncomeAssembler_OneFetchPerCategory(t *testing.T) {
	src := &mockSource{}
	src.On("FindTransactions", mock.Anything, testFilter, policy.LoanIncome).
		Return([]types.Transaction{{TransactionNo: "1", CreditAmount: 500000}}, nil).Once()
	src.On("FindTransactions", mock.Anything, testFilter, policy.OtherIncome).
		Return([]types.Transaction{{TransactionNo: "2", CreditAmount: 1000}}, nil).Once()
	src.On("FindTransactions", mock.Anything, testFilter, mock.Anything).
		Return(nil, nil)

	data, err := NewIncomeAssembler(src, converter.New(nil)).Assemble(context.Background(), testFilter)
	require.NoError(t, err)

	assert.Equal(t, int64(500000), data.LoanIncome.TotalAmount)
	assert.Len(t, data.LoanIncome.Rows, 1)
	assert.Equal(t, int64(1000), *data.OtherIncome.UnderThresholdAmount)
	assert.Empty(t, data.BusinessIncome.Rows)
	src.AssertNumberOfCalls(t, "FindTransactions", len(policy.IncomeCategories()))
}

func TestDonationAssembler(t *testing.T) {
	src := &mockSource{}
	src.On("FindTransactions", mock.Anything, testFilter, policy.PersonalDonation).
		Return([]types.Transaction{{TransactionNo: "1", CreditAmount: 2000}}, nil)

	data, err := NewDonationAssembler(src, converter.New(nil)).Assemble(context.Background(), testFilter)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), data.Total())
	src.AssertExpectations(t)
}

// blockingSource fails one category and blocks the rest until cancelled.
type blockingSource struct {
	failOn    policy.Category
	err       error
	cancelled atomic.Int32
}

func (s *blockingSource) FindTransactions(ctx context.Context, _ types.Filter, category policy.Category) ([]types.Transaction, error) {
	if category == s.failOn {
		return nil, s.err
	}
	select {
	case <-ctx.Done():
		s.cancelled.Add(1)
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, nil
	}
}

func TestExpenseAssembler_FailFast(t *testing.T) {
	boom := errors.New("ledger unavailable")
	src := &blockingSource{failOn: policy.Research, err: boom}

	start := time.Now()
	data, err := NewExpenseAssembler(src, converter.New(nil)).Assemble(context.Background(), testFilter)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, types.ExpenseData{}, data)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(len(policy.ExpenseCategories())-1), src.cancelled.Load())
}

func TestExpenseAssembler_CallerCancellation(t *testing.T) {
	src := &blockingSource{failOn: "none"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExpenseAssembler(src, converter.New(nil)).Assemble(ctx, testFilter)
	assert.ErrorIs(t, err, context.Canceled)
}
