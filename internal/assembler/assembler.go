// =============================================================================
// Political Fund Report Compiler - Assemblers
// =============================================================================
//
// Assemblers gather the transactions of the categories they own and feed them
// to the matching converters.
//
// CONCURRENCY:
//   Every category is fetched in its own goroutine (fan-out). Conversion
//   starts only after all fetches returned (barrier). The first failing fetch
//   cancels the shared context so sibling fetches can stop early, and its
//   error is returned as-is. No partial aggregate is ever returned.
//
//   Retries and timeouts belong to the TransactionSource.
//
// =============================================================================

package assembler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/fund-report-compiler/internal/converter"
	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// TransactionSource supplies category-filtered transactions sorted by date
// ascending with a stable tiebreaker. Assemblers never filter or sort.
type TransactionSource interface {
	FindTransactions(ctx context.Context, filter types.Filter, category policy.Category) ([]types.Transaction, error)
}

// fetchAll fetches every category concurrently.
func fetchAll(ctx context.Context, source TransactionSource, filter types.Filter, categories []policy.Category) (map[policy.Category][]types.Transaction, error) {
	results := make([][]types.Transaction, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			txs, err := source.FindTransactions(gctx, filter, category)
			if err != nil {
				return err
			}
			results[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make(map[policy.Category][]types.Transaction, len(categories))
	for i, category := range categories {
		byCategory[category] = results[i]
	}
	return byCategory, nil
}

// IncomeAssembler builds the income aggregate.
type IncomeAssembler struct {
	source    TransactionSource
	converter *converter.Converter
}

// NewIncomeAssembler reads income transactions from source and converts them with conv.
func NewIncomeAssembler(source TransactionSource, conv *converter.Converter) *IncomeAssembler {
	return &IncomeAssembler{source: source, converter: conv}
}

// Assemble fetches business, loan, grant and other income.
func (a *IncomeAssembler) Assemble(ctx context.Context, filter types.Filter) (types.IncomeData, error) {
	byCategory, err := fetchAll(ctx, a.source, filter, policy.IncomeCategories())
	if err != nil {
		return types.IncomeData{}, err
	}
	return a.converter.ConvertIncomeData(byCategory), nil
}

// ExpenseAssembler builds the expense aggregate.
type ExpenseAssembler struct {
	source    TransactionSource
	converter *converter.Converter
}

// NewExpenseAssembler reads expense transactions from source and converts them with conv.
func NewExpenseAssembler(source TransactionSource, conv *converter.Converter) *ExpenseAssembler {
	return &ExpenseAssembler{source: source, converter: conv}
}

// Assemble fetches all thirteen expense categories.
func (a *ExpenseAssembler) Assemble(ctx context.Context, filter types.Filter) (types.ExpenseData, error) {
	byCategory, err := fetchAll(ctx, a.source, filter, policy.ExpenseCategories())
	if err != nil {
		return types.ExpenseData{}, err
	}
	return a.converter.ConvertExpenseData(byCategory), nil
}

// DonationAssembler builds the donation aggregate.
type DonationAssembler struct {
	source    TransactionSource
	converter *converter.Converter
}

// NewDonationAssembler reads donation transactions from source and converts them with conv.
func NewDonationAssembler(source TransactionSource, conv *converter.Converter) *DonationAssembler {
	return &DonationAssembler{source: source, converter: conv}
}

// Assemble fetches personal donations.
func (a *DonationAssembler) Assemble(ctx context.Context, filter types.Filter) (types.DonationData, error) {
	byCategory, err := fetchAll(ctx, a.source, filter, []policy.Category{policy.PersonalDonation})
	if err != nil {
		return types.DonationData{}, err
	}
	return a.converter.ConvertDonationData(byCategory), nil
}
