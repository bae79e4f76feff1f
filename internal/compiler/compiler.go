// =============================================================================
// Political Fund Report Compiler - Report Compiler
// =============================================================================
//
// The report compiler orchestrates one compilation for one organization and
// financial year.
//
// COMPILATION PIPELINE:
//   1. Fetch the profile, the organization slug, the carryover and all
//      categorized transactions concurrently (fail-fast)
//   2. Convert: income, donation and expense aggregates, the grant
//      expenditure sheet and the summary
//   3. Validate (side channel unless ContinueOnValidationError is false)
//   4. Compute the presence-flag string from the form catalog
//   5. Build <BOOK><HEAD>…</HEAD>…</BOOK> and render it as UTF-8
//   6. Encode the rendered document to Shift_JIS
//   7. Name the artifact report_{year}_{slug}_{YYYYMMDD}_{HHMM}.xml
//
// A compilation holds no state shared with other compilations.
//
// =============================================================================

package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/fund-report-compiler/internal/assembler"
	"github.com/ginjaninja78/fund-report-compiler/internal/converter"
	"github.com/ginjaninja78/fund-report-compiler/internal/logging"
	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
	"github.com/ginjaninja78/fund-report-compiler/internal/validation"
	"github.com/ginjaninja78/fund-report-compiler/internal/xmlwriter"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// TransactionSource supplies ledger data. Implementations own retries and
// timeouts.
type TransactionSource interface {
	assembler.TransactionSource

	// FindCarryover returns the balance carried over from the previous year.
	FindCarryover(ctx context.Context, filter types.Filter) (float64, error)
}

// ProfileRepository supplies organization profiles.
type ProfileRepository interface {
	// FindByOrganizationAndYear returns nil, nil when no profile exists.
	FindByOrganizationAndYear(ctx context.Context, organizationID string, year int) (*types.OrganizationReportProfile, error)

	// GetOrganizationSlug returns "" when the organization has no slug.
	GetOrganizationSlug(ctx context.Context, organizationID string) (string, error)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrProfileNotFound is returned when the organization has no profile
	// for the requested year.
	ErrProfileNotFound = errors.New("organization report profile not found")

	// ErrValidationFailed is returned when validation reports errors and
	// ContinueOnValidationError is false.
	ErrValidationFailed = errors.New("report validation failed")
)

// ValidationFailedError carries the errors that stopped a compilation.
type ValidationFailedError struct {
	Errors []*validation.ValidationError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%v: %d error(s)", ErrValidationFailed, len(e.Errors))
}

func (e *ValidationFailedError) Unwrap() error { return ErrValidationFailed }

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Compiler. Zero fields fall back to DefaultOptions.
type Options struct {
	Thresholds *policy.ThresholdPolicy
	Catalog    *policy.FormCatalog
	Head       xmlwriter.DocumentHead
	Encode     xmlwriter.EncodeOptions

	// ContinueOnValidationError returns the document together with the
	// validation errors instead of failing.
	ContinueOnValidationError bool

	// Location is the zone of the file name timestamp.
	Location *time.Location

	// Now is the clock. Tests replace it.
	Now func() time.Time

	Logger *logrus.Logger
}

// JST is the default file name zone.
var JST = time.FixedZone("JST", 9*3600)

// DefaultOptions returns statutory policies, the error encoding policy and
// side-channel validation.
func DefaultOptions() Options {
	return Options{
		Thresholds:                policy.DefaultThresholdPolicy(),
		Catalog:                   policy.DefaultFormCatalog(),
		Encode:                    xmlwriter.DefaultEncodeOptions(),
		ContinueOnValidationError: true,
		Location:                  JST,
		Now:                       time.Now,
		Logger:                    logging.Discard(),
	}
}

// =============================================================================
// COMPILER
// =============================================================================

// Compiler compiles reports. It is safe for concurrent use.
type Compiler struct {
	source   TransactionSource
	profiles ProfileRepository
	opts     Options

	income   *assembler.IncomeAssembler
	expense  *assembler.ExpenseAssembler
	donation *assembler.DonationAssembler
}

// New creates a Compiler.
func New(source TransactionSource, profiles ProfileRepository, opts Options) *Compiler {
	defaults := DefaultOptions()
	if opts.Thresholds == nil {
		opts.Thresholds = defaults.Thresholds
	}
	if opts.Catalog == nil {
		opts.Catalog = defaults.Catalog
	}
	if opts.Encode.Policy == "" {
		opts.Encode = defaults.Encode
	}
	if opts.Location == nil {
		opts.Location = defaults.Location
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}

	conv := converter.New(opts.Thresholds)
	return &Compiler{
		source:   source,
		profiles: profiles,
		opts:     opts,
		income:   assembler.NewIncomeAssembler(source, conv),
		expense:  assembler.NewExpenseAssembler(source, conv),
		donation: assembler.NewDonationAssembler(source, conv),
	}
}

// Request selects what to compile.
type Request struct {
	OrganizationID string
	FinancialYear  int
}

// Result is a finished compilation.
type Result struct {
	CompilationID string

	// XML is the rendered document as UTF-8. Its declaration names
	// Shift_JIS; pair it with ShiftJIS when writing the artifact.
	XML string

	// ShiftJIS is XML encoded for the download artifact.
	ShiftJIS []byte

	Filename      string
	PresenceFlags string
	Data          *types.ReportData

	ValidationErrors []*validation.ValidationError
}

// Compile runs the full pipeline.
func (c *Compiler) Compile(ctx context.Context, req Request) (*Result, error) {
	var result *Result

	err := logging.Wrap("Compiler.Compile", c.opts.Logger, func(ld *logging.LogData) error {
		id := uuid.New().String()
		ld.AddData("compilation_id", id)
		ld.AddData("organization_id", req.OrganizationID)
		ld.AddData("financial_year", req.FinancialYear)

		endFetch := ld.AddTiming("assemble_ms")
		data, slug, err := c.assemble(ctx, req)
		endFetch()
		if err != nil {
			return err
		}

		errs := validation.Validate(data)
		ld.AddData("validation_error_count", len(errs))
		if len(errs) > 0 {
			c.opts.Logger.WithFields(logrus.Fields{
				"compilation_id": id,
				"errors":         len(errs),
			}).Warn("Compiler.Compile.ValidationErrors")
			if !c.opts.ContinueOnValidationError {
				return &ValidationFailedError{Errors: errs}
			}
		}

		flags := c.opts.Catalog.PresenceFlags(PresentForms(data))
		head := c.opts.Head
		head.PresenceFlags = flags

		doc := xmlwriter.Render(BuildDocument(data, head), xmlwriter.DefaultGenerateOptions())

		endEncode := ld.AddTiming("encode_ms")
		encoded, err := xmlwriter.EncodeShiftJIS(doc, c.opts.Encode)
		endEncode()
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		result = &Result{
			CompilationID:    id,
			XML:              doc,
			ShiftJIS:         encoded,
			Filename:         GenerateFilename(req.FinancialYear, slug, c.opts.Now().In(c.opts.Location)),
			PresenceFlags:    flags,
			Data:             data,
			ValidationErrors: errs,
		}
		ld.AddData("filename", result.Filename)
		ld.AddData("bytes", len(encoded))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Assemble fetches and converts without validating or serializing.
func (c *Compiler) Assemble(ctx context.Context, req Request) (*types.ReportData, error) {
	data, _, err := c.assemble(ctx, req)
	return data, err
}

func (c *Compiler) assemble(ctx context.Context, req Request) (*types.ReportData, string, error) {
	filter := types.Filter{OrganizationID: req.OrganizationID, FinancialYear: req.FinancialYear}

	var (
		data      types.ReportData
		slug      string
		carryover float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.profiles.FindByOrganizationAndYear(gctx, req.OrganizationID, req.FinancialYear)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: organization %s, year %d", ErrProfileNotFound, req.OrganizationID, req.FinancialYear)
		}
		data.Profile = p
		return nil
	})
	g.Go(func() error {
		s, err := c.profiles.GetOrganizationSlug(gctx, req.OrganizationID)
		slug = s
		return err
	})
	g.Go(func() error {
		v, err := c.source.FindCarryover(gctx, filter)
		carryover = v
		return err
	})
	g.Go(func() error {
		v, err := c.income.Assemble(gctx, filter)
		data.Income = v
		return err
	})
	g.Go(func() error {
		v, err := c.expense.Assemble(gctx, filter)
		data.Expense = v
		return err
	})
	g.Go(func() error {
		v, err := c.donation.Assemble(gctx, filter)
		data.Donation = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	data.GrantExpenditure = converter.ExtractGrantExpenditure(data.Expense)
	data.Summary = converter.BuildSummary(carryover, data.Income, data.Donation, data.Expense, data.GrantExpenditure)
	return &data, slug, nil
}

// =============================================================================
// DOCUMENT
// =============================================================================

// PresentForms reports, per form, whether the report has data for it.
func PresentForms(data *types.ReportData) func(policy.FormID) bool {
	present := map[policy.FormID]bool{
		policy.FormProfile:          true,
		policy.FormSummary:          true,
		policy.FormBusinessIncome:   data.Income.BusinessIncome.HasData(),
		policy.FormLoanIncome:       data.Income.LoanIncome.HasData(),
		policy.FormGrantIncome:      data.Income.GrantIncome.HasData(),
		policy.FormOtherIncome:      data.Income.OtherIncome.HasData(),
		policy.FormPersonalDonation: data.Donation.PersonalDonation.HasData(),
		policy.FormGrantExpenditure: converter.ShouldOutputSheet(data.GrantExpenditure),
	}
	for _, c := range policy.ExpenseCategories() {
		id, _ := policy.ExpenseForm(c)
		present[id] = data.Expense.CategoryHasData(c)
	}
	routine := present[policy.FormPersonnel]
	for _, c := range policy.RoutineCategories() {
		routine = routine || data.Expense.CategoryHasData(c)
	}
	political := false
	for _, c := range policy.PoliticalCategories() {
		political = political || data.Expense.CategoryHasData(c)
	}
	present[policy.FormRoutineTotals] = routine
	present[policy.FormPoliticalTotals] = political

	return func(id policy.FormID) bool { return present[id] }
}

// BuildDocument assembles the BOOK element. Profile and summary are always
// written; every other form only when it has data.
func BuildDocument(data *types.ReportData, head xmlwriter.DocumentHead) xmlwriter.Element {
	present := PresentForms(data)

	book := xmlwriter.Node("BOOK",
		xmlwriter.SerializeHead(head),
		xmlwriter.SerializeProfile(data.Profile),
		xmlwriter.SerializeSummary(data.Summary),
	)

	optional := []struct {
		id        policy.FormID
		serialize func() xmlwriter.Element
	}{
		{policy.FormBusinessIncome, func() xmlwriter.Element { return xmlwriter.SerializeBusinessIncome(data.Income.BusinessIncome) }},
		{policy.FormLoanIncome, func() xmlwriter.Element { return xmlwriter.SerializeLoanIncome(data.Income.LoanIncome) }},
		{policy.FormGrantIncome, func() xmlwriter.Element { return xmlwriter.SerializeGrantIncome(data.Income.GrantIncome) }},
		{policy.FormOtherIncome, func() xmlwriter.Element { return xmlwriter.SerializeOtherIncome(data.Income.OtherIncome) }},
		{policy.FormPersonalDonation, func() xmlwriter.Element {
			return xmlwriter.SerializePersonalDonation(data.Donation.PersonalDonation)
		}},
		{policy.FormPersonnel, func() xmlwriter.Element { return xmlwriter.SerializePersonnel(data.Expense.Personnel) }},
	}
	for _, f := range optional {
		if present(f.id) {
			book = book.Add(f.serialize())
		}
	}

	if e, ok := xmlwriter.SerializeRoutineExpenses(data.Expense); ok {
		book = book.Add(e)
	}
	if e, ok := xmlwriter.SerializePoliticalExpenses(data.Expense); ok {
		book = book.Add(e)
	}
	if present(policy.FormGrantExpenditure) {
		book = book.Add(xmlwriter.SerializeGrantExpenditure(data.GrantExpenditure))
	}
	if e, ok := xmlwriter.SerializeExpenseTotals(data.Expense); ok {
		book = book.Add(e)
	}
	return book
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateFilename returns report_{year}_{slug}_{YYYYMMDD}_{HHMM}.xml using
// now as given. A blank slug becomes "unknown".
func GenerateFilename(year int, slug string, now time.Time) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = "unknown"
	}
	slug = strings.NewReplacer("/", "-", `\`, "-", " ", "-").Replace(slug)
	return fmt.Sprintf("report_%d_%s_%s.xml", year, slug, now.Format("20060102_1504"))
}
