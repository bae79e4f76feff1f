package compiler

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
	"github.com/ginjaninja78/fund-report-compiler/internal/validation"
	"github.com/ginjaninja78/fund-report-compiler/internal/xmlwriter"
)

type fakeSource struct {
	txs       map[policy.Category][]types.Transaction
	carryover float64
	failOn    policy.Category
	err       error
}

func (f *fakeSource) FindTransactions(ctx context.Context, filter types.Filter, category policy.Category) ([]types.Transaction, error) {
	if f.err != nil && category == f.failOn {
		return nil, f.err
	}
	return f.txs[category], nil
}

func (f *fakeSource) FindCarryover(ctx context.Context, filter types.Filter) (float64, error) {
	return f.carryover, nil
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) FindByOrganizationAndYear(ctx context.Context, organizationID string, year int) (*types.OrganizationReportProfile, error) {
	args := m.Called(ctx, organizationID, year)
	p, _ := args.Get(0).(*types.OrganizationReportProfile)
	return p, args.Error(1)
}

func (m *mockProfiles) GetOrganizationSlug(ctx context.Context, organizationID string) (string, error) {
	args := m.Called(ctx, organizationID)
	return args.String(0), args.Error(1)
}

func testProfile() *types.OrganizationReportProfile {
	return &types.OrganizationReportProfile{
		OrganizationID:   "org-1",
		FinancialYear:    2025,
		OfficialName:     "未来政治研究会",
		OfficialNameKana: "みらいせいじけんきゅうかい",
		OfficeAddress:    "東京都千代田区永田町1-1",
		Details: types.ProfileDetails{
			Representative:   types.PersonName{LastName: "山田", FirstName: "太郎"},
			Accountant:       types.PersonName{LastName: "佐藤", FirstName: "花子"},
			OrganizationType: "1",
			ActivityArea:     "2",
		},
	}
}

func profilesReturning(p *types.OrganizationReportProfile, slug string) *mockProfiles {
	m := &mockProfiles{}
	m.On("FindByOrganizationAndYear", mock.Anything, "org-1", 2025).Return(p, nil)
	m.On("GetOrganizationSlug", mock.Anything, "org-1").Return(slug, nil)
	return m
}

var fixedNow = time.Date(2026, 3, 31, 14, 5, 0, 0, JST)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	opts.Head = xmlwriter.DocumentHead{Version: "1.0", App: "fund-report-compiler", FileFormatNo: "1", KokujiNen: "R07"}
	return opts
}

var testRequest = Request{OrganizationID: "org-1", FinancialYear: 2025}

func TestCompile_OnlyOtherIncome(t *testing.T) {
	src := &fakeSource{txs: map[policy.Category][]types.Transaction{
		policy.OtherIncome: {{
			TransactionNo:   "1",
			TransactionType: policy.Income,
			CreditAmount:    5000,
		}},
	}}
	c := New(src, profilesReturning(testProfile(), "mirai"), testOptions())

	res, err := c.Compile(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, "110001"+strings.Repeat("0", 45), res.PresenceFlags)
	assert.Empty(t, res.ValidationErrors)
	assert.NotEmpty(t, res.CompilationID)
	assert.Equal(t, "report_2025_mirai_20260331_1405.xml", res.Filename)

	assert.True(t, strings.HasPrefix(res.XML, `<?xml version="1.0" encoding="Shift_JIS"?>`))
	assert.Contains(t, res.XML, "<SYUUSHI_UMU>110001"+strings.Repeat("0", 45)+"</SYUUSHI_UMU>")
	assert.Contains(t, res.XML, "<SYUUSHI07_06>")
	assert.NotContains(t, res.XML, "<SYUUSHI07_03>")
	assert.NotContains(t, res.XML, "<SYUUSHI07_14>")
	assert.NotContains(t, res.XML, "<SYUUSHI07_17>")

	head := strings.Index(res.XML, "<HEAD>")
	profile := strings.Index(res.XML, "<SYUUSHI07_01>")
	summary := strings.Index(res.XML, "<SYUUSHI07_02>")
	assert.True(t, head < profile && profile < summary)

	assert.Equal(t, int64(5000), res.Data.Summary.OtherIncomeTotal)
	assert.NotEqual(t, len(res.XML), len(res.ShiftJIS))
}

func TestCompile_ExpensesDrivePresence(t *testing.T) {
	src := &fakeSource{
		carryover: 10000,
		txs: map[policy.Category][]types.Transaction{
			policy.Utilities: {{
				TransactionNo:   "3",
				TransactionType: policy.Expense,
				DebitAmount:     80000,
			}},
			policy.Election: {{
				TransactionNo:    "4",
				TransactionDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				TransactionType:  policy.Expense,
				FriendlyCategory: "ポスター印刷",
				DebitAmount:      120000,
				Counterpart:      &types.CounterpartRef{Name: "印刷所", Address: "東京都"},
				GrantFunded:      true,
			}},
		},
	}
	c := New(src, profilesReturning(testProfile(), "mirai"), testOptions())

	res, err := c.Compile(context.Background(), testRequest)
	require.NoError(t, err)

	present := PresentForms(res.Data)
	assert.True(t, present(policy.FormUtilities))
	assert.True(t, present(policy.FormElection))
	assert.True(t, present(policy.FormGrantExpenditure))
	assert.True(t, present(policy.FormRoutineTotals))
	assert.True(t, present(policy.FormPoliticalTotals))
	assert.False(t, present(policy.FormPersonnel))

	for _, tag := range []string{"<SYUUSHI07_14>", "<SYUUSHI07_15>", "<SYUUSHI07_16>", "<SYUUSHI07_17>"} {
		assert.Contains(t, res.XML, tag)
	}
	assert.True(t, strings.Index(res.XML, "<SYUUSHI07_15>") < strings.Index(res.XML, "<SYUUSHI07_16>"))
	assert.Equal(t, int64(10000-200000), res.Data.Summary.NextYearCarryover)
	assert.Equal(t, int64(120000), res.Data.Summary.GrantFundedTotal)
}

func TestCompile_EscapesText(t *testing.T) {
	p := testProfile()
	p.OfficialName = `A & B <"x"> 'y'`
	c := New(&fakeSource{}, profilesReturning(p, ""), testOptions())

	res, err := c.Compile(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Contains(t, res.XML, "<DANTAI_NM>A &amp; B &lt;&quot;x&quot;&gt; &apos;y&apos;</DANTAI_NM>")
	assert.Contains(t, res.Filename, "_unknown_")
}

func TestCompile_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("ledger unavailable")
	src := &fakeSource{failOn: policy.Research, err: boom}
	c := New(src, profilesReturning(testProfile(), "mirai"), testOptions())

	res, err := c.Compile(context.Background(), testRequest)
	assert.Nil(t, res)
	assert.Same(t, boom, err)
}

func TestCompile_ProfileNotFound(t *testing.T) {
	c := New(&fakeSource{}, profilesReturning(nil, "mirai"), testOptions())

	_, err := c.Compile(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCompile_ValidationErrors(t *testing.T) {
	p := testProfile()
	p.OfficialName = ""

	t.Run("side channel", func(t *testing.T) {
		c := New(&fakeSource{}, profilesReturning(p, "mirai"), testOptions())
		res, err := c.Compile(context.Background(), testRequest)
		require.NoError(t, err)
		require.Len(t, res.ValidationErrors, 1)
		assert.Equal(t, validation.Required, res.ValidationErrors[0].Code)
		assert.Equal(t, "profile.officialName", res.ValidationErrors[0].Path)
		assert.NotEmpty(t, res.ShiftJIS)
	})

	t.Run("strict", func(t *testing.T) {
		opts := testOptions()
		opts.ContinueOnValidationError = false
		c := New(&fakeSource{}, profilesReturning(p, "mirai"), opts)

		res, err := c.Compile(context.Background(), testRequest)
		assert.Nil(t, res)
		require.ErrorIs(t, err, ErrValidationFailed)

		var vf *ValidationFailedError
		require.True(t, errors.As(err, &vf))
		assert.Len(t, vf.Errors, 1)
	})
}

func TestCompile_UnencodableText(t *testing.T) {
	p := testProfile()
	p.OfficeAddressBuilding = "ビル😀"

	_, err := New(&fakeSource{}, profilesReturning(p, "mirai"), testOptions()).
		Compile(context.Background(), testRequest)
	assert.ErrorIs(t, err, xmlwriter.ErrUnencodable)

	opts := testOptions()
	opts.Encode = xmlwriter.EncodeOptions{Policy: xmlwriter.EncodingReplace, Replacement: xmlwriter.DefaultReplacement}
	res, err := New(&fakeSource{}, profilesReturning(p, "mirai"), opts).
		Compile(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Contains(t, string(res.ShiftJIS), "\x81\xac")
}

func TestGenerateFilename(t *testing.T) {
	pattern := regexp.MustCompile(`^report_\d{4}_[^_/\\]+_\d{8}_\d{4}\.xml$`)

	name := GenerateFilename(2025, "mirai", time.Date(2026, 1, 2, 3, 4, 0, 0, JST))
	assert.Equal(t, "report_2025_mirai_20260102_0304.xml", name)
	assert.Regexp(t, pattern, name)

	assert.Equal(t, "report_2025_unknown_20260102_0304.xml",
		GenerateFilename(2025, "  ", time.Date(2026, 1, 2, 3, 4, 0, 0, JST)))
	assert.Equal(t, "report_2025_a-b_20260102_0304.xml",
		GenerateFilename(2025, "a/b", time.Date(2026, 1, 2, 3, 4, 0, 0, JST)))
}

func TestCompile_FilenameUsesConfiguredZone(t *testing.T) {
	opts := testOptions()
	opts.Now = func() time.Time { return time.Date(2026, 3, 31, 16, 30, 0, 0, time.UTC) }
	c := New(&fakeSource{}, profilesReturning(testProfile(), "mirai"), opts)

	res, err := c.Compile(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "report_2025_mirai_20260401_0130.xml", res.Filename)
}
