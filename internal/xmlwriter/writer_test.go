package xmlwriter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatWareki(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2025, 1, 15), "R7/1/15"},
		{date(1989, 1, 8), "H1/1/8"},
		{date(1989, 1, 7), "S64/1/7"},
		{date(2019, 4, 30), "H31/4/30"},
		{date(2019, 5, 1), "R1/5/1"},
		{date(1926, 12, 25), "S1/12/25"},
		{date(1926, 12, 24), "1926/12/24"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWareki(tt.in), tt.in.String())
	}

	// late evening in Tokyo is still the same calendar day
	jst := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "R1/5/1", FormatWareki(time.Date(2019, 5, 1, 23, 30, 0, 0, jst)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100001", FormatAmount(100000.5))
	assert.Equal(t, "100000", FormatAmount(100000.4))
	assert.Equal(t, "0", FormatAmount(math.NaN()))
	assert.Equal(t, "0", FormatAmount(math.Inf(1)))
	assert.Equal(t, "1234", FormatYen(1234))

	// no drift when formatting an already formatted amount
	first := FormatAmount(99999.5)
	n, err := strconv.ParseFloat(first, 64)
	require.NoError(t, err)
	assert.Equal(t, first, FormatAmount(n))
}

func TestFormatPeriods(t *testing.T) {
	ps := []types.DateRange{
		{From: date(2024, 1, 1), To: date(2024, 12, 31)},
		{From: date(2019, 4, 1), To: date(2019, 5, 31)},
	}
	assert.Equal(t, "R6/1/1～R6/12/31,H31/4/1～R1/5/31", FormatPeriods(ps))
	assert.Equal(t, "", FormatPeriods(nil))
}

func TestRender_EscapesAndSelfCloses(t *testing.T) {
	root := Node("BOOK",
		Leaf("BIKOU", `a & b < c > d " e ' f`),
		Leaf("EMPTY", ""),
	)
	out := Render(root, DefaultGenerateOptions())

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="Shift_JIS"?>`+"\n"))
	assert.Contains(t, out, "<BIKOU>a &amp; b &lt; c &gt; d &quot; e &apos; f</BIKOU>")
	assert.Contains(t, out, "  <EMPTY/>\n")
	assert.NotContains(t, out, "a & b")
}

func TestRowElement_AllVariants(t *testing.T) {
	base := types.RowBase{RowNumber: "1", Amount: 50000}
	p := types.Party{Name: "株式会社A", Address: "東京都"}
	rows := []types.Row{
		types.BusinessIncomeRow{RowBase: base, BusinessKind: "機関紙"},
		types.LoanIncomeRow{RowBase: base, Lender: p, Date: date(2025, 1, 15)},
		types.GrantIncomeRow{RowBase: base, Grantor: p},
		types.OtherIncomeRow{RowBase: base, Description: "利息"},
		types.PersonalDonationRow{RowBase: base, Donor: p, Occupation: "会社員"},
		types.ExpenseRow{RowBase: base, Category: policy.Office, Counterpart: p, GrantFunded: true},
		types.GrantExpenditureRow{RowBase: base, SourceLabel: "事務所費", Counterpart: p},
	}
	for _, r := range rows {
		out := RenderFragment(RowElement(r))
		assert.Contains(t, out, "<ICHIREN_NO>1</ICHIREN_NO>", "%T", r)
		assert.Contains(t, out, "<KINGAKU>50000</KINGAKU>", "%T", r)
	}

	out := RenderFragment(RowElement(rows[1]))
	assert.Contains(t, out, "<DT>R7/1/15</DT>")
	assert.Contains(t, out, "<NM>株式会社A</NM>")

	out = RenderFragment(RowElement(rows[2]))
	assert.Contains(t, out, "<DT/>")

	out = RenderFragment(RowElement(rows[5]))
	assert.Contains(t, out, "<KOUFUKIN>1</KOUFUKIN>")
}

var amountPattern = regexp.MustCompile(`<KINGAKU>(\d+)</KINGAKU>`)

func TestSerializeOtherIncome_AmountsRoundTrip(t *testing.T) {
	under := int64(99999)
	s := types.OtherIncomeSection{
		TotalAmount:          350000,
		UnderThresholdAmount: &under,
		Rows: []types.OtherIncomeRow{
			{RowBase: types.RowBase{RowNumber: "1", Amount: 100001}, Description: "雑収入"},
			{RowBase: types.RowBase{RowNumber: "2", Amount: 150000}, Description: "利息"},
		},
	}
	out := RenderFragment(SerializeOtherIncome(s))

	assert.True(t, strings.HasPrefix(out, "<SYUUSHI07_06>\n  <SHEET>\n"))
	assert.Contains(t, out, "<KINGAKU_GK>350000</KINGAKU_GK>")
	assert.Contains(t, out, "<MIMAN_GK>99999</MIMAN_GK>")

	var got []int64
	for _, m := range amountPattern.FindAllStringSubmatch(out, -1) {
		n, err := strconv.ParseInt(m[1], 10, 64)
		require.NoError(t, err)
		got = append(got, n)
	}
	assert.Equal(t, []int64{100001, 150000}, got)
}

func TestSerializeLoanIncome_NoUnderThreshold(t *testing.T) {
	out := RenderFragment(SerializeLoanIncome(types.LoanIncomeSection{}))
	assert.Contains(t, out, "<MIMAN_GK/>")
	assert.Contains(t, out, "<KINGAKU_GK>0</KINGAKU_GK>")
}

func TestSerializeExpenses(t *testing.T) {
	row := types.ExpenseRow{RowBase: types.RowBase{RowNumber: "1", Amount: 60000}, Purpose: "会場費"}
	d := types.ExpenseData{
		Office: types.ExpenseSection{TotalAmount: 5000},
		FundraisingParty: []types.BusinessSheet{
			{BusinessName: "春の集い", Section: types.ExpenseSection{TotalAmount: 60000, Rows: []types.ExpenseRow{row}}},
			{BusinessName: "空", Section: types.ExpenseSection{}},
		},
	}

	routine, ok := SerializeRoutineExpenses(d)
	require.True(t, ok)
	out := RenderFragment(routine)
	assert.Contains(t, out, "<KUBUN3>")
	assert.NotContains(t, out, "<KUBUN1>")

	political, ok := SerializePoliticalExpenses(d)
	require.True(t, ok)
	out = RenderFragment(political)
	assert.Contains(t, out, "<KUBUN5>")
	assert.Contains(t, out, "<JIGYOU_NM>春の集い</JIGYOU_NM>")
	assert.NotContains(t, out, "空")

	_, ok = SerializePoliticalExpenses(types.ExpenseData{})
	assert.False(t, ok)

	totals, ok := SerializeExpenseTotals(d)
	require.True(t, ok)
	out = RenderFragment(totals)
	assert.Contains(t, out, "<HIMOKU>事務所費</HIMOKU>")
	assert.Contains(t, out, "<KUBUN2>")

	_, ok = SerializeExpenseTotals(types.ExpenseData{})
	assert.False(t, ok)
}

func TestSerializeProfile(t *testing.T) {
	partyDay := date(2025, 6, 1)
	p := &types.OrganizationReportProfile{
		OfficialName: "未来 & 政治研究会",
		Details: types.ProfileDetails{
			Representative: types.PersonName{LastName: "山田", FirstName: "太郎"},
			ContactPersons: []types.ContactPerson{{LastName: "鈴木", FirstName: "一郎", Tel: "03-1234-5678"}},
			ActivityArea:   "2",
			FundManagement: &types.FundManagement{
				PublicPositionName: "衆議院議員",
				Periods: []types.DateRange{
					{From: date(2020, 1, 1), To: date(2020, 12, 31)},
					{From: date(2021, 1, 1), To: date(2021, 6, 30)},
					{From: date(2022, 1, 1), To: date(2022, 3, 31)},
				},
			},
			SpecificPartyDate: &partyDay,
		},
	}
	out := RenderFragment(SerializeProfile(p))

	assert.Contains(t, out, "<DANTAI_NM>未来 &amp; 政治研究会</DANTAI_NM>")
	assert.Contains(t, out, "<DANTAI_KANA/>")
	assert.Contains(t, out, "<TANTOU1_TEL>03-1234-5678</TANTOU1_TEL>")
	assert.Contains(t, out, "<TANTOU3_NM_SEI/>")
	assert.Contains(t, out, "<SIKIN_KANRI_KIKAN>R2/1/1～R2/12/31</SIKIN_KANRI_KIKAN>")
	assert.Contains(t, out, "<SIKIN_KANRI_KIKAN_SONOTA>R3/1/1～R3/6/30,R4/1/1～R4/3/31</SIKIN_KANRI_KIKAN_SONOTA>")
	assert.Contains(t, out, "<GIIN1_NM_SEI/>")
	assert.Contains(t, out, "<GIIN_KIKAN/>")
	assert.Contains(t, out, "<TOKUTEI_KAISAI_DT>R7/6/1</TOKUTEI_KAISAI_DT>")
}

func TestSerializeSummaryAndHead(t *testing.T) {
	out := RenderFragment(SerializeSummary(types.SummaryData{TotalIncome: 125000}))
	assert.Contains(t, out, "<SYUNYU_GK>125000</SYUNYU_GK>")
	assert.Contains(t, out, "<ZENNEN_KURIKOSI_GK>0</ZENNEN_KURIKOSI_GK>")

	out = RenderFragment(SerializeHead(DocumentHead{Version: "20250101", PresenceFlags: "11"}))
	assert.Contains(t, out, "<SYUUSHI_UMU>11</SYUUSHI_UMU>")
	assert.Contains(t, out, "<APP/>")
}

func TestEncodeShiftJIS(t *testing.T) {
	doc := `<?xml version="1.0" encoding="Shift_JIS"?>` + "\n<BOOK>政治資金～</BOOK>\n"

	b, err := EncodeShiftJIS(doc, DefaultEncodeOptions())
	require.NoError(t, err)
	assert.NotEqual(t, len(doc), len(b))
	assert.Less(t, len(b), len(doc))

	_, err = EncodeShiftJIS("ok 😀", DefaultEncodeOptions())
	require.ErrorIs(t, err, ErrUnencodable)
	assert.Contains(t, err.Error(), "U+1F600")
	assert.Contains(t, err.Error(), "offset 3")

	b, err = EncodeShiftJIS("ok 😀", EncodeOptions{Policy: EncodingReplace})
	require.NoError(t, err)
	assert.Equal(t, []byte{'o', 'k', ' ', 0x81, 0xAC}, b)

	b, err = EncodeShiftJIS("abc", DefaultEncodeOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)
}

func TestEncodeShiftJIS_WaveDash(t *testing.T) {
	want, err := EncodeShiftJIS("4月1日\uFF5E3月31日", DefaultEncodeOptions())
	require.NoError(t, err)

	got, err := EncodeShiftJIS("4月1日\u301C3月31日", DefaultEncodeOptions())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Contains(t, string(got), string([]byte{0x81, 0x60}))
}
