package xmlwriter

import (
	"fmt"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// Number of numbered slots the profile sheet has for repeated entries.
const (
	ContactPersonSlots = 3
	DietMemberSlots    = 3
)

// SerializeProfile renders SYUUSHI07_01. Every tag is always written;
// missing values and unused slots become empty elements.
func SerializeProfile(p *types.OrganizationReportProfile) Element {
	if p == nil {
		p = &types.OrganizationReportProfile{}
	}
	d := p.Details

	sheet := Node("SHEET",
		Leaf("DANTAI_NM", p.OfficialName),
		Leaf("DANTAI_KANA", p.OfficialNameKana),
		Leaf("JIMU_ADR", p.OfficeAddress),
		Leaf("JIMU_ADR_BLD", p.OfficeAddressBuilding),
		Leaf("DAI_NM_SEI", d.Representative.LastName),
		Leaf("DAI_NM_MEI", d.Representative.FirstName),
		Leaf("KAI_NM_SEI", d.Accountant.LastName),
		Leaf("KAI_NM_MEI", d.Accountant.FirstName),
	)

	for i := 0; i < ContactPersonSlots; i++ {
		var cp types.ContactPerson
		if i < len(d.ContactPersons) {
			cp = d.ContactPersons[i]
		}
		prefix := fmt.Sprintf("TANTOU%d_", i+1)
		sheet = sheet.Add(
			Leaf(prefix+"NM_SEI", cp.LastName),
			Leaf(prefix+"NM_MEI", cp.FirstName),
			Leaf(prefix+"TEL", cp.Tel),
		)
	}

	sheet = sheet.Add(
		Leaf("DANTAI_KBN", d.OrganizationType),
		Leaf("KATU_KUKI", d.ActivityArea),
	)
	sheet = sheet.Add(fundManagement(d.FundManagement)...)
	sheet = sheet.Add(dietMembers(d.DietMemberRelation)...)

	var partyDate string
	if d.SpecificPartyDate != nil {
		partyDate = FormatWareki(*d.SpecificPartyDate)
	}
	sheet = sheet.Add(Leaf("TOKUTEI_KAISAI_DT", partyDate))

	return Node(string(policy.FormProfile), sheet)
}

func fundManagement(fm *types.FundManagement) []Element {
	if fm == nil {
		fm = &types.FundManagement{}
	}
	first, rest := splitPeriods(fm.Periods)
	return []Element{
		Leaf("SIKIN_KANRI_UMU", flag(len(fm.Periods) > 0 || fm.PublicPositionName != "")),
		Leaf("SIKIN_KANRI_KOUSYOKU", fm.PublicPositionName),
		Leaf("SIKIN_KANRI_SYUBETU", fm.PublicPositionType),
		Leaf("SIKIN_KANRI_NM_SEI", fm.Applicant.LastName),
		Leaf("SIKIN_KANRI_NM_MEI", fm.Applicant.FirstName),
		Leaf("SIKIN_KANRI_KIKAN", first),
		Leaf("SIKIN_KANRI_KIKAN_SONOTA", rest),
	}
}

func dietMembers(dm *types.DietMemberRelation) []Element {
	if dm == nil {
		dm = &types.DietMemberRelation{}
	}
	out := []Element{Leaf("GIIN_KBN", dm.Type)}
	for i := 0; i < DietMemberSlots; i++ {
		var m types.DietMember
		if i < len(dm.Members) {
			m = dm.Members[i]
		}
		prefix := fmt.Sprintf("GIIN%d_", i+1)
		out = append(out,
			Leaf(prefix+"NM_SEI", m.LastName),
			Leaf(prefix+"NM_MEI", m.FirstName),
			Leaf(prefix+"GIIN_SYU", m.Chamber),
			Leaf(prefix+"KOUSYOKU", m.Position),
		)
	}
	first, rest := splitPeriods(dm.Periods)
	return append(out,
		Leaf("GIIN_KIKAN", first),
		Leaf("GIIN_KIKAN_SONOTA", rest),
	)
}

// splitPeriods renders the first period on its own and every further
// period into a single comma-joined overflow value.
func splitPeriods(ps []types.DateRange) (first, rest string) {
	if len(ps) == 0 {
		return "", ""
	}
	return FormatPeriod(ps[0]), FormatPeriods(ps[1:])
}

// SerializeSummary renders SYUUSHI07_02.
func SerializeSummary(s types.SummaryData) Element {
	return Node(string(policy.FormSummary), Node("SHEET",
		Leaf("ZENNEN_KURIKOSI_GK", FormatYen(s.PreviousYearCarryover)),
		Leaf("HONNEN_SYUNYU_GK", FormatYen(s.CurrentYearIncome)),
		Leaf("SYUNYU_GK", FormatYen(s.TotalIncome)),
		Leaf("SISYUTU_GK", FormatYen(s.TotalExpense)),
		Leaf("YOKUNEN_KURIKOSI_GK", FormatYen(s.NextYearCarryover)),
		Leaf("KOJIN_KIFU_GK", FormatYen(s.PersonalDonationTotal)),
		Leaf("KIFU_GK", FormatYen(s.DonationTotal)),
		Leaf("JIGYOU_SYUNYU_GK", FormatYen(s.BusinessIncomeTotal)),
		Leaf("KARIIRE_GK", FormatYen(s.LoanIncomeTotal)),
		Leaf("HONSIBU_KOUFU_GK", FormatYen(s.GrantIncomeTotal)),
		Leaf("SONOTA_SYUNYU_GK", FormatYen(s.OtherIncomeTotal)),
		Leaf("JINKENHI_GK", FormatYen(s.PersonnelTotal)),
		Leaf("KEIJOU_GK", FormatYen(s.RoutineTotal)),
		Leaf("SEIJI_KATUDOU_GK", FormatYen(s.PoliticalTotal)),
		Leaf("KOUFUKIN_GK", FormatYen(s.GrantFundedTotal)),
	))
}

// DocumentHead carries the HEAD values of a document.
type DocumentHead struct {
	Version       string
	App           string
	FileFormatNo  string
	KokujiNen     string
	PresenceFlags string
}

// SerializeHead renders HEAD.
func SerializeHead(h DocumentHead) Element {
	return Node("HEAD",
		Leaf("VERSION", h.Version),
		Leaf("APP", h.App),
		Leaf("FILE_FORMAT_NO", h.FileFormatNo),
		Leaf("KOKUJI_NEN", h.KokujiNen),
		Leaf("SYUUSHI_UMU", h.PresenceFlags),
	)
}
