package validation

import (
	"regexp"
	"strconv"

	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

var telPattern = regexp.MustCompile(`^[0-9][0-9-]*[0-9]$`)

// ValidateProfile checks the organization profile. A nil profile yields a
// single REQUIRED error at "profile".
func ValidateProfile(p *types.OrganizationReportProfile) []*ValidationError {
	c := &collector{}
	if p == nil {
		c.add(Required, "profile")
		return c.errs
	}

	year := strconv.Itoa(p.FinancialYear)
	if p.FinancialYear <= 0 || len(year) != 4 {
		c.add(InvalidFormat, "profile.financialYear")
	}

	c.required("profile.officialName", p.OfficialName, MaxNameLength)
	c.required("profile.officialNameKana", p.OfficialNameKana, MaxNameLength)
	c.required("profile.officeAddress", p.OfficeAddress, MaxAddressLength)
	c.maxLength("profile.officeAddressBuilding", p.OfficeAddressBuilding, MaxAddressLength)

	d := p.Details
	personName(c, "profile.details.representative", d.Representative)
	personName(c, "profile.details.accountant", d.Accountant)

	if len(d.ContactPersons) > MaxContactPersons {
		c.add(InvalidValue, "profile.details.contactPersons")
	}
	for i, cp := range d.ContactPersons {
		base := join("profile.details", index("contactPersons", i))
		c.required(join(base, "lastName"), cp.LastName, MaxPersonNameLength)
		c.maxLength(join(base, "firstName"), cp.FirstName, MaxPersonNameLength)
		if cp.Tel != "" {
			if !telPattern.MatchString(cp.Tel) {
				c.add(InvalidFormat, join(base, "tel"))
			} else {
				c.maxLength(join(base, "tel"), cp.Tel, MaxTelLength)
			}
		}
	}

	if d.OrganizationType == "" {
		c.add(Required, "profile.details.organizationType")
	}
	c.oneOf("profile.details.activityArea", d.ActivityArea, types.ActivityAreas)

	if fm := d.FundManagement; fm != nil {
		base := "profile.details.fundManagement"
		c.maxLength(join(base, "publicPositionName"), fm.PublicPositionName, MaxPersonNameLength)
		c.maxLength(join(base, "applicant.lastName"), fm.Applicant.LastName, MaxPersonNameLength)
		c.maxLength(join(base, "applicant.firstName"), fm.Applicant.FirstName, MaxPersonNameLength)
		periods(c, base, fm.Periods)
	}

	if dm := d.DietMemberRelation; dm != nil {
		base := "profile.details.dietMemberRelation"
		c.oneOf(join(base, "type"), dm.Type, types.DietMemberRelationTypes)
		if len(dm.Members) == 0 {
			c.add(Required, join(base, "members"))
		}
		for i, m := range dm.Members {
			mb := join(base, index("members", i))
			c.required(join(mb, "lastName"), m.LastName, MaxPersonNameLength)
			c.required(join(mb, "firstName"), m.FirstName, MaxPersonNameLength)
			c.maxLength(join(mb, "position"), m.Position, MaxPersonNameLength)
		}
		periods(c, base, dm.Periods)
	}

	return c.errs
}

func personName(c *collector, base string, n types.PersonName) {
	c.required(join(base, "lastName"), n.LastName, MaxPersonNameLength)
	c.required(join(base, "firstName"), n.FirstName, MaxPersonNameLength)
}

func periods(c *collector, base string, ps []types.DateRange) {
	if len(ps) == 0 {
		c.add(Required, join(base, "periods"))
		return
	}
	for i, p := range ps {
		pb := join(base, index("periods", i))
		switch {
		case p.From.IsZero():
			c.add(Required, join(pb, "from"))
		case p.To.IsZero():
			c.add(Required, join(pb, "to"))
		case p.To.Before(p.From):
			c.add(InvalidValue, pb)
		}
	}
}
