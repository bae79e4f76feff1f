package types

import "time"

// OrganizationReportProfile is the static filing metadata of one
// organization for one financial year. The profile repository owns it.
type OrganizationReportProfile struct {
	OrganizationID        string         `yaml:"organization_id"`
	FinancialYear         int            `yaml:"financial_year"`
	OfficialName          string         `yaml:"official_name"`
	OfficialNameKana      string         `yaml:"official_name_kana"`
	OfficeAddress         string         `yaml:"office_address"`
	OfficeAddressBuilding string         `yaml:"office_address_building"`
	Details               ProfileDetails `yaml:"details"`
}

// ProfileDetails groups the people and optional records of a profile.
type ProfileDetails struct {
	Representative PersonName      `yaml:"representative"`
	Accountant     PersonName      `yaml:"accountant"`
	ContactPersons []ContactPerson `yaml:"contact_persons"`

	OrganizationType string `yaml:"organization_type"`
	ActivityArea     string `yaml:"activity_area"`

	FundManagement     *FundManagement     `yaml:"fund_management"`
	DietMemberRelation *DietMemberRelation `yaml:"diet_member_relation"`
	SpecificPartyDate  *time.Time          `yaml:"specific_party_date"`
}

// PersonName is a family/given name pair.
type PersonName struct {
	LastName  string `yaml:"last_name"`
	FirstName string `yaml:"first_name"`
}

// ContactPerson is a person the filing office can call back. At most three
// are printed.
type ContactPerson struct {
	LastName  string `yaml:"last_name"`
	FirstName string `yaml:"first_name"`
	Tel       string `yaml:"tel"`
}

// DateRange is an inclusive period.
type DateRange struct {
	From time.Time `yaml:"from"`
	To   time.Time `yaml:"to"`
}

// FundManagement is the fund-management organization record
// (資金管理団体の届出).
type FundManagement struct {
	PublicPositionName string      `yaml:"public_position_name"`
	PublicPositionType string      `yaml:"public_position_type"`
	Applicant          PersonName  `yaml:"applicant"`
	Periods            []DateRange `yaml:"periods"`
}

// DietMemberRelation is the diet-member-related organization record
// (国会議員関係政治団体).
type DietMemberRelation struct {
	Type    string       `yaml:"type"`
	Members []DietMember `yaml:"members"`
	Periods []DateRange  `yaml:"periods"`
}

// DietMember is a related member of the Diet.
type DietMember struct {
	LastName  string `yaml:"last_name"`
	FirstName string `yaml:"first_name"`
	Chamber   string `yaml:"chamber"`
	Position  string `yaml:"position"`
}

// Closed value sets checked by the profile validator.
var (
	ActivityAreas = []string{"1", "2"}

	DietMemberRelationTypes = []string{"1", "2", "3"}
)
