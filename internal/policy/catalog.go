// =============================================================================
// Political Fund Report Compiler - Known Form Catalog
// =============================================================================
//
// The catalog is the ordered list of report forms this compiler implements,
// together with the position each form occupies in the document header's
// presence-flag string (SYUUSHI_UMU).
//
// FLAG POSITIONS:
//   Only three positions are confirmed against the filing schema:
//     0 = SYUUSHI07_01 (profile), 1 = SYUUSHI07_02 (summary),
//     5 = SYUUSHI07_06 (other income).
//   Every other position is configuration, not an assumption that the
//   catalog index equals the flag position. Override them from the YAML
//   config once the authoritative table is confirmed.
//
// =============================================================================

package policy

import (
	"fmt"
	"strings"
)

// FormID identifies an implemented report form.
type FormID string

const (
	FormProfile          FormID = "SYUUSHI07_01"
	FormSummary          FormID = "SYUUSHI07_02"
	FormBusinessIncome   FormID = "SYUUSHI07_03"
	FormLoanIncome       FormID = "SYUUSHI07_04"
	FormGrantIncome      FormID = "SYUUSHI07_05"
	FormOtherIncome      FormID = "SYUUSHI07_06"
	FormPersonalDonation FormID = "SYUUSHI07_07"
	FormPersonnel        FormID = "SYUUSHI07_13"

	FormUtilities FormID = "SYUUSHI07_14_KUBUN1"
	FormSupplies  FormID = "SYUUSHI07_14_KUBUN2"
	FormOffice    FormID = "SYUUSHI07_14_KUBUN3"

	FormOrganizationalActivity FormID = "SYUUSHI07_15_KUBUN1"
	FormElection               FormID = "SYUUSHI07_15_KUBUN2"
	FormPublication            FormID = "SYUUSHI07_15_KUBUN3"
	FormAdvertising            FormID = "SYUUSHI07_15_KUBUN4"
	FormFundraisingParty       FormID = "SYUUSHI07_15_KUBUN5"
	FormOtherBusiness          FormID = "SYUUSHI07_15_KUBUN6"
	FormResearch               FormID = "SYUUSHI07_15_KUBUN7"
	FormDonationsGrants        FormID = "SYUUSHI07_15_KUBUN8"
	FormOtherExpense           FormID = "SYUUSHI07_15_KUBUN9"

	FormGrantExpenditure FormID = "SYUUSHI07_16"
	FormRoutineTotals    FormID = "SYUUSHI07_17_KUBUN1"
	FormPoliticalTotals  FormID = "SYUUSHI07_17_KUBUN2"
)

// DefaultFlagLength is the length of the presence-flag string.
const DefaultFlagLength = 51

// FormEntry pairs a form with its presence-flag position.
type FormEntry struct {
	ID           FormID `yaml:"id"`
	FlagPosition int    `yaml:"flag_position"`
}

// FormCatalog is the immutable, ordered catalog.
type FormCatalog struct {
	entries    []FormEntry
	flagLength int
}

var expenseForms = map[Category]FormID{
	Personnel:              FormPersonnel,
	Utilities:              FormUtilities,
	Supplies:               FormSupplies,
	Office:                 FormOffice,
	OrganizationalActivity: FormOrganizationalActivity,
	Election:               FormElection,
	Publication:            FormPublication,
	Advertising:            FormAdvertising,
	FundraisingParty:       FormFundraisingParty,
	OtherBusiness:          FormOtherBusiness,
	Research:               FormResearch,
	DonationsGrants:        FormDonationsGrants,
	OtherExpense:           FormOtherExpense,
}

// ExpenseForm returns the form an expense category is printed on.
func ExpenseForm(c Category) (FormID, bool) {
	id, ok := expenseForms[c]
	return id, ok
}

// DefaultFormEntries returns the built-in catalog.
func DefaultFormEntries() []FormEntry {
	return []FormEntry{
		{FormProfile, 0},
		{FormSummary, 1},
		{FormBusinessIncome, 2},
		{FormLoanIncome, 3},
		{FormGrantIncome, 4},
		{FormOtherIncome, 5},
		{FormPersonalDonation, 6},
		{FormPersonnel, 12},
		{FormUtilities, 13},
		{FormSupplies, 14},
		{FormOffice, 15},
		{FormOrganizationalActivity, 16},
		{FormElection, 17},
		{FormPublication, 18},
		{FormAdvertising, 19},
		{FormFundraisingParty, 20},
		{FormOtherBusiness, 21},
		{FormResearch, 22},
		{FormDonationsGrants, 23},
		{FormOtherExpense, 24},
		{FormGrantExpenditure, 25},
		{FormRoutineTotals, 26},
		{FormPoliticalTotals, 27},
	}
}

// KnownFormIDs returns the implemented form ids in catalog order.
func KnownFormIDs() []FormID {
	entries := DefaultFormEntries()
	ids := make([]FormID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// DefaultFormCatalog builds the catalog from DefaultFormEntries.
func DefaultFormCatalog() *FormCatalog {
	c, err := NewFormCatalog(DefaultFormEntries(), DefaultFlagLength)
	if err != nil {
		panic(fmt.Sprintf("default form catalog is invalid: %v", err))
	}
	return c
}

// NewFormCatalog validates and freezes a catalog.
//
// RULES:
//   - every id must be one this compiler implements, listed once
//   - positions must be unique and inside the flag string
//   - the profile and summary forms keep positions 0 and 1
func NewFormCatalog(entries []FormEntry, flagLength int) (*FormCatalog, error) {
	if flagLength <= 0 {
		return nil, fmt.Errorf("flag length must be positive, got %d", flagLength)
	}

	known := make(map[FormID]bool)
	for _, id := range KnownFormIDs() {
		known[id] = true
	}

	seenIDs := make(map[FormID]bool)
	seenPositions := make(map[int]FormID)
	for _, e := range entries {
		if !known[e.ID] {
			return nil, fmt.Errorf("unknown form id %q", e.ID)
		}
		if seenIDs[e.ID] {
			return nil, fmt.Errorf("form %s listed twice", e.ID)
		}
		if e.FlagPosition < 0 || e.FlagPosition >= flagLength {
			return nil, fmt.Errorf("form %s: flag position %d outside 0..%d", e.ID, e.FlagPosition, flagLength-1)
		}
		if other, taken := seenPositions[e.FlagPosition]; taken {
			return nil, fmt.Errorf("form %s: flag position %d already used by %s", e.ID, e.FlagPosition, other)
		}
		seenIDs[e.ID] = true
		seenPositions[e.FlagPosition] = e.ID
	}

	if seenPositions[0] != FormProfile || seenPositions[1] != FormSummary {
		return nil, fmt.Errorf("positions 0 and 1 must hold %s and %s", FormProfile, FormSummary)
	}

	frozen := make([]FormEntry, len(entries))
	copy(frozen, entries)
	return &FormCatalog{entries: frozen, flagLength: flagLength}, nil
}

// Entries returns a copy of the catalog in order.
func (c *FormCatalog) Entries() []FormEntry {
	out := make([]FormEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len is the number of implemented forms.
func (c *FormCatalog) Len() int { return len(c.entries) }

// FlagLength is the length of the presence-flag string.
func (c *FormCatalog) FlagLength() int { return c.flagLength }

// PresenceFlags renders the flag string. Profile and summary are always "1";
// every other catalog position is "1" iff present reports data for the form.
// Positions no catalog entry covers stay "0".
func (c *FormCatalog) PresenceFlags(present func(FormID) bool) string {
	flags := []byte(strings.Repeat("0", c.flagLength))
	for _, e := range c.entries {
		switch {
		case e.ID == FormProfile || e.ID == FormSummary:
			flags[e.FlagPosition] = '1'
		case present != nil && present(e.ID):
			flags[e.FlagPosition] = '1'
		}
	}
	return string(flags)
}
