// =============================================================================
// Political Fund Report Compiler - Text Transformations
// =============================================================================
//
// Field-level transformations applied by every section converter before a
// value reaches a report row.
//
// TRANSFORMATIONS:
//   - SanitizeText:   trim, collapse internal whitespace runs to one space
//   - BuildRemarks:   memo + ledger row reference (備考)
//   - counterpartOf:  enriched counterpart, or the pending placeholder
//   - donorOf:        enriched donor, or the pending placeholder
//
// =============================================================================

package converter

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// Placeholder text printed while counterpart and donor master data is not
// yet joined onto transactions.
const (
	PendingName    = "（未移行）"
	PendingAddress = "（未移行）"
)

// RemarksPrefix precedes the ledger transaction number in every remarks
// field so a filed row can be traced back to its ledger line.
const RemarksPrefix = "MF行番号: "

var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// SanitizeText trims the value and collapses every run of whitespace
// (including full-width spaces and newlines) to a single ASCII space.
//
// EXAMPLE:
//   Input:  "  東京都\t千代田区　永田町  "
//   Output: "東京都 千代田区 永田町"
func SanitizeText(value string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
}

// BuildRemarks returns the 備考 text for a transaction.
//
// EXAMPLE:
//   memo "会場費", transactionNo "42" -> "会場費 MF行番号: 42"
//   memo "",       transactionNo "42" -> "MF行番号: 42"
func BuildRemarks(tx types.Transaction) string {
	ref := RemarksPrefix + SanitizeText(tx.TransactionNo)
	memo := SanitizeText(tx.Memo)
	if memo == "" {
		return ref
	}
	return memo + " " + ref
}

// purposeOf returns the 目的/摘要 text: the friendly category when present.
func purposeOf(tx types.Transaction) string {
	return SanitizeText(tx.FriendlyCategory)
}

func counterpartOf(tx types.Transaction) types.Party {
	if tx.Counterpart == nil {
		return pendingParty()
	}
	return types.Party{
		Name:    SanitizeText(tx.Counterpart.Name),
		Address: SanitizeText(tx.Counterpart.Address),
	}
}

func donorOf(tx types.Transaction) (types.Party, string) {
	if tx.Donor == nil {
		return pendingParty(), ""
	}
	return types.Party{
		Name:    SanitizeText(tx.Donor.Name),
		Address: SanitizeText(tx.Donor.Address),
	}, SanitizeText(tx.Donor.Occupation)
}

func pendingParty() types.Party {
	return types.Party{Name: PendingName, Address: PendingAddress, Pending: true}
}
