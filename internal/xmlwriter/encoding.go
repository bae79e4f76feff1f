package xmlwriter

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ErrUnencodable is returned when text holds a character Shift_JIS cannot
// represent and the policy is EncodingError.
var ErrUnencodable = errors.New("character not representable in Shift_JIS")

// EncodingPolicy selects what happens to characters outside Shift_JIS.
type EncodingPolicy string

const (
	// EncodingError fails with ErrUnencodable naming the first offending rune.
	EncodingError EncodingPolicy = "error"
	// EncodingReplace substitutes the configured replacement character.
	EncodingReplace EncodingPolicy = "replace"
)

// DefaultReplacement is the geta mark, the customary stand-in for
// unrepresentable characters in Japanese documents.
const DefaultReplacement = '〓'

// EncodeOptions configures EncodeShiftJIS.
type EncodeOptions struct {
	Policy      EncodingPolicy
	Replacement rune
}

// DefaultEncodeOptions fails on unrepresentable characters.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Policy: EncodingError, Replacement: DefaultReplacement}
}

// waveDash folds WAVE DASH into FULLWIDTH TILDE. The Shift_JIS table maps
// 0x8160 to U+FF5E only.
var waveDash = strings.NewReplacer("\u301C", "\uFF5E")

// EncodeShiftJIS converts a UTF-8 document to Shift_JIS bytes.
// U+301C is written as 0x8160.
func EncodeShiftJIS(s string, options EncodeOptions) ([]byte, error) {
	s = waveDash.Replace(s)
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err == nil {
		return out, nil
	}

	switch options.Policy {
	case EncodingReplace:
		replacement := options.Replacement
		if replacement == 0 {
			replacement = DefaultReplacement
		}
		if !encodable(replacement) {
			return nil, fmt.Errorf("%w: replacement %q", ErrUnencodable, replacement)
		}
		replaced := make([]rune, 0, utf8.RuneCountInString(s))
		for _, r := range s {
			if !encodable(r) {
				r = replacement
			}
			replaced = append(replaced, r)
		}
		out, _, err = transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(string(replaced)))
		if err != nil {
			return nil, fmt.Errorf("encode Shift_JIS: %w", err)
		}
		return out, nil

	default:
		offset := 0
		for i, r := range s {
			if !encodable(r) {
				return nil, fmt.Errorf("%w: %q (U+%04X) at byte offset %d", ErrUnencodable, r, r, i)
			}
			offset = i
		}
		return nil, fmt.Errorf("encode Shift_JIS near byte offset %d: %w", offset, err)
	}
}

func encodable(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	_, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), string(r))
	return err == nil
}
