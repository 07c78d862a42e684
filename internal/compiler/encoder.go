package compiler

import (
	"fmt"
	"regexp"
	"strings"
)

// CodeCoord is one `Cc` formula coordinate: CharIndex selects a character
// of the phrase (0..20 for A..U, -5..-1 for V..Z, from the end), CodeIndex
// selects a position within that character's own code (0..19 for a..t,
// -6..-1 for u..z, from the end) — spec §4.H's TableEncoder formula
// language, ported from `src/algo/encoder.cc`'s `CodeCoords`.
type CodeCoord struct {
	CharIndex int
	CodeIndex int
}

// EncodingRule is one `encoder/rules` entry: a formula applied to phrases
// whose character count falls in [MinLen, MaxLen].
type EncodingRule struct {
	MinLen int
	MaxLen int
	Coords []CodeCoord
}

// ParseFormula parses a formula string like "AaAzBaBbBz" into coordinate
// pairs. The formula's length must be even; each pair is one uppercase
// char-index letter followed by one lowercase code-index letter.
func ParseFormula(formula string) ([]CodeCoord, error) {
	if len(formula)%2 != 0 {
		return nil, fmt.Errorf("compiler: bad formula %q: odd length", formula)
	}
	var coords []CodeCoord
	for i := 0; i < len(formula); i += 2 {
		charByte := formula[i]
		codeByte := formula[i+1]
		if charByte < 'A' || charByte > 'Z' {
			return nil, fmt.Errorf("compiler: bad formula %q: invalid char index %q", formula, charByte)
		}
		if codeByte < 'a' || codeByte > 'z' {
			return nil, fmt.Errorf("compiler: bad formula %q: invalid code index %q", formula, codeByte)
		}
		c := CodeCoord{}
		if charByte > 'U' {
			c.CharIndex = int(charByte) - 'Z' - 1
		} else {
			c.CharIndex = int(charByte) - 'A'
		}
		if codeByte >= 'u' {
			c.CodeIndex = int(codeByte) - 'z' - 1
		} else {
			c.CodeIndex = int(codeByte) - 'a'
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// TableEncoder builds a composite code for a multi-character phrase from
// the already-known per-character codes, following the first rule whose
// length window matches (spec §4.H).
type TableEncoder struct {
	Rules           []EncodingRule
	ExcludePatterns []*regexp.Regexp
	TailAnchor      string
}

// NewTableEncoder compiles an EncoderSource (a dict file's `encoder:`
// section) into a TableEncoder. A rule with an unparseable formula or
// length spec is skipped with its error discarded, matching "offending
// rule... is skipped with a warning; compilation continues" (spec §7).
func NewTableEncoder(src *EncoderSource) (*TableEncoder, error) {
	if src == nil {
		return nil, nil
	}
	e := &TableEncoder{TailAnchor: src.TailAnchor}
	for _, r := range src.Rules {
		coords, err := ParseFormula(r.Formula)
		if err != nil {
			continue
		}
		rule := EncodingRule{Coords: coords}
		switch {
		case r.LengthEqual > 0:
			rule.MinLen, rule.MaxLen = r.LengthEqual, r.LengthEqual
		case len(r.LengthInRange) == 2:
			rule.MinLen, rule.MaxLen = r.LengthInRange[0], r.LengthInRange[1]
		default:
			continue
		}
		e.Rules = append(e.Rules, rule)
	}
	for _, pat := range src.ExcludePatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			continue
		}
		e.ExcludePatterns = append(e.ExcludePatterns, re)
	}
	if len(e.Rules) == 0 {
		return nil, fmt.Errorf("compiler: encoder has no usable rules")
	}
	return e, nil
}

// IsExcluded reports whether code matches one of the encoder's
// exclude_patterns.
func (e *TableEncoder) IsExcluded(code string) bool {
	for _, re := range e.ExcludePatterns {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}

func (e *TableEncoder) stripTailAnchor(code string) string {
	if e.TailAnchor == "" {
		return code
	}
	return strings.TrimRight(code, e.TailAnchor)
}

// calculateCodeIndex resolves a possibly-negative code_index within code
// (with tail-anchor bytes already stripped) to an absolute string index,
// never below start. A tail coordinate (negative index) indexes from the
// end of the stripped code, per Open Question #3's resolution.
func calculateCodeIndex(code string, index, start int) (int, bool) {
	n := len(code)
	if index >= 0 {
		if index < n && index >= start {
			return index, true
		}
		return 0, false
	}
	pos := n + index
	if pos < start || pos < 0 || pos >= n {
		return 0, false
	}
	return pos, true
}

// Encode builds a composite code for a phrase whose per-character codes
// (already stripped of any schema-level delimiter) are given in codes,
// one entry per character, following the first matching rule. Returns
// false if no rule matches or the resulting code would be empty.
func (e *TableEncoder) Encode(codes []string) (string, bool) {
	n := len(codes)
	stripped := make([]string, n)
	for i, c := range codes {
		stripped[i] = e.stripTailAnchor(c)
	}

	for _, rule := range e.Rules {
		if n < rule.MinLen || n > rule.MaxLen {
			continue
		}
		var result strings.Builder
		encodedChar, encodedCode := 0, 0
		prevChar, prevCode := 0, 0
		havePrev := false
		for _, coord := range rule.Coords {
			resolvedChar := coord.CharIndex
			if resolvedChar < 0 {
				resolvedChar += n
			}
			if resolvedChar < 0 || resolvedChar >= n {
				continue
			}
			if coord.CharIndex < 0 && result.Len() > 0 && resolvedChar < encodedChar {
				continue
			}
			start := 0
			if result.Len() > 0 && resolvedChar == encodedChar {
				start = encodedCode + 1
			}
			resolvedCode, ok := calculateCodeIndex(stripped[resolvedChar], coord.CodeIndex, start)
			if !ok {
				continue
			}
			if (coord.CharIndex < 0 || coord.CodeIndex < 0) && result.Len() > 0 &&
				resolvedChar == encodedChar && resolvedCode <= encodedCode &&
				(!havePrev || coord.CharIndex != prevChar || coord.CodeIndex != prevCode) {
				continue
			}
			result.WriteByte(stripped[resolvedChar][resolvedCode])
			prevChar, prevCode, havePrev = coord.CharIndex, coord.CodeIndex, true
			encodedChar, encodedCode = resolvedChar, resolvedCode
		}
		if result.Len() > 0 {
			return result.String(), true
		}
	}
	return "", false
}
