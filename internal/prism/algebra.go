package prism

import (
	"fmt"
	"regexp"
	"strings"
)

// Calculation is one spelling-algebra rule (spec §4.B, §9 "Spelling
// algebra"): xlit, xform, erase, derive, fuzz, abbrev. Apply mutates
// spelling in place and reports whether it changed anything.
//
// Addition/deletion flags mirror the original design: erase deletes the
// spelling outright (Deletion=true, Addition=false); xlit/xform rewrite
// it in place (neither flag set); derive/fuzz/abbrev preserve the
// original and additionally emit a derived spelling with a credibility
// penalty (Addition=true, Deletion=false) — callers that want both must
// keep their own copy before calling Apply.
type Calculation interface {
	Apply(s *Spelling) bool
	Addition() bool
	Deletion() bool
}

// Calculus parses formula strings ("xform/pattern/replacement/") into
// Calculation values, dispatching on the leading token the same way the
// original implementation's factory map does.
type Calculus struct{}

// ParseFormula parses one "token/arg1/arg2/.../" definition.
func ParseFormula(definition string) (Calculation, error) {
	if definition == "" {
		return nil, fmt.Errorf("prism: empty formula")
	}
	sep := findSeparator(definition)
	if sep == 0 {
		return nil, fmt.Errorf("prism: formula %q has no separator", definition)
	}
	token := definition[:sep]
	rest := definition[sep:]
	sepChar := rest[0]
	args := strings.Split(rest, string(sepChar))
	// args[0] is empty (text before the first separator occurrence since
	// rest starts with the separator itself); drop it.
	if len(args) > 0 && args[0] == "" {
		args = args[1:]
	}
	switch token {
	case "xlit":
		return newTransliteration(args)
	case "xform":
		return newTransformation(args)
	case "erase":
		return newErasion(args)
	case "derive":
		return newDerivation(args)
	case "fuzz":
		return newFuzzing(args)
	case "abbrev":
		return newAbbreviation(args)
	default:
		return nil, fmt.Errorf("prism: unknown algebra token %q", token)
	}
}

// findSeparator returns the index of the first non-lowercase-letter
// character, i.e. where the leading token name ends.
func findSeparator(s string) int {
	for i, r := range s {
		if r < 'a' || r > 'z' {
			return i
		}
	}
	return 0
}

// transliteration is "xlit" — a one-to-one character map between two
// equal-length strings, applied in place.
type transliteration struct{ charMap map[rune]rune }

func newTransliteration(args []string) (Calculation, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("prism: xlit requires two strings")
	}
	left, right := []rune(args[0]), []rune(args[1])
	if len(left) != len(right) {
		return nil, fmt.Errorf("prism: xlit strings must be equal length")
	}
	m := make(map[rune]rune, len(left))
	for i, l := range left {
		m[l] = right[i]
	}
	return &transliteration{charMap: m}, nil
}

func (t *transliteration) Apply(s *Spelling) bool {
	if s.Text == "" {
		return false
	}
	modified := false
	var b strings.Builder
	for _, r := range s.Text {
		if repl, ok := t.charMap[r]; ok {
			r = repl
			modified = true
		}
		b.WriteRune(r)
	}
	if modified {
		s.Text = b.String()
	}
	return modified
}
func (t *transliteration) Addition() bool { return false }
func (t *transliteration) Deletion() bool { return false }

// transformation is "xform" — a regexp.ReplaceAll, applied in place.
type transformation struct {
	pattern     *regexp.Regexp
	replacement string
}

func newTransformation(args []string) (Calculation, error) {
	if len(args) < 2 || args[0] == "" {
		return nil, fmt.Errorf("prism: xform requires a pattern and replacement")
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		return nil, fmt.Errorf("prism: xform pattern: %w", err)
	}
	return &transformation{pattern: re, replacement: args[1]}, nil
}

func (x *transformation) Apply(s *Spelling) bool {
	if s.Text == "" {
		return false
	}
	result := x.pattern.ReplaceAllString(s.Text, x.replacement)
	if result == s.Text {
		return false
	}
	s.Text = result
	return true
}
func (x *transformation) Addition() bool { return false }
func (x *transformation) Deletion() bool { return false }

// erasion is "erase" — clears the spelling if it matches pattern.
type erasion struct{ pattern *regexp.Regexp }

func newErasion(args []string) (Calculation, error) {
	if len(args) < 1 || args[0] == "" {
		return nil, fmt.Errorf("prism: erase requires a pattern")
	}
	re, err := regexp.Compile("^(?:" + args[0] + ")$")
	if err != nil {
		return nil, fmt.Errorf("prism: erase pattern: %w", err)
	}
	return &erasion{pattern: re}, nil
}

func (e *erasion) Apply(s *Spelling) bool {
	if s.Text == "" || !e.pattern.MatchString(s.Text) {
		return false
	}
	s.Text = ""
	return true
}
func (e *erasion) Addition() bool { return false }
func (e *erasion) Deletion() bool { return true }

// derivation is "derive" — like xform, but preserves the type/credibility
// (no penalty); used to add an alternate spelling alongside the original.
type derivation struct{ *transformation }

func newDerivation(args []string) (Calculation, error) {
	x, err := newTransformation(args)
	if err != nil {
		return nil, err
	}
	return &derivation{x.(*transformation)}, nil
}
func (d *derivation) Addition() bool { return true }
func (d *derivation) Deletion() bool { return false }

// fuzzing is "fuzz" — like xform, but marks the result Fuzzy with a
// credibility penalty.
type fuzzing struct{ *transformation }

func newFuzzing(args []string) (Calculation, error) {
	x, err := newTransformation(args)
	if err != nil {
		return nil, err
	}
	return &fuzzing{x.(*transformation)}, nil
}

func (f *fuzzing) Apply(s *Spelling) bool {
	if !f.transformation.Apply(s) {
		return false
	}
	s.Properties.Type = Fuzzy
	s.Properties.Credibility += kFuzzySpellingPenalty
	return true
}
func (f *fuzzing) Addition() bool { return true }
func (f *fuzzing) Deletion() bool { return false }

// abbreviation is "abbrev" — like xform, but marks the result Abbrev with
// a credibility penalty.
type abbreviation struct{ *transformation }

func newAbbreviation(args []string) (Calculation, error) {
	x, err := newTransformation(args)
	if err != nil {
		return nil, err
	}
	return &abbreviation{x.(*transformation)}, nil
}

func (a *abbreviation) Apply(s *Spelling) bool {
	if !a.transformation.Apply(s) {
		return false
	}
	s.Properties.Type = Abbrev
	s.Properties.Credibility += kAbbreviationPenalty
	return true
}
func (a *abbreviation) Addition() bool { return true }
func (a *abbreviation) Deletion() bool { return false }

// Script maps a derived spelling string to the syllables it realizes,
// built by applying a schema's ordered algebra rules to every syllable.
type Script map[string][]ScriptEntry

// ScriptEntry is one (syllable, properties) pair a spelling resolves to.
type ScriptEntry struct {
	Syllable   string
	Properties SpellingProperties
}

// BuildScript expands syllabary through rules (each a parsed formula,
// applied in the given order to every syllable) into a Script mapping
// spellings back to the syllables that produced them.
func BuildScript(syllabary []string, rules []Calculation) Script {
	script := make(Script)
	for _, syll := range syllabary {
		base := Spelling{Text: syll, Properties: SpellingProperties{Type: Normal}}
		script[base.Text] = append(script[base.Text], ScriptEntry{Syllable: syll, Properties: base.Properties})

		cur := base
		for _, rule := range rules {
			trial := cur
			if !rule.Apply(&trial) {
				continue
			}
			if rule.Deletion() {
				// erase: remove the spelling produced so far entirely.
				delete(script, cur.Text)
				cur = trial
				continue
			}
			if rule.Addition() {
				if trial.Text != "" {
					script[trial.Text] = append(script[trial.Text], ScriptEntry{Syllable: syll, Properties: trial.Properties})
				}
				continue
			}
			// in-place xlit/xform: the spelling under cur.Text is replaced.
			if trial.Text != cur.Text {
				delete(script, cur.Text)
				script[trial.Text] = append(script[trial.Text], ScriptEntry{Syllable: syll, Properties: trial.Properties})
			}
			cur = trial
		}
	}
	return script
}
