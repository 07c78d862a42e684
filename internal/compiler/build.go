package compiler

import (
	"fmt"

	"github.com/username/imecore/internal/prism"
	"github.com/username/imecore/internal/table"
)

// buildTable groups a Collected's entries by their syllable code into a
// table.Vocabulary and compiles a table.Table over it (spec §4.H step 5).
func buildTable(c *Collected, dictChecksum uint32) (*table.Table, error) {
	syllableIndex := make(map[string]prism.SyllableId, len(c.Syllabary))
	for i, s := range c.Syllabary {
		syllableIndex[s] = prism.SyllableId(i)
	}

	raw := make([]table.RawDictEntry, 0, len(c.Entries))
	for _, e := range c.Entries {
		code := make([]prism.SyllableId, 0, len(e.Code))
		for _, tok := range e.Code {
			sid, ok := syllableIndex[tok]
			if !ok {
				continue
			}
			code = append(code, sid)
		}
		if len(code) != len(e.Code) {
			continue // a token failed to resolve; drop the malformed entry
		}
		raw = append(raw, table.RawDictEntry{Text: e.Text, Code: code, Weight: e.Weight})
	}

	vocab := table.NewVocabulary(raw)
	return table.Build(c.Syllabary, vocab, vocab.NumEntries(), dictChecksum)
}

// buildPrism builds a Prism over the final syllabary. When algebra rules
// are configured it expands the syllabary into a spelling Script first
// (spec §4.H step 6); otherwise the Prism indexes the syllables directly.
func buildPrism(syllabary []string, algebraFormulas []string, dictChecksum, schemaChecksum uint32) (*prism.Prism, error) {
	if len(algebraFormulas) == 0 {
		return prism.Build(syllabary, nil, dictChecksum, schemaChecksum)
	}

	rules := make([]prism.Calculation, 0, len(algebraFormulas))
	for _, formula := range algebraFormulas {
		rule, err := prism.ParseFormula(formula)
		if err != nil {
			continue // encoding error: skip the offending rule, keep compiling (spec §7)
		}
		rules = append(rules, rule)
	}
	script := prism.BuildScript(syllabary, rules)
	return prism.Build(syllabary, script, dictChecksum, schemaChecksum)
}

func joinCode(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

var errNoSyllabary = fmt.Errorf("compiler: dict produced no syllabary")
