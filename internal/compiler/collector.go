package compiler

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const scriptEncoderDFSLimit = 32

// CollectedEntry is one phrase ready to be grouped into a table.Vocabulary:
// Text plus the syllable-token sequence (already space-split) that codes
// it.
type CollectedEntry struct {
	Text   string
	Code   []string
	Weight float64
}

// Collected is the result of running the three entry-collection passes
// over a dict file (spec §4.H step 3): the distinct syllable set observed
// (sorted) and every collected entry.
type Collected struct {
	Syllabary []string
	Entries   []CollectedEntry
}

// Collect runs entry collection: pass 1 reads explicit `code` rows and
// learns single-character codes; pass 2 encodes multi-character rows
// lacking an explicit code via the dict's TableEncoder (if configured) or
// a ScriptEncoder that tries every segmentation into already-known words;
// pass 3 pulls any word still missing from preset.
func Collect(df *DictFile, preset *DictFile) (*Collected, error) {
	syllables := make(map[string]struct{})
	var syllabary []string
	learnSyllable := func(s string) {
		if _, ok := syllables[s]; !ok {
			syllables[s] = struct{}{}
			syllabary = append(syllabary, s)
		}
	}

	var encoder *TableEncoder
	if df.Encoder != nil {
		enc, err := NewTableEncoder(df.Encoder)
		if err == nil {
			encoder = enc
		}
	}

	wordCodes := make(map[string][][]string) // text -> every known token-sequence for it
	var entries []CollectedEntry
	seen := make(map[string]bool)

	addEntry := func(text string, code []string, weight float64) {
		entries = append(entries, CollectedEntry{Text: text, Code: code, Weight: weight})
		wordCodes[text] = append(wordCodes[text], code)
		seen[text] = true
	}

	// Pass 1: explicit code rows.
	var pendingMultiChar []SourceEntry
	for _, row := range df.Entries {
		if row.Code == "" {
			pendingMultiChar = append(pendingMultiChar, row)
			continue
		}
		tokens := strings.Fields(row.Code)
		for _, t := range tokens {
			learnSyllable(t)
		}
		weight, err := resolveWeight(row.Weight, 1)
		if err != nil {
			continue
		}
		addEntry(row.Text, tokens, weight)
	}

	// Pass 2: multi-character rows with no explicit code.
	for _, row := range pendingMultiChar {
		weight, err := resolveWeight(row.Weight, 1)
		if err != nil {
			continue
		}
		runeCount := utf8.RuneCountInString(row.Text)
		if runeCount <= 1 {
			continue
		}

		if encoder != nil {
			perChar := make([]string, 0, runeCount)
			allKnown := true
			for _, r := range row.Text {
				ch := string(r)
				codes, ok := wordCodes[ch]
				if !ok || len(codes) == 0 {
					allKnown = false
					break
				}
				perChar = append(perChar, strings.Join(codes[0], ""))
			}
			if allKnown {
				if code, ok := encoder.Encode(perChar); ok && !encoder.IsExcluded(code) {
					learnSyllable(code)
					addEntry(row.Text, []string{code}, weight)
					continue
				}
			}
			continue
		}

		for _, tokens := range scriptEncode(row.Text, wordCodes, scriptEncoderDFSLimit) {
			for _, t := range tokens {
				learnSyllable(t)
			}
			addEntry(row.Text, tokens, weight)
		}
	}

	// Pass 3: preset vocabulary fallback for anything still unmatched.
	if preset != nil {
		for _, row := range preset.Entries {
			if seen[row.Text] || row.Code == "" {
				continue
			}
			tokens := strings.Fields(row.Code)
			weight := mustFloat(row.Weight)
			for _, t := range tokens {
				learnSyllable(t)
			}
			addEntry(row.Text, tokens, weight)
		}
	}

	sort.Strings(syllabary)
	return &Collected{Syllabary: syllabary, Entries: entries}, nil
}

func mustFloat(s string) float64 {
	v, err := resolveWeight(s, 0)
	if err != nil {
		return 0
	}
	return v
}

// scriptEncode finds every way to split text into a sequence of
// consecutive substrings each already present in wordCodes, concatenating
// their token sequences. Bounded by limit segmentations, mirroring the
// original's kEncoderDfsLimit.
func scriptEncode(text string, wordCodes map[string][][]string, limit int) [][]string {
	runes := []rune(text)
	var results [][]string
	var walk func(pos int, acc []string)
	walk = func(pos int, acc []string) {
		if len(results) >= limit {
			return
		}
		if pos == len(runes) {
			out := append([]string(nil), acc...)
			results = append(results, out)
			return
		}
		for end := pos + 1; end <= len(runes); end++ {
			sub := string(runes[pos:end])
			codes, ok := wordCodes[sub]
			if !ok {
				continue
			}
			for _, tokens := range codes {
				walk(end, append(acc, tokens...))
				if len(results) >= limit {
					return
				}
			}
		}
	}
	walk(0, nil)
	return results
}
