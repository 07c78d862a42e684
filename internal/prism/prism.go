// Package prism implements the double-array trie over syllable/spelling
// strings described in spec §4.B: common-prefix search, expand (fuzzy
// completion) search, exact match, and the spelling-to-syllable map built
// by optional spelling algebra (§9).
package prism

import (
	"fmt"
	"sort"
)

const formatString = "Ime::Prism/1.0"

// Descriptor is one entry of the spelling map: which syllable a spelling
// resolves to, and with what properties.
type Descriptor struct {
	SyllableId SyllableId
	Properties SpellingProperties
}

// Metadata is the header every Prism carries, matching the mapped-file
// convention of spec §6.2: a format string and the checksums that gate
// incremental recompilation.
type Metadata struct {
	Format             string
	Alphabet           string
	DictFileChecksum   uint32
	SchemaFileChecksum uint32
}

// Prism is the in-memory double-array trie plus its spelling map. The
// mapped-file encoding (for persistence to *.prism.bin) lives in
// internal/compiler, which serializes the same fields through the
// mmap.File substrate.
type Prism struct {
	meta     Metadata
	trie     *doubleArrayTrie
	descRuns [][]Descriptor // indexed by spelling_id
	bySpell  map[string]int32
}

// Match is one hit from CommonPrefixSearch/ExpandSearch: the spelling_id
// (resolved through QuerySpelling) and the byte length it matched.
type Match struct {
	SpellingId int32
	Length     int
}

// Build constructs the trie over every spelling (the keys of script, if
// non-nil; otherwise the syllables themselves) and packs the descriptors
// into the spelling map.
func Build(syllabary []string, script Script, dictChecksum, schemaChecksum uint32) (*Prism, error) {
	p := &Prism{
		meta: Metadata{
			Format:             formatString,
			DictFileChecksum:   dictChecksum,
			SchemaFileChecksum: schemaChecksum,
		},
		bySpell: make(map[string]int32),
	}

	alphabet := make(map[byte]struct{})
	var entries []trieEntry

	syllableIndex := make(map[string]SyllableId, len(syllabary))
	for i, s := range syllabary {
		syllableIndex[s] = SyllableId(i)
	}

	addRun := func(spelling string, descs []Descriptor) {
		if spelling == "" || len(descs) == 0 {
			return
		}
		id := int32(len(p.descRuns))
		p.descRuns = append(p.descRuns, descs)
		p.bySpell[spelling] = id
		entries = append(entries, trieEntry{key: spelling, value: id})
		for i := 0; i < len(spelling); i++ {
			alphabet[spelling[i]] = struct{}{}
		}
	}

	if script != nil {
		spellings := make([]string, 0, len(script))
		for spelling := range script {
			spellings = append(spellings, spelling)
		}
		sort.Strings(spellings)
		for _, spelling := range spellings {
			var descs []Descriptor
			for _, entry := range script[spelling] {
				sid, ok := syllableIndex[entry.Syllable]
				if !ok {
					continue
				}
				descs = append(descs, Descriptor{SyllableId: sid, Properties: entry.Properties})
			}
			addRun(spelling, descs)
		}
	} else {
		for _, syll := range syllabary {
			if syll == "" {
				continue
			}
			addRun(syll, []Descriptor{{SyllableId: syllableIndex[syll], Properties: SpellingProperties{Type: Normal}}})
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("prism: no spellings to build from")
	}

	alphaBytes := make([]byte, 0, len(alphabet))
	for b := range alphabet {
		alphaBytes = append(alphaBytes, b)
	}
	sort.Slice(alphaBytes, func(i, j int) bool { return alphaBytes[i] < alphaBytes[j] })
	p.meta.Alphabet = string(alphaBytes)

	p.trie = buildTrie(entries)
	return p, nil
}

// Metadata returns the Prism's header.
func (p *Prism) Metadata() Metadata { return p.meta }

// CommonPrefixSearch returns every spelling in the trie that is a prefix
// of key, shortest first.
func (p *Prism) CommonPrefixSearch(key string) []Match {
	raw := p.trie.commonPrefixSearch(key)
	out := make([]Match, len(raw))
	for i, m := range raw {
		out[i] = Match{SpellingId: m.Value, Length: m.Length}
	}
	return out
}

// ExpandSearch performs a BFS over extensions of key within the alphabet,
// capped at limit accepting states.
func (p *Prism) ExpandSearch(key string, limit int) []Match {
	raw := p.trie.expandSearch(key, limit)
	out := make([]Match, len(raw))
	for i, m := range raw {
		out[i] = Match{SpellingId: m.Value, Length: m.Length}
	}
	return out
}

// ExactMatch looks up key and returns its spelling_id.
func (p *Prism) ExactMatch(key string) (int32, bool) {
	return p.trie.exactMatch(key)
}

// QuerySpelling iterates the (syllable_id, properties) pairs a spelling
// resolves to.
func (p *Prism) QuerySpelling(spellingID int32) []Descriptor {
	if spellingID < 0 || int(spellingID) >= len(p.descRuns) {
		return nil
	}
	return p.descRuns[spellingID]
}

// SpellingIdOf returns the spelling_id assigned to an exact spelling
// string, if any (used by tests and by the compiler).
func (p *Prism) SpellingIdOf(spelling string) (int32, bool) {
	id, ok := p.bySpell[spelling]
	return id, ok
}
