package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/username/imecore/internal/prism"
	"github.com/username/imecore/internal/reversedb"
	"github.com/username/imecore/internal/table"
)

const (
	prismFormat   = "Ime::Prism/1.0"
	tableFormat   = "Ime::Table/2.0"
	reverseFormat = "Ime::Reverse/1.0"
)

// Job names one schema's compilation inputs: its dict source files (in
// the order their checksum concatenates), an optional schema file (for
// spelling algebra and the schema_file_checksum gate), an optional preset
// vocabulary, and the directory compiled artifacts are written to.
type Job struct {
	SchemaID             string
	DictFiles            []string
	SchemaFile           string
	PresetVocabularyFile string
	Algebra              []string
	OutputDir            string
}

// Artifacts is one schema's compiled output, ready to be wired into an
// engine.Engine.
type Artifacts struct {
	Prism   *prism.Prism
	Table   *table.Table
	Reverse *reversedb.ReverseDb
}

func (j Job) tablePath() string   { return filepath.Join(j.OutputDir, j.SchemaID+".table.bin") }
func (j Job) prismPath() string   { return filepath.Join(j.OutputDir, j.SchemaID+".prism.bin") }
func (j Job) reversePath() string { return filepath.Join(j.OutputDir, j.SchemaID+".reverse.bin") }

// Compile runs the dict-compiler pipeline (spec §4.H): checksum gating,
// entry collection, then building and persisting Table, Prism and
// ReverseDb. Artifacts whose stored checksums already match the sources
// are loaded from disk rather than rebuilt, leaving their file's mtime
// untouched (spec §8 property 7).
func Compile(job Job) (*Artifacts, error) {
	dictChecksum, err := checksumFiles(job.DictFiles)
	if err != nil {
		return nil, err
	}
	var schemaChecksum uint32
	if job.SchemaFile != "" {
		schemaChecksum, err = checksumFile(job.SchemaFile)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("compiler: create output dir %q: %w", job.OutputDir, err)
	}

	dictFile, presetFile, err := loadSources(job)
	if err != nil {
		return nil, err
	}

	collected, err := Collect(dictFile, presetFile)
	if err != nil {
		return nil, err
	}
	if len(collected.Syllabary) == 0 {
		return nil, errNoSyllabary
	}

	t, err := loadOrBuildTable(job, collected, dictChecksum)
	if err != nil {
		return nil, err
	}
	p, err := loadOrBuildPrism(job, collected, dictChecksum, schemaChecksum)
	if err != nil {
		return nil, err
	}
	r, err := loadOrBuildReverse(job, collected, dictChecksum)
	if err != nil {
		return nil, err
	}

	return &Artifacts{Table: t, Prism: p, Reverse: r}, nil
}

func loadSources(job Job) (dict *DictFile, preset *DictFile, err error) {
	merged := &DictFile{Name: job.SchemaID}
	for _, path := range job.DictFiles {
		df, err := ParseDictFile(path)
		if err != nil {
			return nil, nil, err
		}
		if merged.Encoder == nil {
			merged.Encoder = df.Encoder
		}
		if merged.Sort == "" {
			merged.Sort = df.Sort
		}
		merged.Entries = append(merged.Entries, df.Entries...)
	}
	if job.PresetVocabularyFile != "" {
		preset, err = ParseDictFile(job.PresetVocabularyFile)
		if err != nil {
			return nil, nil, err
		}
	}
	return merged, preset, nil
}

type tableRawEntry struct {
	Text   string
	Code   []int32
	Weight float64
}

type tableSnapshot struct {
	Syllabary  []string
	Entries    []tableRawEntry
	NumEntries int
}

func loadOrBuildTable(job Job, collected *Collected, dictChecksum uint32) (*table.Table, error) {
	path := job.tablePath()
	if hdr, ok := readHeader(path); ok && hdr.DictFileChecksum == dictChecksum {
		var snap tableSnapshot
		if _, err := readPayload(path, &snap); err == nil {
			if t, err := rebuildTableFromSnapshot(snap, dictChecksum); err == nil {
				return t, nil
			}
		}
	}

	t, err := buildTable(collected, dictChecksum)
	if err != nil {
		return nil, err
	}

	syllableIndex := make(map[string]int32, len(collected.Syllabary))
	for i, s := range collected.Syllabary {
		syllableIndex[s] = int32(i)
	}
	snap := tableSnapshot{Syllabary: collected.Syllabary, NumEntries: t.Metadata().NumEntries}
	for _, e := range collected.Entries {
		code := make([]int32, 0, len(e.Code))
		ok := true
		for _, tok := range e.Code {
			sid, found := syllableIndex[tok]
			if !found {
				ok = false
				break
			}
			code = append(code, sid)
		}
		if !ok {
			continue
		}
		snap.Entries = append(snap.Entries, tableRawEntry{Text: e.Text, Code: code, Weight: e.Weight})
	}

	if err := writeArtifact(path, artifactHeader{Format: tableFormat, DictFileChecksum: dictChecksum}, snap); err != nil {
		return nil, err
	}
	return t, nil
}

func rebuildTableFromSnapshot(snap tableSnapshot, dictChecksum uint32) (*table.Table, error) {
	raw := make([]table.RawDictEntry, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		code := make([]prism.SyllableId, len(e.Code))
		for i, id := range e.Code {
			code[i] = prism.SyllableId(id)
		}
		raw = append(raw, table.RawDictEntry{Text: e.Text, Code: code, Weight: e.Weight})
	}
	vocab := table.NewVocabulary(raw)
	return table.Build(snap.Syllabary, vocab, snap.NumEntries, dictChecksum)
}

type prismSnapshot struct {
	Syllabary []string
	Script    prism.Script
}

func loadOrBuildPrism(job Job, collected *Collected, dictChecksum, schemaChecksum uint32) (*prism.Prism, error) {
	path := job.prismPath()
	if hdr, ok := readHeader(path); ok && hdr.DictFileChecksum == dictChecksum && hdr.SchemaFileChecksum == schemaChecksum {
		var snap prismSnapshot
		if _, err := readPayload(path, &snap); err == nil {
			if p, err := prism.Build(snap.Syllabary, snap.Script, dictChecksum, schemaChecksum); err == nil {
				return p, nil
			}
		}
	}

	p, err := buildPrism(collected.Syllabary, job.Algebra, dictChecksum, schemaChecksum)
	if err != nil {
		return nil, err
	}

	var script prism.Script
	if len(job.Algebra) > 0 {
		rules := make([]prism.Calculation, 0, len(job.Algebra))
		for _, formula := range job.Algebra {
			if rule, err := prism.ParseFormula(formula); err == nil {
				rules = append(rules, rule)
			}
		}
		script = prism.BuildScript(collected.Syllabary, rules)
	}
	snap := prismSnapshot{Syllabary: collected.Syllabary, Script: script}
	if err := writeArtifact(path, artifactHeader{Format: prismFormat, DictFileChecksum: dictChecksum, SchemaFileChecksum: schemaChecksum}, snap); err != nil {
		return nil, err
	}
	return p, nil
}

type reverseSnapshot struct {
	Pairs map[string][]string
}

func loadOrBuildReverse(job Job, collected *Collected, dictChecksum uint32) (*reversedb.ReverseDb, error) {
	path := job.reversePath()
	if hdr, ok := readHeader(path); ok && hdr.DictFileChecksum == dictChecksum {
		var snap reverseSnapshot
		if _, err := readPayload(path, &snap); err == nil {
			return reversedb.Build(snap.Pairs, nil), nil
		}
	}

	pairs := make(map[string][]string, len(collected.Entries))
	for _, e := range collected.Entries {
		pairs[e.Text] = append(pairs[e.Text], joinCode(e.Code))
	}
	r := reversedb.Build(pairs, nil)
	if err := writeArtifact(path, artifactHeader{Format: reverseFormat, DictFileChecksum: dictChecksum}, reverseSnapshot{Pairs: pairs}); err != nil {
		return nil, err
	}
	return r, nil
}
