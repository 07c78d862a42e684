package compiler

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncoderRuleSource is one `encoder/rules` entry as it appears in a
// *.dict.yaml document, before ParseFormula turns Formula into coords.
type EncoderRuleSource struct {
	Formula        string `yaml:"formula"`
	LengthEqual    int    `yaml:"length_equal"`
	LengthInRange  []int  `yaml:"length_in_range"`
}

// EncoderSource is the `encoder:` section of a *.dict.yaml document (spec
// §4.H's TableEncoder formula language).
type EncoderSource struct {
	Rules           []EncoderRuleSource `yaml:"rules"`
	ExcludePatterns []string            `yaml:"exclude_patterns"`
	TailAnchor      string              `yaml:"tail_anchor"`
}

// dictHeader is the YAML document header of a source dict file, the part
// before the `...` separator (spec §6.2).
type dictHeader struct {
	Name                string         `yaml:"name"`
	Version             string         `yaml:"version"`
	Sort                string         `yaml:"sort"`
	UsePresetVocabulary bool           `yaml:"use_preset_vocabulary"`
	Columns             []string       `yaml:"columns"`
	Encoder             *EncoderSource `yaml:"encoder"`
}

// SourceEntry is one TSV row of a *.dict.yaml body: `text \t code \t weight%?`.
// Code and Weight are blank when the column was omitted.
type SourceEntry struct {
	Text   string
	Code   string
	Weight string
}

// DictFile is a fully parsed *.dict.yaml source.
type DictFile struct {
	Name                string
	Version             string
	Sort                string
	UsePresetVocabulary bool
	Encoder             *EncoderSource
	Entries             []SourceEntry
}

// ParseDictFile reads a *.dict.yaml source: a YAML header document, a
// bare `...` document-end marker, then tab-separated rows (spec §6.2).
func ParseDictFile(path string) (*DictFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: open %q: %w", path, err)
	}
	defer f.Close()

	headerLines, bodyLines, err := splitDictFile(f)
	if err != nil {
		return nil, fmt.Errorf("compiler: parse %q: %w", path, err)
	}

	var hdr dictHeader
	if err := yaml.Unmarshal([]byte(strings.Join(headerLines, "\n")), &hdr); err != nil {
		return nil, fmt.Errorf("compiler: invalid yaml header in %q: %w", path, err)
	}
	if hdr.Name == "" {
		return nil, fmt.Errorf("compiler: %q missing required 'name'", path)
	}

	df := &DictFile{
		Name:                hdr.Name,
		Version:             hdr.Version,
		Sort:                hdr.Sort,
		UsePresetVocabulary: hdr.UsePresetVocabulary,
		Encoder:             hdr.Encoder,
	}
	for _, line := range bodyLines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		e := SourceEntry{Text: cols[0]}
		if len(cols) > 1 {
			e.Code = cols[1]
		}
		if len(cols) > 2 {
			e.Weight = cols[2]
		}
		df.Entries = append(df.Entries, e)
	}
	return df, nil
}

// splitDictFile separates the YAML header from the TSV body at the `...`
// document-end marker.
func splitDictFile(f *os.File) (header, body []string, err error) {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	inBody := false
	for sc.Scan() {
		line := sc.Text()
		if !inBody && strings.TrimSpace(line) == "..." {
			inBody = true
			continue
		}
		if inBody {
			body = append(body, line)
		} else {
			header = append(header, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if !inBody {
		return nil, nil, fmt.Errorf("missing '...' document separator")
	}
	return header, body, nil
}

// resolveWeight applies spec's "weight handling" rule: an absolute value
// replaces presetWeight, `xx%` scales it, and a blank weight inherits it
// unchanged.
func resolveWeight(weight string, presetWeight float64) (float64, error) {
	weight = strings.TrimSpace(weight)
	if weight == "" {
		return presetWeight, nil
	}
	if strings.HasSuffix(weight, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(weight, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage weight %q: %w", weight, err)
		}
		return presetWeight * pct / 100, nil
	}
	v, err := strconv.ParseFloat(weight, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight %q: %w", weight, err)
	}
	return v, nil
}
