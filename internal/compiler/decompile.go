package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Decompile reads a *.table.bin artifact and renders it back to
// `text\tcode\tweight` lines (spec §6.3's `decompile_table`).
func Decompile(path string) ([]string, error) {
	var snap tableSnapshot
	if _, err := readPayload(path, &snap); err != nil {
		return nil, fmt.Errorf("compiler: decompile %q: %w", path, err)
	}

	lines := make([]string, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		tokens := make([]string, len(e.Code))
		for i, sid := range e.Code {
			if int(sid) < 0 || int(sid) >= len(snap.Syllabary) {
				tokens[i] = "?"
				continue
			}
			tokens[i] = snap.Syllabary[sid]
		}
		lines = append(lines, strings.Join([]string{
			e.Text,
			strings.Join(tokens, " "),
			strconv.FormatFloat(e.Weight, 'g', -1, 64),
		}, "\t"))
	}
	return lines, nil
}
