package userdb

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDee caps the decayed-exponential-estimate field the same way the
// original UserDbValue::Unpack clamps it on parse.
const maxDee = 10000.0

// Value is the packed payload stored behind every user-dictionary key:
// a commit counter (negative once the entry has been "forgotten"), a
// decayed frequency estimate, and the logical tick it was last touched.
type Value struct {
	Commits int
	Dee     float64
	Tick    int64
}

// Pack serializes a Value the way the original's "c=%d d=%f t=%d" format
// does, so existing userdb text snapshots stay byte-compatible.
func (v Value) Pack() string {
	return fmt.Sprintf("c=%d d=%f t=%d", v.Commits, v.Dee, v.Tick)
}

// ParseValue parses a packed Value, tolerating unknown keys and a
// missing trailing field the way the original's split-on-space/k=v
// parser does.
func ParseValue(s string) (Value, error) {
	var v Value
	for _, kv := range strings.Fields(s) {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		k, val := kv[:eq], kv[eq+1:]
		switch k {
		case "c":
			n, err := strconv.Atoi(val)
			if err != nil {
				return Value{}, fmt.Errorf("userdb: bad commits %q: %w", val, err)
			}
			v.Commits = n
		case "d":
			d, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return Value{}, fmt.Errorf("userdb: bad dee %q: %w", val, err)
			}
			if d > maxDee {
				d = maxDee
			}
			v.Dee = d
		case "t":
			t, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return Value{}, fmt.Errorf("userdb: bad tick %q: %w", val, err)
			}
			v.Tick = t
		}
	}
	return v, nil
}
