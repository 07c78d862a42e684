package userdb

import (
	"math"
	"strings"
	"sync"
)

// halfLife and the φ combinator are an explicit, documented stand-in for
// the original's algo/dynamics.cc formula_d/formula_p (not present in
// the corpus this was grounded on): halfLife is the number of logical
// ticks after which an untouched dee halves, and phi combines commit
// rate with the decayed estimate into a single monotone score.
const halfLife = 2e5

var lambda = math.Ln2 / halfLife

func phi(rate float64, dee float64) float64 {
	return math.Log1p(dee) + rate
}

// autoBackupEvery mirrors "every K commits the db is auto-backed-up".
const autoBackupEvery = 50

// Candidate is one scored hit from an alphabetical scan of the dict.
type Candidate struct {
	Code   string
	Text   string
	Weight float64
}

// UserDictionary implements the alphabetical-order scan and decayed-
// frequency scoring of spec §4.E over a pluggable UserDb.
type UserDictionary struct {
	mu          sync.Mutex
	db          UserDb
	backupPath  string
	commitCount int
}

// NewUserDictionary wraps db; backupPath (may be empty to disable
// auto-backup) is the snapshot file written every autoBackupEvery
// commits.
func NewUserDictionary(db UserDb, backupPath string) *UserDictionary {
	return &UserDictionary{db: db, backupPath: backupPath}
}

// encodeKey builds the "code <space>\tphrase" key convention the
// original's userdb_entry_parser/formatter use.
func encodeKey(code, phrase string) string {
	c := code
	if !strings.HasSuffix(c, " ") {
		c += " "
	}
	return c + "\t" + phrase
}

func decodeKey(key string) (code, phrase string, ok bool) {
	tab := strings.IndexByte(key, '\t')
	if tab < 0 {
		return "", "", false
	}
	return strings.TrimSuffix(key[:tab], " "), key[tab+1:], true
}

func (u *UserDictionary) tick() (int64, error) {
	s, ok, err := u.db.Meta("tick")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	v, err := ParseValue("t=" + s)
	if err != nil {
		return 0, err
	}
	return v.Tick, nil
}

func (u *UserDictionary) advanceTick() (int64, error) {
	cur, err := u.tick()
	if err != nil {
		return 0, err
	}
	next := cur + 1
	if err := u.db.SetMeta("tick", itoa(next)); err != nil {
		return 0, err
	}
	return next, nil
}

// Update applies a commit delta to (code, phrase) per spec §4.E:
// delta>0 revives/reinforces, delta==0 only decays, delta<0 marks the
// entry deleted while preserving its magnitude for future revival.
func (u *UserDictionary) Update(code, phrase string, delta int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	key := encodeKey(code, phrase)
	tickNow, err := u.advanceTick()
	if err != nil {
		return err
	}

	var v Value
	if raw, ok, err := u.db.Fetch(key); err != nil {
		return err
	} else if ok {
		v, err = ParseValue(raw)
		if err != nil {
			return err
		}
	}

	decayedDee := v.Dee * math.Exp(-lambda*float64(tickNow-v.Tick))

	switch {
	case delta > 0:
		v.Commits = absInt(v.Commits) + delta
		v.Dee = decayedDee + float64(delta)
	case delta == 0:
		v.Dee = decayedDee
	default:
		mag := absInt(v.Commits)
		if mag < 1 {
			mag = 1
		}
		v.Commits = -mag
		v.Dee = decayedDee
	}
	v.Tick = tickNow

	if err := u.db.Update(key, v.Pack()); err != nil {
		return err
	}

	u.commitCount++
	if u.backupPath != "" && u.commitCount%autoBackupEvery == 0 {
		return u.db.Backup(u.backupPath)
	}
	return nil
}

// Query performs the alphabetical-order scan for every key whose code
// has the given prefix, scoring each surviving (non-deleted) entry.
func (u *UserDictionary) Query(codePrefix string) ([]Candidate, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	tickNow, err := u.tick()
	if err != nil {
		return nil, err
	}

	cur, err := u.db.Query(codePrefix)
	if err != nil {
		return nil, err
	}
	var out []Candidate
	for cur.Next() {
		e := cur.Entry()
		code, phrase, ok := decodeKey(e.Key)
		if !ok {
			continue
		}
		v, err := ParseValue(e.Value)
		if err != nil {
			continue
		}
		if v.Commits < 0 {
			continue // deleted
		}
		decayedDee := v.Dee * math.Exp(-lambda*float64(tickNow-v.Tick))
		rate := 0.0
		if tickNow > 0 {
			rate = float64(v.Commits) / float64(tickNow)
		}
		out = append(out, Candidate{
			Code:   code,
			Text:   phrase,
			Weight: phi(rate, decayedDee),
		})
	}
	return out, nil
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
