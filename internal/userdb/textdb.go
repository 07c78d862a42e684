package userdb

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// textDb is the default backend: an in-memory sorted map backed by a
// "key<TAB>value" text file, one entry per line, matching the on-disk
// layout of the original's TextDb so snapshots stay human-editable.
type textDb struct {
	mu     sync.RWMutex
	path   string
	data   map[string]string
	meta   map[string]string
	closed bool
	inTxn  bool
	txnBak map[string]string // shallow copy of data taken at BeginTransaction
}

// OpenTextDb opens (creating if absent) a sorted-text userdb at path.
func OpenTextDb(path string) (UserDb, error) {
	db := &textDb{path: path, data: make(map[string]string), meta: make(map[string]string)}
	if _, err := os.Stat(path); err == nil {
		if err := db.load(path); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (d *textDb) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("userdb: open %s: %w", path, err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tab := strings.LastIndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		key, value := line[:tab], line[tab+1:]
		if strings.HasPrefix(key, metaPrefix) {
			d.meta[strings.TrimPrefix(key, metaPrefix)] = value
			continue
		}
		d.data[key] = value
	}
	return scanner.Err()
}

type textCursor struct {
	keys   []string
	values map[string]string
	prefix string
	idx    int
}

func (c *textCursor) Next() bool {
	c.idx++
	return c.idx < len(c.keys)
}

func (c *textCursor) Entry() Entry {
	if c.idx < 0 || c.idx >= len(c.keys) {
		return Entry{}
	}
	k := c.keys[c.idx]
	return Entry{Key: k, Value: c.values[k]}
}

func (d *textDb) sortedKeysFrom(prefix string, inclusive bool) []string {
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	start := sort.SearchStrings(keys, prefix)
	var matched []string
	for _, k := range keys[start:] {
		if prefix != "" && !strings.HasPrefix(k, prefix) && inclusive {
			break
		}
		matched = append(matched, k)
	}
	return matched
}

func (d *textDb) Query(prefix string) (Cursor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, errClosed
	}
	keys := d.sortedKeysFrom(prefix, true)
	return &textCursor{keys: keys, values: d.data, prefix: prefix, idx: -1}, nil
}

func (d *textDb) Jump(key string) (Cursor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, errClosed
	}
	keys := d.sortedKeysFrom(key, false)
	return &textCursor{keys: keys, values: d.data, idx: -1}, nil
}

func (d *textDb) Fetch(key string) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return "", false, errClosed
	}
	v, ok := d.data[key]
	return v, ok, nil
}

func (d *textDb) Update(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}
	d.data[key] = value
	return nil
}

func (d *textDb) Erase(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}
	delete(d.data, key)
	return nil
}

func (d *textDb) BeginTransaction() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inTxn {
		return fmt.Errorf("userdb: transaction already open")
	}
	d.txnBak = make(map[string]string, len(d.data))
	for k, v := range d.data {
		d.txnBak[k] = v
	}
	d.inTxn = true
	return nil
}

func (d *textDb) CommitTransaction() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inTxn {
		return fmt.Errorf("userdb: no transaction open")
	}
	d.inTxn = false
	d.txnBak = nil
	return d.flush()
}

func (d *textDb) AbortTransaction() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inTxn {
		return fmt.Errorf("userdb: no transaction open")
	}
	d.data = d.txnBak
	d.inTxn = false
	d.txnBak = nil
	return nil
}

func (d *textDb) flush() error {
	if d.path == "" {
		return nil
	}
	return d.writeTo(d.path)
}

func (d *textDb) writeTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("userdb: create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# Ime user dictionary")
	metaKeys := make([]string, 0, len(d.meta))
	for k := range d.meta {
		metaKeys = append(metaKeys, k)
	}
	sort.Strings(metaKeys)
	for _, k := range metaKeys {
		fmt.Fprintf(w, "%s%s\t%s\n", metaPrefix, k, d.meta[k])
	}
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, d.data[k])
	}
	return w.Flush()
}

func (d *textDb) Backup(path string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return errClosed
	}
	return d.writeTo(path)
}

func (d *textDb) Restore(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}
	fresh := &textDb{path: d.path, data: make(map[string]string), meta: make(map[string]string)}
	if err := fresh.load(path); err != nil {
		return err
	}
	d.data = fresh.data
	d.meta = fresh.meta
	return d.flush()
}

func (d *textDb) Meta(key string) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return "", false, errClosed
	}
	v, ok := d.meta[key]
	return v, ok, nil
}

func (d *textDb) SetMeta(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}
	d.meta[key] = value
	return nil
}

func (d *textDb) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	err := d.flush()
	d.closed = true
	return err
}
