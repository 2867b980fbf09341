package sdk

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MemoryStore keeps everything in a map, optionally mirrored into a json file after each commit.
type MemoryStore struct {
	mu       sync.RWMutex
	db       map[string]string
	filename string
}

// NewMemoryStore returns an empty store without file mirroring.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{db: make(map[string]string)}
}

// NewFileStore loads filename (if it exists) and saves back to it on every commit.
func NewFileStore(filename string) (*MemoryStore, error) {
	m := &MemoryStore{db: make(map[string]string), filename: filename}
	if err := m.LoadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

// Update buffers writes in an overlay and only folds them into the map once fn returned cleanly.
// With a file mirror the new map is written to disk first, so a failed save leaves memory untouched.
func (m *MemoryStore) Update(fn func(State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ov := newOverlay(m.db, false)
	if err := fn(ov); err != nil {
		return err
	}
	if ov.err != nil {
		return ov.err
	}
	if len(ov.writes) == 0 {
		return nil
	}
	if m.filename == "" {
		applyWrites(m.db, ov.writes)
		return nil
	}
	next := make(map[string]string, len(m.db)+len(ov.writes))
	for k, v := range m.db {
		next[k] = v
	}
	applyWrites(next, ov.writes)
	if err := saveToFile(m.filename, next); err != nil {
		return err
	}
	m.db = next
	return nil
}

func applyWrites(db map[string]string, writes map[string]*string) {
	for k, v := range writes {
		if v == nil {
			delete(db, k)
			continue
		}
		db[k] = *v
	}
}

// View reads straight from the map under a read lock.
func (m *MemoryStore) View(fn func(State) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ov := newOverlay(m.db, true)
	if err := fn(ov); err != nil {
		return err
	}
	return ov.err
}

// Close flushes the file mirror one last time.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filename == "" {
		return nil
	}
	return saveToFile(m.filename, m.db)
}

// Len is the number of stored keys, mostly for tests.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

// saveToFile writes db as JSON next to filename and renames it into place, so readers never
// see a half written file. Keys and values are binary so both are hex encoded.
func saveToFile(filename string, db map[string]string) error {
	out := make(map[string]string, len(db))
	for k, v := range db {
		out[hex.EncodeToString([]byte(k))] = hex.EncodeToString([]byte(v))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// LoadFromFile loads the map from the JSON file, a missing file just means a fresh state.
func (m *MemoryStore) LoadFromFile() error {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse state file: %w", err)
	}
	for hk, hv := range raw {
		k, err := hex.DecodeString(hk)
		if err != nil {
			return fmt.Errorf("decode state key %q: %w", hk, err)
		}
		v, err := hex.DecodeString(hv)
		if err != nil {
			return fmt.Errorf("decode state value for %q: %w", hk, err)
		}
		m.db[string(k)] = string(v)
	}
	return nil
}

// overlay is the State handed to callbacks. nil in writes marks a delete.
type overlay struct {
	base     map[string]string
	writes   map[string]*string
	readOnly bool
	err      error
}

func newOverlay(base map[string]string, readOnly bool) *overlay {
	return &overlay{base: base, writes: make(map[string]*string), readOnly: readOnly}
}

func (o *overlay) Get(key string) *string {
	if v, ok := o.writes[key]; ok {
		if v == nil {
			return nil
		}
		cp := *v
		return &cp
	}
	v, ok := o.base[key]
	if !ok {
		return nil
	}
	return &v
}

func (o *overlay) Set(key, value string) {
	if o.readOnly {
		o.fail(ErrReadOnly)
		return
	}
	v := value
	o.writes[key] = &v
}

func (o *overlay) Delete(key string) {
	if o.readOnly {
		o.fail(ErrReadOnly)
		return
	}
	o.writes[key] = nil
}

func (o *overlay) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}
