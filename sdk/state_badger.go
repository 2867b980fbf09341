package sdk

import (
	"errors"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v3"
)

// BadgerStore persists state in badger. One Update maps to one badger transaction.
type BadgerStore struct {
	db *badgerdb.DB
}

// OpenBadgerStore opens (or creates) a badger db in dir. With inMemory the dir is ignored.
func OpenBadgerStore(dir string, inMemory bool) (*BadgerStore, error) {
	var opts badgerdb.Options
	if inMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create badger dir: %w", err)
		}
		opts = badgerdb.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Update commits only if fn and every state access succeeded.
func (s *BadgerStore) Update(fn func(State) error) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		st := &badgerState{txn: txn}
		if err := fn(st); err != nil {
			return err
		}
		return st.err
	})
}

// View uses a read-only badger transaction.
func (s *BadgerStore) View(fn func(State) error) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		st := &badgerState{txn: txn, readOnly: true}
		if err := fn(st); err != nil {
			return err
		}
		return st.err
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type badgerState struct {
	txn      *badgerdb.Txn
	readOnly bool
	err      error
}

func (s *badgerState) Get(key string) *string {
	if s.err != nil {
		return nil
	}
	item, err := s.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		s.err = fmt.Errorf("badger get: %w", err)
		return nil
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		s.err = fmt.Errorf("badger copy value: %w", err)
		return nil
	}
	str := string(val)
	return &str
}

func (s *badgerState) Set(key, value string) {
	if s.err != nil {
		return
	}
	if s.readOnly {
		s.err = ErrReadOnly
		return
	}
	if err := s.txn.Set([]byte(key), []byte(value)); err != nil {
		s.err = fmt.Errorf("badger set: %w", err)
	}
}

func (s *badgerState) Delete(key string) {
	if s.err != nil {
		return
	}
	if s.readOnly {
		s.err = ErrReadOnly
		return
	}
	if err := s.txn.Delete([]byte(key)); err != nil {
		s.err = fmt.Errorf("badger delete: %w", err)
	}
}
