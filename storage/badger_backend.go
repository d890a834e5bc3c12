package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v2"
	"go.uber.org/zap"
	"perfstat/utils"
)

type BadgerBackend struct {
	db *badger.DB
}

// OpenBadgerBackend opens (or creates) an archive at path. An empty path
// opens an in-memory store.
func OpenBadgerBackend(path string, logger *zap.Logger) (*BadgerBackend, error) {
	option := badger.DefaultOptions(path)
	if path == "" {
		option = option.WithInMemory(true)
	}
	if logger != nil {
		option = option.WithLogger(utils.NewBadgerLogger(logger))
	} else {
		option = option.WithLogger(nil)
	}
	db, err := badger.Open(option)
	if err != nil {
		return nil, err
	}
	return NewBadgerBackend(db), nil
}

func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}

func (backend *BadgerBackend) txnGet(key []byte) ([]byte, error) {
	var runBytes []byte
	err := backend.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		runBytes, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return runBytes, err
}

func (backend *BadgerBackend) txnPut(key, buf []byte) error {
	err := backend.db.Update(func(txn *badger.Txn) error {
		err := txn.Set(key, buf)
		return err
	})
	return err
}

func (backend *BadgerBackend) Get(runID uint64) ([]byte, error) {
	return backend.txnGet(GetKey(runID))
}

func (backend *BadgerBackend) Put(runID uint64, buf []byte) error {
	return backend.txnPut(GetKey(runID), buf)
}

func (backend *BadgerBackend) Delete(runID uint64) error {
	key := GetKey(runID)
	err := backend.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (backend *BadgerBackend) IterateIndex(lambda func(uint64) error) error {
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.PrefetchValues = false
	iterOpts.Prefix = []byte{runPrefix}
	return backend.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !IsRunKey(key) {
				continue
			}
			if err := lambda(GetRunIDFromKey(key)); err != nil {
				return err
			}
		}
		return nil
	})
}
