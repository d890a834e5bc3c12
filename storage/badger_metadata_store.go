package storage

import (
	"encoding/binary"
	"errors"

	"github.com/dgraph-io/badger/v2"
)

var lastRunIDKey = []byte{metaPrefix, 'l', 'a', 's', 't'}

type BadgerMetadataStore struct {
	db *badger.DB
}

func NewBadgerMetadataStore(backend *BadgerBackend) *BadgerMetadataStore {
	return &BadgerMetadataStore{db: backend.db}
}

func (bms *BadgerMetadataStore) NextRunID() (uint64, error) {
	var next uint64
	err := bms.db.Update(func(txn *badger.Txn) error {
		var last uint64
		item, err := txn.Get(lastRunIDKey)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			last = 0
		case err != nil:
			return err
		default:
			buf, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			last = binary.BigEndian.Uint64(buf)
		}

		next = last + 1
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, next)
		return txn.Set(lastRunIDKey, buf)
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
