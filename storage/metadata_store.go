package storage

import (
	"sync"
)

// MetadataStore hands out run IDs. IDs are strictly increasing and never
// reused, even after the run is deleted.
type MetadataStore interface {
	NextRunID() (uint64, error)
}

type SimpleMetadataStore struct {
	lastID uint64
	mu     sync.Mutex
}

func NewSimpleMetadataStore() *SimpleMetadataStore {
	return &SimpleMetadataStore{lastID: 0}
}

func (smm *SimpleMetadataStore) NextRunID() (uint64, error) {
	smm.mu.Lock()
	defer smm.mu.Unlock()
	smm.lastID++
	return smm.lastID, nil
}
