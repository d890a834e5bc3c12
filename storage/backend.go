package storage

import (
	"encoding/binary"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("run not found")

const (
	runPrefix  byte = 'r'
	metaPrefix byte = 'm'
)

// GetKey encodes a run ID as <1 byte prefix> <8 bytes big-endian ID>, so keys
// sort in run order.
func GetKey(runID uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = runPrefix
	binary.BigEndian.PutUint64(buf[1:], runID)
	return buf
}

func GetRunIDFromKey(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf[1:])
}

func IsRunKey(buf []byte) bool {
	return len(buf) == 9 && buf[0] == runPrefix
}

// Backend stores encoded run snapshots by run ID.
type Backend interface {
	Get(uint64) ([]byte, error)
	Put(uint64, []byte) error
	Delete(uint64) error

	// IterateIndex calls lambda for every stored run ID in ascending order,
	// stopping at the first error.
	IterateIndex(func(uint64) error) error

	Close() error
}

type InMemoryBackend struct {
	runMap      map[string][]byte
	runMapMutex sync.Mutex
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		runMap: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) Get(runID uint64) ([]byte, error) {
	backend.runMapMutex.Lock()
	defer backend.runMapMutex.Unlock()
	buf, ok := backend.runMap[string(GetKey(runID))]
	if !ok {
		return nil, ErrNotFound
	}
	return buf, nil
}

func (backend *InMemoryBackend) Put(runID uint64, buf []byte) error {
	backend.runMapMutex.Lock()
	defer backend.runMapMutex.Unlock()
	backend.runMap[string(GetKey(runID))] = buf
	return nil
}

func (backend *InMemoryBackend) Delete(runID uint64) error {
	backend.runMapMutex.Lock()
	defer backend.runMapMutex.Unlock()
	key := string(GetKey(runID))
	if _, ok := backend.runMap[key]; !ok {
		return ErrNotFound
	}
	delete(backend.runMap, key)
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.runMapMutex.Lock()
	defer backend.runMapMutex.Unlock()
	backend.runMap = nil
	return nil
}

func (backend *InMemoryBackend) IterateIndex(lambda func(uint64) error) error {
	backend.runMapMutex.Lock()
	ids := make([]uint64, 0, len(backend.runMap))
	for k := range backend.runMap {
		ids = append(ids, GetRunIDFromKey([]byte(k)))
	}
	backend.runMapMutex.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := lambda(id); err != nil {
			return err
		}
	}
	return nil
}
