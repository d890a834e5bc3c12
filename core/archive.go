package core

import (
	"sync"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"perfstat/storage"
)

// Archive keeps snapshots of finished runs in a Backend, with an optional
// read cache in front of it. Snapshots returned by Get and List are shared
// with the cache and must not be modified.
type Archive struct {
	backend      storage.Backend
	mds          storage.MetadataStore
	cacheEnabled bool
	cache        *ristretto.Cache
	logger       *zap.Logger

	// Cache deletes are applied asynchronously; deleted IDs are remembered
	// so a stale cache hit is never served. IDs are never reused.
	deleted   map[uint64]struct{}
	deletedMu sync.Mutex
}

func NewArchive(backend storage.Backend, mds storage.MetadataStore,
	cacheEnabled bool, logger *zap.Logger) (*Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	archive := &Archive{
		backend:      backend,
		mds:          mds,
		cacheEnabled: cacheEnabled,
		logger:       logger,
		deleted:      make(map[uint64]struct{}),
	}
	if cacheEnabled {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     1 << 24,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		archive.cache = cache
	}
	return archive, nil
}

// OpenArchive opens a badger-backed archive at path. An empty path gives an
// in-memory archive.
func OpenArchive(path string, cacheEnabled bool, logger *zap.Logger) (*Archive, error) {
	backend, err := storage.OpenBadgerBackend(path, logger)
	if err != nil {
		return nil, err
	}
	archive, err := NewArchive(backend,
		storage.NewBadgerMetadataStore(backend), cacheEnabled, logger)
	if err != nil {
		return nil, multierr.Append(err, backend.Close())
	}
	return archive, nil
}

// Save assigns the snapshot a fresh ID and stores it.
func (archive *Archive) Save(snapshot *Snapshot) (uint64, error) {
	id, err := archive.mds.NextRunID()
	if err != nil {
		return 0, err
	}
	snapshot.ID = id
	buf := SnapshotToBytes(snapshot)
	if err := archive.backend.Put(id, buf); err != nil {
		return 0, err
	}
	if archive.cacheEnabled {
		archive.cache.Set(id, snapshot, int64(len(buf)))
	}
	archive.logger.Debug("archived run",
		zap.Uint64("id", id),
		zap.String("layout", snapshot.Layout),
		zap.Uint64("rows", snapshot.Aggregate.Rows()))
	return id, nil
}

func (archive *Archive) Get(id uint64) (*Snapshot, error) {
	if archive.cacheEnabled {
		if archive.isDeleted(id) {
			return nil, storage.ErrNotFound
		}
		snapshot, found := archive.cache.Get(id)
		if found {
			return snapshot.(*Snapshot), nil
		}
	}
	buf, err := archive.backend.Get(id)
	if err != nil {
		return nil, err
	}
	snapshot, err := BytesToSnapshot(buf)
	if err != nil {
		return nil, err
	}
	if archive.cacheEnabled {
		archive.cache.Set(id, snapshot, int64(len(buf)))
	}
	return snapshot, nil
}

func (archive *Archive) Delete(id uint64) error {
	if err := archive.backend.Delete(id); err != nil {
		return err
	}
	if archive.cacheEnabled {
		archive.deletedMu.Lock()
		archive.deleted[id] = struct{}{}
		archive.deletedMu.Unlock()
		archive.cache.Del(id)
	}
	return nil
}

func (archive *Archive) isDeleted(id uint64) bool {
	archive.deletedMu.Lock()
	defer archive.deletedMu.Unlock()
	_, ok := archive.deleted[id]
	return ok
}

// List returns every archived snapshot in run order.
func (archive *Archive) List() ([]*Snapshot, error) {
	ids := make([]uint64, 0)
	err := archive.backend.IterateIndex(func(id uint64) error {
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	snapshots := make([]*Snapshot, 0, len(ids))
	for _, id := range ids {
		snapshot, err := archive.Get(id)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (archive *Archive) Close() error {
	if archive.cacheEnabled {
		archive.cache.Close()
	}
	return archive.backend.Close()
}
