package core

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"perfstat/storage"
)

func testSnapshot(t *testing.T) *Snapshot {
	agg := NewAggregate(4, Float).SetFloor(true)
	ingestAll(t, agg, "1 2 3 4", "3 4 5 6.5", "-1 0 0 0")
	snapshot := NewSnapshot("mean", "nightly", []string{"a.log", "b.log"}, agg)
	snapshot.CreatedAt = time.Unix(1700000000, 123)
	return snapshot
}

func snapshotOptions() cmp.Option {
	return cmp.Options{
		cmp.Comparer(func(a, b *Aggregate) bool {
			if a.rows != b.rows || a.kind != b.kind || a.floor != b.floor || a.arity != b.arity {
				return false
			}
			if !cmp.Equal(a.columns, b.columns) || !cmp.Equal(a.exact, b.exact) {
				return false
			}
			for i := range a.moments {
				if a.moments[i].GetCount() != b.moments[i].GetCount() ||
					a.moments[i].GetMean() != b.moments[i].GetMean() ||
					a.moments[i].GetM2() != b.moments[i].GetM2() {
					return false
				}
			}
			return true
		}),
	}
}

func TestSnapshotSerialization(t *testing.T) {
	snapshot := testSnapshot(t)
	snapshot.ID = 42

	buf := SnapshotToBytes(snapshot)
	newSnapshot, err := BytesToSnapshot(buf)
	require.NoError(t, err)

	assert.True(t, cmp.Equal(snapshot, newSnapshot, snapshotOptions()),
		cmp.Diff(snapshot, newSnapshot, snapshotOptions()))

	wantMean, _ := snapshot.Aggregate.Mean()
	gotMean, err := newSnapshot.Aggregate.Mean()
	require.NoError(t, err)
	assert.Equal(t, wantMean, gotMean)
}

func TestSnapshotSerialization_Integer(t *testing.T) {
	agg := NewAggregate(2, Integer)
	ingestAll(t, agg, "9007199254740993 -7", "1 2")
	snapshot := NewSnapshot("summary", "boot", []string{"perf.log"}, agg)
	snapshot.CreatedAt = time.Unix(1700000000, 0)

	newSnapshot, err := BytesToSnapshot(SnapshotToBytes(snapshot))
	require.NoError(t, err)
	assert.True(t, cmp.Equal(snapshot, newSnapshot, snapshotOptions()))

	totals, ok := newSnapshot.Aggregate.IntegerTotals()
	require.True(t, ok)
	assert.Equal(t, []int64{9007199254740994, -5}, totals)
}

func TestSnapshotSerialization_Corrupt(t *testing.T) {
	buf := SnapshotToBytes(testSnapshot(t))

	_, err := BytesToSnapshot(buf[:len(buf)-3])
	assert.Error(t, err)

	_, err = BytesToSnapshot(append(append([]byte{}, buf...), 0))
	assert.Error(t, err)

	bad := append([]byte{}, buf...)
	bad[0] = 99
	_, err = BytesToSnapshot(bad)
	assert.Error(t, err)

	_, err = BytesToSnapshot(nil)
	assert.Error(t, err)
}

func testArchive(t *testing.T, archive *Archive) {
	first := testSnapshot(t)
	id1, err := archive.Save(first)
	require.NoError(t, err)
	assert.Equal(t, id1, first.ID)

	second := testSnapshot(t)
	second.Title = "second"
	id2, err := archive.Save(second)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	got, err := archive.Get(id1)
	require.NoError(t, err)
	assert.Equal(t, "nightly", got.Title)
	assert.Equal(t, []string{"a.log", "b.log"}, got.Sources)
	assert.Equal(t, uint64(3), got.Aggregate.Rows())

	list, err := archive.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id1, list[0].ID)
	assert.Equal(t, "second", list[1].Title)

	require.NoError(t, archive.Delete(id1))
	_, err = archive.Get(id1)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	assert.True(t, errors.Is(archive.Delete(id1), storage.ErrNotFound))

	list, err = archive.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArchive_InMemory(t *testing.T) {
	archive, err := NewArchive(storage.NewInMemoryBackend(),
		storage.NewSimpleMetadataStore(), false, nil)
	require.NoError(t, err)
	defer archive.Close()

	testArchive(t, archive)
}

func TestArchive_Badger(t *testing.T) {
	archive, err := OpenArchive("", false, nil)
	require.NoError(t, err)
	defer archive.Close()

	testArchive(t, archive)
}

func TestArchive_BadgerCached(t *testing.T) {
	archive, err := OpenArchive("", true, nil)
	require.NoError(t, err)
	defer archive.Close()

	testArchive(t, archive)
}

func TestArchive_Reopen(t *testing.T) {
	dir := t.TempDir()

	archive, err := OpenArchive(dir, true, nil)
	require.NoError(t, err)
	id, err := archive.Save(testSnapshot(t))
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	archive, err = OpenArchive(dir, true, nil)
	require.NoError(t, err)
	defer archive.Close()

	snapshot, err := archive.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "mean", snapshot.Layout)
	assert.True(t, snapshot.CreatedAt.Equal(time.Unix(1700000000, 123)))

	next, err := archive.Save(testSnapshot(t))
	require.NoError(t, err)
	assert.Greater(t, next, id)
}
