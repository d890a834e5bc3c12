package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"perfstat/stats"
)

// NOTE: Tests are in archive_test.go

// Version 2 added the exact integer sum of every column.
const (
	snapshotVersion   byte = 2
	snapshotVersionV1 byte = 1
)

var errShortSnapshot = errors.New("snapshot truncated")

func SnapshotToBytes(snapshot *Snapshot) []byte {
	agg := snapshot.Aggregate
	buf := make([]byte, 0, 64+agg.arity*56)

	buf = append(buf, snapshotVersion)
	buf = binary.LittleEndian.AppendUint64(buf, snapshot.ID)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(snapshot.CreatedAt.UnixNano()))
	buf = appendString(buf, snapshot.Layout)
	buf = appendString(buf, snapshot.Title)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(snapshot.Sources)))
	for _, source := range snapshot.Sources {
		buf = appendString(buf, source)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(agg.arity))
	buf = append(buf, byte(agg.kind), boolByte(agg.floor))
	buf = binary.LittleEndian.AppendUint64(buf, agg.rows)
	for i, column := range agg.columns {
		moment := agg.moments[i]
		buf = appendFloat64(buf, column.Sum.Value)
		buf = appendFloat64(buf, column.Max.Value)
		buf = appendFloat64(buf, column.Min.Value)
		buf = binary.LittleEndian.AppendUint64(buf, moment.GetCount())
		buf = appendFloat64(buf, moment.GetMean())
		buf = appendFloat64(buf, moment.GetM2())
		buf = binary.LittleEndian.AppendUint64(buf, uint64(agg.exactSum(i)))
	}
	return buf
}

func BytesToSnapshot(buf []byte) (*Snapshot, error) {
	r := &snapshotReader{buf: buf}

	version := r.u8()
	if r.err == nil && version != snapshotVersion && version != snapshotVersionV1 {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}
	columnSize := 56
	if version == snapshotVersionV1 {
		columnSize = 48
	}
	snapshot := &Snapshot{}
	snapshot.ID = r.u64()
	snapshot.CreatedAt = time.Unix(0, int64(r.u64()))
	snapshot.Layout = r.str()
	snapshot.Title = r.str()
	nSources := int(r.u32())
	if r.err == nil && nSources > len(r.buf) {
		return nil, errShortSnapshot
	}
	snapshot.Sources = make([]string, 0, nSources)
	for i := 0; i < nSources && r.err == nil; i++ {
		snapshot.Sources = append(snapshot.Sources, r.str())
	}

	arity := int(r.u32())
	kind := NumericKind(r.u8())
	floor := r.u8() == 1
	rows := r.u64()
	if r.err == nil && arity*columnSize > len(r.buf) {
		return nil, errShortSnapshot
	}
	columns := make([]ColumnTable, arity)
	moments := make([]*stats.Welford, arity)
	exact := make([]int64, arity)
	for i := 0; i < arity && r.err == nil; i++ {
		columns[i] = *NewColumnTable()
		columns[i].Sum.Value = r.f64()
		columns[i].Max.Value = r.f64()
		columns[i].Min.Value = r.f64()
		count := r.u64()
		mean := r.f64()
		m2 := r.f64()
		moments[i] = stats.RestoreWelford(count, mean, m2)
		if version == snapshotVersionV1 {
			exact[i] = int64(columns[i].Sum.Value)
		} else {
			exact[i] = int64(r.u64())
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	if len(r.buf) != 0 {
		return nil, fmt.Errorf("snapshot has %d trailing bytes", len(r.buf))
	}

	snapshot.Aggregate = restoreAggregate(kind, floor, rows, columns, moments, exact)
	return snapshot, nil
}

func boolByte(cond bool) byte {
	if cond {
		return 1
	}
	return 0
}

func appendFloat64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// snapshotReader consumes buf front to back and remembers the first error.
type snapshotReader struct {
	buf []byte
	err error
}

func (r *snapshotReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > len(r.buf) {
		r.err = errShortSnapshot
		return nil
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b
}

func (r *snapshotReader) u8() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *snapshotReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *snapshotReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *snapshotReader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *snapshotReader) str() string {
	n := int(r.u32())
	return string(r.take(n))
}
