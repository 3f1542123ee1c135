package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the binary format used by the storage layer.
// Written by hand: the stored types are few and flat, so a generator
// build step is not worth carrying. Timestamps travel as Unix
// microseconds.

var (
	// IDMUS serializes IDs as varint uint64.
	IDMUS = idMUS{}

	// SegmentMUS serializes a Segment.
	SegmentMUS = segmentMUS{}

	// CorpusMetaMUS serializes corpus metadata.
	CorpusMetaMUS = corpusMetaMUS{}

	// VectorMUS serializes one embedding vector row.
	VectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type segmentMUS struct{}

func (segmentMUS) Marshal(v Segment, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Index, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.Normalized, bs[n:])
	return n
}

func (segmentMUS) Unmarshal(bs []byte) (v Segment, n int, err error) {
	v.Index, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Normalized, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (segmentMUS) Size(v Segment) (size int) {
	size = varint.Int.Size(v.Index)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.Normalized)
	return size
}

func (s segmentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type corpusMetaMUS struct{}

func (corpusMetaMUS) Marshal(v CorpusMeta, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += varint.Int.Marshal(int(v.SplitMode), bs[n:])
	n += varint.Int.Marshal(v.SegmentCount, bs[n:])
	n += varint.Int.Marshal(v.EmbeddingDim, bs[n:])
	n += IDMUS.Marshal(v.Fingerprint, bs[n:])
	n += varint.Int64.Marshal(v.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (corpusMetaMUS) Unmarshal(bs []byte) (v CorpusMeta, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var mode int
	mode, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SplitMode = SplitMode(mode)
	v.SegmentCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EmbeddingDim, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fingerprint, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = unixMicroUTC(micros)
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = unixMicroUTC(micros)
	return
}

func (corpusMetaMUS) Size(v CorpusMeta) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += varint.Int.Size(int(v.SplitMode))
	size += varint.Int.Size(v.SegmentCount)
	size += varint.Int.Size(v.EmbeddingDim)
	size += IDMUS.Size(v.Fingerprint)
	size += varint.Int64.Size(v.CreatedAt.UnixMicro())
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return size
}

func (s corpusMetaMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

func unixMicroUTC(micros int64) time.Time {
	return time.UnixMicro(micros).UTC()
}
