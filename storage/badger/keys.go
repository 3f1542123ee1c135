package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/veritext/core"
)

// Key prefixes for different data types
const (
	corpusMetaPrefix    = "cormeta"
	corpusSegmentPrefix = "corseg"
	corpusVectorPrefix  = "corvec"
	corpusIDSeq         = "corseq"
	activeCorpusKey     = "coractive"
)

// makeCorpusMetaKey generates a key for corpus metadata by ID.
func makeCorpusMetaKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", corpusMetaPrefix, id))
}

// makeSegmentKey generates a composite key for a segment.
// Format: prefix:corpusID:index
func makeSegmentKey(corpusID core.ID, index int) []byte {
	return makeCompositeKey(corpusSegmentPrefix, uint64(corpusID), uint64(index))
}

// makeVectorKey generates a composite key for a segment's embedding vector.
// Format: prefix:corpusID:index
func makeVectorKey(corpusID core.ID, index int) []byte {
	return makeCompositeKey(corpusVectorPrefix, uint64(corpusID), uint64(index))
}

// makePartialSegmentKey generates the iteration prefix for a corpus's segments.
func makePartialSegmentKey(corpusID core.ID) []byte {
	return makePartialKey(corpusSegmentPrefix, uint64(corpusID))
}

// makePartialVectorKey generates the iteration prefix for a corpus's vectors.
func makePartialVectorKey(corpusID core.ID) []byte {
	return makePartialKey(corpusVectorPrefix, uint64(corpusID))
}

// makeCompositeKey builds prefix:a:b with both parts in BigEndian order so
// lexicographic iteration walks segments in index order.
func makeCompositeKey(prefix string, a, b uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], a)
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], b)
	return buf
}

// makePartialKey builds prefix:a for range scans.
func makePartialKey(prefix string, a uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], a)
	return buf
}
