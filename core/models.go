package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. It is used to
// fingerprint raw corpus text so re-ingestion of the same document is detectable.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SplitMode selects how raw corpus text is divided into segments.
type SplitMode int

const (
	// SplitModeSentence splits on sentence-terminal punctuation.
	SplitModeSentence SplitMode = iota + 1
	// SplitModeParagraph splits on blank lines.
	SplitModeParagraph
	// SplitModeAuto prefers sentence splitting and falls back to the
	// whole text as a single segment when no sentences are found.
	SplitModeAuto
)

// ParseSplitMode converts a string such as "sentence" into a SplitMode.
// An empty string selects SplitModeAuto.
func ParseSplitMode(s string) (SplitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sentence":
		return SplitModeSentence, nil
	case "paragraph":
		return SplitModeParagraph, nil
	case "auto", "":
		return SplitModeAuto, nil
	}
	return 0, ErrInvalidSplitMode
}

// String returns the canonical name of the split mode.
func (m SplitMode) String() string {
	switch m {
	case SplitModeSentence:
		return "sentence"
	case SplitModeParagraph:
		return "paragraph"
	case SplitModeAuto:
		return "auto"
	}
	return "unknown"
}

// Segment is an immutable unit of corpus text, identified by its 0-based
// position within the corpus segment sequence. Segments are created at
// corpus build time and never mutated afterwards.
type Segment struct {
	Index      int
	Text       string
	Normalized string // normalized form used for indexing
}

// CorpusMeta describes a stored corpus. The derived indices are not part
// of the metadata; they are built from the stored segments and vectors
// and cached by the corpus manager.
type CorpusMeta struct {
	Id           ID
	Name         string
	SplitMode    SplitMode
	SegmentCount int
	EmbeddingDim int
	Fingerprint  ID // content hash of the raw corpus text
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Candidate is a transient scoring record produced while a query is being
// answered. It pairs a segment index with a raw score from one source
// (lexical or semantic) and is never persisted.
type Candidate struct {
	Index int
	Score float64
}

// RankedResult is the externally visible unit of a query response.
// Raw and normalized component scores are retained for transparency.
type RankedResult struct {
	Index         int
	Text          string
	FinalScore    float64 // bounded to [0,1]
	LexicalRaw    float64
	SemanticRaw   float64
	LexicalNorm   float64
	SemanticNorm  float64
	RerankerScore *float64 // set only when the re-ranking stage ran
	Suspected     bool     // FinalScore >= caller-supplied threshold
}
