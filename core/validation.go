// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateCorpusMeta validates corpus metadata according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - SplitMode must be a known mode
//   - SegmentCount must not be negative
//
// NOT validated (populated by the build pipeline):
//   - EmbeddingDim (0 is valid until vectors are attached)
//   - Id (0 is valid before a database sequence assigns one)
func ValidateCorpusMeta(meta *CorpusMeta) error {
	if meta == nil {
		return fmt.Errorf("%w: metadata is nil", ErrInvalidCorpusMeta)
	}

	if meta.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCorpusMeta, ErrEmptyCorpusName)
	}

	if err := ValidateSplitMode(meta.SplitMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCorpusMeta, err)
	}

	if meta.SegmentCount < 0 {
		return fmt.Errorf("%w: negative segment count %d", ErrInvalidCorpusMeta, meta.SegmentCount)
	}

	return nil
}

// ValidateSplitMode validates that a SplitMode has a known value.
func ValidateSplitMode(mode SplitMode) error {
	switch mode {
	case SplitModeSentence, SplitModeParagraph, SplitModeAuto:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidSplitMode, mode)
}

// ValidateAlpha validates a fusion weight.
func ValidateAlpha(alpha float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidAlpha, alpha)
	}
	return nil
}

// ValidateThreshold validates a suspicion threshold.
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidThreshold, threshold)
	}
	return nil
}
