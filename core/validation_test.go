package core

import (
	"errors"
	"testing"
)

func TestValidateCorpusMeta(t *testing.T) {
	tests := []struct {
		name    string
		meta    *CorpusMeta
		wantErr error
	}{
		{
			name: "valid metadata",
			meta: &CorpusMeta{
				Id:           1,
				Name:         "thesis references",
				SplitMode:    SplitModeSentence,
				SegmentCount: 42,
			},
			wantErr: nil,
		},
		{
			name: "valid metadata with zero segments",
			meta: &CorpusMeta{
				Name:      "empty placeholder",
				SplitMode: SplitModeAuto,
			},
			wantErr: nil,
		},
		{
			name: "valid metadata with ID 0",
			meta: &CorpusMeta{
				Id:        0,
				Name:      "pending",
				SplitMode: SplitModeParagraph,
			},
			wantErr: nil,
		},
		{
			name:    "nil metadata",
			meta:    nil,
			wantErr: ErrInvalidCorpusMeta,
		},
		{
			name: "empty name",
			meta: &CorpusMeta{
				Name:      "",
				SplitMode: SplitModeAuto,
			},
			wantErr: ErrEmptyCorpusName,
		},
		{
			name: "unknown split mode",
			meta: &CorpusMeta{
				Name:      "broken",
				SplitMode: SplitMode(7),
			},
			wantErr: ErrInvalidSplitMode,
		},
		{
			name: "negative segment count",
			meta: &CorpusMeta{
				Name:         "broken",
				SplitMode:    SplitModeAuto,
				SegmentCount: -1,
			},
			wantErr: ErrInvalidCorpusMeta,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCorpusMeta(tt.meta)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCorpusMeta() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCorpusMeta() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAlpha(t *testing.T) {
	tests := []struct {
		name    string
		alpha   float64
		wantErr bool
	}{
		{name: "zero", alpha: 0},
		{name: "default", alpha: 0.4},
		{name: "one", alpha: 1},
		{name: "negative", alpha: -0.01, wantErr: true},
		{name: "above one", alpha: 1.01, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlpha(tt.alpha)
			if tt.wantErr && !errors.Is(err, ErrInvalidAlpha) {
				t.Errorf("ValidateAlpha(%g) error = %v, want ErrInvalidAlpha", tt.alpha, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAlpha(%g) unexpected error: %v", tt.alpha, err)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		wantErr   bool
	}{
		{name: "zero", threshold: 0},
		{name: "default", threshold: 0.75},
		{name: "one", threshold: 1},
		{name: "negative", threshold: -1, wantErr: true},
		{name: "above one", threshold: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThreshold(tt.threshold)
			if tt.wantErr && !errors.Is(err, ErrInvalidThreshold) {
				t.Errorf("ValidateThreshold(%g) error = %v, want ErrInvalidThreshold", tt.threshold, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateThreshold(%g) unexpected error: %v", tt.threshold, err)
			}
		})
	}
}
