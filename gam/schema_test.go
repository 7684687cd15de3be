package gam

import (
	"testing"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

func TestDetectSchema(t *testing.T) {
	tests := []struct {
		name       string
		cols       []string
		wantL      int
		wantOffset int
		wantErr    bool
	}{
		{
			name:       "two lineages with offset",
			cols:       []string{"t1", "l1", "t2", "l2", "offset"},
			wantL:      2,
			wantOffset: 4,
		},
		{
			name:       "single lineage no offset",
			cols:       []string{"t1", "l1"},
			wantL:      1,
			wantOffset: -1,
		},
		{
			name:       "interleaved ordering",
			cols:       []string{"l2", "offset", "t2", "l1", "t1"},
			wantL:      2,
			wantOffset: 1,
		},
		{
			name:       "extra covariates ignored",
			cols:       []string{"t1", "l1", "batch", "sex"},
			wantL:      1,
			wantOffset: -1,
		},
		{
			name:    "no pseudotime columns",
			cols:    []string{"batch", "offset"},
			wantErr: true,
		},
		{
			name:    "missing indicator",
			cols:    []string{"t1", "l1", "t2"},
			wantErr: true,
		},
		{
			name:    "non-contiguous lineage numbering",
			cols:    []string{"t1", "l1", "t3", "l3"},
			wantErr: true,
		},
		{
			name:    "duplicate pseudotime column",
			cols:    []string{"t1", "t1", "l1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := DetectSchema(tt.cols)

			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectSchema() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var vErr *errors.ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("error should be a *ValidationError, got %T", err)
				}
				return
			}

			if schema.NLineages != tt.wantL {
				t.Errorf("NLineages = %d, want %d", schema.NLineages, tt.wantL)
			}
			if schema.OffsetCol != tt.wantOffset {
				t.Errorf("OffsetCol = %d, want %d", schema.OffsetCol, tt.wantOffset)
			}
			for k := 0; k < schema.NLineages; k++ {
				if got := tt.cols[schema.TimeCols[k]]; got != "t"+string(rune('1'+k)) {
					t.Errorf("TimeCols[%d] points at %q", k, got)
				}
				if got := tt.cols[schema.IndicatorCols[k]]; got != "l"+string(rune('1'+k)) {
					t.Errorf("IndicatorCols[%d] points at %q", k, got)
				}
			}
		})
	}
}
