package gam

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

var (
	timeColPattern      = regexp.MustCompile(`^t([0-9]+)$`)
	indicatorColPattern = regexp.MustCompile(`^l([0-9]+)$`)
)

// offsetColName is the fixed name of the offset column in fitted designs.
const offsetColName = "offset"

// LineageSchema maps design-matrix columns to their roles. It is computed
// once per design and reused, instead of re-matching column names on every
// prediction call.
type LineageSchema struct {
	// NLineages is the number of lineages L encoded in the design.
	NLineages int
	// TimeCols holds the design-column index of the pseudotime covariate
	// for each lineage, in lineage order (t1..tL).
	TimeCols []int
	// IndicatorCols holds the design-column index of the binary activation
	// indicator for each lineage, in lineage order (l1..lL).
	IndicatorCols []int
	// OffsetCol is the index of the offset column, or -1 when the design
	// carries no offset.
	OffsetCol int
}

// DetectSchema scans design column names once and returns the validated
// schema. Pseudotime columns are named t1..tL and each must be paired with
// an indicator column l1..lL; lineage numbering must be contiguous from 1.
func DetectSchema(cols []string) (*LineageSchema, error) {
	timeIdx := make(map[int]int)
	indIdx := make(map[int]int)
	offset := -1

	for i, name := range cols {
		if m := timeColPattern.FindStringSubmatch(name); m != nil {
			k, _ := strconv.Atoi(m[1])
			if _, dup := timeIdx[k]; dup {
				return nil, errors.NewValidationError("columns", fmt.Sprintf("duplicate pseudotime column t%d", k), name)
			}
			timeIdx[k] = i
			continue
		}
		if m := indicatorColPattern.FindStringSubmatch(name); m != nil {
			k, _ := strconv.Atoi(m[1])
			if _, dup := indIdx[k]; dup {
				return nil, errors.NewValidationError("columns", fmt.Sprintf("duplicate indicator column l%d", k), name)
			}
			indIdx[k] = i
			continue
		}
		if name == offsetColName {
			offset = i
		}
	}

	if len(timeIdx) == 0 {
		return nil, errors.NewValidationError("columns", "no pseudotime columns (t1..tL) found", cols)
	}

	nLineages := len(timeIdx)
	schema := &LineageSchema{
		NLineages:     nLineages,
		TimeCols:      make([]int, nLineages),
		IndicatorCols: make([]int, nLineages),
		OffsetCol:     offset,
	}
	for k := 1; k <= nLineages; k++ {
		ti, ok := timeIdx[k]
		if !ok {
			return nil, errors.NewValidationError("columns",
				fmt.Sprintf("pseudotime columns are not contiguous: t%d is missing", k), cols)
		}
		li, ok := indIdx[k]
		if !ok {
			return nil, errors.NewValidationError("columns",
				fmt.Sprintf("lineage %d has no indicator column l%d", k, k), cols)
		}
		schema.TimeCols[k-1] = ti
		schema.IndicatorCols[k-1] = li
	}

	return schema, nil
}
