package gam

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

const containerFixture = `{
  "format_version": "1.0",
  "columns": ["t1", "l1", "t2", "l2", "offset"],
  "design": [
    [0, 1, 0, 0, 0],
    [10, 1, 0, 0, 0],
    [0, 0, 0, 1, 0],
    [0, 0, 8, 1, 0]
  ],
  "pseudotime": [
    [0, null],
    [10, null],
    [null, 0],
    [null, 8]
  ],
  "degree": 3,
  "knots": [
    [0, 0, 0, 0, 5, 10, 10, 10, 10],
    [0, 0, 0, 0, 4, 8, 8, 8, 8]
  ],
  "genes": ["Sox9"],
  "coefficients": [
    [0.6931471805599453, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]
  ]
}`

func TestLoadContainer(t *testing.T) {
	container, err := LoadContainer(strings.NewReader(containerFixture))
	require.NoError(t, err)

	assert.Equal(t, 2, container.NLineages())
	assert.Equal(t, 3, container.Degree())
	assert.Equal(t, []string{"Sox9"}, container.Coefficients().Genes())

	// Off-lineage pseudotime cells come back as NaN fillers.
	assert.True(t, math.IsNaN(container.Pseudotime().At(0, 1)))
	assert.Equal(t, 10.0, container.Pseudotime().At(1, 0))

	// The loaded container predicts: intercept ln 2, zero offset.
	result, err := PredictSmoothMatrix(container, []string{"Sox9"}, 5)
	require.NoError(t, err)
	_, c := result.Data().Dims()
	require.Equal(t, 10, c)
	for j := 0; j < c; j++ {
		assert.InDelta(t, 2.0, result.Data().At(0, j), 1e-12, "column %d", j)
	}
}

func TestLoadContainerRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{
			name: "wrong format version",
			mutate: func(s string) string {
				return strings.Replace(s, `"format_version": "1.0"`, `"format_version": "2.0"`, 1)
			},
		},
		{
			name: "ragged design rows",
			mutate: func(s string) string {
				return strings.Replace(s, "[10, 1, 0, 0, 0]", "[10, 1, 0]", 1)
			},
		},
		{
			name: "coefficient width mismatch",
			mutate: func(s string) string {
				return strings.Replace(s,
					"[0.6931471805599453, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]",
					"[0.6931471805599453, 0, 0]", 1)
			},
		},
		{
			name: "gene count mismatch",
			mutate: func(s string) string {
				return strings.Replace(s, `"genes": ["Sox9"]`, `"genes": ["Sox9", "Krt19"]`, 1)
			},
		},
		{
			name: "not JSON",
			mutate: func(string) string {
				return "definitely not json"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadContainer(strings.NewReader(tt.mutate(containerFixture)))
			assert.Error(t, err)
		})
	}
}

func TestContainerExportRoundTrip(t *testing.T) {
	original, err := LoadContainer(strings.NewReader(containerFixture))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, original.Export(&buf))

	reloaded, err := LoadContainer(&buf)
	require.NoError(t, err)

	wantResult, err := PredictSmoothMatrix(original, []string{"Sox9"}, 5)
	require.NoError(t, err)
	gotResult, err := PredictSmoothMatrix(reloaded, []string{"Sox9"}, 5)
	require.NoError(t, err)

	_, c := wantResult.Data().Dims()
	for j := 0; j < c; j++ {
		assert.InDelta(t, wantResult.Data().At(0, j), gotResult.Data().At(0, j), 1e-12)
	}
}

const collectionFixture = `{
  "format_version": "1.0",
  "columns": ["t1", "l1", "t2", "l2", "offset"],
  "design": [
    [0, 1, 0, 0, 0],
    [10, 1, 0, 0, 0],
    [0, 0, 0, 1, 0],
    [0, 0, 8, 1, 0]
  ],
  "pseudotime": [
    [0, null],
    [10, null],
    [null, 0],
    [null, 8]
  ],
  "degree": 3,
  "knots": [
    [0, 0, 0, 0, 5, 10, 10, 10, 10],
    [0, 0, 0, 0, 4, 8, 8, 8, 8]
  ],
  "models": {
    "Sox9": {
      "offset": 0,
      "coefficients": [0.6931471805599453, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]
    },
    "Krt19": {
      "offset": 0.5,
      "coefficients": [1.0986122886681098, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]
    }
  }
}`

func TestLoadGAMs(t *testing.T) {
	models, err := LoadGAMs(strings.NewReader(collectionFixture))
	require.NoError(t, err)
	require.Len(t, models, 2)

	result, err := PredictSmoothModels(models, []string{"Sox9", "Krt19"}, 5)
	require.NoError(t, err)

	_, c := result.Data().Dims()
	for j := 0; j < c; j++ {
		assert.InDelta(t, 2.0, result.Data().At(0, j), 1e-12, "Sox9 column %d", j)
		assert.InDelta(t, math.Exp(math.Log(3)+0.5), result.Data().At(1, j), 1e-12, "Krt19 column %d", j)
	}
}

func TestLoadGAMsRejectsEmptyCollection(t *testing.T) {
	empty := strings.Replace(collectionFixture,
		`"models": {
    "Sox9": {
      "offset": 0,
      "coefficients": [0.6931471805599453, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]
    },
    "Krt19": {
      "offset": 0.5,
      "coefficients": [1.0986122886681098, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]
    }
  }`, `"models": {}`, 1)

	_, err := LoadGAMs(strings.NewReader(empty))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
