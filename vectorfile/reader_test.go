package vectorfile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/retrofit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNormalizesVectors(t *testing.T) {
	input := "cat 1 0\ndog 0 1\npet 0.5 0.5\nzero 0 0\n"

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())
	assert.Equal(t, 2, table.Dim())

	for token, v := range table.All() {
		if token == "zero" {
			assert.Equal(t, []float64{0, 0}, v)
			continue
		}
		assert.InDelta(t, 1.0, core.Norm(v), 1e-5, "token %s", token)
	}

	cat, _ := table.Get("cat")
	assert.Equal(t, 1/math.Sqrt(1+core.NormEpsilon), cat[0])
}

func TestReadWithoutNormalization(t *testing.T) {
	table, err := Read(strings.NewReader("a 3 4\n"), WithoutNormalization())
	require.NoError(t, err)

	v, ok := table.Get("a")
	require.True(t, ok)
	assert.Equal(t, []float64{3, 4}, v)
}

func TestReadLowercasesWithoutSentinels(t *testing.T) {
	input := "Cat 1 0\n42 0 1\n!! 1 1\n"

	table, err := Read(strings.NewReader(input), WithoutNormalization())
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "42", "!!"}, table.Tokens())
	assert.False(t, table.Has(core.NumberToken))
	assert.False(t, table.Has(core.PunctuationToken))
}

func TestReadPreservesFileOrder(t *testing.T) {
	input := "zebra 1\napple 2\nmango 3\n"

	table, err := Read(strings.NewReader(input), WithoutNormalization())
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, table.Tokens())
}

func TestReadSkipsBlankLinesAndMissingTrailingNewline(t *testing.T) {
	input := "\n  a 1 2\n\n\t\nb 3 4"

	table, err := Read(strings.NewReader(input), WithoutNormalization())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Tokens())

	b, _ := table.Get("b")
	assert.Equal(t, []float64{3, 4}, b)
}

func TestReadDuplicateTokenReplaces(t *testing.T) {
	table, err := Read(strings.NewReader("a 1\nb 2\nA 3\n"), WithoutNormalization())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, table.Tokens())
	a, _ := table.Get("a")
	assert.Equal(t, []float64{3}, a)
}

func TestReadScientificNotation(t *testing.T) {
	table, err := Read(strings.NewReader("a 1E-3 -2.5e2\n"), WithoutNormalization())
	require.NoError(t, err)

	a, _ := table.Get("a")
	assert.Equal(t, []float64{0.001, -250}, a)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		line    string
	}{
		{"token without values", "a 1 2\nb\n", core.ErrMalformedRecord, "line 2"},
		{"unparsable value", "a 1 x\n", core.ErrMalformedRecord, "line 1"},
		{"dimension mismatch", "a 1 2\nb 1 2\nc 1 2 3\n", core.ErrDimensionMismatch, "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.txt.gz")
	table := core.NewTable(1)
	require.NoError(t, table.Set("cat", []float64{0.25, -0.5}))
	require.NoError(t, WriteFile(path, table))

	loaded, err := ReadFile(path, WithoutNormalization())
	require.NoError(t, err)
	assert.True(t, table.Equal(loaded))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingFile))
}

func TestReadFileReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("a 1\nb\n"), 0644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.True(t, errors.Is(err, core.ErrMalformedRecord))
}
