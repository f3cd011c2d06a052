package retrofit

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/poiesic/retrofit/core"
	"github.com/poiesic/retrofit/lexicon"
	"github.com/poiesic/retrofit/vectorfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, entries ...any) *core.Table {
	t.Helper()
	require.Zero(t, len(entries)%2, "entries must be token/vector pairs")

	table := core.NewTable(len(entries) / 2)
	for i := 0; i < len(entries); i += 2 {
		require.NoError(t, table.Set(entries[i].(string), entries[i+1].([]float64)))
	}
	return table
}

// petScenario returns the normalized cat/dog/pet table and its lexicon.
func petScenario(t *testing.T) (*core.Table, *core.Graph) {
	t.Helper()
	vectors, err := vectorfile.Read(strings.NewReader("cat 1 0\ndog 0 1\npet 0.5 0.5\n"))
	require.NoError(t, err)
	graph, err := lexicon.Read(strings.NewReader("cat dog\ndog cat pet\n"))
	require.NoError(t, err)
	return vectors, graph
}

func TestRetrofitZeroIterations(t *testing.T) {
	vectors, graph := petScenario(t)

	result, err := Retrofit(vectors, graph, 0)
	require.NoError(t, err)
	assert.True(t, vectors.Equal(result))

	// The result is a copy, not the input.
	v, _ := result.Get("cat")
	v[0] = 42
	orig, _ := vectors.Get("cat")
	assert.NotEqual(t, 42.0, orig[0])
}

func TestRetrofitEmptyGraph(t *testing.T) {
	vectors, _ := petScenario(t)

	for _, graph := range []*core.Graph{nil, core.NewGraph()} {
		result, err := Retrofit(vectors, graph, 5)
		require.NoError(t, err)
		assert.True(t, vectors.Equal(result))
	}
}

func TestRetrofitPassThroughIsolated(t *testing.T) {
	vectors := newTable(t,
		"a", []float64{1, 0},
		"b", []float64{0, 1},
		"loner", []float64{0.6, 0.8},
		"stranded", []float64{0.8, 0.6},
	)
	graph := core.NewGraph()
	graph.Merge("a", "b")
	graph.Merge("b", "a")
	graph.Merge("stranded", "nowhere", "unknown")
	graph.Merge("ghost", "a")

	for _, n := range []int{1, 2, 10} {
		result, err := Retrofit(vectors, graph, n)
		require.NoError(t, err)

		for _, token := range []string{"loner", "stranded"} {
			want, _ := vectors.Get(token)
			got, _ := result.Get(token)
			assert.Equal(t, want, got, "token %s after %d rounds", token, n)
		}
		assert.False(t, result.Has("ghost"), "graph-only heads are ignored")
		assert.Equal(t, vectors.Tokens(), result.Tokens())
	}
}

func TestRetrofitSingleNeighborAverage(t *testing.T) {
	vectors := newTable(t,
		"w", []float64{0.3, -0.7, 0.1},
		"u", []float64{-0.2, 0.5, 0.9},
	)
	graph := core.NewGraph()
	graph.Merge("w", "u")

	result, err := Retrofit(vectors, graph, 1)
	require.NoError(t, err)

	w, _ := vectors.Get("w")
	u, _ := vectors.Get("u")
	got, _ := result.Get("w")
	for i := range w {
		assert.Equal(t, (w[i]+u[i])/2, got[i], "element %d", i)
	}
}

func TestRetrofitDataTermIsOriginal(t *testing.T) {
	// With a fixed neighbor, every round averages the original vector with
	// the neighbor: the result stays at the first-round value.
	vectors := newTable(t,
		"w", []float64{1, 0},
		"u", []float64{0, 1},
	)
	graph := core.NewGraph()
	graph.Merge("w", "u")

	result, err := Retrofit(vectors, graph, 7)
	require.NoError(t, err)

	got, _ := result.Get("w")
	assert.Equal(t, []float64{0.5, 0.5}, got)
}

func TestRetrofitSelfNeighbor(t *testing.T) {
	// A head listed among its own neighbors contributes its current value,
	// read before the round's write.
	vectors := newTable(t,
		"w", []float64{1, 0},
		"u", []float64{0, 1},
	)
	graph, err := lexicon.Read(strings.NewReader("w w u\n"))
	require.NoError(t, err)

	tests := []struct {
		iterations int
		want       []float64
	}{
		{1, []float64{0.75, 0.25}},
		{2, []float64{0.6875, 0.3125}},
	}
	for _, tt := range tests {
		result, err := Retrofit(vectors, graph, tt.iterations)
		require.NoError(t, err)

		got, _ := result.Get("w")
		assert.Equal(t, tt.want, got, "after %d rounds", tt.iterations)
		u, _ := result.Get("u")
		assert.Equal(t, []float64{0, 1}, u)
	}
}

func TestRetrofitPetScenarioSorted(t *testing.T) {
	vectors, graph := petScenario(t)

	result, err := Retrofit(vectors, graph, 1)
	require.NoError(t, err)

	s := 1 / math.Sqrt(1+core.NormEpsilon)
	p := 0.5 / math.Sqrt(0.5+core.NormEpsilon)

	cat, _ := result.Get("cat")
	assert.InDeltaSlice(t, []float64{s / 2, s / 2}, cat, 1e-12)

	dog, _ := result.Get("dog")
	assert.InDeltaSlice(t, []float64{(s/2 + p) / 4, (2*s + s/2 + p) / 4}, dog, 1e-12)

	pet, _ := result.Get("pet")
	orig, _ := vectors.Get("pet")
	assert.Equal(t, orig, pet)

	var buf bytes.Buffer
	require.NoError(t, vectorfile.Write(&buf, result))
	assert.Equal(t, "cat 0.5000 0.5000 \ndog 0.3018 0.8018 \npet 0.7071 0.7071 \n", buf.String())
}

func TestRetrofitOrderDependence(t *testing.T) {
	vectors, err := vectorfile.Read(strings.NewReader("dog 0 1\ncat 1 0\npet 0.5 0.5\n"))
	require.NoError(t, err)
	graph, err := lexicon.Read(strings.NewReader("cat dog\ndog cat pet\n"))
	require.NoError(t, err)

	sorted, err := NewRetrofitter(&Config{Iterations: 1, Order: OrderSorted}, nil).
		Run(context.Background(), vectors, graph)
	require.NoError(t, err)
	insertion, err := NewRetrofitter(&Config{Iterations: 1, Order: OrderInsertion}, nil).
		Run(context.Background(), vectors, graph)
	require.NoError(t, err)

	s := 1 / math.Sqrt(1+core.NormEpsilon)
	p := 0.5 / math.Sqrt(0.5+core.NormEpsilon)

	// Insertion order updates dog first, from the original cat.
	dog, _ := insertion.Get("dog")
	assert.InDeltaSlice(t, []float64{(s + p) / 4, (2*s + p) / 4}, dog, 1e-12)
	cat, _ := insertion.Get("cat")
	assert.InDeltaSlice(t, []float64{(s + dog[0]) / 2, dog[1] / 2}, cat, 1e-12)

	assert.False(t, sorted.Equal(insertion))
	assert.Equal(t, []string{"dog", "cat", "pet"}, sorted.Tokens(), "output keeps table order")
}

func TestRetrofitDoesNotMutateInputs(t *testing.T) {
	vectors, graph := petScenario(t)
	snapshot := vectors.Clone()
	heads := graph.Heads()
	dogNeighbors := graph.Neighbors("dog")

	_, err := Retrofit(vectors, graph, 10)
	require.NoError(t, err)

	assert.True(t, snapshot.Equal(vectors))
	assert.Equal(t, heads, graph.Heads())
	assert.Equal(t, dogNeighbors, graph.Neighbors("dog"))
}

func TestRetrofitConverges(t *testing.T) {
	vectors, graph := petScenario(t)

	a, err := Retrofit(vectors, graph, 50)
	require.NoError(t, err)
	b, err := Retrofit(vectors, graph, 51)
	require.NoError(t, err)

	for token, va := range a.All() {
		vb, _ := b.Get(token)
		assert.InDeltaSlice(t, va, vb, 1e-9, "token %s", token)
	}
}

func TestRetrofitInvalidArguments(t *testing.T) {
	vectors, graph := petScenario(t)

	_, err := Retrofit(vectors, graph, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))

	_, err = Retrofit(core.NewTable(0), graph, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))

	_, err = Retrofit(nil, graph, 1)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))

	_, err = NewRetrofitter(&Config{Iterations: 1, Order: Order(9)}, nil).
		Run(context.Background(), vectors, graph)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))
}

func TestRetrofitCancelled(t *testing.T) {
	vectors, graph := petScenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRetrofitter(&Config{Iterations: 3}, nil).Run(ctx, vectors, graph)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRetrofitProgressOutput(t *testing.T) {
	vectors, graph := petScenario(t)
	var buf bytes.Buffer

	_, err := NewRetrofitter(&Config{Iterations: 4}, &buf).Run(context.Background(), vectors, graph)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "iteration: 1/4")
	assert.Contains(t, output, "iteration: 4/4 (100.0%)")
	assert.Contains(t, output, "Updated 2 of 3 vectors")
}

func TestUpdateDimensionMismatch(t *testing.T) {
	current := newTable(t,
		"w", []float64{1, 0},
		"u", []float64{0, 1},
	)

	err := update(current, step{token: "w", data: []float64{1, 0, 0}, neighbors: []string{"u"}}, make([]float64, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDimensionMismatch))

	err = update(current, step{token: "w", data: []float64{1, 0}, neighbors: []string{"u"}}, make([]float64, 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDimensionMismatch))
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("Sorted")
	require.NoError(t, err)
	assert.Equal(t, OrderSorted, o)

	o, err = ParseOrder("insertion")
	require.NoError(t, err)
	assert.Equal(t, OrderInsertion, o)

	_, err = ParseOrder("random")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))

	assert.Equal(t, "insertion", OrderInsertion.String())
}
