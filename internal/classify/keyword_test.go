package classify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/classify"
)

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "polo", input: "MEN'S PIQUE POLO SS26", want: "Polo", ok: true},
		{name: "polo beats shirt", input: "POLO SHIRT", want: "Polo", ok: true},
		{name: "tshirt", input: "Basic crew neck t-shirt", want: "TShirt", ok: true},
		{name: "sweatshirt is hoodie", input: "Fleece sweatshirt with kangaroo pocket", want: "Hoodie", ok: true},
		{name: "dress shirt is shirt", input: "CLASSIC DRESS SHIRT", want: "Shirt", ok: true},
		{name: "dress", input: "Midi summer dress", want: "Dress", ok: true},
		{name: "denim is jeans", input: "Washed denim 5-pocket", want: "Jeans", ok: true},
		{name: "plain shirt", input: "Regular fit oxford shirt", want: "Shirt", ok: true},
		{name: "knitwear", input: "Lambswool sweater", want: "Knitwear", ok: true},
		{name: "no garment words", input: "Seam allowance 1/2 inch SNLS SPI 12", ok: false},
		{name: "empty", input: "", ok: false},
	}

	s := classify.NewKeywordStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.Classify(context.Background(), tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordClassifyDeterministic(t *testing.T) {
	s := classify.NewKeywordStrategy()
	input := "HOODED DENIM JACKET"

	first, ok1, err := s.Classify(context.Background(), input)
	require.NoError(t, err)
	for range 10 {
		got, ok, err := s.Classify(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, ok1, ok)
		assert.Equal(t, first, got)
	}
}

func TestKeywordName(t *testing.T) {
	assert.Equal(t, "keyword", classify.NewKeywordStrategy().Name())
}
