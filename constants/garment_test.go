package constants_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    constants.GarmentType
		matched bool
	}{
		{name: "exact match", input: "Shirt", want: constants.Shirt, matched: true},
		{name: "case insensitive", input: "jeans", want: constants.Jeans, matched: true},
		{name: "surrounding whitespace", input: "  Polo  ", want: constants.Polo, matched: true},
		{name: "synonym tee", input: "tee", want: constants.TShirt, matched: true},
		{name: "synonym t-shirt", input: "T-Shirt", want: constants.TShirt, matched: true},
		{name: "synonym pants", input: "pants", want: constants.Trouser, matched: true},
		{name: "synonym denim", input: "Denim", want: constants.Jeans, matched: true},
		{name: "synonym sweater", input: "sweater", want: constants.Knitwear, matched: true},
		{name: "unknown falls back", input: "spacesuit", want: constants.Other, matched: false},
		{name: "empty input", input: "", want: constants.Other, matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := constants.Canonicalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, ok)
		})
	}
}

func TestAsStringSlice(t *testing.T) {
	all := constants.AsStringSlice()
	assert.Contains(t, all, "Shirt")
	assert.Contains(t, all, "Other")
	assert.Len(t, all, 13)
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", constants.NormalizeExt(".PDF"))
	assert.Equal(t, "pdf", constants.NormalizeExt("pdf"))
	assert.Equal(t, "", constants.NormalizeExt("."))
}

func TestFormatForExt(t *testing.T) {
	assert.Equal(t, "PDF", constants.FormatForExt(".pdf"))
	assert.Equal(t, "", constants.FormatForExt(".docx"))
}
