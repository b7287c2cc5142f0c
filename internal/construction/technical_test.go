package construction_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/construction"
)

func findComponent(doc construction.TechnicalDoc, name string) (construction.Component, bool) {
	for _, c := range doc.Components {
		if c.Component == name {
			return c, true
		}
	}
	return construction.Component{}, false
}

func TestExtractTechnicalGradingRows(t *testing.T) {
	text := strings.Join([]string{
		"REGULAR CUTAWAY COLLAR",
		"Collar height XS-5cm S-5.5cm M-6cm L-6.5cm XL-7cm",
	}, "\n")

	doc := construction.ExtractTechnical(text)

	collar, ok := findComponent(doc, "Collar")
	require.True(t, ok)
	require.Len(t, collar.Grading, 1)

	row := collar.Grading[0]
	assert.Equal(t, "Collar height", row.Parameter)
	assert.Equal(t, "5cm", row.XS)
	assert.Equal(t, "5.5cm", row.S)
	assert.Equal(t, "6cm", row.M)
	assert.Equal(t, "6.5cm", row.L)
	assert.Equal(t, "7cm", row.XL)
	assert.Empty(t, row.Size2XL)

	// size-label lines never leak into base measurements
	assert.Empty(t, collar.BaseMeasurements)
}

func TestExtractTechnicalGradingRowMergesLines(t *testing.T) {
	text := strings.Join([]string{
		"CUFF",
		"Cuff width XS-5cm",
		"Cuff width 2XL-6.5cm",
	}, "\n")

	doc := construction.ExtractTechnical(text)

	cuff, ok := findComponent(doc, "Cuff")
	require.True(t, ok)
	require.Len(t, cuff.Grading, 1)
	assert.Equal(t, "Cuff width", cuff.Grading[0].Parameter)
	assert.Equal(t, "5cm", cuff.Grading[0].XS)
	assert.Equal(t, "6.5cm", cuff.Grading[0].Size2XL)
}

func TestExtractTechnicalConstructionRowsMerge(t *testing.T) {
	text := strings.Join([]string{
		"REGULAR CUTAWAY COLLAR",
		"Attach collar band SNLS SPI 14",
		"Attach collar band SNLS SPI 14",
		"Topstitch collar edge DNCS",
	}, "\n")

	doc := construction.ExtractTechnical(text)

	collar, ok := findComponent(doc, "Collar")
	require.True(t, ok)
	require.Len(t, collar.Construction, 2)

	assert.Equal(t, "Attach collar band", collar.Construction[0].Operation)
	assert.Equal(t, "SNLS", collar.Construction[0].StitchType)
	assert.Equal(t, "14", collar.Construction[0].SPIGauge)
	assert.Equal(t, "DNCS", collar.Construction[1].StitchType)
	assert.Empty(t, collar.Construction[1].SPIGauge)
}

func TestExtractTechnicalBaseMeasurements(t *testing.T) {
	text := strings.Join([]string{
		"POCKET",
		"Pocket opening 12.5cm",
		"Button stand width 1/4 inch",
	}, "\n")

	doc := construction.ExtractTechnical(text)

	pocket, ok := findComponent(doc, "Pocket")
	require.True(t, ok)
	require.Len(t, pocket.BaseMeasurements, 2)

	assert.Equal(t, "Pocket opening", pocket.BaseMeasurements[0].Parameter)
	assert.Equal(t, "12.5", pocket.BaseMeasurements[0].Value)
	assert.Equal(t, "cm", pocket.BaseMeasurements[0].Unit)

	assert.Equal(t, "Button stand width", pocket.BaseMeasurements[1].Parameter)
	assert.Equal(t, "6.35", pocket.BaseMeasurements[1].Value)
	assert.Equal(t, "mm", pocket.BaseMeasurements[1].Unit)
}

func TestExtractTechnicalStitchLineCarriesMeasurementNote(t *testing.T) {
	text := strings.Join([]string{
		"SLEEVE",
		"Hem sleeve opening SNLS 2cm",
	}, "\n")

	doc := construction.ExtractTechnical(text)

	sleeve, ok := findComponent(doc, "Sleeve")
	require.True(t, ok)
	require.Len(t, sleeve.Construction, 1)
	assert.Equal(t, "SNLS", sleeve.Construction[0].StitchType)
	assert.Equal(t, "2cm", sleeve.Construction[0].Notes)
	assert.Empty(t, sleeve.BaseMeasurements)
}

func TestExtractTechnicalIgnoresHeaderAndLongLines(t *testing.T) {
	text := strings.Join([]string{
		"Buyer: NORTHWIND APPAREL",
		"Fabric: cotton twill 2/1",
		strings.Repeat("x", 260),
	}, "\n")

	doc := construction.ExtractTechnical(text)

	assert.Empty(t, doc.Components)
}

func TestExtractTechnicalComponentOrderIsStable(t *testing.T) {
	text := strings.Join([]string{
		"POCKET",
		"Pocket opening 12.5cm",
		"CUFF",
		"Cuff height 6cm",
		"ASSEMBLY",
		"Side seam join SNLS",
	}, "\n")

	doc := construction.ExtractTechnical(text)

	var names []string
	for _, c := range doc.Components {
		names = append(names, c.Component)
	}
	assert.Equal(t, []string{"Assembly", "Cuff", "Pocket"}, names)
}
