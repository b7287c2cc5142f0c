// Package construction mines decision-critical construction intelligence
// out of tech pack text: section-wise items for gauge, folder and risk
// decisions, plus strict per-component technical tables.
package construction

// Item categories.
const (
	CategoryMeasurement      = "measurement"
	CategoryStitch           = "stitch"
	CategoryProcess          = "process"
	CategoryAutomation       = "automation"
	CategoryConstructionNote = "construction_note"
)

// Item relevance tags.
const (
	RelevanceGauge      = "gauge"
	RelevanceFolder     = "folder"
	RelevanceRisk       = "risk"
	RelevanceAutomation = "automation"
)

// Item sources.
const (
	SourceExplicit = "explicit"
	SourceInferred = "inferred"
)

// Item is one decision-relevant fact attributed to a garment section.
type Item struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Source    string `json:"source"`
	Relevance string `json:"relevance"`
}

// Sections groups extracted items by garment section. Yoke content is
// folded into Assembly; lines before the first section heading land in
// Assembly as well.
type Sections struct {
	Collar   []Item `json:"collar"`
	Sleeve   []Item `json:"sleeve"`
	Cuff     []Item `json:"cuff"`
	Pocket   []Item `json:"pocket"`
	Front    []Item `json:"front"`
	Back     []Item `json:"back"`
	Assembly []Item `json:"assembly"`
}

// ConstructionRow is one merged construction operation for a component.
type ConstructionRow struct {
	Operation  string `json:"operation"`
	StitchType string `json:"stitchType"`
	SPIGauge   string `json:"spiGauge"`
	Notes      string `json:"notes"`
}

// MeasurementRow is one base measurement, normalized to mm or cm.
type MeasurementRow struct {
	Parameter        string `json:"parameter"`
	Value            string `json:"value"`
	Unit             string `json:"unit"`
	RelatedOperation string `json:"relatedOperation"`
}

// GradingRow holds one graded parameter with its per-size values.
type GradingRow struct {
	Parameter string `json:"parameter"`
	XS        string `json:"XS"`
	S         string `json:"S"`
	M         string `json:"M"`
	L         string `json:"L"`
	XL        string `json:"XL"`
	Size2XL   string `json:"2XL"`
	Size3XL   string `json:"3XL"`
}

// Component carries the three technical tables for one garment component.
type Component struct {
	Component        string            `json:"component"`
	Construction     []ConstructionRow `json:"constructionTable"`
	BaseMeasurements []MeasurementRow  `json:"baseMeasurementsTable"`
	Grading          []GradingRow      `json:"gradingTable"`
}

// TechnicalDoc is the strict technical-table extraction result.
type TechnicalDoc struct {
	Components []Component `json:"components"`
}

// Document is the full construction analysis persisted as analysis JSON.
type Document struct {
	Sections  Sections     `json:"sections"`
	Technical TechnicalDoc `json:"technicalTable"`
}

// BuildDocument runs the section analyzer and the technical table
// extractor over the same text.
func BuildDocument(text string) Document {
	return Document{
		Sections:  Analyze(text),
		Technical: ExtractTechnical(text),
	}
}
