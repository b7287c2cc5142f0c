package construction

// BuildDocumentJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// for the analysis document as a generic map. The parse stage validates
// analysis JSON against it before persisting.
func BuildDocumentJSONSchema() map[string]any {
	itemList := map[string]any{"type": "array", "items": itemSchema()}

	sections := []string{"collar", "sleeve", "cuff", "pocket", "front", "back", "assembly"}
	sectionProps := make(map[string]any, len(sections))
	for _, s := range sections {
		sectionProps[s] = itemList
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"sections": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           sectionProps,
				"required":             sections,
			},
			"technicalTable": technicalSchema(),
		},
		"required": []string{"sections", "technicalTable"},
	}
}

func itemSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"category": map[string]any{
				"type": "string",
				"enum": []string{CategoryMeasurement, CategoryStitch, CategoryProcess, CategoryAutomation, CategoryConstructionNote},
			},
			"name":  map[string]any{"type": "string", "minLength": 1},
			"value": map[string]any{"type": "string", "minLength": 1},
			"source": map[string]any{
				"type": "string",
				"enum": []string{SourceExplicit, SourceInferred},
			},
			"relevance": map[string]any{
				"type": "string",
				"enum": []string{RelevanceGauge, RelevanceFolder, RelevanceRisk, RelevanceAutomation},
			},
		},
		"required": []string{"category", "name", "value", "source", "relevance"},
	}
}

func technicalSchema() map[string]any {
	stringProp := map[string]any{"type": "string"}

	constructionRow := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"operation":  map[string]any{"type": "string", "minLength": 1},
			"stitchType": stringProp,
			"spiGauge":   stringProp,
			"notes":      stringProp,
		},
		"required": []string{"operation", "stitchType", "spiGauge", "notes"},
	}

	measurementRow := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"parameter":        map[string]any{"type": "string", "minLength": 1},
			"value":            map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?$`},
			"unit":             map[string]any{"type": "string", "enum": []string{"mm", "cm"}},
			"relatedOperation": stringProp,
		},
		"required": []string{"parameter", "value", "unit", "relatedOperation"},
	}

	gradingRow := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"parameter": map[string]any{"type": "string", "minLength": 1},
			"XS":        stringProp,
			"S":         stringProp,
			"M":         stringProp,
			"L":         stringProp,
			"XL":        stringProp,
			"2XL":       stringProp,
			"3XL":       stringProp,
		},
		"required": []string{"parameter", "XS", "S", "M", "L", "XL", "2XL", "3XL"},
	}

	component := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"component": map[string]any{
				"type": "string",
				"enum": componentOrder,
			},
			"constructionTable":     map[string]any{"type": "array", "items": constructionRow},
			"baseMeasurementsTable": map[string]any{"type": "array", "items": measurementRow},
			"gradingTable":          map[string]any{"type": "array", "items": gradingRow},
		},
		"required": []string{"component", "constructionTable", "baseMeasurementsTable", "gradingTable"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"components": map[string]any{"type": "array", "items": component},
		},
		"required": []string{"components"},
	}
}
