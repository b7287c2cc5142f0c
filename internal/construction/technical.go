package construction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
)

var (
	technicalIgnoreRe = regexp.MustCompile(`(?i)buyer|style ref|order no|season|modified|wash care|finishing|fabric|trim|care instruction|barcode|w/c label|dressed|cotton|brand|logo|sheet|page\s*\d|--\s*\d+\s+of\s+\d+\s*--`)

	componentHeadingRe = regexp.MustCompile(`(?i)^(ASSEMBLY|REGULAR\s+CUTAWAY\s+COLLAR|SHORT\s+SLEEVE|SLEEVE|FRONT|STRAIGHT\s+BACK|BACK|STRAIGHT\s+YOKE|YOKE|POCKET|CUFF)\s*$`)

	// Size label with value: XS-5cm, S-M-5.5cm, L-XL-6cm, 2XL-3XL-6.5cm.
	sizeValueRe = regexp.MustCompile(`(?i)\b(XS|S|M|L|XL|2XL|3XL)\s*[-:]?\s*(\d+(?:\.\d+)?)\s*(mm|cm)?`)
)

// componentMap maps heading substrings to component names, most specific
// first.
var componentMap = []struct {
	key  string
	name string
}{
	{"assembly", "Assembly"},
	{"regular cutaway collar", "Collar"},
	{"short sleeve", "Sleeve"},
	{"sleeve", "Sleeve"},
	{"front", "Front"},
	{"straight back", "Back"},
	{"back", "Back"},
	{"straight yoke", "Yoke"},
	{"yoke", "Yoke"},
	{"pocket", "Pocket"},
	{"cuff", "Cuff"},
}

var componentOrder = []string{"Assembly", "Collar", "Sleeve", "Cuff", "Front", "Back", "Yoke", "Pocket"}

var baseMeasurementSkips = []string{
	"buyer", "style", "order", "wash", "care", "label",
	"xs", "s-", "m-", "l-", "xl", "2xl", "3xl",
}

type constructionKey struct {
	operation  string
	stitchType string
	spi        string
}

type componentAcc struct {
	construction     []ConstructionRow
	constructionSeen map[constructionKey]struct{}
	measurements     []MeasurementRow
	gradingOrder     []string
	grading          map[string]*GradingRow
}

// ExtractTechnical builds the strict per-component tables. Each line
// lands in exactly one category, and size-label lines always grade
// before anything else.
func ExtractTechnical(text string) TechnicalDoc {
	accs := make(map[string]*componentAcc)
	ensure := func(name string) *componentAcc {
		acc, ok := accs[name]
		if !ok {
			acc = &componentAcc{
				construction:     []ConstructionRow{},
				constructionSeen: make(map[constructionKey]struct{}),
				measurements:     []MeasurementRow{},
				grading:          make(map[string]*GradingRow),
			}
			accs[name] = acc
		}
		return acc
	}

	current := "Assembly"
	for _, line := range extract.SplitLines(text) {
		raw := strings.TrimSpace(line)
		if raw == "" || len(raw) > 250 {
			continue
		}
		if technicalIgnoreRe.MatchString(raw) {
			continue
		}
		lower := strings.ToLower(raw)

		// Components switch only on explicit section headings.
		if isUpperLine(raw) || componentHeadingRe.MatchString(raw) {
			for _, c := range componentMap {
				if strings.Contains(lower, c.key) {
					current = c.name
					break
				}
			}
			ensure(current)
			continue
		}
		acc := ensure(current)

		if addGradingRow(acc, raw) {
			continue
		}
		if addConstructionRow(acc, raw) {
			continue
		}
		addBaseMeasurement(acc, raw)
	}

	doc := TechnicalDoc{Components: []Component{}}
	for _, name := range componentOrder {
		acc, ok := accs[name]
		if !ok {
			continue
		}
		grading := make([]GradingRow, 0, len(acc.gradingOrder))
		for _, param := range acc.gradingOrder {
			grading = append(grading, *acc.grading[param])
		}
		doc.Components = append(doc.Components, Component{
			Component:        name,
			Construction:     acc.construction,
			BaseMeasurements: acc.measurements,
			Grading:          grading,
		})
	}
	return doc
}

// addGradingRow routes size-label lines into the grading table, one row
// per parameter with per-size columns.
func addGradingRow(acc *componentAcc, raw string) bool {
	matches := sizeValueRe.FindAllStringSubmatch(raw, -1)
	if matches == nil {
		return false
	}

	param := raw
	for _, m := range matches {
		param = strings.ReplaceAll(param, m[0], " ")
	}
	param = truncate(strings.Join(strings.Fields(param), " "), 80)
	if param == "" {
		param = "Size"
	}

	row, ok := acc.grading[param]
	if !ok {
		row = &GradingRow{Parameter: param}
		acc.grading[param] = row
		acc.gradingOrder = append(acc.gradingOrder, param)
	}
	for _, m := range matches {
		cell := m[2] + strings.ToLower(strings.TrimSpace(m[3]))
		switch strings.ToUpper(m[1]) {
		case "XS":
			row.XS = cell
		case "S":
			row.S = cell
		case "M":
			row.M = cell
		case "L":
			row.L = cell
		case "XL":
			row.XL = cell
		case "2XL":
			row.Size2XL = cell
		case "3XL":
			row.Size3XL = cell
		}
	}
	return true
}

// addConstructionRow merges stitch and process lines per component,
// deduplicated by operation, stitch type and SPI.
func addConstructionRow(acc *componentAcc, raw string) bool {
	stitch := stitchRe.FindString(raw)
	spi := spiCountRe.FindStringSubmatch(raw)
	process := constructionRe.FindString(raw)
	measurement := measurementRe.FindString(raw)
	if stitch == "" && process == "" {
		return false
	}

	operation := raw
	for _, part := range []string{stitch, process, measurement} {
		if part != "" {
			operation = strings.ReplaceAll(operation, part, "")
		}
	}
	if spi != nil {
		operation = strings.ReplaceAll(operation, spi[0], "")
	}
	operation = truncate(strings.Join(strings.Fields(operation), " "), 80)
	if operation == "" {
		operation = "Operation"
	}

	stitchType := stitch
	if stitchType == "" {
		stitchType = process
	}
	spiVal := ""
	if spi != nil {
		spiVal = spi[1]
	}

	key := constructionKey{operation: operation, stitchType: stitchType, spi: spiVal}
	if _, dup := acc.constructionSeen[key]; dup {
		return true
	}
	acc.constructionSeen[key] = struct{}{}
	acc.construction = append(acc.construction, ConstructionRow{
		Operation:  operation,
		StitchType: stitchType,
		SPIGauge:   spiVal,
		Notes:      strings.TrimSpace(measurement),
	})
	return true
}

// addBaseMeasurement keeps the first plain numeric spec on the line,
// normalized to SI units.
func addBaseMeasurement(acc *componentAcc, raw string) {
	for _, m := range measurementRe.FindAllStringSubmatch(raw, -1) {
		value, unit, ok := NormalizeMeasure(m[1], m[5])
		if !ok {
			continue
		}
		param := strings.TrimSpace(strings.ReplaceAll(raw, m[0], ""))
		if param == "" || len(param) > 80 {
			param = "Dimension"
		}
		if hasBaseMeasurementSkip(strings.ToLower(param)) {
			continue
		}
		acc.measurements = append(acc.measurements, MeasurementRow{
			Parameter: param,
			Value:     value,
			Unit:      unit,
		})
		return
	}
}

func hasBaseMeasurementSkip(lower string) bool {
	for _, skip := range baseMeasurementSkips {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}

// isUpperLine mirrors headings typed in all caps, requiring at least
// one letter.
func isUpperLine(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
