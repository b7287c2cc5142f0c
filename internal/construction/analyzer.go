package construction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
)

var (
	measurementRe  = regexp.MustCompile(`(?i)((\d+\s?/\s?\d+)|(\d+(\.\d+)?))\s?(mm|cm|"|inch|″|”|')`)
	stitchRe       = regexp.MustCompile(`(?i)\b(SNLS|DNCS|T/S|S/B|SPI|Box stitch|Lock stitch)\b`)
	constructionRe = regexp.MustCompile(`(?i)(back tack|double fold|clean finish|raw edge|binding|facing|hem fold)`)
	automationRe   = regexp.MustCompile(`(?i)(auto|pneumatic|operation|notch)`)
	spiCountRe     = regexp.MustCompile(`(?i)SPI\s?(\d+)`)

	// Construction phrases that imply a folder or template attachment.
	folderImplyingRe = regexp.MustCompile(`(?i)clean finish|double fold|binding|hem|facing|raw edge|back tack`)

	// Header, label and care lines carry no construction signal.
	ignoreLineRe = regexp.MustCompile(`(?i)buyer|style ref|order no|season|modified|main label|size label|w/c label|barcode|dressed|cotton|brand|logo|sheet|page|spec actual`)

	separatorRe     = regexp.MustCompile(`[-\s]+`)
	underscoreRunRe = regexp.MustCompile(`_+`)
)

// noiseValues are never extracted as item values, and names reducing to
// one of them are too ambiguous to keep.
var noiseValues = map[string]struct{}{
	"front": {}, "back": {}, "side": {}, "collar": {}, "pocket": {},
	"yoke": {}, "sleeve": {}, "cuff": {}, "frontback": {},
}

// stopWords are stripped from item names so that no item is called just
// "Back", "Front" or similar.
var stopWords = []string{"front", "back", "frontback", "assembly", "detail", "section", "item"}

var relevantMeasurementKeywords = []string{
	"margin", "hem", "seam", "stand", "height", "width", "placket",
	"cuff", "opening", "allowance", "depth", "run", "spread", "trimming", "fold",
}

var wordRes = func() map[string]*regexp.Regexp {
	words := append([]string{"collar", "sleeve", "cuff", "pocket"}, stopWords...)
	m := make(map[string]*regexp.Regexp, len(words))
	for _, w := range words {
		m[w] = regexp.MustCompile(`\b` + w + `\b`)
	}
	return m
}()

// Analyze walks the text line by line, tracking the garment section in
// play and collecting measurement, stitch, process, automation and
// inferred-folder items for it.
func Analyze(text string) Sections {
	acc := newSectionAccumulator()
	section := "assembly"

	for _, line := range extract.SplitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" || ignoreLineRe.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)
		section = nextSection(section, lower)

		scanMeasurements(acc, section, line)
		scanStitches(acc, section, line)
		scanConstruction(acc, section, line)
		scanAutomation(acc, section, line)
		scanSeamSpec(acc, section, line, lower)
		inferFolderNote(acc, section, line, lower)
	}
	return acc.finalize()
}

func nextSection(current, lower string) string {
	switch {
	case strings.Contains(lower, "collar"):
		return "collar"
	case strings.Contains(lower, "cuff"):
		return "cuff"
	case strings.Contains(lower, "sleeve"):
		return "sleeve"
	case strings.Contains(lower, "pocket"):
		return "pocket"
	case strings.Contains(lower, "yoke"):
		return "assembly"
	case strings.Contains(lower, "front") && !strings.Contains(lower, "back"):
		return "front"
	case strings.Contains(lower, "back"):
		return "back"
	}
	return current
}

func scanMeasurements(a *sectionAccumulator, section, line string) {
	for _, m := range measurementRe.FindAllStringSubmatch(line, -1) {
		label := strings.TrimSpace(strings.Replace(line, m[0], "", 1))
		if !isRelevantMeasurementLabel(label) {
			continue
		}
		a.add(section, CategoryMeasurement, label, m[1]+m[5], SourceExplicit, RelevanceGauge)
	}
}

func scanStitches(a *sectionAccumulator, section, line string) {
	val := stitchRe.FindString(line)
	if val == "" {
		return
	}
	if spi := spiCountRe.FindStringSubmatch(line); spi != nil {
		val = fmt.Sprintf("%s (SPI %s)", val, spi[1])
	}
	a.add(section, CategoryStitch, "stitch_type", val, SourceExplicit, RelevanceRisk)
}

func scanConstruction(a *sectionAccumulator, section, line string) {
	term := constructionRe.FindString(line)
	if term == "" {
		return
	}
	name := strings.Trim(strings.TrimPrefix(clearName(section, term), section+"_"), "_")
	if name == "" {
		name = "construction_method"
	}
	a.add(section, CategoryProcess, name, term, SourceExplicit, RelevanceFolder)
	a.add(section, CategoryConstructionNote, section+"_folder_requirement",
		"Likely requires folder for "+term, SourceInferred, RelevanceFolder)
}

func scanAutomation(a *sectionAccumulator, section, line string) {
	term := automationRe.FindString(line)
	if term == "" {
		return
	}
	a.add(section, CategoryAutomation, "automation_type", term, SourceExplicit, RelevanceAutomation)
}

// scanSeamSpec catches unlabeled margin/allowance callouts, keeping the
// numeric value when one is present rather than the raw line.
func scanSeamSpec(a *sectionAccumulator, section, line, lower string) {
	if !strings.Contains(lower, "margin") && !strings.Contains(lower, "allowance") {
		return
	}
	if strings.Contains(line, ":") {
		return
	}
	value := "Margin/allowance specified"
	if m := measurementRe.FindStringSubmatch(line); m != nil {
		value = m[1] + m[5]
	}
	a.add(section, CategoryConstructionNote, section+"_seam_spec", value, SourceExplicit, RelevanceGauge)
}

// inferFolderNote records a folder requirement for phrases like
// "Pocket S/B clean finish" even when no explicit process item fired.
func inferFolderNote(a *sectionAccumulator, section, line, lower string) {
	if !folderImplyingRe.MatchString(lower) {
		return
	}
	term := constructionRe.FindString(line)
	if term == "" {
		term = "clean finish"
	}
	name := strings.NewReplacer(" ", "_", "-", "_").Replace(term)
	if !strings.HasPrefix(name, section) {
		name = section + "_" + name
	}
	a.add(section, CategoryConstructionNote, name,
		"Likely requires folder for "+term, SourceInferred, RelevanceFolder)
}

func isRelevantMeasurementLabel(label string) bool {
	if label == "" || len(label) > 120 {
		return false
	}
	lower := strings.ToLower(label)
	for _, kw := range relevantMeasurementKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if len(label) >= 25 {
		return false
	}
	for noise := range noiseValues {
		if strings.Contains(lower, noise) {
			return false
		}
	}
	return true
}

// clearName produces an unambiguous item name such as collar_run_stitch
// or cuff_hem_width, never a bare "Back" or "Front".
func clearName(section, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return section + "_dimension"
	}
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, w := range stopWords {
		text = wordRes[w].ReplaceAllString(text, "")
	}
	text = wordRes[section].ReplaceAllString(text, "")
	text = separatorRe.ReplaceAllString(text, "_")
	text = strings.Trim(text, "_")
	text = underscoreRunRe.ReplaceAllString(text, "_")
	if _, noisy := noiseValues[text]; noisy || text == "" {
		return section + "_spec"
	}
	if strings.HasPrefix(text, section+"_") {
		return text
	}
	return section + "_" + text
}

type itemKey struct {
	category string
	name     string
	value    string
}

type sectionAccumulator struct {
	items map[string][]Item
	seen  map[itemKey]struct{}
}

func newSectionAccumulator() *sectionAccumulator {
	return &sectionAccumulator{
		items: make(map[string][]Item),
		seen:  make(map[itemKey]struct{}),
	}
}

func (a *sectionAccumulator) add(section, category, name, value, source, relevance string) {
	if name == "" || value == "" {
		return
	}
	value = strings.TrimSpace(value)
	if _, noisy := noiseValues[strings.ToLower(value)]; noisy {
		return
	}
	clear := clearName(section, name)
	key := itemKey{category: category, name: clear, value: strings.ToLower(value)}
	if _, dup := a.seen[key]; dup {
		return
	}
	a.seen[key] = struct{}{}
	a.items[section] = append(a.items[section], Item{
		Category:  category,
		Name:      clear,
		Value:     value,
		Source:    source,
		Relevance: relevance,
	})
}

func (a *sectionAccumulator) finalize() Sections {
	get := func(section string) []Item {
		if items := a.items[section]; items != nil {
			return items
		}
		return []Item{}
	}
	return Sections{
		Collar:   get("collar"),
		Sleeve:   get("sleeve"),
		Cuff:     get("cuff"),
		Pocket:   get("pocket"),
		Front:    get("front"),
		Back:     get("back"),
		Assembly: get("assembly"),
	}
}
