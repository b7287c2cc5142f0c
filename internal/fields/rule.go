package fields

import "regexp"

// Rule declares one extraction rule. Rules are independent of each
// other: each scans the whole document and binds its field to the first
// line its pattern matches. A normalizer rejection on that first match
// leaves the field absent; later occurrences are not rescanned.
type Rule struct {
	// Name identifies the rule in trace entries.
	Name string
	// Field is the StyleFields member this rule binds.
	Field string
	// Pattern matches one line; capture group 1 is the candidate value.
	Pattern *regexp.Regexp
	// Assign normalizes the capture and stores it, returning the stored
	// form for the trace. On error nothing is stored.
	Assign AssignFunc
	// ScanAll makes normalizer rejections non-binding: scanning
	// continues until a candidate normalizes. Used where the value
	// format is part of the match condition.
	ScanAll bool
}

// AssignFunc normalizes raw and writes it into f.
type AssignFunc func(f *StyleFields, raw string) (string, error)

var (
	reStyleRef    = regexp.MustCompile(`(?i)^\s*(?:style\s*ref\.?|style\s*no\.?|style)\s*[:\-]\s*(.+?)\s*$`)
	reBuyer       = regexp.MustCompile(`(?i)^\s*buyer\s*[:\-]\s*(.+?)\s*$`)
	reOrderNo     = regexp.MustCompile(`(?i)^\s*(?:order\s*no\.?|con\s*no\.?|contract\s*no\.?|po\s*no\.?)\s*[:\-]\s*(.+?)\s*$`)
	reSeason      = regexp.MustCompile(`(?i)^\s*season\s*[:\-]\s*(.+?)\s*$`)
	reFit         = regexp.MustCompile(`(?i)^\s*fit\s*[:\-]\s*(.+?)\s*$`)
	reModified    = regexp.MustCompile(`(?i)^\s*modified(?:\s+on)?\s*[:\-]\s*(.+?)\s*$`)
	reGarmentType = regexp.MustCompile(`(?i)^\s*(?:garment\s*type|garment|product\s*type|product)\s*[:\-]\s*(.+?)\s*$`)
	reFabricType  = regexp.MustCompile(`(?i)^\s*(?:fabric\s*type|fabrication|fabric|material)\s*[:\-]\s*(.+?)\s*$`)
	reWashType    = regexp.MustCompile(`(?i)^\s*(?:wash\s*type|wash\s*finish|wash)\s*[:\-]\s*(.+?)\s*$`)
	reComplexity  = regexp.MustCompile(`(?i)^\s*(?:complexity\s*score|complexity|difficulty)\s*[:\-]\s*(.+?)\s*$`)
)

// DefaultRules is the rule table applied to every document, in order.
// The two modified rules implement the documented priority: a date-like
// value anywhere in the document outranks the first raw occurrence.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "style_ref", Field: FieldStyleRef, Pattern: reStyleRef,
			Assign: assignText(func(f *StyleFields, v string) { f.StyleRef = &v })},
		{Name: "buyer", Field: FieldBuyer, Pattern: reBuyer,
			Assign: assignText(func(f *StyleFields, v string) { f.Buyer = &v })},
		{Name: "order_no", Field: FieldOrderNo, Pattern: reOrderNo,
			Assign: assignText(func(f *StyleFields, v string) { f.OrderNo = &v })},
		{Name: "season", Field: FieldSeason, Pattern: reSeason,
			Assign: assignText(func(f *StyleFields, v string) { f.Season = &v })},
		{Name: "fit", Field: FieldFit, Pattern: reFit,
			Assign: assignText(func(f *StyleFields, v string) { f.Fit = &v })},
		{Name: "modified_date", Field: FieldModified, Pattern: reModified, ScanAll: true,
			Assign: assignDate(func(f *StyleFields, v string) { f.Modified = &v })},
		{Name: "modified_raw", Field: FieldModified, Pattern: reModified,
			Assign: assignText(func(f *StyleFields, v string) { f.Modified = &v })},
		{Name: "garment_type", Field: FieldGarmentType, Pattern: reGarmentType,
			Assign: assignText(func(f *StyleFields, v string) { f.GarmentType = &v })},
		{Name: "fabric_type", Field: FieldFabricType, Pattern: reFabricType,
			Assign: assignText(func(f *StyleFields, v string) { f.FabricType = &v })},
		{Name: "wash_type", Field: FieldWashType, Pattern: reWashType,
			Assign: assignText(func(f *StyleFields, v string) { f.WashType = &v })},
		{Name: "complexity", Field: FieldComplexity, Pattern: reComplexity,
			Assign: assignFloat(func(f *StyleFields, v float64) { f.Complexity = &v })},
	}
}
