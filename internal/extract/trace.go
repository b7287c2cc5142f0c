package extract

// Outcome is the result of a single extraction attempt.
type Outcome string

const (
	OutcomeMatched    Outcome = "matched"
	OutcomeNoMatch    Outcome = "no_match"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeEmptyInput Outcome = "empty_input"
	OutcomeClassified Outcome = "classified"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeError      Outcome = "error"
)

// TraceEntry records one attempt of one rule against the document.
type TraceEntry struct {
	Rule    string  `json:"rule"`
	Field   string  `json:"field,omitempty"`
	Outcome Outcome `json:"outcome"`
	Line    int     `json:"line,omitempty"` // 1-based line of the match
	Span    string  `json:"span,omitempty"` // raw matched text
	Value   string  `json:"value,omitempty"`
	Detail  string  `json:"detail,omitempty"`
}

// Trace is the ordered record of every extraction attempt in one run.
// Callers receive it as part of the result, alongside the fields.
type Trace []TraceEntry
