package fields

import (
	"strings"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
)

// Engine applies a rule table to extracted text. Extraction is pure:
// the same text and rules always produce the same fields and trace.
type Engine struct {
	rules []Rule
}

func NewEngine() *Engine {
	return &Engine{rules: DefaultRules()}
}

// NewEngineWithRules builds an engine over a custom table.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Extract runs every rule against text and records one trace entry per
// rule. Absence of a field is normal output, not an error.
func (e *Engine) Extract(text string) (StyleFields, extract.Trace) {
	var out StyleFields
	trace := make(extract.Trace, 0, len(e.rules)+1)

	if strings.TrimSpace(text) == "" {
		trace = append(trace, extract.TraceEntry{
			Rule:    "input",
			Outcome: extract.OutcomeEmptyInput,
			Detail:  "empty input",
		})
		return out, trace
	}

	lines := extract.SplitLines(text)
	bound := make(map[string]string, len(e.rules))

	for _, rule := range e.rules {
		if by, ok := bound[rule.Field]; ok {
			trace = append(trace, extract.TraceEntry{
				Rule:    rule.Name,
				Field:   rule.Field,
				Outcome: extract.OutcomeSkipped,
				Detail:  "field already bound by " + by,
			})
			continue
		}

		entry := applyRule(&out, rule, lines)
		if entry.Outcome == extract.OutcomeMatched {
			bound[rule.Field] = rule.Name
		}
		trace = append(trace, entry)
	}

	return out, trace
}

func applyRule(out *StyleFields, rule Rule, lines []string) extract.TraceEntry {
	for i, line := range lines {
		m := rule.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		value, err := rule.Assign(out, m[1])
		if err != nil {
			if rule.ScanAll {
				continue
			}
			// first match is binding: the field stays absent
			return extract.TraceEntry{
				Rule:    rule.Name,
				Field:   rule.Field,
				Outcome: extract.OutcomeInvalid,
				Line:    i + 1,
				Span:    clip(m[0], maxValueLen),
				Value:   clip(strings.TrimSpace(m[1]), maxValueLen),
				Detail:  err.Error(),
			}
		}

		return extract.TraceEntry{
			Rule:    rule.Name,
			Field:   rule.Field,
			Outcome: extract.OutcomeMatched,
			Line:    i + 1,
			Span:    clip(m[0], maxValueLen),
			Value:   value,
		}
	}

	return extract.TraceEntry{
		Rule:    rule.Name,
		Field:   rule.Field,
		Outcome: extract.OutcomeNoMatch,
		Detail:  "no match",
	}
}
