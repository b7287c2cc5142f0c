package fields

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxValueLen caps stored values and trace spans.
const maxValueLen = 120

var errEmptyValue = errors.New("empty value")

func assignText(set func(*StyleFields, string)) AssignFunc {
	return func(f *StyleFields, raw string) (string, error) {
		v := clip(strings.TrimSpace(raw), maxValueLen)
		if v == "" {
			return "", errEmptyValue
		}
		set(f, v)
		return v, nil
	}
}

func assignFloat(set func(*StyleFields, float64)) AssignFunc {
	return func(f *StyleFields, raw string) (string, error) {
		v := strings.TrimSpace(raw)
		if v == "" {
			return "", errEmptyValue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", fmt.Errorf("not a number: %q", clip(v, 40))
		}
		set(f, n)
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"2 January 2006",
}

func assignDate(set func(*StyleFields, string)) AssignFunc {
	return func(f *StyleFields, raw string) (string, error) {
		v := strings.TrimSpace(raw)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				normalized := ts.Format("2006-01-02")
				set(f, normalized)
				return normalized, nil
			}
		}
		return "", fmt.Errorf("not a recognized date: %q", clip(v, 40))
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
