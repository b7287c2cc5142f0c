// Package classify infers a garment type for tech packs that never
// state one explicitly.
package classify

import "context"

// Strategy classifies a document's garment type. ok reports whether a
// label was produced; a clean no-match is ("", false, nil), err is
// reserved for transport failures.
type Strategy interface {
	Classify(ctx context.Context, input string) (label string, ok bool, err error)
	Name() string
}
