package mcq

import (
	"fmt"
	"strings"
)

// Assemble renumbers from 1 and serializes the batch into final output text.
// Source numbering is discarded — rejected blocks leave gaps. Emission order
// equals input order. Exactly one option line per question carries the mark:
// the resolver guarantees Correct is set, and any stray mark in option text
// was stripped at parse time.
//
// The output is safely splittable on the blank-line separator, and feeding
// it back through Split+Parse yields the same question count.
func Assemble(qs []*Question) string {
	var b strings.Builder
	for i, q := range qs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Text)
		for _, o := range q.Options {
			b.WriteString("(")
			b.WriteString(o.Letter)
			b.WriteString(") ")
			b.WriteString(o.Text)
			if o.Letter == q.Correct {
				b.WriteString(" " + CorrectMark)
			}
			b.WriteByte('\n')
		}
		if q.Explanation != "" {
			b.WriteString(ExplanationMarker + " " + q.Explanation + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
