package mcq

// CorrectMark is the canonical glyph marking the correct option. It is the
// single source of truth for both detection and emission; never inline the
// literal elsewhere.
const CorrectMark = "✅"

// ExplanationMarker prefixes the explanation line in canonical output.
const ExplanationMarker = "Ex:"

// Limits are per-field character budgets. Lengths are counted in runes, not
// bytes: option and explanation text is frequently mixed Latin/Gujarati.
type Limits struct {
	Question    int
	Option      int
	Explanation int
}

// DefaultLimits mirror the Telegram poll caps.
func DefaultLimits() Limits {
	return Limits{Question: 4096, Option: 100, Explanation: 200}
}

// StrictLimits are the compact budgets used for AI-generated batches, where
// the prompt already asks for short fields and anything longer is model
// rambling.
func StrictLimits() Limits {
	return Limits{Question: 200, Option: 50, Explanation: 120}
}

func (l Limits) orDefault() Limits {
	d := DefaultLimits()
	if l.Question <= 0 {
		l.Question = d.Question
	}
	if l.Option <= 0 {
		l.Option = d.Option
	}
	if l.Explanation <= 0 {
		l.Explanation = d.Explanation
	}
	return l
}
