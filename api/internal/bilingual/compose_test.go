package bilingual

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"pyq-bot/api/internal/mcq"
)

type fakeTranslator struct {
	out string
	err error
}

func (f fakeTranslator) Translate(_ context.Context, _ string) (string, error) {
	return f.out, f.err
}

func TestCompose(t *testing.T) {
	if got := Compose("સ્રોત", "Source"); got != "સ્રોત / Source" {
		t.Fatalf("Compose = %q", got)
	}
	if got := Compose("સ્રોત", "  "); got != "સ્રોત" {
		t.Fatalf("empty translation not degraded: %q", got)
	}
}

func gujaratiQuestion() *mcq.Question {
	return &mcq.Question{
		Text: "ગુજરાતનું પાટનગર કયું છે?",
		Options: []mcq.Option{
			{Letter: "a", Text: "અમદાવાદ"},
			{Letter: "b", Text: "ગાંધીનગર"},
			{Letter: "c", Text: "સુરત"},
			{Letter: "d", Text: "Vadodara"},
		},
		Correct:     "b",
		Explanation: "૧૯૭૦થી પાટનગર છે.",
		Raw:         mcq.Block("1. ગુજરાતનું પાટનગર કયું છે?"),
	}
}

func testComposer(tr Translator) *Composer {
	return &Composer{
		Translator: tr,
		Workers:    2,
		Timeout:    5 * time.Second,
		Limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func TestComposerBilingual(t *testing.T) {
	q := gujaratiQuestion()
	st := testComposer(fakeTranslator{out: "EN"}).Apply(context.Background(), []*mcq.Question{q})

	if q.Text != "ગુજરાતનું પાટનગર કયું છે? / EN" {
		t.Fatalf("Text = %q", q.Text)
	}
	for _, o := range q.Options[:3] {
		if !strings.HasSuffix(o.Text, " / EN") {
			t.Fatalf("option %s not composed: %q", o.Letter, o.Text)
		}
	}
	// Latin-script option passes through untouched.
	if q.Options[3].Text != "Vadodara" {
		t.Fatalf("latin option modified: %q", q.Options[3].Text)
	}
	if !strings.HasSuffix(q.Explanation, " / EN") {
		t.Fatalf("explanation not composed: %q", q.Explanation)
	}
	if st.Attempted != 5 || st.Translated != 5 || st.Misses != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestComposerDegradesOnFailure(t *testing.T) {
	q := gujaratiQuestion()
	orig := q.Text
	st := testComposer(fakeTranslator{err: errors.New("quota")}).Apply(context.Background(), []*mcq.Question{q})

	if q.Text != orig {
		t.Fatalf("failed translation altered text: %q", q.Text)
	}
	if st.Translated != 0 || st.Misses != st.Attempted {
		t.Fatalf("stats = %+v", st)
	}
}

func TestComposerNilTranslator(t *testing.T) {
	q := gujaratiQuestion()
	st := testComposer(nil).Apply(context.Background(), []*mcq.Question{q})
	if q.Text != "ગુજરાતનું પાટનગર કયું છે?" {
		t.Fatalf("text altered without translator: %q", q.Text)
	}
	if st.Translated != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestComposerEnglishGrammarMode(t *testing.T) {
	q := &mcq.Question{
		Text: "Active Voice માં ફેરવો: tea is made by her",
		Options: []mcq.Option{
			{Letter: "a", Text: "she makes tea"},
			{Letter: "b", Text: "she made tea"},
			{Letter: "c", Text: "tea makes she"},
			{Letter: "d", Text: "ચા બનાવે છે"},
		},
		Raw: mcq.Block("1. Active Voice માં ફેરવો"),
	}
	testComposer(fakeTranslator{out: "EN"}).Apply(context.Background(), []*mcq.Question{q})

	// English-grammar mode replaces rather than composes: no " / " lines.
	if strings.Contains(q.Text, " / ") {
		t.Fatalf("english grammar text composed: %q", q.Text)
	}
	// Already-English options untouched; the Gujarati one replaced outright.
	if q.Options[0].Text != "she makes tea" {
		t.Fatalf("english option altered: %q", q.Options[0].Text)
	}
	if q.Options[3].Text != "EN" {
		t.Fatalf("gujarati option not anglicized: %q", q.Options[3].Text)
	}
}

func TestComposerGujaratiGrammarUntouched(t *testing.T) {
	q := &mcq.Question{
		Text: "નીચેનામાંથી સમાસ ઓળખો",
		Options: []mcq.Option{
			{Letter: "a", Text: "દ્વંદ્વ"},
			{Letter: "b", Text: "તત્પુરુષ"},
			{Letter: "c", Text: "કર્મધારય"},
			{Letter: "d", Text: "બહુવ્રીહિ"},
		},
		Raw: mcq.Block("1. નીચેનામાંથી સમાસ ઓળખો"),
	}
	st := testComposer(fakeTranslator{out: "EN"}).Apply(context.Background(), []*mcq.Question{q})
	if st.Attempted != 0 {
		t.Fatalf("grammar question sent to translator: %+v", st)
	}
	if q.Text != "નીચેનામાંથી સમાસ ઓળખો" {
		t.Fatalf("text altered: %q", q.Text)
	}
}
