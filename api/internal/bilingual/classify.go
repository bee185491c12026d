package bilingual

import (
	"regexp"
	"strings"
	"unicode"
)

// Mode is the translation regime for one question.
type Mode int

const (
	// ModeBilingual composes "source / English" lines.
	ModeBilingual Mode = iota
	// ModeEnglishGrammar keeps English-grammar content English-only;
	// translating a question about articles into Gujarati garbles it.
	ModeEnglishGrammar
	// ModeGujaratiGrammar keeps Gujarati-grammar content source-only;
	// sandhi and samasa terms have no useful English rendering.
	ModeGujaratiGrammar
)

func (m Mode) String() string {
	switch m {
	case ModeEnglishGrammar:
		return "english_grammar"
	case ModeGujaratiGrammar:
		return "gujarati_grammar"
	default:
		return "bilingual"
	}
}

var englishGrammarTerms = []string{
	"noun", "pronoun", "adjective", "verb", "adverb", "preposition",
	"conjunction", "interjection", "article", "articles", "tenses",
	"active voice", "passive voice", "direct speech", "indirect speech",
	"subject verb agreement", "error detection", "error spotting", "cloze",
	"fill in the blanks", "sentence correction", "grammar", "parts of speech",
}

var gujaratiGrammarTerms = []string{
	"ગુજરાતી વ્યાકરણ", "વ્યાકરણ", "કારક", "સમાસ", "વિભક્તિ",
	"શબ્દવિચાર", "સંધી", "અલંકાર", "રૂપક", "છંદ",
}

// Gujarati Unicode block.
var gujaratiRe = regexp.MustCompile(`[\x{0A80}-\x{0AFF}]`)

// HasGujarati reports whether the text contains any Gujarati-script rune.
func HasGujarati(s string) bool { return gujaratiRe.MatchString(s) }

// Classify decides the translation regime for one question block by keyword
// matching and a script check. English grammar keywords win over everything:
// those papers quote Gujarati instructions around English content.
func Classify(block string) Mode {
	low := strings.ToLower(block)
	for _, kw := range englishGrammarTerms {
		if strings.Contains(low, kw) {
			return ModeEnglishGrammar
		}
	}
	if HasGujarati(block) {
		for _, kw := range gujaratiGrammarTerms {
			if strings.Contains(block, kw) {
				return ModeGujaratiGrammar
			}
		}
	}
	return ModeBilingual
}

// MostlyEnglish reports whether the text already reads as English: more than
// 15% of its non-space characters are Latin letters. Low on purpose — exam
// lines mix digits, punctuation and proper nouns.
func MostlyEnglish(s string) bool {
	latin, total := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			latin++
		}
	}
	return latin > 0 && float64(latin)/float64(total) > 0.15
}
