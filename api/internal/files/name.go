package files

import (
	"regexp"
	"strconv"
	"strings"
)

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DeriveName builds the output filename for a generated batch:
// AI_<Topic>_<Language>_mcqs.txt, with the topic stripped to alphanumerics
// and capped so exotic topics can't produce unusable filenames.
func DeriveName(topic, language string) string {
	t := nonAlnumRe.ReplaceAllString(topic, "")
	if len(t) > 50 {
		t = t[:50]
	}
	if t == "" {
		t = "mcqs"
	}
	lang := strings.ReplaceAll(strings.TrimSpace(language), " ", "_")
	return "AI_" + t + "_" + lang + "_mcqs.txt"
}

// OutputName derives the processed-file name from an upload:
// paper.pdf -> paper_MCQ.txt. Extension matching is case-insensitive.
func OutputName(orig, ext string) string {
	stem := orig
	if strings.HasSuffix(strings.ToLower(orig), strings.ToLower(ext)) {
		stem = orig[:len(orig)-len(ext)]
	}
	if stem == "" {
		stem = "output"
	}
	return stem + "_MCQ.txt"
}

// PartName tags one chunk of a multi-file batch.
func PartName(base string, part int) string {
	if !strings.HasSuffix(base, ".txt") {
		return base
	}
	trimmed := strings.TrimSuffix(base, ".txt")
	return trimmed + "_part" + strconv.Itoa(part) + ".txt"
}
