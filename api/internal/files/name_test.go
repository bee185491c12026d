package files

import "testing"

func TestDeriveName(t *testing.T) {
	cases := []struct {
		topic, language, want string
	}{
		{"Indian History", "Hindi and English", "AI_IndianHistory_Hindi_and_English_mcqs.txt"},
		{"Gupta Empire!", "Hindi", "AI_GuptaEmpire_Hindi_mcqs.txt"},
		{"!!!", "English", "AI_mcqs_English_mcqs.txt"},
	}
	for _, c := range cases {
		if got := DeriveName(c.topic, c.language); got != c.want {
			t.Fatalf("DeriveName(%q, %q) = %q, want %q", c.topic, c.language, got, c.want)
		}
	}
}

func TestDeriveNameCapsTopic(t *testing.T) {
	long := ""
	for i := 0; i < 80; i++ {
		long += "x"
	}
	got := DeriveName(long, "English")
	want := "AI_" + long[:50] + "_English_mcqs.txt"
	if got != want {
		t.Fatalf("long topic not capped: %q", got)
	}
}

func TestOutputName(t *testing.T) {
	cases := []struct {
		orig, ext, want string
	}{
		{"paper.pdf", ".pdf", "paper_MCQ.txt"},
		{"PAPER.PDF", ".pdf", "PAPER_MCQ.txt"},
		{"questions.txt", ".txt", "questions_MCQ.txt"},
		{"noext", ".pdf", "noext_MCQ.txt"},
		{".pdf", ".pdf", "output_MCQ.txt"},
	}
	for _, c := range cases {
		if got := OutputName(c.orig, c.ext); got != c.want {
			t.Fatalf("OutputName(%q, %q) = %q, want %q", c.orig, c.ext, got, c.want)
		}
	}
}

func TestPartName(t *testing.T) {
	if got := PartName("AI_History_Hindi_mcqs.txt", 2); got != "AI_History_Hindi_mcqs_part2.txt" {
		t.Fatalf("PartName = %q", got)
	}
	if got := PartName("noext", 2); got != "noext" {
		t.Fatalf("non-txt base modified: %q", got)
	}
}
