package bilingual

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name, block string
		want        Mode
	}{
		{"english grammar", "1. Choose the correct Active Voice form of the sentence.", ModeEnglishGrammar},
		{"english grammar wins over script", "1. નીચેનામાંથી Passive Voice પસંદ કરો", ModeEnglishGrammar},
		{"gujarati grammar", "1. નીચેનામાંથી સમાસ ઓળખો", ModeGujaratiGrammar},
		{"plain gujarati history", "1. ગુજરાતનું પાટનગર કયું છે?", ModeBilingual},
		{"plain english", "1. Which year did India gain independence?", ModeBilingual},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.block); got != c.want {
				t.Fatalf("Classify(%q) = %s, want %s", c.block, got, c.want)
			}
		})
	}
}

func TestHasGujarati(t *testing.T) {
	if HasGujarati("plain english") {
		t.Fatal("false positive")
	}
	if !HasGujarati("mixed ગુજરાત text") {
		t.Fatal("false negative")
	}
}

func TestMostlyEnglish(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Which year did India gain independence?", true},
		{"ગુજરાતનું પાટનગર કયું છે?", false},
		{"1947 (ઈ.સ.)", false},
		{"hello ગુજરાત", true}, // 5 of 11 non-space runes are Latin
		{"", false},
		{"12345", false},
	}
	for _, c := range cases {
		if got := MostlyEnglish(c.in); got != c.want {
			t.Fatalf("MostlyEnglish(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
