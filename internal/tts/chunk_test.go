package tts

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitText_Punctuation(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Hello. World", []string{"Hello.", "World"}},
		{"Drag, drop, done.", []string{"Drag,", "drop,", "done."}},
		{"Need to merge PDFs? Yes!", []string{"Need to merge PDFs?", "Yes!"}},
		{"line1\nline2", []string{"line1", "line2"}},
		{"Try it free at thejord.it", []string{"Try it free at thejord.it"}},
		{"Costs 1,000 credits.", []string{"Costs 1,000 credits."}},
	}

	for _, tt := range tests {
		got := SplitText(tt.input, 100)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("SplitText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplitText_DropsPunctuationOnly(t *testing.T) {
	got := SplitText("\n\n ... ! ?\n", 100)
	if len(got) != 0 {
		t.Fatalf("expected no parts, got %q", got)
	}
}

func TestSplitText_LongTokenSplitsOnSpace(t *testing.T) {
	words := strings.Repeat("word ", 60) // 300 字符，无标点
	got := SplitText(words, 100)
	if len(got) < 3 {
		t.Fatalf("expected at least 3 parts, got %d", len(got))
	}
	for i, p := range got {
		if utf8.RuneCountInString(p) > 100 {
			t.Errorf("part %d has %d runes", i, utf8.RuneCountInString(p))
		}
		if strings.HasPrefix(p, "ord") {
			t.Errorf("part %d split inside a word: %q", i, p)
		}
	}
	if strings.Join(got, " ") != strings.TrimSpace(words) {
		t.Error("rejoined parts differ from input")
	}
}

func TestSplitText_HardCutWithoutSpaces(t *testing.T) {
	got := SplitText(strings.Repeat("a", 250), 100)
	if len(got) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(got))
	}
	if len(got[0]) != 100 || len(got[1]) != 100 || len(got[2]) != 50 {
		t.Errorf("unexpected part lengths: %d %d %d", len(got[0]), len(got[1]), len(got[2]))
	}
}

func TestSplitText_DefaultScriptFitsLimit(t *testing.T) {
	script := "Meet THE JORD. 14 free developer tools that respect your privacy.\n\nTry it free at thejord.it\n"
	got := SplitText(script, 100)
	want := []string{"Meet THE JORD.", "14 free developer tools that respect your privacy.", "Try it free at thejord.it"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("SplitText() = %q, want %q", got, want)
	}
}
