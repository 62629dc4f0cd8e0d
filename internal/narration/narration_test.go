package narration

import "testing"

func TestDefaultSegments(t *testing.T) {
	segs := DefaultSegments()
	if len(segs) != 7 {
		t.Fatalf("expected 7 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if s.Text == "" {
			t.Errorf("segment %d is empty", i)
		}
	}

	// 每次返回独立的切片
	segs[0].Text = "changed"
	if DefaultSegments()[0].Text == "changed" {
		t.Error("DefaultSegments should not share its backing array")
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		segs []Segment
		sep  string
		want string
	}{
		{"empty", nil, "", ""},
		{"single", []Segment{{Text: "One."}}, "", "One."},
		{"default separator", []Segment{{Text: "One."}, {Text: "Two?"}, {Text: "Three"}}, "", "One. ... Two? ... Three"},
		{"custom separator", []Segment{{Text: "a"}, {Text: "b"}}, " | ", "a | b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Combine(tt.segs, tt.sep); got != tt.want {
				t.Errorf("Combine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCombine_DefaultSegments(t *testing.T) {
	want := "Meet THE JORD. 14 free developer tools that respect your privacy." +
		" ... Unlike other tools, your data never leaves your browser." +
		" ... Watch. I'll format this JSON. Instantly. No upload required." +
		" ... Need to merge PDFs? Drag, drop, done. All processed locally." +
		" ... Base64 encoding? One click. Fast and private." +
		" ... No sign up. No tracking. Just tools that work." +
		" ... Try it free at the jord dot i t"
	if got := Combine(DefaultSegments(), PauseSeparator); got != want {
		t.Errorf("Combine() = %q\nwant %q", got, want)
	}
}
