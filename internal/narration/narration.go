package narration

import "strings"

// PauseSeparator 合成整段音频时插入在片段之间的停顿标记。
const PauseSeparator = " ... "

// Segment 一句旁白。TargetSeconds 是视频中为该句预留的时长，0 表示不限。
type Segment struct {
	Text          string  `yaml:"text"`
	TargetSeconds float64 `yaml:"duration"`
}

// DefaultScript 云端 TTS 使用的完整旁白。
const DefaultScript = `
Meet THE JORD. 14 free developer tools that respect your privacy.

Unlike other tools, your data never leaves your browser.

Watch. I'll format this JSON. Instantly. No upload required.

Need to merge PDFs? Drag, drop, done. All processed locally.

Base64 encoding? One click. Fast and private.

No sign up. No tracking. Just tools that work.

Try it free at thejord.it
`

// DefaultSegments 返回逐句合成使用的旁白片段（每次返回新切片）。
func DefaultSegments() []Segment {
	return []Segment{
		{Text: "Meet THE JORD. 14 free developer tools that respect your privacy.", TargetSeconds: 5},
		{Text: "Unlike other tools, your data never leaves your browser.", TargetSeconds: 4},
		{Text: "Watch. I'll format this JSON. Instantly. No upload required.", TargetSeconds: 5},
		{Text: "Need to merge PDFs? Drag, drop, done. All processed locally.", TargetSeconds: 5},
		{Text: "Base64 encoding? One click. Fast and private.", TargetSeconds: 4},
		{Text: "No sign up. No tracking. Just tools that work.", TargetSeconds: 4},
		{Text: "Try it free at the jord dot i t", TargetSeconds: 3},
	}
}

// Texts 按原顺序取出片段文本。
func Texts(segments []Segment) []string {
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}
	return texts
}

// Combine 用 sep 按原顺序拼接片段文本，sep 为空时使用 PauseSeparator。
func Combine(segments []Segment, sep string) string {
	if sep == "" {
		sep = PauseSeparator
	}
	return strings.Join(Texts(segments), sep)
}
