package tts

import (
	"strings"
	"unicode"
)

// splitPunct 遇到这些字符即切分，切分字符保留在前一段末尾。
const splitPunct = "?!？！¡()[]¿…‥،;:—。，、：\n"

// SplitText 将文本切分为不超过 maxLen 个字符的片段，供有长度限制的在线接口逐段合成。
// 先按标点切分，过长的片段再按空白切分，实在无法切分时按长度硬切。
// 只含标点或空白的片段会被丢弃。
func SplitText(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = 100
	}

	var parts []string
	for _, token := range splitOnPunct(text) {
		token = strings.TrimSpace(token)
		if !hasWordRune(token) {
			continue
		}
		parts = append(parts, minimize(token, maxLen)...)
	}
	return parts
}

func splitOnPunct(text string) []string {
	runes := []rune(text)
	var tokens []string
	start := 0
	for i, r := range runes {
		cut := strings.ContainsRune(splitPunct, r)
		if r == '.' || r == ',' {
			// 只在句号、逗号后跟空白或结尾时切分，避免切开 "thejord.it" 和 "1,000"
			cut = i == len(runes)-1 || unicode.IsSpace(runes[i+1])
		}
		if cut {
			tokens = append(tokens, string(runes[start:i+1]))
			start = i + 1
		}
	}
	if start < len(runes) {
		tokens = append(tokens, string(runes[start:]))
	}
	return tokens
}

// minimize 在 maxLen 之内的最后一个空白处切分过长片段。
func minimize(token string, maxLen int) []string {
	var out []string
	runes := []rune(token)
	for len(runes) > maxLen {
		cut := -1
		for i := maxLen; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		if cut <= 0 {
			cut = maxLen
		}
		if head := strings.TrimSpace(string(runes[:cut])); head != "" {
			out = append(out, head)
		}
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
