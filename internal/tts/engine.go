package tts

import "context"

// Synthesizer 定义语音合成后端接口。
type Synthesizer interface {
	// Synthesize 将文本转换为编码后的 MP3 音频。
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Named 可选接口，返回后端名称用于日志和生成记录。
type Named interface {
	Name() string
}

// NameOf 返回后端名称，未实现 Named 时返回 "unknown"。
func NameOf(s Synthesizer) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return "unknown"
}
