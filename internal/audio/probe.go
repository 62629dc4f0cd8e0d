package audio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 始终输出 16-bit 立体声 PCM，每帧 4 字节。
const bytesPerFrame = 4

// Info 是 MP3 解码后的基本信息。
type Info struct {
	SampleRate int
	Duration   time.Duration
}

// Probe 解码 MP3 头部信息，计算音频时长。
func Probe(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("[audio] 音频数据为空")
	}

	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("[audio] MP3 解码失败: %w", err)
	}

	sampleRate := decoder.SampleRate()
	length := decoder.Length()
	if length < 0 {
		return Info{SampleRate: sampleRate}, fmt.Errorf("[audio] 无法获取 MP3 长度")
	}

	return Info{
		SampleRate: sampleRate,
		Duration:   pcmDuration(length, sampleRate),
	}, nil
}

// pcmDuration 根据解码后的 PCM 字节数计算时长。
func pcmDuration(pcmBytes int64, sampleRate int) time.Duration {
	if sampleRate <= 0 || pcmBytes <= 0 {
		return 0
	}
	frames := pcmBytes / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
