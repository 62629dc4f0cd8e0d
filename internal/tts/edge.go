package tts

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"

	"github.com/iabetor/voiceover/internal/logger"
)

// EdgeEngine 使用微软 Edge TTS 神经网络语音合成，
// 通过 edge-tts-go 的流式接口收集 MP3 音频块。
type EdgeEngine struct {
	voice string
}

// NewEdgeEngine 创建指定语音的 Edge TTS 引擎。
func NewEdgeEngine(voice string) *EdgeEngine {
	return &EdgeEngine{voice: voice}
}

// Name 实现 Named 接口。
func (e *EdgeEngine) Name() string { return "edge" }

// Voice 返回当前语音名称。
func (e *EdgeEngine) Voice() string { return e.voice }

// Synthesize 将文本合成为 MP3。
func (e *EdgeEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("[tts] edge-tts: 文本为空")
	}

	logger.Debugf("[tts] edge-tts: 正在合成 %d 个字符，语音=%s", len([]rune(text)), e.voice)

	comm, err := edge.NewCommunicate(text, edge.WithVoice(e.voice))
	if err != nil {
		return nil, fmt.Errorf("[tts] edge-tts 创建实例失败: %w", err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return nil, fmt.Errorf("[tts] edge-tts 开始流式合成失败: %w", err)
	}

	data, err := collectAudio(ctx, ch)
	if err != nil {
		return nil, err
	}

	logger.Debugf("[tts] edge-tts: 收到 %d 字节 MP3 数据", len(data))
	return data, nil
}

// collectAudio 从 Stream() 的消息中收集 type=="audio" 的数据块。
// ctx 取消后立即返回，剩余消息在后台读完，避免阻塞 edge-tts-go 的发送方。
func collectAudio(ctx context.Context, ch <-chan map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	for {
		if err := ctx.Err(); err != nil {
			go drain(ch)
			return nil, err
		}
		select {
		case <-ctx.Done():
			go drain(ch)
			return nil, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				if buf.Len() == 0 {
					return nil, fmt.Errorf("[tts] edge-tts: 未收到音频数据")
				}
				return buf.Bytes(), nil
			}
			if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
				if data, ok := msg["data"].([]byte); ok {
					buf.Write(data)
				}
			}
		}
	}
}

func drain(ch <-chan map[string]interface{}) {
	for range ch {
	}
}
