package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	tts "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tts/v20190823"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"

	"github.com/iabetor/voiceover/internal/logger"
)

// tencentMaxChars 基础语音合成单次请求上限（英文按字母计）。
const tencentMaxChars = 500

// textToVoiceClient 是 tts.Client 中用到的方法，便于测试替换。
type textToVoiceClient interface {
	TextToVoiceWithContext(ctx context.Context, request *tts.TextToVoiceRequest) (*tts.TextToVoiceResponse, error)
}

// TencentEngine 使用腾讯云 TTS 实现语音合成。
type TencentEngine struct {
	client    textToVoiceClient
	voiceType int64
	lang      string
	slow      bool
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID  string
	SecretKey string
	VoiceType int64
	Region    string
	Lang      string
	Slow      bool
}

// NewTencentEngine 创建腾讯云 TTS 引擎。
func NewTencentEngine(cfg TencentConfig) (*TencentEngine, error) {
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("[tts] 腾讯云 TTS 需要 SecretID 和 SecretKey")
	}

	if cfg.VoiceType == 0 {
		cfg.VoiceType = 101050 // 默认英文男声 WeJack
	}
	if cfg.Region == "" {
		cfg.Region = "ap-guangzhou"
	}

	credential := common.NewCredential(cfg.SecretID, cfg.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tts.tencentcloudapi.com"

	client, err := tts.NewClient(credential, cfg.Region, cpf)
	if err != nil {
		return nil, fmt.Errorf("[tts] 创建腾讯云 TTS 客户端失败: %w", err)
	}

	logger.Debugf("[tts] 腾讯云 TTS 引擎已初始化 (voice=%d, region=%s)", cfg.VoiceType, cfg.Region)

	return newTencentEngine(client, cfg), nil
}

func newTencentEngine(client textToVoiceClient, cfg TencentConfig) *TencentEngine {
	return &TencentEngine{
		client:    client,
		voiceType: cfg.VoiceType,
		lang:      cfg.Lang,
		slow:      cfg.Slow,
	}
}

// Name 实现 Named 接口。
func (e *TencentEngine) Name() string { return "tencent" }

// Synthesize 将文本合成为 MP3，超长文本分段请求后按顺序拼接。
func (e *TencentEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	parts := SplitText(text, tencentMaxChars)
	if len(parts) == 0 {
		return nil, fmt.Errorf("[tts] 腾讯云 TTS: 文本为空")
	}

	logger.Debugf("[tts] 腾讯云 TTS: 正在合成 %d 个字符，共 %d 段，音色=%d", len([]rune(text)), len(parts), e.voiceType)

	var out bytes.Buffer
	for i, part := range parts {
		data, err := e.synthesizePart(ctx, part)
		if err != nil {
			return nil, fmt.Errorf("[tts] 腾讯云 TTS 第 %d/%d 段合成失败: %w", i+1, len(parts), err)
		}
		out.Write(data)
	}

	logger.Debugf("[tts] 腾讯云 TTS: 收到 %d 字节 MP3 数据", out.Len())
	return out.Bytes(), nil
}

func (e *TencentEngine) synthesizePart(ctx context.Context, text string) ([]byte, error) {
	request := tts.NewTextToVoiceRequest()
	request.Text = common.StringPtr(text)
	request.SessionId = common.StringPtr(uuid.New().String())
	request.VoiceType = common.Int64Ptr(e.voiceType)
	request.PrimaryLanguage = common.Int64Ptr(primaryLanguage(e.lang))
	request.Codec = common.StringPtr("mp3")
	request.Volume = common.Float64Ptr(5.0)
	if e.slow {
		request.Speed = common.Float64Ptr(-1.0)
	} else {
		request.Speed = common.Float64Ptr(0)
	}

	response, err := e.client.TextToVoiceWithContext(ctx, request)
	if err != nil {
		return nil, err
	}
	if response == nil || response.Response == nil || response.Response.Audio == nil {
		return nil, fmt.Errorf("未返回音频数据")
	}

	data, err := base64.StdEncoding.DecodeString(*response.Response.Audio)
	if err != nil {
		return nil, fmt.Errorf("Base64 解码失败: %w", err)
	}
	return data, nil
}

// primaryLanguage 将语言代码映射为腾讯云的主语言类型：1 中文，2 英文。
func primaryLanguage(lang string) int64 {
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		return 2
	}
	return 1
}
