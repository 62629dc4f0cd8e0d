package translate

import (
	"context"
	"fmt"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"

	"github.com/iabetor/voiceover/internal/logger"
	"github.com/iabetor/voiceover/internal/narration"
)

type textTranslateClient interface {
	TextTranslateWithContext(ctx context.Context, request *tmt.TextTranslateRequest) (*tmt.TextTranslateResponse, error)
}

// Translator 腾讯云机器翻译，用于生成其他语言版本的旁白。
type Translator struct {
	client textTranslateClient
	source string
	target string
}

// Config 翻译配置。
type Config struct {
	SecretID  string
	SecretKey string
	Region    string
	Source    string // 为空时自动检测
	Target    string
}

// New 创建翻译器。
func New(cfg Config) (*Translator, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("[translate] 未指定目标语言")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("[translate] 腾讯云机器翻译需要 SecretID 和 SecretKey")
	}
	if cfg.Region == "" {
		cfg.Region = "ap-guangzhou"
	}

	credential := common.NewCredential(cfg.SecretID, cfg.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tmt.tencentcloudapi.com"

	client, err := tmt.NewClient(credential, cfg.Region, cpf)
	if err != nil {
		return nil, fmt.Errorf("[translate] 创建翻译客户端失败: %w", err)
	}

	logger.Infof("[translate] 翻译已启用: %s -> %s", sourceOrAuto(cfg.Source), cfg.Target)
	return newTranslator(client, cfg), nil
}

func newTranslator(client textTranslateClient, cfg Config) *Translator {
	return &Translator{client: client, source: sourceOrAuto(cfg.Source), target: cfg.Target}
}

func sourceOrAuto(source string) string {
	if source == "" {
		return "auto"
	}
	return source
}

// Text 翻译一段文本。
func (t *Translator) Text(ctx context.Context, text string) (string, error) {
	request := tmt.NewTextTranslateRequest()
	request.SourceText = common.StringPtr(text)
	request.Source = common.StringPtr(t.source)
	request.Target = common.StringPtr(t.target)
	request.ProjectId = common.Int64Ptr(0)

	response, err := t.client.TextTranslateWithContext(ctx, request)
	if err != nil {
		return "", fmt.Errorf("[translate] 翻译失败: %w", err)
	}
	if response == nil || response.Response == nil || response.Response.TargetText == nil {
		return "", fmt.Errorf("[translate] 未返回翻译结果")
	}
	return *response.Response.TargetText, nil
}

// Segments 逐句翻译旁白片段，保留顺序和目标时长。
func (t *Translator) Segments(ctx context.Context, segments []narration.Segment) ([]narration.Segment, error) {
	out := make([]narration.Segment, len(segments))
	for i, seg := range segments {
		text, err := t.Text(ctx, seg.Text)
		if err != nil {
			return nil, fmt.Errorf("片段 %d: %w", i, err)
		}
		out[i] = narration.Segment{Text: text, TargetSeconds: seg.TargetSeconds}
	}
	return out, nil
}
