package tts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iabetor/voiceover/internal/logger"
)

const (
	// gttsMaxChars 是 Google Translate TTS 单次请求的字符上限。
	gttsMaxChars = 100
	gttsRPCID    = "jQ1olc"
	gttsUA       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var gttsAudioRe = regexp.MustCompile(`jQ1olc","\[\\"(.*?)\\"]`)

// GTTSConfig Google Translate TTS 配置。
type GTTSConfig struct {
	Lang              string
	Slow              bool
	TLD               string        // 如 "com"、"it"
	RequestsPerMinute int           // 限速，避免被 Google 封禁
	Timeout           time.Duration // 单次请求超时
	Endpoint          string        // 为空时根据 TLD 生成，测试中指向 httptest
	HTTPClient        *http.Client
}

// GTTSEngine 使用 Google Translate 的免费 TTS 接口合成语音，无需 API Key。
// 长文本按 100 字符切分后逐段请求，返回的 MP3 片段按顺序拼接。
type GTTSEngine struct {
	lang     string
	slow     bool
	endpoint string
	timeout  time.Duration
	client   *http.Client
	limiter  *rate.Limiter
}

// NewGTTSEngine 创建 Google Translate TTS 引擎。
func NewGTTSEngine(cfg GTTSConfig) *GTTSEngine {
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.TLD == "" {
		cfg.TLD = "com"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://translate.google.%s/_/TranslateWebserverUi/data/batchexecute", cfg.TLD)
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	logger.Debugf("[tts] gtts 引擎已初始化 (lang=%s, slow=%v, endpoint=%s)", cfg.Lang, cfg.Slow, cfg.Endpoint)

	return &GTTSEngine{
		lang:     cfg.Lang,
		slow:     cfg.Slow,
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		client:   cfg.HTTPClient,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}
}

// Name 实现 Named 接口。
func (e *GTTSEngine) Name() string { return "gtts" }

// Synthesize 将文本合成为 MP3。
func (e *GTTSEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	parts := SplitText(text, gttsMaxChars)
	if len(parts) == 0 {
		return nil, fmt.Errorf("[tts] gtts: 文本为空")
	}

	logger.Debugf("[tts] gtts: 正在合成 %d 个字符，共 %d 段，语言=%s", len([]rune(text)), len(parts), e.lang)

	var out bytes.Buffer
	for i, part := range parts {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("[tts] gtts: 等待限速失败: %w", err)
		}
		data, err := e.synthesizePart(ctx, part)
		if err != nil {
			return nil, fmt.Errorf("[tts] gtts: 第 %d/%d 段合成失败: %w", i+1, len(parts), err)
		}
		out.Write(data)
	}

	logger.Debugf("[tts] gtts: 收到 %d 字节 MP3 数据", out.Len())
	return out.Bytes(), nil
}

func (e *GTTSEngine) synthesizePart(ctx context.Context, text string) ([]byte, error) {
	body, err := packageRPC(text, e.lang, e.slow)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("Referer", "http://translate.google.com/")
	req.Header.Set("User-Agent", gttsUA)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return extractAudio(resp.Body)
}

// packageRPC 构造 batchexecute 表单体。
// 参数格式为 [text, lang, speed, "null"]，speed 慢速为 true，正常为 null。
func packageRPC(text, lang string, slow bool) (string, error) {
	var speed interface{}
	if slow {
		speed = true
	}
	param, err := json.Marshal([]interface{}{text, lang, speed, "null"})
	if err != nil {
		return "", fmt.Errorf("编码请求参数失败: %w", err)
	}
	rpc, err := json.Marshal([][][]interface{}{{{gttsRPCID, string(param), nil, "generic"}}})
	if err != nil {
		return "", fmt.Errorf("编码 RPC 失败: %w", err)
	}
	return "f.req=" + url.QueryEscape(string(rpc)) + "&", nil
}

// extractAudio 从 batchexecute 响应中提取 base64 音频，多行结果按顺序拼接。
func extractAudio(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	// 音频行可能很长
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var out bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, gttsRPCID) {
			continue
		}
		m := gttsAudioRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		encoded := strings.ReplaceAll(m[1], `\u003d`, "=")
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("Base64 解码失败: %w", err)
		}
		out.Write(data)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("响应中没有音频数据")
	}
	return out.Bytes(), nil
}
