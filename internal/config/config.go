package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iabetor/voiceover/internal/narration"
)

// Config 是 voiceover 的顶层配置结构。
// 所有字段都有默认值，不提供配置文件时与内置旁白完全一致。
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Cloud     CloudConfig     `yaml:"cloud"`
	Edge      EdgeConfig      `yaml:"edge"`
	Translate TranslateConfig `yaml:"translate"`
	History   HistoryConfig   `yaml:"history"`
	Log       LogConfig       `yaml:"log"`
}

// OutputConfig 输出目录配置。
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// SkipExisting 为 true 时保留已存在的音频文件，不再重新合成。
	SkipExisting bool `yaml:"skip_existing"`
}

// CloudConfig 云端 TTS（整段旁白）配置。
type CloudConfig struct {
	Engine   string        `yaml:"engine"` // gtts 或 tencent
	Lang     string        `yaml:"lang"`
	Slow     bool          `yaml:"slow"`
	Script   string        `yaml:"script"`
	FileName string        `yaml:"file_name"`
	GTTS     GTTSConfig    `yaml:"gtts"`
	Tencent  TencentConfig `yaml:"tencent"`
}

// GTTSConfig Google Translate TTS 配置。
type GTTSConfig struct {
	TLD               string `yaml:"tld"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	TimeoutSec        int    `yaml:"timeout_sec"`
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID  string `yaml:"secret_id"`
	SecretKey string `yaml:"secret_key"`
	VoiceType int64  `yaml:"voice_type"`
	Region    string `yaml:"region"`
}

// EdgeConfig Edge TTS（逐句旁白）配置。
type EdgeConfig struct {
	Voice        string              `yaml:"voice"`
	Segments     []narration.Segment `yaml:"segments"`
	Separator    string              `yaml:"separator"`
	CombinedFile string              `yaml:"combined_file"`
}

// TranslateConfig 合成前的机器翻译配置，Target 为空表示不翻译。
// 密钥未填写时沿用 cloud.tencent 的密钥。
type TranslateConfig struct {
	Target    string `yaml:"target"`
	Source    string `yaml:"source"`
	Region    string `yaml:"region"`
	SecretID  string `yaml:"secret_id"`
	SecretKey string `yaml:"secret_key"`
}

// HistoryConfig 生成记录配置。
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default 返回零配置运行时使用的配置。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load 读取 YAML 配置文件并返回 Config。
// path 为空时直接返回默认配置。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	// 展开环境变量，如 ${VOICEOVER_TENCENT_SECRET_KEY}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查无法通过默认值修复的配置错误。
func (c *Config) Validate() error {
	switch c.Cloud.Engine {
	case "gtts", "tencent":
	default:
		return fmt.Errorf("不支持的云端 TTS 引擎: %s", c.Cloud.Engine)
	}
	if strings.TrimSpace(c.Cloud.Script) == "" {
		return fmt.Errorf("cloud.script 不能为空")
	}
	if c.Cloud.Engine == "tencent" && !hasLangPrefix(c.Cloud.Lang, "zh", "en") {
		return fmt.Errorf("腾讯云 TTS 只支持中文和英文，cloud.lang=%s", c.Cloud.Lang)
	}
	if c.Edge.Voice == "" {
		return fmt.Errorf("翻译目标 %s 没有默认的 Edge 语音，请设置 edge.voice", c.Translate.Target)
	}
	if target := c.Translate.Target; target != "" {
		if !hasLangPrefix(c.Cloud.Lang, baseLang(target)) {
			return fmt.Errorf("cloud.lang=%s 与翻译目标 %s 不一致", c.Cloud.Lang, target)
		}
		if !hasLangPrefix(c.Edge.Voice, baseLang(target)) {
			return fmt.Errorf("edge.voice=%s 与翻译目标 %s 不一致", c.Edge.Voice, target)
		}
	}
	for i, seg := range c.Edge.Segments {
		if strings.TrimSpace(seg.Text) == "" {
			return fmt.Errorf("edge.segments[%d] 文本为空", i)
		}
		if seg.TargetSeconds < 0 {
			return fmt.Errorf("edge.segments[%d] 时长不能为负数", i)
		}
	}
	return nil
}

// edgeVoices 各语言默认使用的 Edge 神经网络语音。
var edgeVoices = map[string]string{
	"en": "en-US-ChristopherNeural",
	"it": "it-IT-DiegoNeural",
	"zh": "zh-CN-YunxiNeural",
	"fr": "fr-FR-HenriNeural",
	"de": "de-DE-ConradNeural",
	"es": "es-ES-AlvaroNeural",
	"pt": "pt-BR-AntonioNeural",
	"ja": "ja-JP-KeitaNeural",
	"ko": "ko-KR-InJoonNeural",
}

// defaultEdgeVoice 返回翻译目标对应的默认语音，target 为空时为英文语音。
// 没有对应语音时返回空字符串，由 Validate 报错。
func defaultEdgeVoice(target string) string {
	if target == "" {
		return edgeVoices["en"]
	}
	return edgeVoices[baseLang(target)]
}

// baseLang 取语言代码的主语言部分，如 zh-TW -> zh。
func baseLang(lang string) string {
	lang = strings.ToLower(lang)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		return lang[:i]
	}
	return lang
}

// hasLangPrefix 判断语言代码或语音名称的主语言是否在 langs 中。
func hasLangPrefix(s string, langs ...string) bool {
	base := baseLang(s)
	for _, l := range langs {
		if base == l {
			return true
		}
	}
	return false
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	cfg.Translate.Target = strings.TrimSpace(cfg.Translate.Target)

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "demo-output"
	}
	cfg.Output.Dir = expandHome(cfg.Output.Dir)

	if cfg.Cloud.Engine == "" {
		cfg.Cloud.Engine = "gtts"
	}
	cfg.Cloud.Engine = strings.ToLower(cfg.Cloud.Engine)
	// 未指定语言时跟随翻译目标
	if cfg.Cloud.Lang == "" {
		cfg.Cloud.Lang = cfg.Translate.Target
	}
	if cfg.Cloud.Lang == "" {
		cfg.Cloud.Lang = "en"
	}
	if cfg.Cloud.Script == "" {
		cfg.Cloud.Script = narration.DefaultScript
	}
	if cfg.Cloud.FileName == "" {
		cfg.Cloud.FileName = "voice_gtts.mp3"
	}
	if cfg.Cloud.GTTS.TLD == "" {
		cfg.Cloud.GTTS.TLD = "com"
	}
	if cfg.Cloud.GTTS.RequestsPerMinute == 0 {
		cfg.Cloud.GTTS.RequestsPerMinute = 50
	}
	if cfg.Cloud.GTTS.TimeoutSec == 0 {
		cfg.Cloud.GTTS.TimeoutSec = 30
	}
	if cfg.Cloud.Tencent.Region == "" {
		cfg.Cloud.Tencent.Region = "ap-guangzhou"
	}

	if cfg.Edge.Voice == "" {
		cfg.Edge.Voice = defaultEdgeVoice(cfg.Translate.Target)
	}
	if len(cfg.Edge.Segments) == 0 {
		cfg.Edge.Segments = narration.DefaultSegments()
	}
	if cfg.Edge.Separator == "" {
		cfg.Edge.Separator = narration.PauseSeparator
	}
	if cfg.Edge.CombinedFile == "" {
		cfg.Edge.CombinedFile = "voice_combined.mp3"
	}

	if cfg.Translate.Source == "" {
		cfg.Translate.Source = "auto"
	}
	if cfg.Translate.Region == "" {
		cfg.Translate.Region = cfg.Cloud.Tencent.Region
	}
	if cfg.Translate.SecretID == "" {
		cfg.Translate.SecretID = cfg.Cloud.Tencent.SecretID
	}
	if cfg.Translate.SecretKey == "" {
		cfg.Translate.SecretKey = cfg.Cloud.Tencent.SecretKey
	}

	if cfg.History.DBPath == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.History.DBPath = filepath.Join(home, ".voiceover", "history.db")
		} else {
			cfg.History.DBPath = "./.voiceover/history.db"
		}
	}
	cfg.History.DBPath = expandHome(cfg.History.DBPath)

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// 去除密钥两端可能的空白（环境变量展开后常见）
	cfg.Cloud.Tencent.SecretID = strings.TrimSpace(cfg.Cloud.Tencent.SecretID)
	cfg.Cloud.Tencent.SecretKey = strings.TrimSpace(cfg.Cloud.Tencent.SecretKey)
	cfg.Translate.SecretID = strings.TrimSpace(cfg.Translate.SecretID)
	cfg.Translate.SecretKey = strings.TrimSpace(cfg.Translate.SecretKey)
}

// expandHome 将 ~/ 开头的路径替换为用户主目录，Go 不会自动展开 ~。
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}
