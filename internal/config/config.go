package config

import (
	"time"

	pkgconfig "github.com/shouni/go-carousel-kit/pkg/config"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義です。
const (
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultOutputDir     = "output/carousel"
	DefaultLanguage      = "EN"
	DefaultAspectRatio   = "1:1"
	DefaultStyle         = "ORIGINAL"
	DefaultPublishWorker = 4
)

// Config はアプリケーション全体の環境設定（APIキーや保存先）を保持する構造体です。
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	ImageModel   string
	OutputDir    string
	ReferenceDir string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返します。
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:  envutil.GetEnv("GEMINI_MODEL", pkgconfig.DefaultGeminiModel),
		ImageModel:   envutil.GetEnv("IMAGE_GEMINI_MODEL", pkgconfig.DefaultImageModel),
		OutputDir:    envutil.GetEnv("CAROUSEL_OUTPUT_DIR", DefaultOutputDir),
		ReferenceDir: envutil.GetEnv("CAROUSEL_REFERENCE_DIR", pkgconfig.DefaultReferenceDir),
	}
}

// Apply は CLI フラグで明示された値で環境設定を上書きします。
func (c *Config) Apply(opts GenerateOptions) {
	c.Options = opts
	if opts.AIModel != "" {
		c.GeminiModel = opts.AIModel
	}
	if opts.ImageModel != "" {
		c.ImageModel = opts.ImageModel
	}
	if opts.OutputDir != "" {
		c.OutputDir = opts.OutputDir
	}
}

// Core はライブラリ層の設定に変換します。待機間隔や再試行回数はライブラリの既定値を使用します。
func (c *Config) Core() pkgconfig.Config {
	core := pkgconfig.DefaultConfig()
	core.GeminiAPIKey = c.GeminiAPIKey
	core.GeminiModel = c.GeminiModel
	core.ImageModel = c.ImageModel
	if c.ReferenceDir != "" {
		core.ReferenceDir = c.ReferenceDir
	}
	// --http-timeout は HTTP クライアント用です。生成 API 呼び出しの上限は --request-timeout だけで指定します。
	if c.Options.RequestTimeout > 0 {
		core.RequestTimeout = c.Options.RequestTimeout
	}
	return core
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータです。
type GenerateOptions struct {
	// ソース入力関連
	Topic     string // --topic
	IdeaIndex int    // --idea: 1 から始まるアイデアの番号
	InputFile string // --input-file: 自由入力テキストのパス（'-' で標準入力）

	// 生成設定
	Language       string // --lang
	AspectRatio    string // --aspect-ratio
	Style          string // --style
	CustomPrompt   string // --custom-prompt
	ReferenceImage string // --reference-image: Custom スタイルの参照画像のパス
	Handle         string // --handle: 全プラットフォーム共通のハンドル名

	// 出力
	OutputDir string // --output-dir
	DryRun    bool   // --dry-run: 画像を生成せずスライド分解の結果だけを表示します

	// AI挙動設定
	AIModel    string // --model
	ImageModel string // --image-model

	// 実行制御
	HTTPTimeout    time.Duration // --http-timeout
	RequestTimeout time.Duration // --request-timeout: 0 は上限なし
	Verbose        bool          // --verbose
}
