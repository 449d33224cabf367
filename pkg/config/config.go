package config

import (
	"time"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// デフォルト値の定義
const (
	DefaultGeminiModel    = "gemini-3-pro-preview"
	DefaultImageModel     = "gemini-2.5-flash-image"
	DefaultRateInterval   = 2 * time.Second
	DefaultImagePacing    = 3 * time.Second
	DefaultTextPacing     = 1 * time.Second
	DefaultBackoffBase    = 2 * time.Second
	DefaultMaxAttempts    = 5
	DefaultRequestTimeout = time.Duration(0) // 0 は上限なし。試行回数の上限だけで打ち切ります
	DefaultReferenceDir   = "output/references"
	DefaultHandle         = "crt.trader"
)

// Config は Go Carousel Kit の各コンポーネントを動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string // テキスト（アイデア・スライド・ビジュアル指示）生成用
	ImageModel  string // 画像生成用

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Generation Settings ---
	RateInterval time.Duration // リモート呼び出し全体に適用するレート制限の間隔
	ImagePacing  time.Duration // 画像生成成功後、次のスライドに進むまでの待機時間
	TextPacing   time.Duration // 自由入力テキストのビジュアル指示生成の呼び出し間隔

	// --- Retries ---
	BackoffBase time.Duration
	MaxAttempts int

	// --- Timeout ---
	// RequestTimeout は1回の API 呼び出しの上限です。0 以下の場合は設定しません。
	RequestTimeout time.Duration

	// ReferenceDir は Custom スタイルの参照画像を一時配置する場所です（ローカル or gs://...）。
	ReferenceDir string
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:    DefaultGeminiModel,
		ImageModel:     DefaultImageModel,
		RateInterval:   DefaultRateInterval,
		ImagePacing:    DefaultImagePacing,
		TextPacing:     DefaultTextPacing,
		BackoffBase:    DefaultBackoffBase,
		MaxAttempts:    DefaultMaxAttempts,
		RequestTimeout: DefaultRequestTimeout,
		ReferenceDir:   DefaultReferenceDir,
	}
}

// DefaultSocialConfig はフッターの初期設定を返します。
// TikTok / YouTube / Instagram が選択済みで、Facebook と X は未選択です。
func DefaultSocialConfig() domain.SocialConfig {
	return domain.SocialConfig{
		UseSameHandle: true,
		MasterHandle:  DefaultHandle,
		Platforms: []domain.SocialPlatform{
			{ID: "tiktok", Name: "TikTok", IconName: "Tiktok Logo", Selected: true, Handle: DefaultHandle},
			{ID: "youtube", Name: "YouTube", IconName: "YouTube Logo", Selected: true, Handle: DefaultHandle},
			{ID: "instagram", Name: "Instagram", IconName: "Instagram Logo", Selected: true, Handle: DefaultHandle + ".official"},
			{ID: "facebook", Name: "Facebook", IconName: "Facebook Logo", Selected: false, Handle: DefaultHandle},
			{ID: "x", Name: "X", IconName: "X Logo", Selected: false, Handle: DefaultHandle},
		},
	}
}

// DefaultGenerationConfig は CLI などで使う既定の実行設定を返します。
func DefaultGenerationConfig() domain.GenerationConfig {
	return domain.GenerationConfig{
		Language:    domain.LanguageEN,
		AspectRatio: domain.AspectRatioSquare,
		Style:       domain.StyleOriginal,
		Social:      DefaultSocialConfig(),
		ImageModel:  DefaultImageModel,
	}
}
