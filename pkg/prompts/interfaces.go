package prompts

import "github.com/shouni/go-carousel-kit/pkg/domain"

// TextPrompt は、テキスト生成用の AI プロンプトを構築する契約です。
type TextPrompt interface {
	// Build は、指定されたモード（例: "ideas", "slides"）とデータに基づいてプロンプト文字列を生成します。
	Build(mode string, data TemplateData) (string, error)
}

// ImagePrompt は、スライド1枚分の画像生成リクエストを解決する契約です。
type ImagePrompt interface {
	// Resolve は (スライド, 位置, 設定) から画像生成リクエストを組み立てます。I/O は行いません。
	Resolve(slide domain.Slide, position int, cfg domain.GenerationConfig) domain.GenerationRequest
}
