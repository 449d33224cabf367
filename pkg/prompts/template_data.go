package prompts

import (
	_ "embed"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

const (
	ModeIdeas        = "ideas"
	ModeSlides       = "slides"
	ModeVisualPrompt = "visual_prompt"
)

// 生成するアイデアとスライドの件数の既定値です。
const (
	DefaultIdeaCount = 4
	DefaultMinSlides = 4
	DefaultMaxSlides = 7
)

// TemplateData はテキスト生成プロンプトのテンプレートに渡すデータ構造です。
type TemplateData struct {
	Topic               string
	Title               string
	Summary             string
	Body                string
	LanguageInstruction string
	IdeaCount           int
	MinSlides           int
	MaxSlides           int
}

var (
	//go:embed ideas.md
	IdeasPrompt string
	//go:embed slides.md
	SlidesPrompt string
	//go:embed visual_prompt.md
	VisualPromptPrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップです。
var allTemplates = map[string]string{
	ModeIdeas:        IdeasPrompt,
	ModeSlides:       SlidesPrompt,
	ModeVisualPrompt: VisualPromptPrompt,
}

// LanguageInstruction は言語ごとの出力指示を返します。
func LanguageInstruction(lang domain.Language) string {
	if lang == domain.LanguageTH {
		return "(in Thai)"
	}
	return "(in English)"
}
