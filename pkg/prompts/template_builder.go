package prompts

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrMissingField はモードに必要な入力が空のまま Build が呼ばれたことを表します。
var ErrMissingField = errors.New("プロンプトに必要な項目が空です")

// TextPromptBuilder はアイデア・スライド・ビジュアル指示の3種類のテキストプロンプトを構築します。
type TextPromptBuilder struct {
	templates map[string]*template.Template
}

// NewTextPromptBuilder は埋め込みテンプレートを解析して TextPromptBuilder を初期化します。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	parsed := make(map[string]*template.Template, len(allTemplates))
	for mode, content := range allTemplates {
		if strings.TrimSpace(content) == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", mode)
		}

		tmpl, err := template.New(mode).Option("missingkey=error").Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", mode, err)
		}
		parsed[mode] = tmpl
	}

	return &TextPromptBuilder{templates: parsed}, nil
}

// Build はモードのテンプレートを実行します。
// 枚数や言語指示が未設定の場合は既定値で補い、モードに必要な項目が空の場合は ErrMissingField を返します。
func (b *TextPromptBuilder) Build(mode string, data TemplateData) (string, error) {
	tmpl, ok := b.templates[mode]
	if !ok {
		return "", fmt.Errorf("不明なモードです: '%s'", mode)
	}

	data = data.withDefaults()
	if err := data.validate(mode); err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}

	return strings.TrimSpace(sb.String()), nil
}

func (d TemplateData) withDefaults() TemplateData {
	d.Topic = strings.TrimSpace(d.Topic)
	d.Title = strings.TrimSpace(d.Title)
	d.Body = strings.TrimSpace(d.Body)
	if d.IdeaCount <= 0 {
		d.IdeaCount = DefaultIdeaCount
	}
	if d.MinSlides <= 0 {
		d.MinSlides = DefaultMinSlides
	}
	if d.MaxSlides <= 0 {
		d.MaxSlides = DefaultMaxSlides
	}
	if d.LanguageInstruction == "" {
		d.LanguageInstruction = LanguageInstruction("")
	}
	return d
}

func (d TemplateData) validate(mode string) error {
	switch mode {
	case ModeIdeas:
		if d.Topic == "" {
			return fmt.Errorf("%w: mode=%s field=Topic", ErrMissingField, mode)
		}
	case ModeSlides:
		if d.Title == "" {
			return fmt.Errorf("%w: mode=%s field=Title", ErrMissingField, mode)
		}
		if d.MinSlides > d.MaxSlides {
			return fmt.Errorf("スライド枚数の範囲が不正です: %d〜%d", d.MinSlides, d.MaxSlides)
		}
	case ModeVisualPrompt:
		if d.Title == "" && d.Body == "" {
			return fmt.Errorf("%w: mode=%s field=Title/Body", ErrMissingField, mode)
		}
	}
	return nil
}

var _ TextPrompt = (*TextPromptBuilder)(nil)
