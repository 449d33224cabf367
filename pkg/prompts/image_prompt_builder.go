package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// ImagePromptBuilder は、スライドの位置とスタイルから画像生成リクエストを組み立てます。
// 状態を持たないため、同じ入力に対して常に同じリクエストを返します。
type ImagePromptBuilder struct{}

// NewImagePromptBuilder は新しい ImagePromptBuilder を生成します。
func NewImagePromptBuilder() *ImagePromptBuilder {
	return &ImagePromptBuilder{}
}

// Resolve は1枚分の GenerationRequest を構築します。
// cfg.Style は ResolveStyle で解決済みであることを前提とし、Random が残っている場合は基本スタイルとして扱います。
func (pb *ImagePromptBuilder) Resolve(slide domain.Slide, position int, cfg domain.GenerationConfig) domain.GenerationRequest {
	style := effectiveStyle(cfg.Style)
	isCover := position == 1 && style != domain.StyleCustom

	theme := strings.TrimSpace(slide.VisualPrompt)
	negative := SlideNegativePrompt
	if isCover {
		theme = CoverVisualTheme
		negative = CoverNegativePrompt
	}
	if theme == "" {
		theme = fmt.Sprintf(fallbackVisualTheme, slide.Title)
	}

	req := domain.GenerationRequest{
		Model:          cfg.ImageModel,
		AspectRatio:    domain.NormalizeAspectRatio(cfg.AspectRatio),
		VisualTheme:    theme,
		Style:          style,
		NegativePrompt: negative,
		SystemPrompt:   buildSystemPrompt(style, cfg.Custom),
	}

	footer := BuildFooterInstruction(cfg.Social)
	if isCover {
		req.Prompt = buildCoverPrompt(slide, theme, footer, req.AspectRatio)
	} else {
		req.Prompt = buildSlidePrompt(slide, theme, footer, req.AspectRatio)
	}

	if style == domain.StyleCustom && cfg.Custom.HasReference() {
		req.ReferenceImage = append([]byte(nil), cfg.Custom.ReferenceImage...)
		req.ReferenceMimeType = cfg.Custom.ReferenceMimeType
		if req.ReferenceMimeType == "" {
			req.ReferenceMimeType = "image/png"
		}
	}

	return req
}

// buildSystemPrompt は役割と画風を定義します。
func buildSystemPrompt(style domain.Style, custom domain.CustomStyleConfig) string {
	var ss strings.Builder
	ss.WriteString(SystemInstruction)
	ss.WriteString("\n\n### VISUAL STYLE ###\n")

	if style != domain.StyleCustom {
		ss.WriteString(styleThemes[style])
		return ss.String()
	}

	customPrompt := strings.TrimSpace(custom.Prompt)
	switch {
	case customPrompt != "":
		ss.WriteString(customPrompt)
	case !custom.HasReference():
		// 参照も記述もない Custom は基本レイアウトで生成します。
		ss.WriteString(BaselineStyleTheme)
	}
	if custom.HasReference() {
		if customPrompt != "" {
			ss.WriteString("\n")
		}
		ss.WriteString("Match the color palette, typography and overall look of the attached reference image exactly.")
	}
	return ss.String()
}

func buildCoverPrompt(slide domain.Slide, theme, footer, aspectRatio string) string {
	var us strings.Builder
	us.WriteString("Task: Create a TEXT-ONLY Cover/Hook image for a carousel.\n")
	us.WriteString("CRITICAL INSTRUCTION: DO NOT generate any characters, people, 3D objects, or cartoons. This image must be TYPOGRAPHY ONLY.\n\n")
	fmt.Fprintf(&us, "### VISUAL THEME ###\n%s\n\n", theme)
	us.WriteString("### TEXT LAYOUT ###\n")
	fmt.Fprintf(&us, "1. TOP HEADLINE: %q\n   - Font: Large, Bold, Sans-Serif.\n", slide.Title)
	fmt.Fprintf(&us, "2. CENTER HOOK (Main Focus): %q\n   - Font: Very Large, Heavy weight. Must dominate the center of the image.\n", slide.Body)
	if footer != "" {
		fmt.Fprintf(&us, "3. FOOTER:\n%s", footer)
	}
	fmt.Fprintf(&us, "\nAspect Ratio: %s.\n", aspectRatio)
	return us.String()
}

func buildSlidePrompt(slide domain.Slide, theme, footer, aspectRatio string) string {
	var us strings.Builder
	us.WriteString("Task: Create an educational Infographic Slide.\n\n")
	us.WriteString("### STRICT VERTICAL LAYOUT ORDER ###\n")
	fmt.Fprintf(&us, "1. HEADLINE (Top): %q\n", slide.Title)
	fmt.Fprintf(&us, "2. TEXT SECTION 1 (Upper Body): the first part or summary of %q\n", slide.Body)
	fmt.Fprintf(&us, "3. ILLUSTRATION (Center): %s\n", theme)
	fmt.Fprintf(&us, "4. TEXT SECTION 2 (Lower Body): any remaining text or key takeaway from %q\n", slide.Body)
	if footer != "" {
		fmt.Fprintf(&us, "5. FOOTER (Bottom):\n%s", footer)
	}
	us.WriteString("\nComposition: Balanced \"Sandwich\" layout (Text - Image - Text).\n")
	fmt.Fprintf(&us, "Aspect Ratio: %s.\n", aspectRatio)
	return us.String()
}
