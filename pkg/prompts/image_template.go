package prompts

import "github.com/shouni/go-carousel-kit/pkg/domain"

const (
	// SystemInstruction は全スライド共通の役割定義です。
	SystemInstruction = "Role: Senior Graphic Designer and Professional Trading Content Creator. You design educational social media carousel slides."

	// CoverVisualTheme はカバー（表紙）スライドで元のビジュアル指示を置き換える、書体中心のポスター指示です。
	CoverVisualTheme = "TYPOGRAPHY-ONLY poster. No illustrated scene. The headline and hook text are the only focal elements, set in very large heavy-weight type that dominates the canvas."

	// CoverNegativePrompt はカバーで禁止する要素です。
	CoverNegativePrompt = "characters, people, faces, 3D objects, cartoons, illustrations, mascots, photos, scenery"

	// SlideNegativePrompt は通常スライドで禁止する要素です。
	SlideNegativePrompt = "cartoon, childish, blurry text, misspelled words, watermark, low quality, distorted"

	// BaselineStyleTheme はスタイル指定が解決できない場合の基本レイアウトです。
	BaselineStyleTheme = "Background: Professional Dark Navy/Black Gradient. Accents: Gold (#FFD700) and White. Atmosphere: Knowledgeable, Premium, Trustworthy."

	// fallbackVisualTheme はビジュアル指示が空の場合に使用する指示のひな形です。
	fallbackVisualTheme = "A clean professional chart or diagram that illustrates: %s"
)

// styleThemes は具体的なスタイルごとの画風の指示です。
var styleThemes = map[domain.Style]string{
	domain.StyleOriginal:   BaselineStyleTheme,
	domain.StyleModern:     "Clean modern flat design. Bright gradient accents on a soft light background, rounded geometric shapes, contemporary sans-serif typography.",
	domain.StyleCyberpunk:  "Neon cyberpunk aesthetic. Magenta and cyan glow on a dark city grid, futuristic HUD overlays, glitch accents, bold condensed typography.",
	domain.StyleLuxury:     "Luxury editorial look. Black and gold palette, subtle marble and metallic textures, elegant high-contrast serif typography.",
	domain.StyleMinimalist: "Minimalist design. Generous white space, monochrome palette with a single accent color, thin clean typography, no decoration.",
}
