package prompts

import (
	"math/rand/v2"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// RandomStylePool は Random 指定時の抽選対象です。
var RandomStylePool = []domain.Style{
	domain.StyleModern,
	domain.StyleCyberpunk,
	domain.StyleLuxury,
	domain.StyleMinimalist,
}

// ResolveStyle は Random 指定をプールから一様に1つ選んだ具体的なスタイルに解決します。
// 実行開始時に一度だけ呼び出し、その結果を全スライドで共有します。
// pick が nil の場合は math/rand/v2 の IntN を使用します。
func ResolveStyle(style domain.Style, pick func(n int) int) domain.Style {
	if style != domain.StyleRandom {
		return style
	}
	if pick == nil {
		pick = rand.IntN
	}
	return RandomStylePool[pick(len(RandomStylePool))]
}

// effectiveStyle は未解決の Random や未知の値を基本スタイルに丸めます。
func effectiveStyle(style domain.Style) domain.Style {
	if style == domain.StyleCustom {
		return style
	}
	if _, ok := styleThemes[style]; ok {
		return style
	}
	return domain.StyleOriginal
}
