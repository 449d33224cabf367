package parser

import "regexp"

var (
	// SlideMarkerRegex は "Slide 1: タイトル" 形式のスライド区切り行をキャプチャします。
	// 1 番目のグループが番号、2 番目のグループが区切り記号以降のテキストです。
	// 番号の後には区切り記号が必要です。番号で行が終わる場合だけ区切り記号を省略できます。
	// "Page 3 of the guide" のような文章の行は区切りとみなしません。
	SlideMarkerRegex = regexp.MustCompile(`(?i)^(?:slide|page|สไลด์|หน้าที่|หน้า)\s*#?\s*(\d+)(?:\s*[:：.)\-–—]\s*(.*)|\s*)$`)
)
