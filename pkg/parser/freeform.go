package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// ErrEmptyInput は空白以外の行が1行もない入力に対して返されます。
var ErrEmptyInput = errors.New("入力テキストが空です")

// block はスライド区切りから次の区切りまでのまとまりです。
type block struct {
	marked bool
	number string // 区切り行の番号（marked の場合のみ）
	header string // 区切り記号以降のテキスト
	lines  []string
}

// ParseFreeform は自由入力テキストをスライドに分解します。
//
// 最初の区切り行より前の内容は表紙スライドとなり、その1行目がタイトルになります。
// 区切り行ごとのブロックは区切り行の残りのテキストをタイトルとし、空の場合はブロックの1行目、
// それも無い場合は "Slide N" をタイトルにします。本文が無いスライドはタイトルを本文として使います。
// ID は出現順に 1 から振り直されます。
func ParseFreeform(input string) (domain.Slides, error) {
	var blocks []block
	for _, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := SlideMarkerRegex.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, block{
				marked: true,
				number: m[1],
				header: strings.TrimSpace(m[2]),
			})
			continue
		}

		if len(blocks) == 0 {
			blocks = append(blocks, block{})
		}
		last := &blocks[len(blocks)-1]
		last.lines = append(last.lines, line)
	}

	if len(blocks) == 0 {
		return nil, ErrEmptyInput
	}

	slides := make(domain.Slides, 0, len(blocks))
	for _, b := range blocks {
		slides = append(slides, b.toSlide())
	}
	return slides.Renumber(), nil
}

func (b block) toSlide() domain.Slide {
	title := b.header
	body := b.lines
	if title == "" && len(body) > 0 {
		title, body = body[0], body[1:]
	}
	if title == "" {
		title = fmt.Sprintf("Slide %s", b.number)
	}

	text := strings.Join(body, "\n")
	if text == "" {
		text = title
	}
	return domain.Slide{Title: title, Body: text}
}
