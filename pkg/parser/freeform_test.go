package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-carousel-kit/pkg/domain"
)

func TestParseFreeform(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Slides
	}{
		{
			name:  "表紙と区切り付きブロック",
			input: "Cover text\nSlide 1: Hello\nBody one\nSlide 2: World\nBody two",
			want: domain.Slides{
				{ID: 1, Title: "Cover text", Body: "Cover text"},
				{ID: 2, Title: "Hello", Body: "Body one"},
				{ID: 3, Title: "World", Body: "Body two"},
			},
		},
		{
			name:  "区切り行にタイトルが無い場合はブロックの1行目を使う",
			input: "slide 1\nFirst line\nSecond line\n\n   \nSLIDE 2 -\nOnly",
			want: domain.Slides{
				{ID: 1, Title: "First line", Body: "Second line"},
				{ID: 2, Title: "Only", Body: "Only"},
			},
		},
		{
			name:  "タイトルも本文も無い場合は番号ラベルになる",
			input: "Slide 1: A\nx\nSlide 2:\nSlide 3) C",
			want: domain.Slides{
				{ID: 1, Title: "A", Body: "x"},
				{ID: 2, Title: "Slide 2", Body: "Slide 2"},
				{ID: 3, Title: "C", Body: "C"},
			},
		},
		{
			name:  "区切りが無い場合は全体が1枚になる",
			input: "Title line\r\nbody a\r\nbody b\r\n",
			want: domain.Slides{
				{ID: 1, Title: "Title line", Body: "body a\nbody b"},
			},
		},
		{
			name:  "タイ語の区切り",
			input: "สไลด์ 1: ทองคำ\nเนื้อหา",
			want: domain.Slides{
				{ID: 1, Title: "ทองคำ", Body: "เนื้อหา"},
			},
		},
		{
			name:  "区切り記号の無い文章の行は本文として扱う",
			input: "Slide 1: Guide\nPage 3 of the guide explains sizing\nslide 2 shows the chart\nSlide 2 - Next\nbody",
			want: domain.Slides{
				{ID: 1, Title: "Guide", Body: "Page 3 of the guide explains sizing\nslide 2 shows the chart"},
				{ID: 2, Title: "Next", Body: "body"},
			},
		},
		{
			name:  "番号だけの行は区切りになる",
			input: "Page #2  \nOnly body",
			want: domain.Slides{
				{ID: 1, Title: "Only body", Body: "Only body"},
			},
		},
		{
			name:  "複数行の本文は改行で連結される",
			input: "Page 1. Risk\nline a\nline b",
			want: domain.Slides{
				{ID: 1, Title: "Risk", Body: "line a\nline b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFreeform(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFreeform_Empty(t *testing.T) {
	for _, in := range []string{"", "\n  \n\t\n"} {
		if _, err := ParseFreeform(in); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("ParseFreeform(%q) err = %v, want ErrEmptyInput", in, err)
		}
	}
}
