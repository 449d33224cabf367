package prompts

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-carousel-kit/pkg/domain"
)

func testConfig(style domain.Style) domain.GenerationConfig {
	return domain.GenerationConfig{
		Language:    domain.LanguageEN,
		AspectRatio: "3:4",
		Style:       style,
		ImageModel:  "image-model",
		Social: domain.SocialConfig{
			UseSameHandle: true,
			MasterHandle:  "crt.trader",
			Platforms: []domain.SocialPlatform{
				{ID: "tiktok", Name: "TikTok", IconName: "Tiktok Logo", Selected: true},
				{ID: "facebook", Name: "Facebook", IconName: "Facebook Logo", Selected: false},
			},
		},
	}
}

func TestImagePromptBuilder_Resolve_Cover(t *testing.T) {
	pb := NewImagePromptBuilder()
	slide := domain.Slide{ID: 1, Title: "Gold Secrets", Body: "Why do 90% of traders lose?", VisualPrompt: "A trader with a cartoon bull in a forest"}

	for _, style := range []domain.Style{domain.StyleOriginal, domain.StyleModern, domain.StyleCyberpunk, domain.StyleLuxury, domain.StyleMinimalist} {
		t.Run(string(style), func(t *testing.T) {
			req := pb.Resolve(slide, 1, testConfig(style))

			if req.VisualTheme == slide.VisualPrompt {
				t.Fatalf("カバーのビジュアルテーマが上書きされていません: %q", req.VisualTheme)
			}
			if req.VisualTheme != CoverVisualTheme {
				t.Errorf("VisualTheme = %q, want CoverVisualTheme", req.VisualTheme)
			}
			if strings.Contains(req.Prompt, slide.VisualPrompt) {
				t.Error("カバーのプロンプトに元のシーン記述が含まれています")
			}
			if req.NegativePrompt != CoverNegativePrompt {
				t.Errorf("NegativePrompt = %q", req.NegativePrompt)
			}
		})
	}
}

func TestImagePromptBuilder_Resolve_CustomCoverKeepsTheme(t *testing.T) {
	pb := NewImagePromptBuilder()
	cfg := testConfig(domain.StyleCustom)
	cfg.Custom = domain.CustomStyleConfig{Prompt: "watercolor", ReferenceImage: []byte{0x89, 0x50}}
	slide := domain.Slide{ID: 1, Title: "t", Body: "b", VisualPrompt: "candlestick chart"}

	req := pb.Resolve(slide, 1, cfg)

	if req.VisualTheme != "candlestick chart" {
		t.Errorf("Custom のカバーは元のテーマを維持すべきです: %q", req.VisualTheme)
	}
	if len(req.ReferenceImage) != 2 || req.ReferenceMimeType != "image/png" {
		t.Errorf("参照画像が反映されていません: %v %q", req.ReferenceImage, req.ReferenceMimeType)
	}
	if !strings.Contains(req.SystemPrompt, "watercolor") {
		t.Errorf("カスタムプロンプトが含まれていません: %q", req.SystemPrompt)
	}
}

func TestImagePromptBuilder_Resolve_Deterministic(t *testing.T) {
	pb := NewImagePromptBuilder()
	slide := domain.Slide{ID: 2, Title: "Risk", Body: "Never risk more than 2%", VisualPrompt: "risk chart"}
	style := ResolveStyle(domain.StyleRandom, func(int) int { return 2 })

	a := pb.Resolve(slide, 2, testConfig(style))
	b := pb.Resolve(slide, 2, testConfig(style))

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("同一入力で異なる結果になりました (-a +b):\n%s", diff)
	}
	if a.Style != domain.StyleLuxury {
		t.Errorf("Style = %q, want LUXURY", a.Style)
	}
}

func TestImagePromptBuilder_Resolve_Degrades(t *testing.T) {
	pb := NewImagePromptBuilder()

	t.Run("空の Custom 設定は基本レイアウトになること", func(t *testing.T) {
		cfg := testConfig(domain.StyleCustom)
		cfg.Social.Platforms = nil
		req := pb.Resolve(domain.Slide{ID: 3, Title: "Entry"}, 3, cfg)

		if !strings.Contains(req.SystemPrompt, BaselineStyleTheme) {
			t.Errorf("基本スタイルが使われていません: %q", req.SystemPrompt)
		}
		if strings.Contains(req.Prompt, "FOOTER") {
			t.Error("プラットフォームが空なのにフッターが出力されています")
		}
		if !strings.Contains(req.VisualTheme, "Entry") {
			t.Errorf("空のビジュアル指示がタイトルで補完されていません: %q", req.VisualTheme)
		}
	})

	t.Run("未解決の Random は基本スタイルとして扱うこと", func(t *testing.T) {
		req := pb.Resolve(domain.Slide{ID: 2, VisualPrompt: "x"}, 2, testConfig(domain.StyleRandom))
		if req.Style != domain.StyleOriginal {
			t.Errorf("Style = %q", req.Style)
		}
	})

	t.Run("対応外のアスペクト比は 1:1 になること", func(t *testing.T) {
		cfg := testConfig(domain.StyleModern)
		cfg.AspectRatio = "21:9"
		req := pb.Resolve(domain.Slide{ID: 2, VisualPrompt: "x"}, 2, cfg)
		if req.AspectRatio != "1:1" {
			t.Errorf("AspectRatio = %q", req.AspectRatio)
		}
	})
}

func TestImagePromptBuilder_Resolve_SlideLayout(t *testing.T) {
	pb := NewImagePromptBuilder()
	slide := domain.Slide{ID: 2, Title: "Support", Body: "Buy near support", VisualPrompt: "support line chart"}

	req := pb.Resolve(slide, 2, testConfig(domain.StyleModern))

	if req.VisualTheme != "support line chart" {
		t.Errorf("VisualTheme = %q", req.VisualTheme)
	}
	if req.Model != "image-model" || req.AspectRatio != "3:4" {
		t.Errorf("Model/AspectRatio が反映されていません: %+v", req)
	}
	for _, want := range []string{"support line chart", `"Support"`, "[Tiktok Logo] crt.trader"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("プロンプトに %q が含まれていません:\n%s", want, req.Prompt)
		}
	}
	if strings.Contains(req.Prompt, "Facebook") {
		t.Error("未選択のプラットフォームが含まれています")
	}
	if req.ReferenceImage != nil {
		t.Error("Custom 以外で参照画像が設定されています")
	}
}
