package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shouni/go-carousel-kit/internal/config"
	"github.com/shouni/go-carousel-kit/pkg/asset"
	pkgconfig "github.com/shouni/go-carousel-kit/pkg/config"
	"github.com/shouni/go-carousel-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// BuildGenerationConfig は CLI のオプションから1回分の生成設定を組み立てます。
// 参照画像が指定された場合は reader 経由で読み込み、スタイルを Custom にします。
func BuildGenerationConfig(ctx context.Context, opts config.GenerateOptions, reader remoteio.InputReader) (domain.GenerationConfig, error) {
	cfg := pkgconfig.DefaultGenerationConfig()

	lang, err := domain.ParseLanguage(opts.Language)
	if err != nil {
		return cfg, err
	}
	cfg.Language = lang

	style, err := domain.ParseStyle(opts.Style)
	if err != nil {
		return cfg, err
	}
	cfg.Style = style
	cfg.AspectRatio = domain.NormalizeAspectRatio(opts.AspectRatio)
	if opts.ImageModel != "" {
		cfg.ImageModel = opts.ImageModel
	}

	if h := strings.TrimSpace(opts.Handle); h != "" {
		cfg.Social.UseSameHandle = true
		cfg.Social.MasterHandle = h
	}

	cfg.Custom.Prompt = strings.TrimSpace(opts.CustomPrompt)
	if opts.ReferenceImage != "" {
		data, err := readAll(ctx, reader, opts.ReferenceImage)
		if err != nil {
			return cfg, fmt.Errorf("参照画像 '%s' の読み込みに失敗しました: %w", opts.ReferenceImage, err)
		}
		cfg.Custom.ReferenceImage = data
		cfg.Custom.ReferenceMimeType = asset.MimeTypeFor(opts.ReferenceImage)
		cfg.Style = domain.StyleCustom
	} else if cfg.Custom.Prompt != "" && opts.Style == "" {
		cfg.Style = domain.StyleCustom
	}

	return cfg, nil
}

func readAll(ctx context.Context, reader remoteio.InputReader, path string) ([]byte, error) {
	rc, err := reader.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
