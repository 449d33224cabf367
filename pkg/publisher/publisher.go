package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-carousel-kit/pkg/asset"
	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// Writer は成果物の書き込み先です。remoteio.OutputWriter はこのインターフェースを満たします。
type Writer interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	// Concurrency は画像の同時書き込み数です。0 以下の場合は defaultConcurrency を使用します。
	Concurrency int
}

// Carousel はパブリッシュ対象のカルーセルです。
type Carousel struct {
	Title  string
	Slides domain.Slides
	Images []domain.ImageResult
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string   // 生成された carousel.md のパス
	ImagePaths   []string // 保存されたスライド画像のパス（スライド順）
}

const (
	defaultConcurrency = 4
	markdownMimeType   = "text/markdown; charset=utf-8"
	placeholder        = "(not generated)"
)

// CarouselPublisher は成功したスライド画像と、全スライドのテキストをまとめた Markdown を保存します。
type CarouselPublisher struct {
	writer Writer
}

// NewCarouselPublisher は新しい CarouselPublisher を生成します。
func NewCarouselPublisher(writer Writer) *CarouselPublisher {
	return &CarouselPublisher{writer: writer}
}

// Publish は画像の保存と Markdown の書き出しを行い、生成されたファイル情報を返します。
// 成功していないスライドの画像は保存せず、Markdown にはその状態を記録します。
func (p *CarouselPublisher) Publish(ctx context.Context, c Carousel, opts Options) (PublishResult, error) {
	result := PublishResult{}

	markdown, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultSummaryName)
	if err != nil {
		return result, err
	}
	result.MarkdownPath = markdown

	imgDir, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultImageDir)
	if err != nil {
		return result, err
	}

	byID := make(map[int]domain.ImageResult, len(c.Images))
	for _, img := range c.Images {
		byID[img.SlideID] = img
	}

	saved, err := p.saveImages(ctx, c.Slides, byID, imgDir, opts.Concurrency)
	if err != nil {
		return result, fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	for _, s := range c.Slides {
		if imgPath, ok := saved[s.ID]; ok {
			result.ImagePaths = append(result.ImagePaths, imgPath)
		}
	}

	content := BuildMarkdown(c, byID)
	if err := p.writer.Write(ctx, markdown, strings.NewReader(content), markdownMimeType); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}

	slog.Info("カルーセルを保存しました", "markdown", markdown, "images", len(result.ImagePaths))
	return result, nil
}

// saveImages は成功したスライドの画像を並行して書き込み、スライド ID ごとの保存先を返します。
func (p *CarouselPublisher) saveImages(ctx context.Context, slides domain.Slides, images map[int]domain.ImageResult, baseDir string, concurrency int) (map[int]string, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	paths := make(map[int]string, len(slides))
	for _, s := range slides {
		img, ok := images[s.ID]
		if !ok || img.Status != domain.ImageStatusSuccess || len(img.Data) == 0 {
			continue
		}
		fullPath, err := asset.SlideImagePath(baseDir, s.ID, img.MimeType)
		if err != nil {
			return nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}
		paths[s.ID] = fullPath
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for id, fullPath := range paths {
		img := images[id]
		eg.Go(func() error {
			if err := p.writer.Write(egCtx, fullPath, bytes.NewReader(img.Data), img.MimeType); err != nil {
				return fmt.Errorf("%s: %w", fullPath, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// BuildMarkdown はスライドのテキストと画像の相対パスをまとめた Markdown を返します。
func BuildMarkdown(c Carousel, images map[int]domain.ImageResult) string {
	var sb strings.Builder
	title := c.Title
	if title == "" && len(c.Slides) > 0 {
		title = c.Slides[0].Title
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	for _, s := range c.Slides {
		fmt.Fprintf(&sb, "## Slide %d: %s\n\n", s.ID, s.Title)

		img, ok := images[s.ID]
		if ok && img.Status == domain.ImageStatusSuccess && len(img.Data) > 0 {
			rel := path.Join(asset.DefaultImageDir, fmt.Sprintf("slide_%d%s", s.ID, asset.ExtensionFor(img.MimeType)))
			fmt.Fprintf(&sb, "![slide %d](%s)\n\n", s.ID, rel)
		} else {
			status := domain.ImageStatusPending
			if ok {
				status = img.Status
			}
			fmt.Fprintf(&sb, "> image: %s %s\n\n", status, placeholder)
		}

		sb.WriteString(strings.TrimSpace(s.Body))
		sb.WriteString("\n\n")
		if s.VisualPrompt != "" {
			fmt.Fprintf(&sb, "- visual: %s\n", s.VisualPrompt)
		}
		if ok && img.Message != "" {
			fmt.Fprintf(&sb, "- error: %s\n", img.Message)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
