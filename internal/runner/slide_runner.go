package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/workflow"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// SlideRunner は、スライドのテキストと画像を生成するインターフェースです。
type SlideRunner interface {
	// RunIdea は生成済みのアイデアから1つを選んでカルーセルを生成します。index は 1 から始まります。
	RunIdea(ctx context.Context, index int) ([]domain.ImageResult, error)
	// RunText は自由入力テキストからカルーセルを生成します。path が "-" の場合は標準入力から読み込みます。
	RunText(ctx context.Context, path string) ([]domain.ImageResult, error)
	// RunContent は読み込み済みのテキストからカルーセルを生成します。
	RunContent(ctx context.Context, text string) ([]domain.ImageResult, error)
}

// DefaultSlideRunner はワークフローを利用した標準実装です。
type DefaultSlideRunner struct {
	wf     workflow.Workflow
	reader remoteio.InputReader
	cfg    domain.GenerationConfig
	stdin  io.Reader
}

func NewDefaultSlideRunner(wf workflow.Workflow, reader remoteio.InputReader, cfg domain.GenerationConfig) *DefaultSlideRunner {
	return &DefaultSlideRunner{wf: wf, reader: reader, cfg: cfg, stdin: os.Stdin}
}

func (r *DefaultSlideRunner) RunIdea(ctx context.Context, index int) ([]domain.ImageResult, error) {
	ideas := r.wf.Snapshot().Ideas
	if index < 1 || index > len(ideas) {
		return nil, fmt.Errorf("アイデアの番号は 1〜%d で指定してください (got %d)", len(ideas), index)
	}
	idea := ideas[index-1]

	slog.Info("アイデアからカルーセルを生成します", "idea", idea.Title, "style", r.cfg.Style, "aspect_ratio", r.cfg.AspectRatio)
	images, err := r.wf.SelectIdea(ctx, idea.ID, r.cfg)
	if err != nil {
		return images, fmt.Errorf("カルーセルの生成に失敗しました: %w", err)
	}
	return images, nil
}

func (r *DefaultSlideRunner) RunText(ctx context.Context, path string) ([]domain.ImageResult, error) {
	text, err := r.readInput(ctx, path)
	if err != nil {
		return nil, err
	}
	slog.Info("入力テキストを読み込みました", "input", path, "bytes", len(text))
	return r.RunContent(ctx, text)
}

func (r *DefaultSlideRunner) RunContent(ctx context.Context, text string) ([]domain.ImageResult, error) {
	slog.Info("入力テキストからカルーセルを生成します", "style", r.cfg.Style, "aspect_ratio", r.cfg.AspectRatio)
	images, err := r.wf.SubmitCustomText(ctx, text, r.cfg)
	if err != nil {
		return images, fmt.Errorf("カルーセルの生成に失敗しました: %w", err)
	}
	return images, nil
}

func (r *DefaultSlideRunner) readInput(ctx context.Context, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(r.stdin)
		if err != nil {
			return "", fmt.Errorf("標準入力の読み込みに失敗しました: %w", err)
		}
		return string(b), nil
	}

	b, err := readAll(ctx, r.reader, path)
	if err != nil {
		return "", fmt.Errorf("入力ファイル '%s' の読み込みに失敗しました: %w", path, err)
	}
	return string(b), nil
}
