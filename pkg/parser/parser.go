package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// Parser は自由入力テキストをスライドへ変換するためのインターフェースを定義します。
type Parser interface {
	ParseFromPath(ctx context.Context, fullPath string) (domain.Slides, error)
}

// FreeformParser はローカルファイルや GCS 上のテキストを読み込み、スライドへ分解します。
type FreeformParser struct {
	reader remoteio.InputReader
}

// NewFreeformParser は新しい FreeformParser インスタンスを生成します。
func NewFreeformParser(r remoteio.InputReader) *FreeformParser {
	return &FreeformParser{reader: r}
}

// ParseFromPath は指定された GCS URI やローカルファイルパスからテキストを読み込み、解析します。
func (p *FreeformParser) ParseFromPath(ctx context.Context, fullPath string) (domain.Slides, error) {
	rc, err := p.reader.Open(ctx, fullPath)
	if err != nil {
		return nil, fmt.Errorf("入力ファイルのオープンに失敗しました (path: %s): %w", fullPath, err)
	}
	defer func() {
		if cErr := rc.Close(); cErr != nil {
			slog.Warn("入力ファイルのクローズに失敗しました", "path", fullPath, "error", cErr)
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("入力ファイルの読み込みに失敗しました (path: %s): %w", fullPath, err)
	}

	slides, err := ParseFreeform(string(data))
	if err != nil {
		return nil, fmt.Errorf("テキストの解析に失敗しました (path: %s): %w", fullPath, err)
	}
	slog.Info("テキストをスライドに分解しました", "path", fullPath, "slides", len(slides))
	return slides, nil
}
