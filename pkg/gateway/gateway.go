package gateway

import (
	"context"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// ImageGateway は画像生成のリモート呼び出しを担います。
type ImageGateway interface {
	GenerateImage(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error)
}

// Gateway はカルーセル生成で使用するリモートモデル呼び出しの契約です。
// 失敗時のエラーは可能な限り *RemoteError を含みます。
type Gateway interface {
	ImageGateway
	// GenerateIdeas はキーワードからカルーセルの切り口を生成します。ID は 1 からの連番です。
	GenerateIdeas(ctx context.Context, topic string, lang domain.Language) ([]domain.Idea, error)
	// GenerateSlideText は選択されたアイデアからスライドのテキストを生成します。ID は 1 からの連番です。
	GenerateSlideText(ctx context.Context, idea domain.Idea, lang domain.Language) (domain.Slides, error)
	// GenerateVisualPrompt はスライドのテキストから画像用のビジュアル指示を生成します。
	GenerateVisualPrompt(ctx context.Context, title, body string) (string, error)
}
