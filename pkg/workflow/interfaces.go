package workflow

import (
	"context"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// Workflow は、外部（CLI や UI）から呼び出されるカルーセル生成ワークフローの入口を定義します。
//
// 同じスライドに対する再プロンプトと一括生成を同時に呼び出さないことは呼び出し側の責務です。
type Workflow interface {
	SubmitTopic(ctx context.Context, topic string, lang domain.Language) ([]domain.Idea, error)
	SelectIdea(ctx context.Context, ideaID int, cfg domain.GenerationConfig) ([]domain.ImageResult, error)
	SubmitCustomText(ctx context.Context, text string, cfg domain.GenerationConfig) ([]domain.ImageResult, error)
	RepromptSlide(ctx context.Context, slideID int, visualPrompt string) (domain.ImageResult, error)
	ApplyStyleToAll(ctx context.Context, sourceSlideID int) ([]domain.ImageResult, error)
	Reauthenticate(ctx context.Context) error
	BackToIdeas() error
	Reset() error
	Snapshot() State
}
