package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/workflow"
)

// IdeaRunner は、キーワードからカルーセルの切り口を生成するインターフェースです。
type IdeaRunner interface {
	Run(ctx context.Context, topic string, lang domain.Language) ([]domain.Idea, error)
}

// DefaultIdeaRunner はワークフローを利用した標準実装です。
type DefaultIdeaRunner struct {
	wf workflow.Workflow
}

func NewDefaultIdeaRunner(wf workflow.Workflow) *DefaultIdeaRunner {
	return &DefaultIdeaRunner{wf: wf}
}

func (r *DefaultIdeaRunner) Run(ctx context.Context, topic string, lang domain.Language) ([]domain.Idea, error) {
	ideas, err := r.wf.SubmitTopic(ctx, topic, lang)
	if err != nil {
		return nil, fmt.Errorf("アイデアの生成に失敗しました: %w", err)
	}
	slog.Info("アイデアを生成しました", "topic", topic, "count", len(ideas))
	return ideas, nil
}
