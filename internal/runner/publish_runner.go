package runner

import (
	"context"

	"github.com/shouni/go-carousel-kit/pkg/publisher"
	"github.com/shouni/go-carousel-kit/pkg/workflow"
)

// PublisherRunner はパブリッシュ処理のインターフェースです。
type PublisherRunner interface {
	Run(ctx context.Context, state workflow.State) (publisher.PublishResult, error)
}

// DefaultPublisherRunner は pkg/publisher を利用した標準実装です。
type DefaultPublisherRunner struct {
	outputDir string
	workers   int
	publisher *publisher.CarouselPublisher
}

func NewDefaultPublisherRunner(outputDir string, workers int, pub *publisher.CarouselPublisher) *DefaultPublisherRunner {
	return &DefaultPublisherRunner{
		outputDir: outputDir,
		workers:   workers,
		publisher: pub,
	}
}

// Run はワークフローの状態を pkg/publisher 用の構造体に詰め替えて保存します。
func (pr *DefaultPublisherRunner) Run(ctx context.Context, state workflow.State) (publisher.PublishResult, error) {
	c := publisher.Carousel{
		Slides: state.Slides,
		Images: state.Images,
	}
	if state.SelectedIdea != nil {
		c.Title = state.SelectedIdea.Title
	}

	opts := publisher.Options{
		OutputDir:   pr.outputDir,
		Concurrency: pr.workers,
	}
	return pr.publisher.Publish(ctx, c, opts)
}
