package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-carousel-kit/examples"
	"github.com/shouni/go-carousel-kit/internal/builder"
	"github.com/shouni/go-carousel-kit/internal/config"
	"github.com/shouni/go-carousel-kit/internal/runner"
	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/parser"
)

// ExecuteIdeas は、キーワードからアイデアを生成して一覧を表示します。
func ExecuteIdeas(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := setupAppContext(ctx, cfg, out)
	if err != nil {
		return err
	}

	ideas, err := runIdeaStep(ctx, appCtx)
	if err != nil {
		return err
	}
	RenderIdeas(out, ideas)
	return nil
}

// Execute は、キーワードからアイデアを生成し、指定された番号のアイデアでカルーセルを生成して保存します。
func Execute(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := setupAppContext(ctx, cfg, out)
	if err != nil {
		return err
	}

	// --- Phase 1: Idea Phase ---
	ideas, err := runIdeaStep(ctx, appCtx)
	if err != nil {
		return err
	}
	RenderIdeas(out, ideas)

	// --- Phase 2: Slide & Image Phase ---
	slideRunner, err := buildSlideRunner(ctx, appCtx)
	if err != nil {
		return err
	}
	index := cfg.Options.IdeaIndex
	if index == 0 {
		index = 1
	}
	_, genErr := slideRunner.RunIdea(ctx, index)

	// --- Phase 3: Publish Phase ---
	// 途中で中断した場合も、生成できたスライドは保存します。
	if err := runPublishStep(ctx, appCtx, out); err != nil {
		return err
	}
	return genErr
}

// ExecuteText は、自由入力テキストからカルーセルを生成して保存します。
// InputFile が空の場合は同梱のサンプルテキストを使用します。
func ExecuteText(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := setupAppContext(ctx, cfg, out)
	if err != nil {
		return err
	}
	path := cfg.Options.InputFile

	if cfg.Options.DryRun {
		slides, err := parseOnly(ctx, appCtx, path)
		if err != nil {
			return err
		}
		RenderSlides(out, slides)
		return nil
	}

	slideRunner, err := buildSlideRunner(ctx, appCtx)
	if err != nil {
		return err
	}
	var genErr error
	if path == "" {
		slog.Info("入力ファイルが指定されていないため、サンプルテキストを使用します")
		_, genErr = slideRunner.RunContent(ctx, examples.SampleCarousel)
	} else {
		_, genErr = slideRunner.RunText(ctx, path)
	}

	if err := runPublishStep(ctx, appCtx, out); err != nil {
		return err
	}
	return genErr
}

// setupAppContext は、進捗表示と再認証の入出力を接続してアプリケーションコンテキストを初期化します。
func setupAppContext(ctx context.Context, cfg *config.Config, out io.Writer) (*builder.AppContext, error) {
	appCtx, err := builder.BuildAppContext(ctx, cfg, NewProgressPrinter(out), builder.Streams{In: os.Stdin, Out: out})
	if err != nil {
		return nil, fmt.Errorf("アプリケーションの初期化に失敗しました: %w", err)
	}
	return appCtx, nil
}

// runIdeaStep は IdeaRunner を使ってアイデアを生成します。
func runIdeaStep(ctx context.Context, appCtx *builder.AppContext) ([]domain.Idea, error) {
	opts := appCtx.Config.Options
	lang, err := domain.ParseLanguage(opts.Language)
	if err != nil {
		return nil, err
	}
	slog.Info("Phase 1: アイデアの生成を開始します...", "topic", opts.Topic, "language", lang)
	return runner.NewDefaultIdeaRunner(appCtx.Workflow).Run(ctx, opts.Topic, lang)
}

func buildSlideRunner(ctx context.Context, appCtx *builder.AppContext) (runner.SlideRunner, error) {
	genCfg, err := runner.BuildGenerationConfig(ctx, appCtx.Config.Options, appCtx.Reader)
	if err != nil {
		return nil, fmt.Errorf("生成設定の構築に失敗しました: %w", err)
	}
	return runner.NewDefaultSlideRunner(appCtx.Workflow, appCtx.Reader, genCfg), nil
}

// parseOnly は画像を生成せずにテキストをスライドへ分解します。
func parseOnly(ctx context.Context, appCtx *builder.AppContext, path string) (domain.Slides, error) {
	switch path {
	case "":
		return parser.ParseFreeform(examples.SampleCarousel)
	case "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("標準入力の読み込みに失敗しました: %w", err)
		}
		return parser.ParseFreeform(string(b))
	}
	return appCtx.Parser.ParseFromPath(ctx, path)
}

// runPublishStep は PublisherRunner を使って最終成果物を保存します。
func runPublishStep(ctx context.Context, appCtx *builder.AppContext, out io.Writer) error {
	state := appCtx.Workflow.Snapshot()
	if len(state.Slides) == 0 {
		slog.Warn("保存するスライドがありません", "status", state.Status, "last_error", state.LastError)
		return nil
	}

	slog.Info("Phase 3: 保存処理を開始します...", "output", appCtx.Config.OutputDir)
	pr := runner.NewDefaultPublisherRunner(appCtx.Config.OutputDir, config.DefaultPublishWorker, appCtx.Publisher)
	res, err := pr.Run(ctx, state)
	if err != nil {
		return fmt.Errorf("保存処理に失敗しました: %w", err)
	}
	RenderSummary(out, state, res)
	return nil
}
