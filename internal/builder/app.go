package builder

import (
	"context"
	"fmt"
	"io"

	"github.com/shouni/go-carousel-kit/internal/config"
	"github.com/shouni/go-carousel-kit/pkg/gateway"
	"github.com/shouni/go-carousel-kit/pkg/parser"
	"github.com/shouni/go-carousel-kit/pkg/prompts"
	"github.com/shouni/go-carousel-kit/pkg/publisher"
	"github.com/shouni/go-carousel-kit/pkg/retry"
	"github.com/shouni/go-carousel-kit/pkg/workflow"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext はアプリケーションの依存関係を保持します。
type AppContext struct {
	Config    *config.Config               // 環境変数と CLI フラグから組み立てた設定
	Reader    remoteio.InputReader         // 入力テキストや参照画像の読み込み元（ローカル or GCS）
	Writer    remoteio.OutputWriter        // 成果物の書き込み先（ローカル or GCS）
	Workflow  workflow.Workflow            // カルーセル生成ワークフロー
	Parser    *parser.FreeformParser       // 自由入力テキストの分解
	Publisher *publisher.CarouselPublisher // 画像と carousel.md の保存
}

// Streams は再認証時の対話に使う入出力です。
type Streams struct {
	In  io.Reader
	Out io.Writer
}

// BuildAppContext は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg *config.Config, observer workflow.Observer, streams Streams) (*AppContext, error) {
	core := cfg.Core()

	// 1. 基盤クライアントの初期化
	timeout := config.DefaultHTTPTimeout
	if cfg.Options.HTTPTimeout > 0 {
		timeout = cfg.Options.HTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	// 2. I/O インフラ (GCS等) の初期化
	ioFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS factory: %w", err)
	}
	reader, err := ioFactory.InputReader()
	if err != nil {
		return nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	writer, err := ioFactory.OutputWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create output writer: %w", err)
	}

	// 3. Gemini ゲートウェイの構築
	gw, err := gateway.NewGeminiGateway(ctx, gateway.GeminiArgs{
		Config:     core,
		HTTPClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini gateway: %w", err)
	}

	// 4. ワークフローの構築
	wf, err := workflow.New(workflow.ManagerArgs{
		Config:      core,
		Gateway:     gw,
		ImagePrompt: prompts.NewImagePromptBuilder(),
		Retry:       retry.NewController(core.MaxAttempts, core.BackoffBase),
		Reauth:      NewPromptReauth(gw, streams.In, streams.Out),
		Observer:    observer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return &AppContext{
		Config:    cfg,
		Reader:    reader,
		Writer:    writer,
		Workflow:  wf,
		Parser:    parser.NewFreeformParser(reader),
		Publisher: publisher.NewCarouselPublisher(writer),
	}, nil
}
