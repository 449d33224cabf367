package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/gateway"
	"github.com/shouni/go-carousel-kit/pkg/prompts"
	"github.com/shouni/go-carousel-kit/pkg/retry"
)

// SequentialPipeline は、全スライドの画像を1枚ずつ順番に生成するパイプラインです。
// 同時に Loading になるスライドは常に1枚だけで、結果はスライドの並び順に確定します。
type SequentialPipeline struct {
	gateway gateway.ImageGateway
	prompt  prompts.ImagePrompt
	retry   *retry.Controller
	pacing  time.Duration

	// Sleep はスライド間の待機の実装です。nil の場合は retry.SleepContext を使用します。
	Sleep func(ctx context.Context, d time.Duration) error
	// OnTransition は再試行の状態遷移を通知します。nil の場合は通知しません。
	OnTransition TransitionFunc
}

// NewSequentialPipeline は新しいパイプラインを生成します。
func NewSequentialPipeline(gw gateway.ImageGateway, pb prompts.ImagePrompt, rc *retry.Controller, pacing time.Duration) *SequentialPipeline {
	return &SequentialPipeline{
		gateway: gw,
		prompt:  pb,
		retry:   rc,
		pacing:  pacing,
	}
}

// Run は、スライドを並び順に処理し、スライドと同数の ImageResult を返します。
//
// 失敗したスライドは Error として次へ進みます。再認証後も権限エラーが続いた場合は、
// 処理中のスライドを Error にして retry.ErrPermissionDenied を返し、残りのスライドは Pending のままにします。
// cfg の Style は解決済み（Random 以外）であることを前提とします。
func (pl *SequentialPipeline) Run(ctx context.Context, slides []domain.Slide, cfg domain.GenerationConfig, reauth retry.ReauthFunc, onUpdate UpdateFunc) ([]domain.ImageResult, error) {
	results := domain.Slides(slides).NewPendingResults()

	for i, slide := range slides {
		res, err := pl.RunOne(ctx, slide, cfg, reauth, onUpdate)
		results[i] = res
		if err != nil {
			slog.Warn("パイプラインを中断します", "slide_id", slide.ID, "remaining", len(slides)-i-1, "error", err)
			return results, err
		}

		if res.Status == domain.ImageStatusSuccess && i < len(slides)-1 && pl.pacing > 0 {
			if err := pl.sleep(ctx, pl.pacing); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

// RunOne は1枚のスライドを処理します。再プロンプトや一括スタイル適用からも使われます。
// 返すエラーはパイプラインを中断すべきもの（権限エラーまたはコンテキストの終了）に限られ、
// それ以外の失敗は Error 状態の ImageResult として返します。
func (pl *SequentialPipeline) RunOne(ctx context.Context, slide domain.Slide, cfg domain.GenerationConfig, reauth retry.ReauthFunc, onUpdate UpdateFunc) (domain.ImageResult, error) {
	emit := func(r domain.ImageResult) {
		if onUpdate != nil {
			onUpdate(r)
		}
	}

	logger := slog.With("slide_id", slide.ID)
	emit(domain.ImageResult{SlideID: slide.ID, Status: domain.ImageStatusLoading})

	req := pl.prompt.Resolve(slide, slide.ID, cfg)

	startTime := time.Now()
	logger.Info("Starting slide image generation", "style", req.Style, "aspect_ratio", req.AspectRatio)
	img, err := retry.Do(ctx, pl.retry, func(ctx context.Context) (*domain.GeneratedImage, error) {
		return pl.gateway.GenerateImage(ctx, req)
	}, reauth, func(tr retry.Transition) {
		if pl.OnTransition != nil {
			pl.OnTransition(slide.ID, string(tr.State), tr.Attempt)
		}
	})

	if err != nil {
		res := domain.ImageResult{SlideID: slide.ID, Status: domain.ImageStatusError, Message: err.Error()}
		emit(res)
		if errors.Is(err, retry.ErrPermissionDenied) || ctx.Err() != nil {
			return res, err
		}
		logger.Error("Slide image generation failed", "error", err)
		return res, nil
	}

	logger.Info("Slide image generation completed", "duration", time.Since(startTime).Round(time.Millisecond))
	res := domain.ImageResult{SlideID: slide.ID, Status: domain.ImageStatusSuccess, Data: img.Data, MimeType: img.MimeType}
	emit(res)
	return res, nil
}

func (pl *SequentialPipeline) sleep(ctx context.Context, d time.Duration) error {
	if pl.Sleep != nil {
		return pl.Sleep(ctx, d)
	}
	return retry.SleepContext(ctx, d)
}
