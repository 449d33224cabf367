package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-carousel-kit/pkg/config"
)

// PermissionDeniedMessage は権限エラーでパイプラインを中断した際にユーザーへ表示するメッセージです。
const PermissionDeniedMessage = "Permission denied. Billing enabled project required."

var (
	// ErrPermissionDenied は再認証後も権限エラーが続いたことを表します。パイプライン全体を中断させる唯一のエラーです。
	ErrPermissionDenied = errors.New("再認証後も権限エラーが解消されませんでした")
	// ErrAttemptsExhausted はレート制限またはサービス停止のまま試行回数の上限に達したことを表します。
	ErrAttemptsExhausted = errors.New("再試行回数の上限に達しました")
)

// ReauthFunc は対話的な再認証フックです。
// nil を返した時点で呼び出し側は新しい資格情報が有効になったとみなし、検証の呼び出しは行いません。
type ReauthFunc func(ctx context.Context) error

// State はサブジョブの状態です。
type State string

const (
	StateAttempting         State = "attempting"
	StateBackoff            State = "backoff"
	StatePermissionRecovery State = "permission_recovery"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

// Transition はサブジョブの状態遷移の通知です。
type Transition struct {
	State   State
	Attempt int
	Kind    Kind
	Delay   time.Duration
	Err     error
}

// Controller は1つのサブジョブの再試行を制御します。
type Controller struct {
	MaxAttempts int
	BackoffBase time.Duration
	// Sleep は待機の実装です。nil の場合はコンテキストを考慮したタイマーを使用します。
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// NewController は設定値から Controller を生成します。
func NewController(maxAttempts int, backoffBase time.Duration) *Controller {
	return &Controller{
		MaxAttempts: maxAttempts,
		BackoffBase: backoffBase,
	}
}

// LinearBackoff は attempt 回目の失敗後の待機時間を返します。
// 待機時間は base * attempt で線形に伸びます（指数的ではありません）。
func (c *Controller) LinearBackoff(attempt int) time.Duration {
	return c.BackoffBase * time.Duration(attempt)
}

func (c *Controller) maxAttempts() int {
	if c.MaxAttempts <= 0 {
		return config.DefaultMaxAttempts
	}
	return c.MaxAttempts
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

// SleepContext は d だけ待機します。コンテキストが先に終了した場合はそのエラーを返します。
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do は job を再試行付きで実行します。
//
//   - RateLimited / ServiceUnavailable: LinearBackoff だけ待機して再試行します。job の呼び出しは MaxAttempts 回までです。
//   - PermissionDenied: reauth を1度だけ呼び出し、成功したら待機せずに1度だけ再試行します。
//     再認証後の再試行が再び PermissionDenied になった場合だけ ErrPermissionDenied を返します。
//     reauth が nil の場合や reauth が失敗した場合は、このサブジョブだけの失敗として通常のエラーを返します。
//   - Other: 再試行せずにそのエラーを返します。
//
// observe が nil でなければ、各状態遷移が通知されます。
func Do[T any](ctx context.Context, c *Controller, job func(ctx context.Context) (T, error), reauth ReauthFunc, observe func(Transition)) (T, error) {
	var zero T
	notify := func(tr Transition) {
		if observe != nil {
			observe(tr)
		}
	}
	logger := c.logger()
	maxAttempts := c.maxAttempts()
	reauthUsed := false

	for attempt := 1; ; attempt++ {
		notify(Transition{State: StateAttempting, Attempt: attempt})

		v, err := job(ctx)
		if err == nil {
			notify(Transition{State: StateSucceeded, Attempt: attempt})
			return v, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			notify(Transition{State: StateFailed, Attempt: attempt, Err: ctxErr})
			return zero, ctxErr
		}

		kind := Classify(err)
		switch {
		case kind.Backoffable():
			if attempt >= maxAttempts {
				failErr := fmt.Errorf("%w (%d 回): %w", ErrAttemptsExhausted, attempt, err)
				notify(Transition{State: StateFailed, Attempt: attempt, Kind: kind, Err: failErr})
				return zero, failErr
			}
			delay := c.LinearBackoff(attempt)
			logger.Warn("一時的なエラーのため待機して再試行します", "attempt", attempt, "kind", kind.String(), "delay", delay, "error", err)
			notify(Transition{State: StateBackoff, Attempt: attempt, Kind: kind, Delay: delay, Err: err})
			if sErr := c.sleep(ctx, delay); sErr != nil {
				notify(Transition{State: StateFailed, Attempt: attempt, Kind: kind, Err: sErr})
				return zero, sErr
			}

		case kind == KindPermissionDenied:
			if reauthUsed {
				failErr := fmt.Errorf("%w: %w", ErrPermissionDenied, err)
				notify(Transition{State: StateFailed, Attempt: attempt, Kind: kind, Err: failErr})
				return zero, failErr
			}
			if reauth == nil {
				notify(Transition{State: StateFailed, Attempt: attempt, Kind: kind, Err: err})
				return zero, err
			}
			reauthUsed = true
			logger.Warn("権限エラーのため再認証を要求します", "attempt", attempt, "error", err)
			notify(Transition{State: StatePermissionRecovery, Attempt: attempt, Kind: kind, Err: err})
			if rErr := reauth(ctx); rErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					notify(Transition{State: StateFailed, Attempt: attempt, Kind: kind, Err: ctxErr})
					return zero, ctxErr
				}
				logger.Warn("再認証に失敗したため、このジョブを失敗として扱います", "attempt", attempt, "error", rErr)
				failErr := fmt.Errorf("再認証に失敗しました: %w (元のエラー: %w)", rErr, err)
				notify(Transition{State: StateFailed, Attempt: attempt, Kind: kind, Err: failErr})
				return zero, failErr
			}

		default:
			notify(Transition{State: StateFailed, Attempt: attempt, Kind: kind, Err: err})
			return zero, err
		}
	}
}
