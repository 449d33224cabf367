package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-carousel-kit/pkg/gateway"
)

var (
	errRateLimited = &gateway.RemoteError{Code: 429, Status: "RESOURCE_EXHAUSTED"}
	errUnavailable = &gateway.RemoteError{Code: 503, Status: "UNAVAILABLE"}
	errPermission  = &gateway.RemoteError{Code: 403, Status: "PERMISSION_DENIED"}
	errOther       = &gateway.RemoteError{Code: 400, Status: "INVALID_ARGUMENT"}
)

// scriptedJob は呼び出しごとに決められたエラーを返すジョブです。nil なら成功です。
type scriptedJob struct {
	errs  []error
	calls int
}

func (j *scriptedJob) run(context.Context) (string, error) {
	i := j.calls
	j.calls++
	if i < len(j.errs) && j.errs[i] != nil {
		return "", j.errs[i]
	}
	if i >= len(j.errs) && len(j.errs) > 0 && j.errs[len(j.errs)-1] != nil {
		return "", j.errs[len(j.errs)-1]
	}
	return "ok", nil
}

func newTestController(sleeps *[]time.Duration) *Controller {
	c := NewController(5, 2*time.Second)
	c.Sleep = func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return c
}

func TestDo_BackoffThenSuccess(t *testing.T) {
	var sleeps []time.Duration
	c := newTestController(&sleeps)
	job := &scriptedJob{errs: []error{errRateLimited, errUnavailable, nil}}

	got, err := Do(context.Background(), c, job.run, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || job.calls != 3 {
		t.Errorf("got %q after %d calls", got, job.calls)
	}
	if diff := cmp.Diff([]time.Duration{2 * time.Second, 4 * time.Second}, sleeps); diff != "" {
		t.Errorf("待機時間が線形ではありません (-want +got):\n%s", diff)
	}
}

func TestDo_NeverExceedsMaxAttempts(t *testing.T) {
	for _, e := range []error{errRateLimited, errUnavailable} {
		t.Run(e.Error(), func(t *testing.T) {
			var sleeps []time.Duration
			c := newTestController(&sleeps)
			job := &scriptedJob{errs: []error{e}}

			_, err := Do(context.Background(), c, job.run, nil, nil)
			if !errors.Is(err, ErrAttemptsExhausted) {
				t.Fatalf("err = %v, want ErrAttemptsExhausted", err)
			}
			if errors.Is(err, ErrPermissionDenied) {
				t.Error("レート制限の枯渇がパイプライン中断扱いになっています")
			}
			if job.calls != 5 {
				t.Errorf("呼び出し回数 = %d, want 5", job.calls)
			}
			if len(sleeps) != 4 {
				t.Errorf("待機回数 = %d, want 4", len(sleeps))
			}
		})
	}
}

func TestDo_OtherFailsImmediately(t *testing.T) {
	var sleeps []time.Duration
	c := newTestController(&sleeps)
	job := &scriptedJob{errs: []error{errOther, nil}}
	reauthCalls := 0

	_, err := Do(context.Background(), c, job.run, func(context.Context) error { reauthCalls++; return nil }, nil)
	if !errors.Is(err, errOther) {
		t.Fatalf("err = %v", err)
	}
	if job.calls != 1 || len(sleeps) != 0 || reauthCalls != 0 {
		t.Errorf("calls=%d sleeps=%d reauth=%d", job.calls, len(sleeps), reauthCalls)
	}
}

func TestDo_PermissionRecovery(t *testing.T) {
	t.Run("再認証後の即時再試行が成功すること", func(t *testing.T) {
		var sleeps []time.Duration
		c := newTestController(&sleeps)
		job := &scriptedJob{errs: []error{errPermission, nil}}
		reauthCalls := 0

		var states []State
		observe := func(tr Transition) { states = append(states, tr.State) }

		got, err := Do(context.Background(), c, job.run, func(context.Context) error { reauthCalls++; return nil }, observe)
		if err != nil || got != "ok" {
			t.Fatalf("got %q, err %v", got, err)
		}
		if reauthCalls != 1 || job.calls != 2 {
			t.Errorf("reauth=%d calls=%d", reauthCalls, job.calls)
		}
		if len(sleeps) != 0 {
			t.Errorf("再認証後に待機しています: %v", sleeps)
		}
		want := []State{StateAttempting, StatePermissionRecovery, StateAttempting, StateSucceeded}
		if diff := cmp.Diff(want, states); diff != "" {
			t.Errorf("状態遷移 (-want +got):\n%s", diff)
		}
	})

	t.Run("再認証後も権限エラーなら致命的エラーになること", func(t *testing.T) {
		var sleeps []time.Duration
		c := newTestController(&sleeps)
		job := &scriptedJob{errs: []error{errPermission, errPermission, nil}}
		reauthCalls := 0

		_, err := Do(context.Background(), c, job.run, func(context.Context) error { reauthCalls++; return nil }, nil)
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("err = %v, want ErrPermissionDenied", err)
		}
		if reauthCalls != 1 || job.calls != 2 {
			t.Errorf("reauth=%d calls=%d", reauthCalls, job.calls)
		}
	})

	t.Run("再認証フックの失敗はこのジョブだけの失敗になること", func(t *testing.T) {
		var sleeps []time.Duration
		c := newTestController(&sleeps)
		job := &scriptedJob{errs: []error{errPermission, nil}}
		hookErr := errors.New("cancelled by user")

		var states []State
		observe := func(tr Transition) { states = append(states, tr.State) }
		_, err := Do(context.Background(), c, job.run, func(context.Context) error { return hookErr }, observe)
		if err == nil {
			t.Fatal("err = nil, want error")
		}
		if errors.Is(err, ErrPermissionDenied) {
			t.Errorf("err = %v, must not be ErrPermissionDenied", err)
		}
		if !errors.Is(err, hookErr) || !errors.Is(err, errPermission) {
			t.Errorf("err = %v, want to wrap both the hook error and the original error", err)
		}
		if job.calls != 1 {
			t.Errorf("calls = %d", job.calls)
		}
		want := []State{StateAttempting, StatePermissionRecovery, StateFailed}
		if diff := cmp.Diff(want, states); diff != "" {
			t.Errorf("states mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("再認証フックが無い場合はこのジョブだけの失敗になること", func(t *testing.T) {
		var sleeps []time.Duration
		c := newTestController(&sleeps)
		job := &scriptedJob{errs: []error{errPermission}}

		_, err := Do(context.Background(), c, job.run, nil, nil)
		if err == nil {
			t.Fatal("err = nil, want error")
		}
		if errors.Is(err, ErrPermissionDenied) {
			t.Errorf("err = %v, must not be ErrPermissionDenied", err)
		}
		if !errors.Is(err, errPermission) {
			t.Errorf("err = %v, want the original error", err)
		}
		if job.calls != 1 || len(sleeps) != 0 {
			t.Errorf("calls=%d sleeps=%d", job.calls, len(sleeps))
		}
	})

	t.Run("再認証後のレート制限は通常どおり待機すること", func(t *testing.T) {
		var sleeps []time.Duration
		c := newTestController(&sleeps)
		job := &scriptedJob{errs: []error{errPermission, errRateLimited, nil}}

		if _, err := Do(context.Background(), c, job.run, func(context.Context) error { return nil }, nil); err != nil {
			t.Fatalf("err = %v", err)
		}
		if diff := cmp.Diff([]time.Duration{4 * time.Second}, sleeps); diff != "" {
			t.Errorf("sleeps (-want +got):\n%s", diff)
		}
	})
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewController(5, time.Hour)
	job := func(context.Context) (int, error) {
		cancel()
		return 0, errRateLimited
	}

	if _, err := Do(ctx, c, job, nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if err := SleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("err = %v", err)
	}
}
