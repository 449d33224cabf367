package builder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeRebinder struct {
	keys []string
	err  error
}

func (f *fakeRebinder) Rebind(_ context.Context, apiKey string) error {
	f.keys = append(f.keys, apiKey)
	return f.err
}

func TestNewPromptReauth(t *testing.T) {
	t.Run("入力されたキーで再構築", func(t *testing.T) {
		rb := &fakeRebinder{}
		var out bytes.Buffer
		reauth := NewPromptReauth(rb, strings.NewReader("  new-key \n"), &out)

		if err := reauth(context.Background()); err != nil {
			t.Fatalf("reauth() error = %v", err)
		}
		if len(rb.keys) != 1 || rb.keys[0] != "new-key" {
			t.Errorf("keys = %v, want [new-key]", rb.keys)
		}
		if !strings.Contains(out.String(), "Permission denied") {
			t.Errorf("output = %q, want the permission message", out.String())
		}
	})

	t.Run("空入力", func(t *testing.T) {
		rb := &fakeRebinder{}
		reauth := NewPromptReauth(rb, strings.NewReader("\n"), nil)
		if err := reauth(context.Background()); !errors.Is(err, errNoKey) {
			t.Errorf("error = %v, want errNoKey", err)
		}
		if len(rb.keys) != 0 {
			t.Errorf("Rebind should not be called, got %v", rb.keys)
		}
	})

	t.Run("EOF", func(t *testing.T) {
		reauth := NewPromptReauth(&fakeRebinder{}, strings.NewReader(""), nil)
		if err := reauth(context.Background()); !errors.Is(err, errNoKey) {
			t.Errorf("error = %v, want errNoKey", err)
		}
	})

	t.Run("再構築の失敗", func(t *testing.T) {
		rb := &fakeRebinder{err: errors.New("invalid key")}
		reauth := NewPromptReauth(rb, strings.NewReader("bad\n"), nil)
		if err := reauth(context.Background()); err == nil {
			t.Error("error = nil, want error")
		}
	})

	t.Run("キャンセル後の入力は次の呼び出しが受け取ること", func(t *testing.T) {
		rb := &fakeRebinder{}
		pr, pw := io.Pipe()
		defer pw.Close()
		reauth := NewPromptReauth(rb, pr, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := reauth(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}

		go func() {
			_, _ = io.WriteString(pw, "second-key\n")
		}()
		if err := reauth(context.Background()); err != nil {
			t.Fatalf("reauth() error = %v", err)
		}
		if len(rb.keys) != 1 || rb.keys[0] != "second-key" {
			t.Errorf("keys = %v, want [second-key]", rb.keys)
		}

		pw.Close()
		if err := reauth(context.Background()); !errors.Is(err, errNoKey) {
			t.Errorf("error after close = %v, want errNoKey", err)
		}
	})

	t.Run("入力なし", func(t *testing.T) {
		if NewPromptReauth(&fakeRebinder{}, nil, nil) != nil {
			t.Error("want nil hook")
		}
	})
}
