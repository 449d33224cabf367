package builder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shouni/go-carousel-kit/pkg/retry"
)

// rebinder は新しい API キーでクライアントを作り直せる対象です。
type rebinder interface {
	Rebind(ctx context.Context, apiKey string) error
}

// errNoKey は再認証で API キーが入力されなかったことを表します。
var errNoKey = errors.New("API キーが入力されませんでした")

// NewPromptReauth は、権限エラー時に課金が有効なプロジェクトの API キーを対話的に受け取り、
// ゲートウェイを再構築する再認証フックを返します。in が nil の場合は nil を返し、再認証を行いません。
//
// in の読み取りは最初の呼び出しで起動する1つの goroutine だけが行います。
// キャンセルされた呼び出しの後に入力された行は、次の呼び出しが受け取ります。
func NewPromptReauth(target rebinder, in io.Reader, out io.Writer) retry.ReauthFunc {
	if in == nil {
		return nil
	}
	if out == nil {
		out = io.Discard
	}

	var once sync.Once
	lines := make(chan string)
	startReader := func() {
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()
	}

	return func(ctx context.Context) error {
		fmt.Fprintln(out, retry.PermissionDeniedMessage)
		fmt.Fprint(out, "課金が有効なプロジェクトの GEMINI_API_KEY を入力してください: ")
		once.Do(startReader)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			key := strings.TrimSpace(line)
			if !ok || key == "" {
				return errNoKey
			}
			return target.Rebind(ctx, key)
		}
	}
}
