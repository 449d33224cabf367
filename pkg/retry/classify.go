package retry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shouni/go-carousel-kit/pkg/gateway"
)

// Kind はリモート呼び出しの失敗の分類です。
type Kind int

const (
	KindOther Kind = iota
	KindRateLimited
	KindServiceUnavailable
	KindPermissionDenied
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindPermissionDenied:
		return "permission_denied"
	}
	return "other"
}

// Backoffable は待機してから再試行すべき分類かどうかを返します。
func (k Kind) Backoffable() bool {
	return k == KindRateLimited || k == KindServiceUnavailable
}

// 分類に使用する文字列マーカー（小文字で比較します）。
// プロバイダによっては本当のステータスが本文の文字列に埋もれているため、
// エラーメッセージと JSON 化したエラーの両方を走査します。
var (
	RateLimitMarkers   = []string{"429", "resource_exhausted", "too many requests", "rate limit", "ratelimit", "quota exceeded"}
	UnavailableMarkers = []string{"503", "unavailable", "overloaded"}
	PermissionMarkers  = []string{"403", "permission_denied", "permission denied", "forbidden"}
)

// Classify はエラーを分類します。
// RateLimited と ServiceUnavailable を先に判定し、次に PermissionDenied、いずれでもなければ Other です。
// コンテキストのキャンセルやタイムアウトは常に Other です。
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindOther
	}

	var code int
	var re *gateway.RemoteError
	if errors.As(err, &re) {
		code = re.Code
	}

	texts := []string{strings.ToLower(err.Error())}
	if b, mErr := json.Marshal(serializable(err, re)); mErr == nil {
		texts = append(texts, strings.ToLower(string(b)))
	}

	switch {
	case code == http.StatusTooManyRequests || containsAny(texts, RateLimitMarkers):
		return KindRateLimited
	case code == http.StatusServiceUnavailable || containsAny(texts, UnavailableMarkers):
		return KindServiceUnavailable
	case code == http.StatusForbidden || containsAny(texts, PermissionMarkers):
		return KindPermissionDenied
	}
	return KindOther
}

// serializable は JSON 化の対象を決めます。RemoteError があればその内容を優先します。
func serializable(err error, re *gateway.RemoteError) any {
	if re != nil {
		return re
	}
	return err
}

func containsAny(texts []string, markers []string) bool {
	for _, t := range texts {
		for _, m := range markers {
			if strings.Contains(t, m) {
				return true
			}
		}
	}
	return false
}
