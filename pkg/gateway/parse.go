package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// extractJSONArray はモデルの応答から JSON 配列部分を取り出します。
func extractJSONArray(raw string) string {
	raw = strings.TrimSpace(raw)

	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}

	// コードブロックが無い場合は最も外側の配列を探します。
	first := strings.Index(raw, "[")
	last := strings.LastIndex(raw, "]")
	if first != -1 && last > first {
		return raw[first : last+1]
	}
	return raw
}

// decodeJSONArray は応答を T の配列として解析します。空の配列はエラーです。
func decodeJSONArray[T any](raw string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &items); err != nil {
		return nil, fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("AIからの応答が空の配列でした (応答抜粋: %q)", truncateString(raw, 200))
	}
	return items, nil
}

// cleanSentence は1文だけを求めた応答から引用符やコードブロックを取り除きます。
func cleanSentence(raw string) string {
	s := strings.TrimSpace(raw)
	if matches := jsonBlockRegex.FindStringSubmatch(s); len(matches) > 1 {
		s = strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(strings.Trim(s, "\"'`“”"))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
