package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// BuildFooterEntries は選択済みの SNS を保存順に "[アイコン] ハンドル" 形式へ射影します。
// 未選択のプラットフォームは出力に一切含めません。
func BuildFooterEntries(social domain.SocialConfig) []string {
	var entries []string
	for _, p := range social.Platforms {
		if !p.Selected {
			continue
		}
		label := strings.TrimSpace(p.IconName)
		if label == "" && strings.TrimSpace(p.Name) != "" {
			label = strings.TrimSpace(p.Name) + " Logo"
		}
		if label == "" {
			continue
		}

		handle := p.Handle
		if social.UseSameHandle {
			handle = social.MasterHandle
		}
		handle = strings.TrimSpace(handle)

		entry := "[" + label + "]"
		if handle != "" {
			entry += " " + handle
		}
		entries = append(entries, entry)
	}
	return entries
}

// BuildFooterInstruction はフッター用の指示文を返します。表示対象がない場合は空文字を返します。
func BuildFooterInstruction(social domain.SocialConfig) string {
	entries := BuildFooterEntries(social)
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("- Layout: Horizontal row at the very bottom.\n")
	fmt.Fprintf(&sb, "- Content: %s\n", strings.Join(entries, "   "))
	sb.WriteString("- IMPORTANT: Use actual minimalist icons for each listed platform. Do NOT write the platform names as text.\n")
	return sb.String()
}
