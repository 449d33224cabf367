package pipeline

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/publisher"
	"github.com/shouni/go-carousel-kit/pkg/retry"
	"github.com/shouni/go-carousel-kit/pkg/workflow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB000"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

// NewProgressPrinter はワークフローのイベントを w に1行ずつ表示する Observer を返します。
func NewProgressPrinter(w io.Writer) workflow.Observer {
	var mu sync.Mutex
	return func(ev workflow.Event) {
		line := formatEvent(ev)
		if line == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, line)
	}
}

func formatEvent(ev workflow.Event) string {
	switch ev.Type {
	case workflow.EventStatus:
		if ev.Message != "" {
			return errorStyle.Render(fmt.Sprintf("■ %s: %s", ev.Status, ev.Message))
		}
		return titleStyle.Render(fmt.Sprintf("■ %s", ev.Status))

	case workflow.EventImage:
		if ev.Image == nil {
			return ""
		}
		img := ev.Image
		switch img.Status {
		case domain.ImageStatusLoading:
			return infoStyle.Render(fmt.Sprintf("  slide %d: generating...", img.SlideID))
		case domain.ImageStatusSuccess:
			return statusStyle.Render(fmt.Sprintf("  slide %d: done (%d bytes)", img.SlideID, len(img.Data)))
		case domain.ImageStatusError:
			return errorStyle.Render(fmt.Sprintf("  slide %d: failed: %s", img.SlideID, img.Message))
		}

	case workflow.EventRetry:
		switch retry.State(ev.RetryState) {
		case retry.StateBackoff:
			return warnStyle.Render(fmt.Sprintf("  slide %d: busy, retrying (attempt %d)", ev.SlideID, ev.Attempt))
		case retry.StatePermissionRecovery:
			return warnStyle.Render(fmt.Sprintf("  slide %d: permission denied, re-authenticating", ev.SlideID))
		}
	}
	return ""
}

// RenderIdeas はアイデアの一覧を番号付きで表示します。
func RenderIdeas(w io.Writer, ideas []domain.Idea) {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Ideas"))
	for i, idea := range ideas {
		fmt.Fprintf(&sb, "\n%d. %s\n   %s", i+1, idea.Title, infoStyle.Render(idea.Summary))
	}
	fmt.Fprintln(w, boxStyle.Render(sb.String()))
}

// RenderSlides はスライドの分解結果を表示します。
func RenderSlides(w io.Writer, slides domain.Slides) {
	for _, s := range slides {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Slide %d: %s", s.ID, s.Title)))
		fmt.Fprintln(w, s.Body)
		fmt.Fprintln(w)
	}
}

// RenderSummary は生成結果と保存先を表示します。
func RenderSummary(w io.Writer, state workflow.State, res publisher.PublishResult) {
	counts := domain.CountByStatus(state.Images)
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Carousel"))
	fmt.Fprintf(&sb, "\nslides:  %d", len(state.Slides))
	fmt.Fprintf(&sb, "\nsuccess: %s", statusStyle.Render(fmt.Sprint(counts[domain.ImageStatusSuccess])))
	if n := counts[domain.ImageStatusError]; n > 0 {
		fmt.Fprintf(&sb, "\nfailed:  %s", errorStyle.Render(fmt.Sprint(n)))
	}
	if n := counts[domain.ImageStatusPending]; n > 0 {
		fmt.Fprintf(&sb, "\nskipped: %s", warnStyle.Render(fmt.Sprint(n)))
	}
	fmt.Fprintf(&sb, "\nsaved:   %s", res.MarkdownPath)
	if state.LastError != "" {
		fmt.Fprintf(&sb, "\n%s", errorStyle.Render(state.LastError))
	}
	fmt.Fprintln(w, boxStyle.Render(sb.String()))
}
