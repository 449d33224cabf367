package workflow

import (
	"errors"

	"github.com/shouni/go-carousel-kit/pkg/domain"
)

var (
	// ErrBusy は生成処理の実行中に別の操作が要求されたことを表します。
	ErrBusy = errors.New("生成処理の実行中です")
	// ErrInvalidState は現在の状態では受け付けられない操作であることを表します。
	ErrInvalidState = errors.New("現在の状態では実行できない操作です")
	// ErrIdeaNotFound は指定されたアイデアが存在しないことを表します。
	ErrIdeaNotFound = errors.New("指定されたアイデアが見つかりません")
	// ErrSlideNotFound は指定されたスライドが存在しないことを表します。
	ErrSlideNotFound = errors.New("指定されたスライドが見つかりません")
	// ErrSourceNotReady はスタイルの元となるスライドの画像が生成されていないことを表します。
	ErrSourceNotReady = errors.New("元のスライドの画像がまだ生成されていません")
	// ErrNoReauth は再認証フックが設定されていないことを表します。
	ErrNoReauth = errors.New("再認証フックが設定されていません")
)

// State はワークフローの状態のスナップショットです。
type State struct {
	RunID        string
	Status       domain.WorkflowStatus
	Ideas        []domain.Idea
	SelectedIdea *domain.Idea
	Slides       domain.Slides
	Images       []domain.ImageResult
	Config       domain.GenerationConfig
	LastError    string
}

// clone は呼び出し側に渡すためのディープコピーを返します。
func (s State) clone() State {
	out := s
	out.Ideas = append([]domain.Idea(nil), s.Ideas...)
	out.Slides = append(domain.Slides(nil), s.Slides...)
	if s.SelectedIdea != nil {
		idea := *s.SelectedIdea
		out.SelectedIdea = &idea
	}
	if s.Images != nil {
		out.Images = make([]domain.ImageResult, len(s.Images))
		for i, r := range s.Images {
			out.Images[i] = r.Clone()
		}
	}
	out.Config = s.Config.Clone()
	return out
}

// EventType はイベントの種類です。
type EventType string

const (
	EventStatus EventType = "status"
	EventImage  EventType = "image"
	EventRetry  EventType = "retry"
)

// Event はワークフローから外部へ通知される進捗です。
type Event struct {
	Type   EventType
	RunID  string
	Status domain.WorkflowStatus
	// Image は EventImage の場合に更新後の結果を保持します。
	Image *domain.ImageResult
	// SlideID, RetryState, Attempt は EventRetry の場合に設定されます。
	SlideID    int
	RetryState string
	Attempt    int
	Message    string
}

// Observer はイベントを受け取るコールバックです。ロックの外で呼び出されます。
type Observer func(Event)
