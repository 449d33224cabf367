package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/go-carousel-kit/pkg/config"
	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/gateway"
	"github.com/shouni/go-carousel-kit/pkg/parser"
	"github.com/shouni/go-carousel-kit/pkg/pipeline"
	"github.com/shouni/go-carousel-kit/pkg/prompts"
	"github.com/shouni/go-carousel-kit/pkg/retry"
)

// applyStylePrompt は「全スライドにスタイルを適用」で使う Custom スタイルの指示です。
const applyStylePrompt = "Keep the exact visual style of the attached reference slide: same background, color palette, typography and layout. Its design brief was: %s"

// ManagerArgs は Manager の初期化に必要な依存関係です。
type ManagerArgs struct {
	Config      config.Config
	Gateway     gateway.Gateway
	ImagePrompt prompts.ImagePrompt
	Retry       *retry.Controller
	Reauth      retry.ReauthFunc
	Observer    Observer
	// PickStyle は Random スタイルの抽選に使います。nil の場合は math/rand/v2 を使用します。
	PickStyle func(n int) int
	// Sleep は待機の実装です。nil の場合は retry.SleepContext を使用します。
	Sleep func(ctx context.Context, d time.Duration) error
}

// Manager は、カルーセル生成の状態遷移と正規のコレクションを管理します。
// 状態を変更するのは Manager だけで、パイプラインからの更新はコールバック経由で反映します。
type Manager struct {
	cfg       config.Config
	gateway   gateway.Gateway
	pipeline  *pipeline.SequentialPipeline
	reauth    retry.ReauthFunc
	observer  Observer
	pickStyle func(n int) int
	sleep     func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state State
}

// New は、ManagerArgs を基に新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	if args.Gateway == nil {
		return nil, errors.New("gateway は必須です")
	}

	imagePrompt := args.ImagePrompt
	if imagePrompt == nil {
		imagePrompt = prompts.NewImagePromptBuilder()
	}
	rc := args.Retry
	if rc == nil {
		rc = retry.NewController(args.Config.MaxAttempts, args.Config.BackoffBase)
	}
	sleep := args.Sleep
	if sleep == nil {
		sleep = retry.SleepContext
	}

	pl := pipeline.NewSequentialPipeline(args.Gateway, imagePrompt, rc, args.Config.ImagePacing)
	pl.Sleep = sleep

	m := &Manager{
		cfg:       args.Config,
		gateway:   args.Gateway,
		pipeline:  pl,
		reauth:    args.Reauth,
		observer:  args.Observer,
		pickStyle: args.PickStyle,
		sleep:     sleep,
		state:     State{Status: domain.StatusIdle},
	}
	pl.OnTransition = m.onRetryTransition
	return m, nil
}

// Snapshot は現在の状態のコピーを返します。
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// SubmitTopic はキーワードからアイデアを生成し、IdeasReady に遷移します。
// 生成中以外のどの状態からでも呼び出すことができ、既存のコレクションはすべて置き換えられます。
func (m *Manager) SubmitTopic(ctx context.Context, topic string, lang domain.Language) ([]domain.Idea, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("キーワードが空です")
	}
	if lang == "" {
		lang = domain.LanguageEN
	}

	runID, err := m.begin(domain.StatusGeneratingIdeas, func(s *State) {
		*s = State{Config: domain.GenerationConfig{Language: lang}}
	})
	if err != nil {
		return nil, err
	}
	logger := slog.With("run_id", runID)
	logger.Info("アイデアを生成します", "topic", topic, "language", lang)

	ideas, err := m.gateway.GenerateIdeas(ctx, topic, lang)
	if err != nil {
		m.fail(fmt.Errorf("アイデアの生成に失敗しました: %w", err))
		return nil, err
	}

	m.transition(domain.StatusIdeasReady, func(s *State) {
		s.Ideas = ideas
	})
	logger.Info("アイデアを生成しました", "count", len(ideas))
	return append([]domain.Idea(nil), ideas...), nil
}

// SelectIdea は選択されたアイデアからスライドのテキストを生成し、続けて全スライドの画像を生成します。
// cfg はこの時点でスナップショットされ、以降の実行には影響しません。
func (m *Manager) SelectIdea(ctx context.Context, ideaID int, cfg domain.GenerationConfig) ([]domain.ImageResult, error) {
	snapshot := m.snapshotConfig(cfg)

	var idea domain.Idea
	runID, err := m.begin(domain.StatusGeneratingSlides, func(s *State) {
		s.Config = snapshot
		s.SelectedIdea = &idea
	}, func(s State) error {
		if s.Status != domain.StatusIdeasReady {
			return fmt.Errorf("%w: %s", ErrInvalidState, s.Status)
		}
		for _, i := range s.Ideas {
			if i.ID == ideaID {
				idea = i
				return nil
			}
		}
		return fmt.Errorf("%w: id=%d", ErrIdeaNotFound, ideaID)
	})
	if err != nil {
		return nil, err
	}
	logger := slog.With("run_id", runID)
	logger.Info("スライドのテキストを生成します", "idea_id", idea.ID, "title", idea.Title, "style", snapshot.Style)

	slides, err := m.gateway.GenerateSlideText(ctx, idea, snapshot.Language)
	if err != nil {
		m.fail(fmt.Errorf("スライドの生成に失敗しました: %w", err))
		return nil, err
	}

	return m.generateImages(ctx, runID, slides.Renumber(), snapshot)
}

// SubmitCustomText は自由入力テキストをスライドに分解し、アイデアの工程を飛ばして画像まで生成します。
// 各スライドのビジュアル指示は TextPacing の間隔を空けて1枚ずつ生成します。
func (m *Manager) SubmitCustomText(ctx context.Context, text string, cfg domain.GenerationConfig) ([]domain.ImageResult, error) {
	snapshot := m.snapshotConfig(cfg)

	runID, err := m.begin(domain.StatusGeneratingSlides, func(s *State) {
		*s = State{Config: snapshot}
	})
	if err != nil {
		return nil, err
	}
	logger := slog.With("run_id", runID)

	slides, err := parser.ParseFreeform(text)
	if err != nil {
		m.fail(err)
		return nil, err
	}
	logger.Info("入力テキストをスライドに分解しました", "slides", len(slides))

	for i := range slides {
		if i > 0 {
			if err := m.sleep(ctx, m.cfg.TextPacing); err != nil {
				m.fail(err)
				return nil, err
			}
		}

		vp, err := m.gateway.GenerateVisualPrompt(ctx, slides[i].Title, slides[i].Body)
		if err != nil {
			if ctx.Err() != nil {
				m.fail(ctx.Err())
				return nil, ctx.Err()
			}
			// 画像生成は続行できるため、タイトルを元にした指示で代用します。
			logger.Warn("ビジュアル指示の生成に失敗したため、タイトルで代用します", "slide_id", slides[i].ID, "error", err)
			vp = slides[i].Title
		}
		slides[i].VisualPrompt = vp
	}

	return m.generateImages(ctx, runID, slides, snapshot)
}

// generateImages は GeneratingImages に遷移してパイプラインを実行します。
func (m *Manager) generateImages(ctx context.Context, runID string, slides domain.Slides, cfg domain.GenerationConfig) ([]domain.ImageResult, error) {
	m.transition(domain.StatusGeneratingImages, func(s *State) {
		s.Slides = slides
		s.Images = slides.NewPendingResults()
	})

	results, err := m.pipeline.Run(ctx, slides, cfg, m.reauth, m.updateFor(runID))
	if err != nil {
		m.fail(err)
		return results, err
	}

	m.transition(domain.StatusCompleted, nil)
	counts := domain.CountByStatus(results)
	slog.Info("カルーセルの生成が完了しました", "run_id", runID,
		"success", counts[domain.ImageStatusSuccess], "error", counts[domain.ImageStatusError])
	return results, nil
}

// RepromptSlide は完了後に1枚のスライドのビジュアル指示を差し替えて再生成します。ワークフローの状態は変わりません。
// visualPrompt が空の場合は既存の指示のまま再生成します。
func (m *Manager) RepromptSlide(ctx context.Context, slideID int, visualPrompt string) (domain.ImageResult, error) {
	m.mu.Lock()
	if m.state.Status != domain.StatusCompleted {
		status := m.state.Status
		m.mu.Unlock()
		return domain.ImageResult{}, fmt.Errorf("%w: %s", ErrInvalidState, status)
	}
	idx := -1
	for i, s := range m.state.Slides {
		if s.ID == slideID {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return domain.ImageResult{}, fmt.Errorf("%w: id=%d", ErrSlideNotFound, slideID)
	}
	if vp := strings.TrimSpace(visualPrompt); vp != "" {
		m.state.Slides[idx].VisualPrompt = vp
	}
	slide := m.state.Slides[idx]
	cfg := m.state.Config.Clone()
	m.state.LastError = ""
	runID := m.state.RunID
	m.mu.Unlock()

	slog.Info("スライドを再生成します", "run_id", runID, "slide_id", slideID)
	res, err := m.pipeline.RunOne(ctx, slide, cfg, m.reauth, m.updateFor(runID))
	if err != nil {
		m.recordError(runID, err)
	}
	return res, err
}

// ApplyStyleToAll は成功済みのスライドの画像とビジュアル指示から Custom スタイルを作り、全スライドを再生成します。
// 実行中は一時的に GeneratingImages になり、終了後は Completed に戻ります。
func (m *Manager) ApplyStyleToAll(ctx context.Context, sourceSlideID int) ([]domain.ImageResult, error) {
	var slides domain.Slides
	var cfg domain.GenerationConfig
	runID, err := m.beginEdit(func(s *State) error {
		source, ok := s.Slides.FindByID(sourceSlideID)
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrSlideNotFound, sourceSlideID)
		}
		var img *domain.ImageResult
		for i := range s.Images {
			if s.Images[i].SlideID == sourceSlideID {
				img = &s.Images[i]
			}
		}
		if img == nil || img.Status != domain.ImageStatusSuccess || len(img.Data) == 0 {
			return fmt.Errorf("%w: id=%d", ErrSourceNotReady, sourceSlideID)
		}

		cfg = s.Config.Clone()
		cfg.Style = domain.StyleCustom
		cfg.Custom = domain.CustomStyleConfig{
			Prompt:            fmt.Sprintf(applyStylePrompt, source.VisualPrompt),
			ReferenceImage:    append([]byte(nil), img.Data...),
			ReferenceMimeType: img.MimeType,
		}
		s.Config = cfg
		slides = append(domain.Slides(nil), s.Slides...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("全スライドにスタイルを適用します", "run_id", runID, "source_slide_id", sourceSlideID, "slides", len(slides))
	_, err = m.pipeline.Run(ctx, slides, cfg, m.reauth, m.updateFor(runID))

	m.transition(domain.StatusCompleted, func(s *State) {
		if err != nil {
			s.LastError = userMessage(err)
		}
	})
	return m.Snapshot().Images, err
}

// Reauthenticate は実行中以外の任意のタイミングで再認証フックを呼び出します。
func (m *Manager) Reauthenticate(ctx context.Context) error {
	if m.reauth == nil {
		return ErrNoReauth
	}
	m.mu.Lock()
	busy := m.state.Status.IsBusy()
	m.mu.Unlock()
	if busy {
		return ErrBusy
	}
	return m.reauth(ctx)
}

// BackToIdeas はアイデア一覧に戻ります。アイデアは保持し、スライドと画像は破棄します。
func (m *Manager) BackToIdeas() error {
	m.mu.Lock()
	s := m.state
	if s.Status.IsBusy() {
		m.mu.Unlock()
		return ErrBusy
	}
	if len(s.Ideas) == 0 || (s.Status != domain.StatusCompleted && s.Status != domain.StatusIdle && s.Status != domain.StatusIdeasReady) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidState, s.Status)
	}
	m.mu.Unlock()

	m.transition(domain.StatusIdeasReady, func(s *State) {
		s.SelectedIdea = nil
		s.Slides = nil
		s.Images = nil
		s.LastError = ""
	})
	return nil
}

// Reset はすべてのコレクションを破棄して Idle に戻ります。
func (m *Manager) Reset() error {
	m.mu.Lock()
	if m.state.Status.IsBusy() {
		m.mu.Unlock()
		return ErrBusy
	}
	m.mu.Unlock()

	m.transition(domain.StatusIdle, func(s *State) {
		*s = State{}
	})
	return nil
}

// snapshotConfig は実行開始時の設定を確定します。Random スタイルはここで一度だけ解決されます。
func (m *Manager) snapshotConfig(cfg domain.GenerationConfig) domain.GenerationConfig {
	c := cfg.Clone()
	c.Style = prompts.ResolveStyle(c.Style, m.pickStyle)
	c.AspectRatio = domain.NormalizeAspectRatio(c.AspectRatio)
	if c.Language == "" {
		c.Language = domain.LanguageEN
	}
	if c.ImageModel == "" {
		c.ImageModel = m.cfg.ImageModel
	}
	return c
}

// begin は新しい実行を開始します。生成中であれば ErrBusy を返します。
// check が指定された場合、状態を変更する前に検証します。
func (m *Manager) begin(status domain.WorkflowStatus, mutate func(*State), checks ...func(State) error) (string, error) {
	m.mu.Lock()
	if m.state.Status.IsBusy() {
		m.mu.Unlock()
		return "", ErrBusy
	}
	for _, check := range checks {
		if err := check(m.state); err != nil {
			m.mu.Unlock()
			return "", err
		}
	}
	if mutate != nil {
		mutate(&m.state)
	}
	m.state.RunID = uuid.NewString()
	m.state.Status = status
	m.state.LastError = ""
	ev := Event{Type: EventStatus, RunID: m.state.RunID, Status: status}
	m.mu.Unlock()

	m.emit(ev)
	return ev.RunID, nil
}

// beginEdit は完了後の一括編集を開始し、GeneratingImages に遷移します。
// 新しい RunID を発行するため、編集前に始まった再生成の結果は反映されません。
func (m *Manager) beginEdit(prepare func(*State) error) (string, error) {
	m.mu.Lock()
	if m.state.Status.IsBusy() {
		m.mu.Unlock()
		return "", ErrBusy
	}
	if m.state.Status != domain.StatusCompleted {
		status := m.state.Status
		m.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrInvalidState, status)
	}
	if err := prepare(&m.state); err != nil {
		m.mu.Unlock()
		return "", err
	}
	m.state.RunID = uuid.NewString()
	m.state.Status = domain.StatusGeneratingImages
	m.state.LastError = ""
	ev := Event{Type: EventStatus, RunID: m.state.RunID, Status: m.state.Status}
	m.mu.Unlock()

	m.emit(ev)
	return ev.RunID, nil
}

// transition は状態を変更して通知します。
func (m *Manager) transition(status domain.WorkflowStatus, mutate func(*State)) {
	m.mu.Lock()
	if mutate != nil {
		mutate(&m.state)
	}
	m.state.Status = status
	ev := Event{Type: EventStatus, RunID: m.state.RunID, Status: status, Message: m.state.LastError}
	m.mu.Unlock()

	m.emit(ev)
}

// fail は Idle に戻り、ユーザー向けのエラーメッセージを記録します。コレクションは表示用に保持します。
func (m *Manager) fail(err error) {
	msg := userMessage(err)
	slog.Error("ワークフローを中断しました", "run_id", m.Snapshot().RunID, "error", err)
	m.transition(domain.StatusIdle, func(s *State) {
		s.LastError = msg
	})
}

// recordError は状態を変えずにエラーメッセージだけを記録します。runID が現在の実行と異なる場合は破棄します。
func (m *Manager) recordError(runID string, err error) {
	m.mu.Lock()
	if m.state.RunID != runID {
		m.mu.Unlock()
		slog.Warn("終了済みの実行のエラーを破棄しました", "run_id", runID, "error", err)
		return
	}
	m.state.LastError = userMessage(err)
	ev := Event{Type: EventStatus, RunID: m.state.RunID, Status: m.state.Status, Message: m.state.LastError}
	m.mu.Unlock()
	m.emit(ev)
}

// updateFor は runID の実行に紐づいた更新関数を返します。
func (m *Manager) updateFor(runID string) pipeline.UpdateFunc {
	return func(r domain.ImageResult) {
		m.applyResult(runID, r)
	}
}

// applyResult はパイプラインからの更新を正規のコレクションへ反映します。
// Reset や新しい実行の開始後に届いた古い実行の結果は破棄します。
func (m *Manager) applyResult(runID string, r domain.ImageResult) {
	m.mu.Lock()
	if m.state.RunID != runID {
		m.mu.Unlock()
		slog.Debug("終了済みの実行の結果を破棄しました", "run_id", runID, "slide_id", r.SlideID)
		return
	}
	for i := range m.state.Images {
		if m.state.Images[i].SlideID == r.SlideID {
			m.state.Images[i] = r
			break
		}
	}
	m.mu.Unlock()

	img := r.Clone()
	m.emit(Event{Type: EventImage, RunID: runID, SlideID: r.SlideID, Image: &img})
}

func (m *Manager) onRetryTransition(slideID int, state string, attempt int) {
	m.emit(Event{Type: EventRetry, SlideID: slideID, RetryState: state, Attempt: attempt})
}

func (m *Manager) emit(ev Event) {
	if m.observer != nil {
		m.observer(ev)
	}
}

// userMessage はエラーをユーザー向けのメッセージに変換します。
func userMessage(err error) string {
	if errors.Is(err, retry.ErrPermissionDenied) {
		return retry.PermissionDeniedMessage
	}
	return err.Error()
}

var _ Workflow = (*Manager)(nil)
