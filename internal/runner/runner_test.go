package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-carousel-kit/internal/config"
	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/workflow"
)

// fakeWorkflow は呼び出し内容を記録する workflow.Workflow の実装です。
type fakeWorkflow struct {
	workflow.Workflow

	state      workflow.State
	topicErr   error
	selectedID int
	text       string
	cfg        domain.GenerationConfig
}

func (f *fakeWorkflow) SubmitTopic(_ context.Context, topic string, _ domain.Language) ([]domain.Idea, error) {
	if f.topicErr != nil {
		return nil, f.topicErr
	}
	f.state.Ideas = []domain.Idea{{ID: 1, Title: topic + " A"}, {ID: 2, Title: topic + " B"}}
	return f.state.Ideas, nil
}

func (f *fakeWorkflow) SelectIdea(_ context.Context, ideaID int, cfg domain.GenerationConfig) ([]domain.ImageResult, error) {
	f.selectedID = ideaID
	f.cfg = cfg
	return []domain.ImageResult{{SlideID: 1, Status: domain.ImageStatusSuccess}}, nil
}

func (f *fakeWorkflow) SubmitCustomText(_ context.Context, text string, cfg domain.GenerationConfig) ([]domain.ImageResult, error) {
	f.text = text
	f.cfg = cfg
	return nil, nil
}

func (f *fakeWorkflow) Snapshot() workflow.State {
	return f.state
}

func TestDefaultIdeaRunner(t *testing.T) {
	wf := &fakeWorkflow{}
	ideas, err := NewDefaultIdeaRunner(wf).Run(context.Background(), "fx", domain.LanguageEN)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(ideas) != 2 {
		t.Errorf("ideas = %d, want 2", len(ideas))
	}

	wf.topicErr = errors.New("quota")
	if _, err := NewDefaultIdeaRunner(wf).Run(context.Background(), "fx", domain.LanguageEN); err == nil {
		t.Error("error = nil, want error")
	}
}

func TestDefaultSlideRunner_RunIdea(t *testing.T) {
	wf := &fakeWorkflow{}
	if _, err := wf.SubmitTopic(context.Background(), "fx", domain.LanguageEN); err != nil {
		t.Fatal(err)
	}
	cfg := domain.GenerationConfig{Style: domain.StyleModern}
	r := NewDefaultSlideRunner(wf, nil, cfg)

	if _, err := r.RunIdea(context.Background(), 2); err != nil {
		t.Fatalf("RunIdea() error = %v", err)
	}
	if wf.selectedID != 2 {
		t.Errorf("selected = %d, want 2", wf.selectedID)
	}

	for _, idx := range []int{0, 3} {
		if _, err := r.RunIdea(context.Background(), idx); err == nil {
			t.Errorf("RunIdea(%d) error = nil, want error", idx)
		}
	}
}

func TestDefaultSlideRunner_RunTextFromStdin(t *testing.T) {
	wf := &fakeWorkflow{}
	r := NewDefaultSlideRunner(wf, nil, domain.GenerationConfig{})
	r.stdin = strings.NewReader("Cover\nSlide 1: Next\nbody")

	if _, err := r.RunText(context.Background(), "-"); err != nil {
		t.Fatalf("RunText() error = %v", err)
	}
	if wf.text != "Cover\nSlide 1: Next\nbody" {
		t.Errorf("text = %q", wf.text)
	}
}

func TestBuildGenerationConfig(t *testing.T) {
	tests := []struct {
		name      string
		opts      config.GenerateOptions
		wantStyle domain.Style
		wantLang  domain.Language
		wantRatio string
		wantErr   bool
	}{
		{
			name:      "既定値",
			opts:      config.GenerateOptions{},
			wantStyle: domain.StyleOriginal,
			wantLang:  domain.LanguageEN,
			wantRatio: "1:1",
		},
		{
			name:      "タイ語と縦長",
			opts:      config.GenerateOptions{Language: "th", AspectRatio: "9:16", Style: "cyberpunk"},
			wantStyle: domain.StyleCyberpunk,
			wantLang:  domain.LanguageTH,
			wantRatio: "9:16",
		},
		{
			name:      "カスタム指示のみ",
			opts:      config.GenerateOptions{CustomPrompt: "pastel watercolor"},
			wantStyle: domain.StyleCustom,
			wantLang:  domain.LanguageEN,
			wantRatio: "1:1",
		},
		{
			name:    "未知のスタイル",
			opts:    config.GenerateOptions{Style: "baroque"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildGenerationConfig(context.Background(), tt.opts, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff([]string{string(tt.wantStyle), string(tt.wantLang), tt.wantRatio},
				[]string{string(got.Style), string(got.Language), got.AspectRatio}); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("共通ハンドル", func(t *testing.T) {
		got, err := BuildGenerationConfig(context.Background(), config.GenerateOptions{Handle: "me.trader"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Social.UseSameHandle || got.Social.MasterHandle != "me.trader" {
			t.Errorf("Social = %+v", got.Social)
		}
	})
}
