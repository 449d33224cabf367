package publisher

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-carousel-kit/pkg/domain"
)

type fakeWriter struct {
	mu    sync.Mutex
	files map[string]string
	types map[string]string
	fail  string
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{files: map[string]string{}, types: map[string]string{}}
}

func (w *fakeWriter) Write(_ context.Context, path string, r io.Reader, contentType string) error {
	if w.fail != "" && strings.HasSuffix(path, w.fail) {
		return errors.New("disk full")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = string(b)
	w.types[path] = contentType
	return nil
}

func testCarousel() Carousel {
	return Carousel{
		Title: "Risk First",
		Slides: domain.Slides{
			{ID: 1, Title: "Hook", Body: "Stop losing", VisualPrompt: "bold type"},
			{ID: 2, Title: "Sizing", Body: "Risk 1%", VisualPrompt: "scale"},
			{ID: 3, Title: "Journal", Body: "Write it down"},
		},
		Images: []domain.ImageResult{
			{SlideID: 1, Status: domain.ImageStatusSuccess, Data: []byte("one"), MimeType: "image/png"},
			{SlideID: 2, Status: domain.ImageStatusError, Message: "quota"},
			{SlideID: 3, Status: domain.ImageStatusSuccess, Data: []byte("three"), MimeType: "image/jpeg"},
		},
	}
}

func TestPublish(t *testing.T) {
	w := newFakeWriter()
	p := NewCarouselPublisher(w)

	res, err := p.Publish(context.Background(), testCarousel(), Options{OutputDir: "out"})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	wantImages := []string{"out/images/slide_1.png", "out/images/slide_3.jpg"}
	if diff := cmp.Diff(wantImages, res.ImagePaths); diff != "" {
		t.Errorf("ImagePaths mismatch (-want +got):\n%s", diff)
	}
	if res.MarkdownPath != "out/carousel.md" {
		t.Errorf("MarkdownPath = %q", res.MarkdownPath)
	}

	var written []string
	for k := range w.files {
		written = append(written, k)
	}
	sort.Strings(written)
	want := []string{"out/carousel.md", "out/images/slide_1.png", "out/images/slide_3.jpg"}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Errorf("written files mismatch (-want +got):\n%s", diff)
	}
	if w.files["out/images/slide_3.jpg"] != "three" || w.types["out/images/slide_3.jpg"] != "image/jpeg" {
		t.Errorf("slide_3 = %q (%s)", w.files["out/images/slide_3.jpg"], w.types["out/images/slide_3.jpg"])
	}
	if w.types["out/carousel.md"] != markdownMimeType {
		t.Errorf("markdown content type = %q", w.types["out/carousel.md"])
	}
}

func TestPublish_WriteError(t *testing.T) {
	w := newFakeWriter()
	w.fail = "slide_3.jpg"
	p := NewCarouselPublisher(w)

	if _, err := p.Publish(context.Background(), testCarousel(), Options{OutputDir: "out"}); err == nil {
		t.Fatal("Publish() error = nil, want error")
	}
	if _, ok := w.files["out/carousel.md"]; ok {
		t.Error("markdown should not be written after an image failure")
	}
}

func TestBuildMarkdown(t *testing.T) {
	c := testCarousel()
	byID := map[int]domain.ImageResult{}
	for _, img := range c.Images {
		byID[img.SlideID] = img
	}

	got := BuildMarkdown(c, byID)

	for _, want := range []string{
		"# Risk First\n",
		"## Slide 1: Hook\n\n![slide 1](images/slide_1.png)\n\nStop losing\n\n- visual: bold type\n",
		"## Slide 2: Sizing\n\n> image: error (not generated)\n\nRisk 1%\n\n- visual: scale\n- error: quota\n",
		"![slide 3](images/slide_3.jpg)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown does not contain %q\n---\n%s", want, got)
		}
	}

	t.Run("タイトル未指定", func(t *testing.T) {
		c := testCarousel()
		c.Title = ""
		if got := BuildMarkdown(c, nil); !strings.HasPrefix(got, "# Hook\n") {
			t.Errorf("got prefix %q", got[:10])
		}
	})
}
