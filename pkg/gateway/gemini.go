package gateway

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shouni/go-carousel-kit/pkg/asset"
	"github.com/shouni/go-carousel-kit/pkg/config"
	"github.com/shouni/go-carousel-kit/pkg/domain"
	"github.com/shouni/go-carousel-kit/pkg/prompts"

	"github.com/patrickmn/go-cache"
	imgdom "github.com/shouni/gemini-image-kit/pkg/domain"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	defaultGeminiTemperature = float32(0.7)
	defaultRateBurst         = 2
	defaultCacheExpiration   = 30 * time.Minute
	cacheCleanupInterval     = 15 * time.Minute
	defaultTTL               = 5 * time.Minute
)

// textFunc はテキスト生成の呼び出しです。
type textFunc func(ctx context.Context, prompt, model string) (string, error)

// panelGenerator は imagekit.ImageGenerator のうち1枚生成に必要な部分です。
type panelGenerator interface {
	GenerateMangaPanel(ctx context.Context, req imgdom.ImageGenerationRequest) (*imgdom.ImageResponse, error)
}

// GeminiArgs は GeminiGateway の初期化に必要な依存関係です。
type GeminiArgs struct {
	Config     config.Config
	HTTPClient httpkit.ClientInterface
	Reader     remoteio.InputReader
	Writer     remoteio.OutputWriter
	TextPrompt prompts.TextPrompt
}

// GeminiGateway は Gemini API を用いて Gateway を実装します。
// すべての呼び出しは共通のレートリミッターを通過します。
type GeminiGateway struct {
	cfg        config.Config
	textPrompt prompts.TextPrompt
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
	writer     remoteio.OutputWriter
	limiter    *rate.Limiter
	refCache   *cache.Cache

	mu           sync.RWMutex
	text         textFunc
	newGenerator func(model string) (panelGenerator, error)
	generators   map[string]panelGenerator
}

// NewGeminiGateway は API キーからクライアント群を構築して GeminiGateway を返します。
func NewGeminiGateway(ctx context.Context, args GeminiArgs) (*GeminiGateway, error) {
	if args.HTTPClient == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}
	if args.Reader == nil {
		return nil, fmt.Errorf("InputReader は必須です")
	}
	if args.Writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}

	textPrompt := args.TextPrompt
	if textPrompt == nil {
		pb, err := prompts.NewTextPromptBuilder()
		if err != nil {
			return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
		}
		textPrompt = pb
	}

	g := newGateway(args.Config, textPrompt)
	g.httpClient = args.HTTPClient
	g.reader = args.Reader
	g.writer = args.Writer

	if err := g.bind(ctx, args.Config.GeminiAPIKey); err != nil {
		return nil, err
	}
	return g, nil
}

func newGateway(cfg config.Config, textPrompt prompts.TextPrompt) *GeminiGateway {
	interval := cfg.RateInterval
	if interval <= 0 {
		interval = config.DefaultRateInterval
	}
	return &GeminiGateway{
		cfg:        cfg,
		textPrompt: textPrompt,
		limiter:    rate.NewLimiter(rate.Every(interval), defaultRateBurst),
		refCache:   cache.New(defaultCacheExpiration, cacheCleanupInterval),
		generators: make(map[string]panelGenerator),
	}
}

// Rebind は新しい API キーでクライアントを作り直します。
// 再認証フックから呼び出され、以降の呼び出しは新しい資格情報を使用します。
func (g *GeminiGateway) Rebind(ctx context.Context, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("API キーが空です")
	}
	if err := g.bind(ctx, apiKey); err != nil {
		return err
	}
	slog.Info("Gemini クライアントを新しい API キーで再構築しました")
	return nil
}

// bind はテキスト用クライアントと画像生成コアを初期化し、生成器のキャッシュを破棄します。
func (g *GeminiGateway) bind(ctx context.Context, apiKey string) error {
	aiClient, err := initializeAIClient(ctx, apiKey)
	if err != nil {
		return err
	}
	core, err := initializeCore(g.reader, g.httpClient, aiClient)
	if err != nil {
		return fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.text = func(ctx context.Context, prompt, model string) (string, error) {
		resp, err := aiClient.GenerateContent(ctx, prompt, model)
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}
	g.newGenerator = func(model string) (panelGenerator, error) {
		return imagekit.NewGeminiGenerator(model, core)
	}
	g.generators = make(map[string]panelGenerator)
	return nil
}

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// initializeCore 提供された依存関係で構成された GeminiImageCore インスタンスを初期化して返します。
func initializeCore(reader remoteio.InputReader, httpClient httpkit.ClientInterface, aiClient gemini.GenerativeModel) (*imagekit.GeminiImageCore, error) {
	imgCache := cache.New(defaultTTL, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		aiClient,
		reader,
		httpClient,
		imgCache,
		defaultTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}
	return core, nil
}

// GenerateIdeas は prompts.DefaultIdeaCount 件の切り口を生成します。
func (g *GeminiGateway) GenerateIdeas(ctx context.Context, topic string, lang domain.Language) ([]domain.Idea, error) {
	raw, err := g.generateText(ctx, prompts.ModeIdeas, prompts.TemplateData{
		Topic:               topic,
		IdeaCount:           prompts.DefaultIdeaCount,
		LanguageInstruction: prompts.LanguageInstruction(lang),
	})
	if err != nil {
		return nil, err
	}

	type ideaPayload struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	items, err := decodeJSONArray[ideaPayload](raw)
	if err != nil {
		return nil, err
	}

	ideas := make([]domain.Idea, len(items))
	for i, item := range items {
		ideas[i] = domain.Idea{ID: i + 1, Title: strings.TrimSpace(item.Title), Summary: strings.TrimSpace(item.Summary)}
	}
	return ideas, nil
}

// GenerateSlideText は prompts.DefaultMinSlides〜DefaultMaxSlides 枚のスライドを生成します。1枚目はフック文になるよう指示します。
func (g *GeminiGateway) GenerateSlideText(ctx context.Context, idea domain.Idea, lang domain.Language) (domain.Slides, error) {
	raw, err := g.generateText(ctx, prompts.ModeSlides, prompts.TemplateData{
		Title:               idea.Title,
		Summary:             idea.Summary,
		MinSlides:           prompts.DefaultMinSlides,
		MaxSlides:           prompts.DefaultMaxSlides,
		LanguageInstruction: prompts.LanguageInstruction(lang),
	})
	if err != nil {
		return nil, err
	}

	type slidePayload struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		VisualPrompt string `json:"visualPrompt"`
	}
	items, err := decodeJSONArray[slidePayload](raw)
	if err != nil {
		return nil, err
	}

	slides := make(domain.Slides, len(items))
	for i, item := range items {
		slides[i] = domain.Slide{
			ID:           i + 1,
			Title:        strings.TrimSpace(item.Title),
			Body:         strings.TrimSpace(item.Content),
			VisualPrompt: strings.TrimSpace(item.VisualPrompt),
		}
	}
	return slides, nil
}

// GenerateVisualPrompt はスライドの内容を表すビジュアル指示を1文で生成します。
func (g *GeminiGateway) GenerateVisualPrompt(ctx context.Context, title, body string) (string, error) {
	raw, err := g.generateText(ctx, prompts.ModeVisualPrompt, prompts.TemplateData{Title: title, Body: body})
	if err != nil {
		return "", err
	}
	s := cleanSentence(raw)
	if s == "" {
		return "", &RemoteError{Message: "No visual prompt returned from Gemini"}
	}
	return s, nil
}

// GenerateImage はスライド1枚分の画像を生成します。
func (g *GeminiGateway) GenerateImage(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error) {
	model := req.Model
	if model == "" {
		model = g.cfg.ImageModel
	}
	gen, err := g.generator(model)
	if err != nil {
		return nil, err
	}

	var referenceURL string
	if len(req.ReferenceImage) > 0 {
		referenceURL, err = g.stageReference(ctx, req.ReferenceImage, req.ReferenceMimeType)
		if err != nil {
			return nil, err
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	logger := slog.With("model", model, "aspect_ratio", req.AspectRatio, "style", req.Style, "use_reference", referenceURL != "")
	startTime := time.Now()
	resp, err := gen.GenerateMangaPanel(callCtx, imgdom.ImageGenerationRequest{
		Prompt:         req.Prompt,
		SystemPrompt:   req.SystemPrompt,
		NegativePrompt: req.NegativePrompt,
		AspectRatio:    req.AspectRatio,
		ReferenceURL:   referenceURL,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成に失敗しました: %w", toRemoteError(err))
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, &RemoteError{Message: "No image data found in response"}
	}
	logger.Debug("Image generation completed", "duration", time.Since(startTime).Round(time.Millisecond))

	mimeType := resp.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &domain.GeneratedImage{Data: resp.Data, MimeType: mimeType}, nil
}

// generateText はテンプレートからプロンプトを構築し、テキストモデルを呼び出します。
func (g *GeminiGateway) generateText(ctx context.Context, mode string, data prompts.TemplateData) (string, error) {
	prompt, err := g.textPrompt.Build(mode, data)
	if err != nil {
		return "", fmt.Errorf("プロンプト生成に失敗しました: %w", err)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	g.mu.RLock()
	text := g.text
	g.mu.RUnlock()

	callCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	slog.Debug("Calling Gemini API", "mode", mode, "model", g.cfg.GeminiModel)
	out, err := text(callCtx, prompt, g.cfg.GeminiModel)
	if err != nil {
		return "", fmt.Errorf("テキスト生成に失敗しました (mode: %s): %w", mode, toRemoteError(err))
	}
	if strings.TrimSpace(out) == "" {
		return "", &RemoteError{Message: "No text returned from Gemini"}
	}
	return out, nil
}

// withTimeout は1回の API 呼び出しに RequestTimeout の上限を設けます。
func (g *GeminiGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.cfg.RequestTimeout)
}

// generator はモデルごとの画像生成器を遅延初期化して返します。
func (g *GeminiGateway) generator(model string) (panelGenerator, error) {
	g.mu.RLock()
	gen, ok := g.generators[model]
	g.mu.RUnlock()
	if ok {
		return gen, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if gen, ok := g.generators[model]; ok {
		return gen, nil
	}
	gen, err := g.newGenerator(model)
	if err != nil {
		return nil, fmt.Errorf("ImageGeneratorの初期化に失敗しました (model: %s): %w", model, err)
	}
	g.generators[model] = gen
	return gen, nil
}

// stageReference は参照画像を ReferenceDir に書き出し、そのパスを返します。
// 同じ内容の画像は内容のハッシュでキャッシュし、再アップロードしません。
func (g *GeminiGateway) stageReference(ctx context.Context, data []byte, mimeType string) (string, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if v, ok := g.refCache.Get(key); ok {
		if p, ok := v.(string); ok {
			return p, nil
		}
	}

	if mimeType == "" {
		mimeType = "image/png"
	}
	dir := g.cfg.ReferenceDir
	if dir == "" {
		dir = config.DefaultReferenceDir
	}
	p, err := asset.ResolveOutputPath(dir, asset.ReferenceFileName(key, mimeType))
	if err != nil {
		return "", fmt.Errorf("参照画像の出力パスの解決に失敗しました: %w", err)
	}
	if err := g.writer.Write(ctx, p, bytes.NewReader(data), mimeType); err != nil {
		return "", fmt.Errorf("参照画像の書き込みに失敗しました %s: %w", p, err)
	}

	g.refCache.Set(key, p, cache.DefaultExpiration)
	slog.Debug("参照画像を配置しました", "path", p, "bytes", len(data))
	return p, nil
}

var _ Gateway = (*GeminiGateway)(nil)
