package domain

// Idea はキーワードから生成されたカルーセルの切り口（企画案）です。
// 一度生成された後は変更されず、新しいトピックが投入されるたびに一括で置き換えられます。
type Idea struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Slide はカルーセルの1枚分のテキストと、画像生成用のビジュアル指示を保持します。
// ID は 1 始まりの連番で、ID == 1 はカバー（表紙）スライドとして扱われます。
type Slide struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	VisualPrompt string `json:"visual_prompt"`
}

// Slides は Slide のスライスに対するヘルパーメソッドを提供します。
type Slides []Slide

// ImageStatus はスライドごとの画像生成の進行状態です。
type ImageStatus string

const (
	ImageStatusPending ImageStatus = "pending"
	ImageStatusLoading ImageStatus = "loading"
	ImageStatusSuccess ImageStatus = "success"
	ImageStatusError   ImageStatus = "error"
)

// ImageResult は1枚のスライドに対応する画像生成結果です。
type ImageResult struct {
	SlideID  int         `json:"slide_id"`
	Data     []byte      `json:"-"`
	MimeType string      `json:"mime_type,omitempty"`
	Status   ImageStatus `json:"status"`
	// Message は Error 状態になった理由です。
	Message string `json:"message,omitempty"`
}

// GeneratedImage は画像生成ゲートウェイが返す生のバイナリです。
type GeneratedImage struct {
	Data     []byte
	MimeType string
}
