package domain

// SocialPlatform はフッターに表示する SNS アカウント1件分の設定です。
type SocialPlatform struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IconName string `json:"icon_name"` // プロンプト内でアイコンを指示するための識別子（例: "Tiktok Logo"）
	Selected bool   `json:"selected"`
	Handle   string `json:"handle"`
}

// SocialConfig はフッターの SNS 表記の設定です。
type SocialConfig struct {
	UseSameHandle bool             `json:"use_same_handle"`
	MasterHandle  string           `json:"master_handle"`
	Platforms     []SocialPlatform `json:"platforms"`
}

// CustomStyleConfig は Custom スタイル用の自由記述プロンプトと参照画像です。
type CustomStyleConfig struct {
	Prompt            string `json:"prompt"`
	ReferenceImage    []byte `json:"-"`
	ReferenceMimeType string `json:"reference_mime_type,omitempty"`
}

// HasReference は参照画像が設定されているかを返します。
func (c CustomStyleConfig) HasReference() bool {
	return len(c.ReferenceImage) > 0
}

// GenerationConfig は1回の実行で使用する設定のスナップショットです。
// 実行開始時に Clone で取得し、実行中は外部からの変更の影響を受けません。
type GenerationConfig struct {
	Language    Language          `json:"language"`
	AspectRatio string            `json:"aspect_ratio"`
	Style       Style             `json:"style"`
	Social      SocialConfig      `json:"social"`
	Custom      CustomStyleConfig `json:"custom"`
	ImageModel  string            `json:"image_model"`
}

// Clone はスライスやバイト列を含めたディープコピーを返します。
func (c GenerationConfig) Clone() GenerationConfig {
	out := c
	if c.Social.Platforms != nil {
		out.Social.Platforms = append([]SocialPlatform(nil), c.Social.Platforms...)
	}
	if c.Custom.ReferenceImage != nil {
		out.Custom.ReferenceImage = append([]byte(nil), c.Custom.ReferenceImage...)
	}
	return out
}

// GenerationRequest は1枚の画像生成に必要な情報をすべて解決済みの状態で保持します。
type GenerationRequest struct {
	Model          string
	Prompt         string
	SystemPrompt   string
	NegativePrompt string
	AspectRatio    string
	// VisualTheme はプロンプトの中心となるビジュアル指示です。カバーでは書体中心の指示に置き換わります。
	VisualTheme       string
	Style             Style
	ReferenceImage    []byte
	ReferenceMimeType string
}
