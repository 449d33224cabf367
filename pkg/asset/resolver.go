package asset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は生成されたスライド画像を格納するデフォルトのディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultSummaryName はカルーセル全体のテキストをまとめた Markdown のファイル名です。
	DefaultSummaryName = "carousel.md"
	// DefaultSlideFileName はスライド画像の共通のベースファイル名です。
	DefaultSlideFileName = "slide.png"
	// DefaultReferencePrefix は一時配置する参照画像のファイル名の接頭辞です。
	DefaultReferencePrefix = "reference"
)

var (
	// SlideFileRegex はスライド画像 (slide_1.png, slide_2.jpg 等) に一致します
	SlideFileRegex = createIndexedRegex(DefaultSlideFileName)
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// SlideImagePath は、スライド ID と MIME タイプから画像の保存先を生成します。
// 例: ("out/images", 2, "image/jpeg") -> "out/images/slide_2.jpg"
func SlideImagePath(baseDir string, slideID int, mimeType string) (string, error) {
	base, err := ResolveOutputPath(baseDir, strings.TrimSuffix(DefaultSlideFileName, filepath.Ext(DefaultSlideFileName))+ExtensionFor(mimeType))
	if err != nil {
		return "", err
	}
	return urlpath.GenerateIndexedPath(base, slideID)
}

// ReferenceFileName は内容のハッシュから参照画像のファイル名を生成します。
func ReferenceFileName(hash, mimeType string) string {
	if len(hash) > 16 {
		hash = hash[:16]
	}
	return fmt.Sprintf("%s_%s%s", DefaultReferencePrefix, hash, ExtensionFor(mimeType))
}

// ExtensionFor は MIME タイプに対応する拡張子を返します。不明な場合は .png です。
func ExtensionFor(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".png"
}

// MimeTypeFor は拡張子から MIME タイプを推定します。
func MimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return "image/png"
}

// createIndexedRegex は、ファイル名に基づきインデックス付きファイル用の正規表現を生成します。
// 拡張子は画像として扱える任意のものに一致させます。
// 例: "slide.png" -> ^slide_\d+\.(png|jpg|webp|gif)$
func createIndexedRegex(fileName string) *regexp.Regexp {
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	pattern := fmt.Sprintf(`^%s_\d+\.(?:png|jpg|webp|gif)$`, regexp.QuoteMeta(baseName))
	return regexp.MustCompile(pattern)
}
