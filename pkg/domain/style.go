package domain

import (
	"fmt"
	"strings"
)

// Style はカルーセル全体のデザインスタイルです。
type Style string

const (
	StyleOriginal   Style = "ORIGINAL"
	StyleModern     Style = "MODERN"
	StyleCyberpunk  Style = "CYBERPUNK"
	StyleLuxury     Style = "LUXURY"
	StyleMinimalist Style = "MINIMALIST"
	StyleCustom     Style = "CUSTOM"
	// StyleRandom は実行開始時に具体的なスタイルへ解決される指定です。
	StyleRandom Style = "RANDOM"
)

// ParseStyle は大文字小文字を区別せずに Style を解析します。
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StyleOriginal, StyleModern, StyleCyberpunk, StyleLuxury, StyleMinimalist, StyleCustom, StyleRandom:
		return st, nil
	case "":
		return StyleOriginal, nil
	}
	return "", fmt.Errorf("不明なスタイルです: %q", s)
}

// Language は生成テキストの言語です。
type Language string

const (
	LanguageTH Language = "TH"
	LanguageEN Language = "EN"
)

// ParseLanguage は Language を解析します。空文字の場合は英語として扱います。
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToUpper(strings.TrimSpace(s))); l {
	case LanguageTH, LanguageEN:
		return l, nil
	case "":
		return LanguageEN, nil
	}
	return "", fmt.Errorf("不明な言語です: %q", s)
}

// 対応するアスペクト比
const (
	AspectRatioSquare   = "1:1"
	AspectRatioPortrait = "3:4"
	AspectRatioStory    = "9:16"
)

// NormalizeAspectRatio は対応外のアスペクト比を 1:1 に丸めます。
func NormalizeAspectRatio(ratio string) string {
	switch ratio {
	case AspectRatioSquare, AspectRatioPortrait, AspectRatioStory:
		return ratio
	}
	return AspectRatioSquare
}
