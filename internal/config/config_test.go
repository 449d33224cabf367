package config

import (
	"testing"
	"time"
)

func TestConfig_Core(t *testing.T) {
	t.Run("HTTP タイムアウトは生成呼び出しの上限にならないこと", func(t *testing.T) {
		c := &Config{GeminiAPIKey: "key", Options: GenerateOptions{HTTPTimeout: DefaultHTTPTimeout}}
		core := c.Core()
		if core.RequestTimeout != 0 {
			t.Errorf("RequestTimeout = %v, want 0", core.RequestTimeout)
		}
		if core.GeminiAPIKey != "key" {
			t.Errorf("GeminiAPIKey = %q", core.GeminiAPIKey)
		}
	})

	t.Run("request-timeout を指定した場合だけ上限が設定されること", func(t *testing.T) {
		c := &Config{Options: GenerateOptions{RequestTimeout: 5 * time.Minute}}
		if got := c.Core().RequestTimeout; got != 5*time.Minute {
			t.Errorf("RequestTimeout = %v, want 5m", got)
		}
	})

	t.Run("参照画像の保存先が空なら既定値を使うこと", func(t *testing.T) {
		c := &Config{}
		if got := c.Core().ReferenceDir; got == "" {
			t.Error("ReferenceDir is empty")
		}
	})
}
