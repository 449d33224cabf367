package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-carousel-kit/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// opts は全サブコマンドで共有する CLI フラグの値です。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "carousel-go",
	Short: "SNS 向けのカルーセル画像を Gemini で生成します。",
	Long: `キーワードからアイデアとスライドを生成するか、自由入力テキストをスライドに分解し、
スライドごとの画像を1枚ずつ生成して保存します。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義します。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 生成設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Language, "lang", "l", config.DefaultLanguage, "生成するテキストの言語 (EN / TH)。")
	rootCmd.PersistentFlags().StringVarP(&opts.AspectRatio, "aspect-ratio", "a", config.DefaultAspectRatio, "画像のアスペクト比 (1:1 / 3:4 / 9:16)。")
	rootCmd.PersistentFlags().StringVarP(&opts.Style, "style", "s", "", "画風 (ORIGINAL / MODERN / CYBERPUNK / LUXURY / MINIMALIST / CUSTOM / RANDOM)。未指定は ORIGINAL です。")
	rootCmd.PersistentFlags().StringVar(&opts.CustomPrompt, "custom-prompt", "", "CUSTOM スタイルの画風の指示。")
	rootCmd.PersistentFlags().StringVar(&opts.ReferenceImage, "reference-image", "", "CUSTOM スタイルの参照画像のパス（ローカル or gs://...）。")
	rootCmd.PersistentFlags().StringVar(&opts.Handle, "handle", "", "フッターに表示する全プラットフォーム共通のハンドル名。")

	// --- 出力 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "画像と carousel.md の保存先（ローカル or gs://...）。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", "", "テキスト生成に使用する Gemini モデル名。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "画像生成に使用する Gemini モデル名。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "HTTP リクエストのタイムアウト。")
	rootCmd.PersistentFlags().DurationVar(&opts.RequestTimeout, "request-timeout", 0, "画像・テキスト生成の1回の呼び出しの上限。0 は上限なし。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力します。")
}

// preRunAppE は、コマンド実行前にロガーの設定と環境変数の必須チェックを行います。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// .env は任意です。
	_ = godotenv.Load()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須です")
	}
	return nil
}

// loadConfig は環境変数の設定に CLI フラグを反映して返します。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Apply(opts)
	return cfg
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(ideasCmd, generateCmd, textCmd)
}

// Execute は、アプリケーションのメインエントリポイントです。
// main.go から呼び出されて、cobra のコマンドライン解析を開始します。
// Ctrl+C で生成中のワークフローを中断できるよう、シグナルでキャンセルされるコンテキストを渡します。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
