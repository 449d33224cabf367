package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-carousel-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// textCmd は、自由入力テキストをスライドに分解してカルーセルを生成します。
var textCmd = &cobra.Command{
	Use:   "text",
	Short: "自由入力テキストからカルーセルを生成します。",
	Long: `"Slide 1:" や "สไลด์ 2" などの区切り行でテキストをスライドに分解し、
スライドごとにビジュアル指示と画像を生成します。区切り行より前の内容は表紙になります。
--input-file を省略した場合は同梱のサンプルテキストを使用します。`,
	Example: "  carousel-go text -f post.txt --style CUSTOM --reference-image brand.png",
	RunE:    textCommand,
}

func init() {
	textCmd.Flags().StringVarP(&opts.InputFile, "input-file", "f", "", "入力テキストのパス（ローカル or gs://...、'-' で標準入力）。")
	textCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "画像を生成せず、スライドの分解結果だけを表示します。")
}

func textCommand(cmd *cobra.Command, args []string) error {
	if opts.InputFile == "" && isStdin() {
		opts.InputFile = "-"
	}
	cfg := loadConfig()

	slog.Info("自由入力モードを起動します", "input", opts.InputFile, "dry_run", opts.DryRun, "output", cfg.OutputDir)
	if err := pipeline.ExecuteText(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生しました: %w", err)
	}
	return nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
