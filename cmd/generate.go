package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-carousel-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、キーワードからアイデア、スライド、画像までを一括で生成します。
var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "キーワードからカルーセルを生成します。",
	Long: `キーワードから複数のアイデアを生成し、--idea で指定した番号のアイデアでスライドと画像を生成します。
出力は スライド画像（slide_N.png）と carousel.md になります。`,
	Example: "  carousel-go generate \"risk management\" --idea 2 --style RANDOM -a 3:4",
	Args:    cobra.MinimumNArgs(1),
	RunE:    generateCommand,
}

func init() {
	generateCmd.Flags().IntVarP(&opts.IdeaIndex, "idea", "i", 1, "使用するアイデアの番号（1 から）。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	opts.Topic = strings.Join(args, " ")
	cfg := loadConfig()

	slog.Info("カルーセル生成パイプラインを起動します",
		"topic", opts.Topic,
		"idea", opts.IdeaIndex,
		"text_model", cfg.GeminiModel,
		"image_model", cfg.ImageModel,
		"output", cfg.OutputDir)

	if err := pipeline.Execute(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生しました: %w", err)
	}

	slog.Info("すべての生成工程が完了しました")
	return nil
}
