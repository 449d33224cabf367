package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-carousel-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// ideasCmd は、キーワードからカルーセルのアイデアだけを生成して表示します。
var ideasCmd = &cobra.Command{
	Use:     "ideas <topic>",
	Short:   "キーワードからカルーセルのアイデアを生成します。",
	Example: "  carousel-go ideas \"trading psychology\" --lang TH",
	Args:    cobra.MinimumNArgs(1),
	RunE:    ideasCommand,
}

func ideasCommand(cmd *cobra.Command, args []string) error {
	opts.Topic = strings.Join(args, " ")
	cfg := loadConfig()

	slog.Info("アイデア生成を起動します", "topic", opts.Topic, "text_model", cfg.GeminiModel)
	if err := pipeline.ExecuteIdeas(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("アイデアの生成中にエラーが発生しました: %w", err)
	}
	return nil
}
