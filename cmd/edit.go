package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// editCmd は、編集指示JSONを一括適用して文字を描き換えるサブコマンドなのだ。
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "編集指示JSONに従って写真の文字を描き換えるのだ。",
	Long: `検出された文字領域に対する編集指示（新しいテキストとスタイル）を読み込み、
AIに1件ずつ再描画させて最終画像を保存するのだ。
途中で失敗した指示はスキップして続行し、最後に集計を表示するのだよ。`,
	RunE: editCommand,
}

func init() {
}

// editCommand は、edit サブコマンドの実行ロジック本体なのだ。
func editCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 必須となる入力ファイルの存在チェック
	if opts.ImageFile == "" {
		return fmt.Errorf("対象の写真（--image）を指定してほしいのだ")
	}
	if opts.EditsFile == "" {
		return fmt.Errorf("編集指示ファイル（--edits）を指定してほしいのだ")
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("一括編集モードを起動するのだ！",
		"image", cfg.Options.ImageFile,
		"edits", cfg.Options.EditsFile,
		"output_image", cfg.Options.OutputImage,
		"undo", cfg.Options.UndoSteps)

	// 3. パイプライン実行
	if err := pipeline.ExecuteEdit(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての編集工程が完了したのだ！")
	return nil
}
