package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// exportCmd は、画像を指定幅にリサンプルして書き出すサブコマンドなのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "画像を指定幅にリサンプルして書き出すのだ。",
	Long: `編集済み画像（または任意の画像）をアスペクト比を保ったまま縮小し、
PNGまたはJPEGとして保存するのだ。--width を複数指定すると並列で書き出すのだよ。`,
	RunE: exportCommand,
}

func init() {
}

// exportCommand は、export サブコマンドの実行ロジック本体なのだ。
func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 必須となる入力ファイルの存在チェック
	if opts.ImageFile == "" {
		return fmt.Errorf("対象の画像（--image）を指定してほしいのだ")
	}
	if opts.Format != "png" && opts.Format != "jpeg" {
		return fmt.Errorf("フォーマットは png か jpeg を指定してほしいのだ: %s", opts.Format)
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("エクスポートモードを起動するのだ！",
		"image", cfg.Options.ImageFile,
		"widths", cfg.Options.Widths,
		"format", cfg.Options.Format)

	// 3. パイプライン実行
	return pipeline.ExecuteExport(ctx, cfg)
}
