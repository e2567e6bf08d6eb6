package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// detectCmd は、写真に写る文字領域をAIに検出させるサブコマンドなのだ。
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "写真の文字領域を検出してJSONに保存するのだ。",
	Long: `対象の写真をAIに解析させて、看板やラベルなどの文字領域を検出するのだ。
検出結果は領域ID・テキスト・バウンディングボックスを含むJSONとして保存されるのだよ。`,
	RunE: detectCommand,
}

func init() {
}

// detectCommand は、detect サブコマンドの実行ロジック本体なのだ。
func detectCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 必須となる入力ファイルの存在チェック
	if opts.ImageFile == "" {
		return fmt.Errorf("対象の写真（--image）を指定してほしいのだ")
	}

	// --output-file 未指定時は検出コマンド固有のデフォルト値を使うのだ
	if !cmd.Flags().Changed("output-file") || opts.OutputFile == "" {
		opts.OutputFile = config.DefaultLocalRegions
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("検出モードを起動するのだ！",
		"image", cfg.Options.ImageFile,
		"output_file", cfg.Options.OutputFile,
		"detect_model", cfg.DetectModel)

	// 3. パイプライン実行
	return pipeline.ExecuteDetect(ctx, cfg)
}
