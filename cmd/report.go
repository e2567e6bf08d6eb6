package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// reportCmd は、検出結果JSONから編集状況のレポートを生成するサブコマンドなのだ。
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "検出結果JSONからレポートを生成して保存するのだ。",
	Long: `検出・編集の結果JSONを読み込み、領域ごとのテキストと編集状況をまとめた
Markdownレポート（可能ならHTML版も）を保存するのだ。`,
	RunE: reportCommand,
}

func init() {
}

// reportCommand は、report サブコマンドの実行ロジック本体なのだ。
func reportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 必須となる入力ファイルの存在チェック
	if opts.RegionsFile == "" {
		return fmt.Errorf("検出結果ファイル（--regions）を指定してほしいのだ")
	}

	// --output-file 未指定時はレポート固有のデフォルト値を使うのだ
	if !cmd.Flags().Changed("output-file") || opts.OutputFile == "" {
		opts.OutputFile = config.DefaultLocalReport
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("レポート生成モードを起動するのだ！",
		"regions", cfg.Options.RegionsFile,
		"output_file", cfg.Options.OutputFile)

	// 3. パイプライン実行
	return pipeline.ExecuteReport(ctx, cfg)
}
