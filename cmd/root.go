package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-retext-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全サブコマンドで共有する実行時パラメータなのだ。
var opts config.RetextOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ImageFile, "image", "f", "", "対象の写真のパス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.RegionsFile, "regions", config.DefaultLocalRegions, "検出結果JSONのパスなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.EditsFile, "edits", "", "編集指示JSONのパスなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputImage, "output-image", "i", config.DefaultLocalImage, "編集済み画像の保存パス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputFile, "output-file", "o", "", "検出JSONやレポートの保存パスなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Stem, "stem", "", "エクスポートのファイル名（拡張子抜き）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.DetectModel, "detect-model", "", "検出に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.RenderModel, "render-model", "", "再描画に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateLimit, "rate-limit", config.DefaultRateLimit, "再描画リクエストの最小間隔なのだ。")

	// --- エクスポート固有設定 ---
	exportCmd.Flags().IntSliceVarP(&opts.Widths, "width", "w", nil, "出力幅（複数指定で並列処理するのだ）。")
	exportCmd.Flags().StringVar(&opts.Format, "format", "png", "出力フォーマット（png / jpeg）なのだ。")
	exportCmd.Flags().IntVarP(&opts.Quality, "quality", "q", 90, "JPEG品質（1-100）なのだ。")

	// --- 編集固有設定 ---
	editCmd.Flags().IntVar(&opts.UndoSteps, "undo", 0, "保存前に履歴を戻す回数なのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"ap-retext-go",
		addAppFlags,
		preRunAppE,
		detectCmd,
		editCmd,
		exportCmd,
		reportCmd,
	)
}
