package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultDetectModel  = "gemini-3-flash-preview"
	DefaultRenderModel  = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRateLimit    = 30 * time.Second
	DefaultLocalImage   = "output/retext.png"    // 編集済み画像のデフォルト保存先なのだ
	DefaultLocalRegions = "output/regions.json"  // 検出結果のデフォルト保存先なのだ
	DefaultLocalReport  = "output/report.md"     // レポートのデフォルト保存先なのだ
	DefaultLocalEditLog = "output/edit_log.json" // 編集ログのデフォルト保存先なのだ
)

// Config はアプリケーション全体の環境設定（APIキーやモデル設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	DetectModel  string
	RenderModel  string
	LanguageHint string

	Options RetextOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		DetectModel:  envutil.GetEnv("DETECT_GEMINI_MODEL", DefaultDetectModel),
		RenderModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultRenderModel),
		LanguageHint: envutil.GetEnv("DETECT_LANGUAGE_HINT", ""),
	}
	return cfg
}

// RetextOptions は CLI フラグから渡される実行時のパラメータなのだ。
type RetextOptions struct {
	// ソース入力関連
	ImageFile   string // --image: 対象写真（ローカル or gs://...）
	RegionsFile string // --regions: 検出結果JSONのパス
	EditsFile   string // --edits: 編集指示JSONのパス

	// 出力関連
	OutputImage string // --output-image
	OutputFile  string // --output-file: 検出JSONやレポートの保存先
	Stem        string // --stem: エクスポートのファイル名（拡張子抜き）

	// エクスポート関連
	Widths  []int  // --width: 出力幅（複数指定可）
	Format  string // --format: png / jpeg
	Quality int    // --quality: JPEG品質

	// 編集制御
	UndoSteps int // --undo: 保存前に履歴を戻す回数

	// AI挙動設定
	DetectModel string // --detect-model
	RenderModel string // --render-model

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
	RateLimit   time.Duration // --rate-limit: 再描画リクエストの間隔
}
