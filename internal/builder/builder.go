package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/internal/runner"
	"github.com/shouni/go-retext-kit/pkg/editor"
	"github.com/shouni/go-retext-kit/pkg/gateway"
	"github.com/shouni/go-retext-kit/pkg/report"

	"github.com/shouni/go-text-format/pkg/builder"
)

// InitializeGateway は Gemini ベースの Gateway を初期化します。
// コマンドラインでモデル名が指定されていれば、環境変数の設定より優先します。
func InitializeGateway(ctx context.Context, cfg *config.Config) (gateway.Gateway, error) {
	detectModel := cfg.DetectModel
	if cfg.Options.DetectModel != "" {
		detectModel = cfg.Options.DetectModel
	}
	renderModel := cfg.RenderModel
	if cfg.Options.RenderModel != "" {
		renderModel = cfg.Options.RenderModel
	}

	gw, err := gateway.NewGeminiGateway(ctx, gateway.Config{
		APIKey:       cfg.GeminiAPIKey,
		DetectModel:  detectModel,
		RenderModel:  renderModel,
		LanguageHint: cfg.LanguageHint,
	})
	if err != nil {
		return nil, fmt.Errorf("Gatewayの初期化に失敗したのだ: %w", err)
	}
	return gw, nil
}

// BuildDetectRunner は文字領域の検出パスを担当する Runner を構築します。
func BuildDetectRunner(appCtx *AppContext) runner.DetectRunner {
	return runner.NewRetextDetectRunner(editor.New(appCtx.Gateway))
}

// BuildEditRunner は編集指示の一括適用を担当する Runner を構築します。
// スタイル参照画像のHTTP取得には AppContext の共通クライアントを使います。
func BuildEditRunner(appCtx *AppContext) runner.EditRunner {
	return runner.NewRetextEditRunner(
		editor.New(appCtx.Gateway),
		appCtx.Reader,
		appCtx.httpClient,
		appCtx.Options.RateLimit,
	)
}

// BuildReportRunner はレポート出力を担当する Runner を構築します。
func BuildReportRunner(ctx context.Context, appCtx *AppContext) (runner.ReportRunner, error) {
	config := builder.BuilderConfig{
		EnableHardWraps: true,
	}
	appBuilder, err := builder.NewBuilder(config)
	if err != nil {
		slog.WarnContext(ctx, "HTMLビルダーの初期化に失敗しました。Markdownのみ出力します", "error", err)
		return runner.NewRetextReportRunner(report.NewPublisher(appCtx.Writer, nil)), nil
	}

	md2htmlRunner, err := appBuilder.BuildRunner()
	if err != nil {
		return nil, fmt.Errorf("MarkdownToHtmlRunnerの初期化に失敗しました: %w", err)
	}

	return runner.NewRetextReportRunner(report.NewPublisher(appCtx.Writer, md2htmlRunner)), nil
}
