package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shouni/go-retext-kit/internal/builder"
	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/internal/runner"
	"github.com/shouni/go-retext-kit/pkg/domain"
	"github.com/shouni/go-retext-kit/pkg/export"
	"github.com/shouni/go-retext-kit/pkg/report"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"golang.org/x/sync/errgroup"
)

// ExecuteDetect は、対象写真の文字領域を検出して結果JSONを保存するのだ。
func ExecuteDetect(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(ctx, appCtx, cfg.Options.ImageFile)
	if err != nil {
		return err
	}

	detectRunner := builder.BuildDetectRunner(appCtx)
	regions, err := detectRunner.Run(ctx, snap)
	if err != nil {
		return fmt.Errorf("検出パスに失敗したのだ: %w", err)
	}

	outputPath := cfg.Options.OutputFile
	if err := saveRegions(ctx, appCtx, outputPath, regions); err != nil {
		return err
	}

	slog.Info("検出結果を保存したのだ！", "path", outputPath, "regions", len(regions))
	return nil
}

// ExecuteEdit は、編集指示JSONを読み込んで一括適用し、最終画像を保存するのだ。
func ExecuteEdit(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(ctx, appCtx, cfg.Options.ImageFile)
	if err != nil {
		return err
	}

	edits, err := loadEdits(ctx, appCtx, cfg.Options.EditsFile)
	if err != nil {
		return err
	}

	editRunner := builder.BuildEditRunner(appCtx)
	outcome, err := editRunner.Run(ctx, snap, edits, cfg.Options.UndoSteps)
	if err != nil {
		return fmt.Errorf("一括編集に失敗したのだ: %w", err)
	}

	for _, skipped := range outcome.Skipped {
		slog.Warn("適用できなかった編集があるのだ", "region", skipped.Region, "reason", skipped.Reason)
	}

	if outcome.Final.IsEmpty() {
		return fmt.Errorf("保存できる画像がありません")
	}

	outputPath := cfg.Options.OutputImage
	if err := appCtx.Writer.Write(ctx, outputPath, bytes.NewReader(outcome.Final.Data), outcome.Final.MimeType); err != nil {
		return fmt.Errorf("最終画像の保存に失敗しました: %w", err)
	}

	// 編集後の領域とスキップ記録を残すのだ。report コマンドはここから編集済みフラグを読むのだ
	if err := saveRegions(ctx, appCtx, cfg.Options.RegionsFile, outcome.Regions); err != nil {
		return err
	}

	logPath := cfg.Options.OutputFile
	if logPath == "" {
		logPath = config.DefaultLocalEditLog
	}
	logData, err := marshalEditLog(outcome, outputPath)
	if err != nil {
		return err
	}
	if err := appCtx.Writer.Write(ctx, logPath, bytes.NewReader(logData), "application/json; charset=utf-8"); err != nil {
		return fmt.Errorf("編集ログの保存に失敗しました: %w", err)
	}

	slog.Info("編集結果を保存したのだ！",
		"path", outputPath,
		"regions", cfg.Options.RegionsFile,
		"edit_log", logPath,
		"applied", outcome.Applied,
		"skipped", len(outcome.Skipped))
	return nil
}

// ExecuteExport は、画像を指定幅へリサンプルしてエンコードし直すのだ。
// 幅を複数指定した場合は並列に処理するのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(ctx, appCtx, cfg.Options.ImageFile)
	if err != nil {
		return err
	}

	widths := cfg.Options.Widths
	if len(widths) == 0 {
		widths = []int{0} // 元サイズのまま再エンコード
	}

	format := export.Format(cfg.Options.Format)
	outputPath := cfg.Options.OutputImage

	eg, egCtx := errgroup.WithContext(ctx)
	for _, width := range widths {
		width := width // ゴルーチンのクロージャ対策なのだ

		eg.Go(func() error {
			result, err := export.Snapshot(snap, export.Options{
				Width:   width,
				Format:  format,
				Quality: cfg.Options.Quality,
				Stem:    cfg.Options.Stem,
			})
			if err != nil {
				return fmt.Errorf("幅%dのエクスポートに失敗したのだ: %w", width, err)
			}

			path := exportPath(outputPath, result.Filename, width, len(widths) > 1)
			if err := appCtx.Writer.Write(egCtx, path, bytes.NewReader(result.Data), result.MimeType); err != nil {
				return fmt.Errorf("エクスポート画像の保存に失敗しました %s: %w", path, err)
			}

			slog.Info("エクスポートが完了したのだ", "path", path, "size", fmt.Sprintf("%dx%d", result.Width, result.Height))
			return nil
		})
	}

	return eg.Wait()
}

// ExecuteReport は、検出結果JSONからレポートを構築して保存するのだ。
func ExecuteReport(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	regions, err := loadRegions(ctx, appCtx, cfg.Options.RegionsFile)
	if err != nil {
		return err
	}

	reportRunner, err := builder.BuildReportRunner(ctx, appCtx)
	if err != nil {
		return err
	}

	title := cfg.Options.Stem
	if title == "" {
		title = "Retext Report"
	}

	result, err := reportRunner.Run(ctx, report.Summary{
		Title:     title,
		ImagePath: cfg.Options.ImageFile,
		Regions:   regions,
	}, cfg.Options.OutputFile)
	if err != nil {
		return fmt.Errorf("レポート出力に失敗したのだ: %w", err)
	}

	slog.Info("レポートを保存したのだ！", "markdown", result.MarkdownPath, "html", result.HTMLPath)
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(config.DefaultHTTPTimeout)

	gw, err := builder.InitializeGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, gw, reader, writer)
	return &appCtx, nil
}

// loadSnapshot は対象写真をローカル/GCSから読み込むのだ。
func loadSnapshot(ctx context.Context, appCtx *builder.AppContext, path string) (*domain.Snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("対象の画像（--image）を指定してほしいのだ")
	}

	rc, err := appCtx.Reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("画像 '%s' の読み込みに失敗しました: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("画像 '%s' の読み取りに失敗しました: %w", path, err)
	}

	return domain.NewSnapshot(data, http.DetectContentType(data)), nil
}

// loadEdits は編集指示JSONを読み込むのだ。
func loadEdits(ctx context.Context, appCtx *builder.AppContext, path string) ([]runner.EditInstruction, error) {
	if path == "" {
		return nil, fmt.Errorf("編集指示ファイル（--edits）を指定してほしいのだ")
	}

	rc, err := appCtx.Reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("編集指示 '%s' の読み込みに失敗しました: %w", path, err)
	}
	defer rc.Close()

	var edits []runner.EditInstruction
	if err := json.NewDecoder(rc).Decode(&edits); err != nil {
		return nil, fmt.Errorf("編集指示 '%s' のデコードに失敗しました: %w", path, err)
	}
	if len(edits) == 0 {
		return nil, fmt.Errorf("編集指示が空なのだ: %s", path)
	}
	return edits, nil
}

// editLog は編集コマンド1回分の実行記録です。
type editLog struct {
	Image         string               `json:"image"`
	Applied       int                  `json:"applied"`
	Skipped       []runner.SkippedEdit `json:"skipped"`
	HistoryLen    int                  `json:"history_len"`
	HistoryCursor int                  `json:"history_cursor"`
	Regions       []domain.Region      `json:"regions"`
}

// marshalEditLog は一括編集の結果を記録用JSONへ変換するのだ。
func marshalEditLog(outcome *runner.EditOutcome, imagePath string) ([]byte, error) {
	entry := editLog{
		Image:         imagePath,
		Applied:       outcome.Applied,
		Skipped:       outcome.Skipped,
		HistoryLen:    outcome.HistoryLen,
		HistoryCursor: outcome.HistoryCursor,
		Regions:       outcome.Regions,
	}
	if entry.Skipped == nil {
		entry.Skipped = []runner.SkippedEdit{}
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("編集ログのエンコードに失敗しました: %w", err)
	}
	return data, nil
}

// saveRegions は領域リストをJSONとして保存するのだ。
func saveRegions(ctx context.Context, appCtx *builder.AppContext, path string, regions []domain.Region) error {
	data, err := json.MarshalIndent(regions, "", "  ")
	if err != nil {
		return fmt.Errorf("検出結果のエンコードに失敗しました: %w", err)
	}
	if err := appCtx.Writer.Write(ctx, path, bytes.NewReader(data), "application/json; charset=utf-8"); err != nil {
		return fmt.Errorf("検出結果の保存に失敗しました: %w", err)
	}
	return nil
}

// loadRegions は検出結果JSONを読み込むのだ。
func loadRegions(ctx context.Context, appCtx *builder.AppContext, path string) ([]domain.Region, error) {
	if path == "" {
		return nil, fmt.Errorf("検出結果ファイル（--regions）を指定してほしいのだ")
	}

	rc, err := appCtx.Reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("検出結果 '%s' の読み込みに失敗しました: %w", path, err)
	}
	defer rc.Close()

	var regions []domain.Region
	if err := json.NewDecoder(rc).Decode(&regions); err != nil {
		return nil, fmt.Errorf("検出結果 '%s' のデコードに失敗しました: %w", path, err)
	}
	return regions, nil
}

// exportPath はエクスポート先のパスを決めるのだ。
// 幅が複数あるときは拡張子の前に幅サフィックスを挟んで衝突を避けるのだ。
func exportPath(outputPath, filename string, width int, multi bool) string {
	base := outputPath
	if base == "" {
		base = filepath.Join("output", filename)
	}
	if !multi {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + fmt.Sprintf("_w%d", width) + ext
}
