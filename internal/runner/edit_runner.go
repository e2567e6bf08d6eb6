package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/pkg/domain"
	"github.com/shouni/go-retext-kit/pkg/editor"
	"github.com/shouni/go-retext-kit/pkg/gateway"

	"github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/time/rate"
)

// EditInstruction は編集指示JSONの1要素です。
// font / color は省略時に「元のスタイルに合わせる」となります。
type EditInstruction struct {
	Region      string            `json:"region"` // 対象領域ID（例: "text-0"）
	Text        string            `json:"text"`   // 差し替え後のテキスト
	Font        domain.StyleValue `json:"font"`
	Color       domain.StyleValue `json:"color"`
	Stroke      domain.Stroke     `json:"stroke"`
	SizePercent int               `json:"size_percent"`
	StyleRef    string            `json:"style_ref,omitempty"` // 任意のスタイル参照画像パス
}

// SkippedEdit は適用できなかった編集指示の記録です。
type SkippedEdit struct {
	Region string `json:"region"`
	Reason string `json:"reason"`
}

// EditOutcome は一括編集の結果です。
type EditOutcome struct {
	Final         *domain.Snapshot
	Regions       []domain.Region
	Applied       int
	Skipped       []SkippedEdit
	HistoryLen    int
	HistoryCursor int
}

// EditRunner は、編集指示の列を1件ずつ適用するインターフェース。
type EditRunner interface {
	// Run は検出パスを実行した上で編集指示を順に適用し、最終状態を返す。
	// undoSteps > 0 の場合、適用後に履歴をその回数だけ戻してから結果を確定する。
	Run(ctx context.Context, base *domain.Snapshot, edits []EditInstruction, undoSteps int) (*EditOutcome, error)
}

// RetextEditRunner は editor の編集セッションを順番に駆動する実体。
// 外部AIの編集は同時に1件しか飛ばせないため、並列化はせず
// レートリミッタでリクエスト間隔だけを制御する。
type RetextEditRunner struct {
	editor   *editor.Editor
	reader   remoteio.InputReader
	download ports.Downloader
	interval time.Duration
}

// NewRetextEditRunner は、RetextEditRunnerの新しいインスタンスを生成して返す。
// download はスタイル参照画像を http(s):// から取得するための共通クライアント。
func NewRetextEditRunner(ed *editor.Editor, reader remoteio.InputReader, download ports.Downloader, interval time.Duration) *RetextEditRunner {
	if interval <= 0 {
		interval = config.DefaultRateLimit
	}
	return &RetextEditRunner{editor: ed, reader: reader, download: download, interval: interval}
}

// Run は一括編集のメインロジックなのだ。
func (r *RetextEditRunner) Run(ctx context.Context, base *domain.Snapshot, edits []EditInstruction, undoSteps int) (*EditOutcome, error) {
	if err := r.editor.LoadImage(base); err != nil {
		return nil, err
	}

	// 編集対象の領域IDを得るため、まず検出パスを通すのだ
	if err := r.editor.Analyze(ctx); err != nil {
		return nil, fmt.Errorf("検出パスに失敗したため編集を中断するのだ: %w", err)
	}

	limiter := rate.NewLimiter(rate.Every(r.interval), 1)
	slog.Info("一括編集を開始するのだ", "edits", len(edits), "interval", r.interval)

	outcome := &EditOutcome{}
	for i, edit := range edits {
		// 1. レートリミットに従って、自分の番が来るまで待機するのだ
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		slog.Info("編集を適用中...", "index", i+1, "region", edit.Region, "text", edit.Text)
		if err := r.applyOne(ctx, edit); err != nil {
			var svcErr *gateway.ServiceError
			if errors.As(err, &svcErr) && svcErr.Kind == gateway.KindAuthInvalid {
				// キー不正は以降も全滅するので打ち切るのだ
				return nil, err
			}
			slog.Warn("編集をスキップするのだ", "region", edit.Region, "error", err)
			outcome.Skipped = append(outcome.Skipped, SkippedEdit{Region: edit.Region, Reason: err.Error()})
			continue
		}

		// 空応答はエラーではなくバナーとして残る
		if banner := r.editor.LastError(); banner != nil {
			outcome.Skipped = append(outcome.Skipped, SkippedEdit{Region: edit.Region, Reason: banner.Message})
			r.editor.DismissError()
			continue
		}

		outcome.Applied++
	}

	for i := 0; i < undoSteps; i++ {
		r.editor.Undo()
	}

	outcome.Final = r.editor.Current()
	outcome.Regions = r.editor.Regions()
	outcome.HistoryLen, outcome.HistoryCursor = r.editor.HistoryDepth()

	slog.Info("一括編集が完了したのだ",
		"applied", outcome.Applied,
		"skipped", len(outcome.Skipped),
		"history_len", outcome.HistoryLen)
	return outcome, nil
}

// applyOne は編集指示1件をセッション経由で適用するのだ。
func (r *RetextEditRunner) applyOne(ctx context.Context, edit EditInstruction) error {
	if err := r.editor.OpenSession(edit.Region); err != nil {
		return err
	}

	if err := r.editor.SetDraftText(edit.Text); err != nil {
		return err
	}
	if err := r.editor.SetStyle(domain.EditStyle{
		Font:        edit.Font,
		Color:       edit.Color,
		Stroke:      edit.Stroke,
		SizePercent: edit.SizePercent,
	}); err != nil {
		return err
	}

	if edit.StyleRef != "" {
		ref, err := r.loadReference(ctx, edit.StyleRef)
		if err != nil {
			// 参照画像が読めなくても編集自体は続行できるのだ
			slog.Warn("スタイル参照画像の読み込みに失敗したのだ", "path", edit.StyleRef, "error", err)
		} else if err := r.editor.SetReference(ref); err != nil {
			return err
		}
	}

	return r.editor.Submit(ctx)
}

// loadReference は参照画像を読み込むのだ。
// http(s):// は共通HTTPクライアント、それ以外（ローカル / gs://）はリーダー経由なのだ。
func (r *RetextEditRunner) loadReference(ctx context.Context, path string) (*domain.Snapshot, error) {
	rc, err := r.openReference(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return domain.NewSnapshot(data, http.DetectContentType(data)), nil
}

func (r *RetextEditRunner) openReference(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if r.download == nil {
			return nil, fmt.Errorf("HTTPクライアントが設定されていません: %s", path)
		}
		return r.download.GetStream(ctx, path)
	}
	return r.reader.Open(ctx, path)
}
