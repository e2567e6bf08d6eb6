package runner

import (
	"context"
	"log/slog"

	"github.com/shouni/go-retext-kit/pkg/domain"
	"github.com/shouni/go-retext-kit/pkg/editor"
)

// DetectRunner は、写真1枚に対する文字領域の検出パスを実行するインターフェース。
type DetectRunner interface {
	// Run は画像を読み込んで検出パスを実行し、ID払い出し済みの領域リストを返す。
	Run(ctx context.Context, snap *domain.Snapshot) ([]domain.Region, error)
}

// RetextDetectRunner は editor コーディネータ経由で検出を行う実体。
// 検出結果の反映は世代カウンタで保護されるため、途中で画像が
// 読み込み直された場合の古い応答は黙って破棄される。
type RetextDetectRunner struct {
	editor *editor.Editor
}

// NewRetextDetectRunner は、RetextDetectRunnerの新しいインスタンスを生成して返す。
func NewRetextDetectRunner(ed *editor.Editor) *RetextDetectRunner {
	return &RetextDetectRunner{editor: ed}
}

// Run は検出パスを実行するメインロジックなのだ。
func (r *RetextDetectRunner) Run(ctx context.Context, snap *domain.Snapshot) ([]domain.Region, error) {
	if err := r.editor.LoadImage(snap); err != nil {
		return nil, err
	}

	slog.Info("文字領域の検出を開始するのだ", "bytes", len(snap.Data), "mime", snap.MimeType)
	if err := r.editor.Analyze(ctx); err != nil {
		slog.Error("検出パスが失敗したのだ", "error", err)
		return nil, err
	}

	regions := r.editor.Regions()
	slog.Info("検出パスが完了したのだ", "regions", len(regions))
	return regions, nil
}
