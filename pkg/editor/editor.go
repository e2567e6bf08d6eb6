// Package editor は画像履歴・検出集合・ビューポート・編集セッションを
// 束ねるコーディネータです。状態の変更はすべてこのパッケージの
// メソッド経由で行われ、非同期呼び出しの完了は世代カウンタで検証されます。
package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shouni/go-retext-kit/pkg/detection"
	"github.com/shouni/go-retext-kit/pkg/domain"
	"github.com/shouni/go-retext-kit/pkg/gateway"
	"github.com/shouni/go-retext-kit/pkg/history"
	"github.com/shouni/go-retext-kit/pkg/viewport"
)

// 状態遷移の前提条件エラーです。
var (
	ErrBusy          = errors.New("別の処理が実行中です")
	ErrNoImage       = errors.New("画像が読み込まれていません")
	ErrNoSession     = errors.New("編集セッションが開かれていません")
	ErrUnknownRegion = errors.New("指定された領域が見つかりません")
	ErrPanInProgress = errors.New("パン操作中は領域を選択できません")
)

// Banner はユーザーへ提示するエラーバナーの内容です。
type Banner struct {
	Message   string
	Retryable bool // レート制限時のみ「再試行」導線を出す
}

// Editor は1枚のアクティブ画像に対する編集状態全体を所有します。
// 外部AIへの呼び出しは Begin*/Complete* の対で駆動され、
// LoadImage で世代が進むため遅延して届いた古い応答は破棄されます。
type Editor struct {
	mu sync.Mutex

	history    *history.Store
	detections *detection.Set
	viewport   *viewport.Controller
	gw         gateway.Gateway

	session *Session

	isAnalyzing bool
	isEditing   bool
	lastError   *Banner

	generation uint64
}

// New は空の Editor を生成します。gw は nil でも構いませんが、
// その場合 Analyze / Submit の同期実行は使えず Begin*/Complete* のみ有効です。
func New(gw gateway.Gateway) *Editor {
	return &Editor{
		history:    history.New(),
		detections: detection.NewSet(),
		viewport:   viewport.New(),
		gw:         gw,
	}
}

// ZoomBy はズーム倍率を変化させます。検出・編集の進行中は無視されます。
func (e *Editor) ZoomBy(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isAnalyzing || e.isEditing {
		return
	}
	e.viewport.ZoomBy(delta)
}

// Wheel はホイール・ピンチ相当の入力をズームへ反映します。
// 検出・編集の進行中は無視されます。
func (e *Editor) Wheel(ticks float64, modifierHeld bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isAnalyzing || e.isEditing {
		return
	}
	e.viewport.Wheel(ticks, modifierHeld)
}

// BeginPan はパン開始を試みます。等倍のほか、検出・編集の進行中も拒否されます。
func (e *Editor) BeginPan(pointerStart viewport.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isAnalyzing || e.isEditing {
		return false
	}
	return e.viewport.BeginPan(pointerStart)
}

// UpdatePan はドラッグ中のポインタ位置をオフセットへ反映します。
func (e *Editor) UpdatePan(pointerCurrent viewport.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport.UpdatePan(pointerCurrent)
}

// EndPan はパンジェスチャを終了します。常に受け付けます。
func (e *Editor) EndPan() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport.EndPan()
}

// ViewportScale は現在のズーム倍率を返します。
func (e *Editor) ViewportScale() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport.Scale()
}

// ViewportOffset は現在の平行移動量を返します。
func (e *Editor) ViewportOffset() viewport.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport.Offset()
}

// IsPanning はパンジェスチャの最中かどうかを返します。
func (e *Editor) IsPanning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport.IsPanning()
}

// Regions は現在の検出領域の値コピーを返します。
func (e *Editor) Regions() []domain.Region {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detections.Regions()
}

// FindRegion は ID で領域を検索します。
func (e *Editor) FindRegion(id string) (domain.Region, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detections.Find(id)
}

// Current は現在表示中のスナップショットを返します。
func (e *Editor) Current() *domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Current()
}

// HistoryDepth は (スナップショット数, カーソル位置) を返します。
func (e *Editor) HistoryDepth() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len(), e.history.Cursor()
}

// IsAnalyzing は検出パスが進行中かどうかを返します。
func (e *Editor) IsAnalyzing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isAnalyzing
}

// IsEditing は編集（再描画）が進行中かどうかを返します。
func (e *Editor) IsEditing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isEditing
}

// LastError は現在表示すべきエラーバナーを返します。なければ nil です。
func (e *Editor) LastError() *Banner {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastError
}

// DismissError はエラーバナーを閉じます。
func (e *Editor) DismissError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastError = nil
}

// LoadImage は新しい画像を読み込み、履歴・検出集合・ビューポート・
// セッションをすべて初期化します。世代が進むため、前の画像に対して
// 未完了だった検出・再描画の応答は以後すべて破棄されます。
func (e *Editor) LoadImage(baseline *domain.Snapshot) error {
	if baseline.IsEmpty() {
		return ErrNoImage
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	e.history.Reset(baseline)
	e.detections.Clear()
	e.viewport.Reset()
	e.session = nil
	e.isAnalyzing = false
	e.isEditing = false
	e.lastError = nil
	return nil
}

// Undo は履歴を1つ戻します。検出・編集の進行中は受け付けません。
func (e *Editor) Undo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isAnalyzing || e.isEditing {
		return
	}
	e.history.Undo()
}

// Redo は履歴を1つ進めます。検出・編集の進行中は受け付けません。
func (e *Editor) Redo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isAnalyzing || e.isEditing {
		return
	}
	e.history.Redo()
}

// BeginAnalysis は検出パスの開始を宣言し、応答検証用の世代を返します。
// 画像未読み込み・他処理の進行中はエラーになります。
func (e *Editor) BeginAnalysis() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.history.Current() == nil {
		return 0, ErrNoImage
	}
	if e.isAnalyzing || e.isEditing {
		return 0, ErrBusy
	}

	e.generation++
	e.isAnalyzing = true
	e.lastError = nil
	return e.generation, nil
}

// CompleteAnalysis は検出パスの完了を反映します。
// gen が最新世代と一致しない応答は、成功・失敗を問わず丸ごと破棄されます
// （その間に LoadImage で状態が作り直されているためです）。
func (e *Editor) CompleteAnalysis(gen uint64, regions []domain.Region, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		slog.Warn("古い検出応答を破棄するのだ", "stale_gen", gen, "current_gen", e.generation)
		return
	}

	e.isAnalyzing = false
	if err != nil {
		svcErr := gateway.Classify(err)
		e.lastError = &Banner{Message: svcErr.UserMessage(), Retryable: svcErr.Retryable()}
		slog.Error("検出パスが失敗したのだ", "kind", svcErr.Kind, "error", err)
		return
	}

	e.detections.ReplaceAll(regions)
	slog.Info("検出パスが完了したのだ", "regions", e.detections.Len())
}

// Analyze は現在画像に対する検出パスを同期実行します。
// BeginAnalysis と CompleteAnalysis の組を1回の呼び出しに畳んだ便宜APIです。
func (e *Editor) Analyze(ctx context.Context) error {
	gen, err := e.BeginAnalysis()
	if err != nil {
		return err
	}

	regions, detectErr := e.gw.Detect(ctx, e.Current())
	e.CompleteAnalysis(gen, regions, detectErr)
	if detectErr != nil {
		return gateway.Classify(detectErr)
	}
	return nil
}
