package editor

import (
	"context"
	"log/slog"

	"github.com/shouni/go-retext-kit/pkg/domain"
	"github.com/shouni/go-retext-kit/pkg/gateway"
)

// SessionState は編集セッションの状態です。
// Closed → Open → Submitting → Closed の一方向にのみ遷移します。
type SessionState int

const (
	// SessionClosed は領域未選択の初期・終端状態です。
	SessionClosed SessionState = iota
	// SessionOpen は領域を選択して下書きを編集中の状態です。
	SessionOpen
	// SessionSubmitting は再描画要求が外部AIへ出ている状態です。
	SessionSubmitting
)

func (s SessionState) String() string {
	switch s {
	case SessionOpen:
		return "open"
	case SessionSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Session は1領域の編集ワークフローの一時状態です。
// キャンセルまたは適用の完了で破棄されます。
type Session struct {
	RegionID     string
	OriginalText string
	DraftText    string
	Style        domain.EditStyle
	Reference    *domain.Snapshot
	state        SessionState
}

// State は現在のセッション状態を返します。
func (s *Session) State() SessionState {
	if s == nil {
		return SessionClosed
	}
	return s.state
}

// SessionState は現在のセッション状態を返します。セッションがなければ Closed です。
func (e *Editor) SessionState() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.State()
}

// Session は現在のセッションの値コピーを返します。
func (e *Editor) Session() (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// OpenSession は領域を選択して編集セッションを開きます。
// 検出・編集の進行中、およびパンジェスチャ中は開けません。
// 下書きは領域の現在テキストとデフォルトスタイルで初期化されます。
func (e *Editor) OpenSession(regionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isAnalyzing || e.isEditing {
		return ErrBusy
	}
	if e.viewport.IsPanning() {
		return ErrPanInProgress
	}

	region, ok := e.detections.Find(regionID)
	if !ok {
		return ErrUnknownRegion
	}

	e.session = &Session{
		RegionID:     region.ID,
		OriginalText: region.Text,
		DraftText:    region.Text,
		Style:        domain.DefaultEditStyle(),
		state:        SessionOpen,
	}
	return nil
}

// SetDraftText は下書きテキストを更新します。Open 状態でのみ有効です。
func (e *Editor) SetDraftText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.State() != SessionOpen {
		return ErrNoSession
	}
	e.session.DraftText = text
	return nil
}

// SetStyle は下書きのスタイル指定を更新します。Open 状態でのみ有効です。
func (e *Editor) SetStyle(style domain.EditStyle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.State() != SessionOpen {
		return ErrNoSession
	}
	if style.SizePercent <= 0 {
		style.SizePercent = 100
	}
	e.session.Style = style
	return nil
}

// SetReference は任意のスタイル参照画像を添付します。Open 状態でのみ有効です。
func (e *Editor) SetReference(ref *domain.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.State() != SessionOpen {
		return ErrNoSession
	}
	e.session.Reference = ref
	return nil
}

// CancelSession は下書きを破棄してセッションを閉じます。副作用はありません。
func (e *Editor) CancelSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.State() != SessionOpen {
		return
	}
	e.session = nil
}

// BeginSubmit は編集の適用を開始し、外部AIへ渡す再描画要求と
// 応答検証用の世代を返します。Submitting は同時に1つだけです。
func (e *Editor) BeginSubmit() (uint64, gateway.RenderRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.State() != SessionOpen {
		return 0, gateway.RenderRequest{}, ErrNoSession
	}
	if e.isAnalyzing || e.isEditing {
		return 0, gateway.RenderRequest{}, ErrBusy
	}

	current := e.history.Current()
	if current == nil {
		return 0, gateway.RenderRequest{}, ErrNoImage
	}

	region, ok := e.detections.Find(e.session.RegionID)
	if !ok {
		return 0, gateway.RenderRequest{}, ErrUnknownRegion
	}

	e.generation++
	e.isEditing = true
	e.session.state = SessionSubmitting
	e.lastError = nil

	req := gateway.RenderRequest{
		Image:        current,
		OriginalText: region.Text,
		NewText:      e.session.DraftText,
		Box:          region.Box,
		Style:        e.session.Style,
		Reference:    e.session.Reference,
	}
	return e.generation, req, nil
}

// CompleteRender は再描画の完了を反映します。
//
//   - 世代不一致の応答は丸ごと破棄します。
//   - 失敗時は分類済みメッセージをバナーへ設定し、履歴・検出集合には
//     一切手を付けません（部分結果はコミットしない）。
//   - resp が nil の正常応答は「編集結果を生成できなかった」として
//     バナーを設定します。これもローカル状態は変更しません。
//   - 成功時は履歴へ1回だけ push し、対象領域を編集済みへ更新します。
//
// いずれの場合もセッションは閉じられます。
func (e *Editor) CompleteRender(gen uint64, snapshot *domain.Snapshot, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		slog.Warn("古い再描画応答を破棄するのだ", "stale_gen", gen, "current_gen", e.generation)
		return
	}

	session := e.session
	e.isEditing = false
	e.session = nil

	if err != nil {
		svcErr := gateway.Classify(err)
		e.lastError = &Banner{Message: svcErr.UserMessage(), Retryable: svcErr.Retryable()}
		slog.Error("再描画が失敗したのだ", "kind", svcErr.Kind, "error", err)
		return
	}

	if snapshot.IsEmpty() {
		e.lastError = &Banner{Message: "編集結果を生成できませんでした。内容を変えて再度お試しください。"}
		slog.Warn("モデルが編集結果を返さなかったのだ", "region", session.RegionID)
		return
	}

	e.history.Push(snapshot)
	e.detections.MarkEdited(session.RegionID, session.DraftText)
	slog.Info("編集を適用したのだ", "region", session.RegionID, "history_len", e.history.Len())
}

// Submit は現在のセッションの再描画を同期実行します。
// BeginSubmit と CompleteRender の組を1回の呼び出しに畳んだ便宜APIです。
func (e *Editor) Submit(ctx context.Context) error {
	gen, req, err := e.BeginSubmit()
	if err != nil {
		return err
	}

	resp, renderErr := e.gw.Render(ctx, req)
	var snapshot *domain.Snapshot
	if renderErr == nil && resp != nil {
		snapshot = domain.NewSnapshot(resp.Data, resp.MimeType)
	}
	e.CompleteRender(gen, snapshot, renderErr)
	if renderErr != nil {
		return gateway.Classify(renderErr)
	}
	return nil
}
