package domain

// Snapshot は編集履歴上の1枚の完成画像データです。
// 一度生成された Snapshot は不変として扱い、内容の書き換えは行いません。
type Snapshot struct {
	Data     []byte
	MimeType string
}

// NewSnapshot は画像バイト列とMIMEタイプから Snapshot を生成します。
// MIMEタイプが空の場合は PNG とみなします。
func NewSnapshot(data []byte, mimeType string) *Snapshot {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &Snapshot{Data: data, MimeType: mimeType}
}

// IsEmpty は画像データを持たないスナップショットかどうかを返します。
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Data) == 0
}
