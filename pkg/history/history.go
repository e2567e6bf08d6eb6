// Package history は編集済み画像スナップショットの線形アンドゥ・リドゥ履歴を提供します。
package history

import (
	"github.com/shouni/go-retext-kit/pkg/domain"
)

// Store は画像スナップショットの履歴列とカーソル、および編集前の元画像を保持します。
// カーソルは常に -1 <= cursor < len(sequence) を満たします。
// cursor == -1 は「元画像を表示中」の状態です。
//
// すべての操作は前提条件を満たさない場合に黙って no-op になります。
// panic やエラーは返さないため、呼び出し側は Current() の nil チェックで判断します。
type Store struct {
	baseline *domain.Snapshot
	sequence []*domain.Snapshot
	cursor   int
}

// New は空の履歴ストアを生成します。
func New() *Store {
	return &Store{cursor: -1}
}

// Reset は履歴を破棄し、元画像を差し替えます。
// 新しい画像が読み込まれたときに呼びます。
func (s *Store) Reset(baseline *domain.Snapshot) {
	s.baseline = baseline
	s.sequence = nil
	s.cursor = -1
}

// Push は新しいスナップショットを履歴末尾に追加し、カーソルを進めます。
// アンドゥ後に呼ばれた場合、カーソルより先の「未来」（リドゥ分岐）は破棄されます。
// つまりリドゥが可能なのは次の編集が入るまでの間だけです。
func (s *Store) Push(snapshot *domain.Snapshot) {
	if snapshot.IsEmpty() {
		return
	}
	s.sequence = append(s.sequence[:s.cursor+1], snapshot)
	s.cursor = len(s.sequence) - 1
}

// Undo はカーソルを1つ戻します。先頭より前には戻りません。
func (s *Store) Undo() {
	if s.cursor < 0 {
		return
	}
	s.cursor--
}

// Redo はカーソルを1つ進めます。末尾より先には進みません。
func (s *Store) Redo() {
	if s.cursor >= len(s.sequence)-1 {
		return
	}
	s.cursor++
}

// Current は現在表示すべきスナップショットを返します。
// カーソルが履歴内を指していればそのスナップショット、
// -1 なら元画像、何も読み込まれていなければ nil です。
func (s *Store) Current() *domain.Snapshot {
	if s.cursor >= 0 {
		return s.sequence[s.cursor]
	}
	return s.baseline
}

// Baseline は編集前の元画像を返します。未読み込みなら nil です。
func (s *Store) Baseline() *domain.Snapshot {
	return s.baseline
}

// CanUndo はアンドゥ可能かどうかを返します。
func (s *Store) CanUndo() bool {
	return s.cursor >= 0
}

// CanRedo はリドゥ可能かどうかを返します。
func (s *Store) CanRedo() bool {
	return s.cursor < len(s.sequence)-1
}

// Len は保持しているスナップショット数（元画像を除く）を返します。
func (s *Store) Len() int {
	return len(s.sequence)
}

// Cursor は現在のカーソル位置を返します。
func (s *Store) Cursor() int {
	return s.cursor
}
