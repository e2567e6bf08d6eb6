// Package detection は現在の画像に重ねる検出済み文字領域の集合を管理します。
package detection

import (
	"fmt"

	"github.com/shouni/go-retext-kit/pkg/domain"
)

// Set は1回の検出パスで得られた文字領域の集合です。
// 領域は ReplaceAll による総入れ替えでのみ登録され、個別の削除はありません。
// ID は入力順に基づいて決定的に払い出され、1パス内で一意です。
// 総入れ替え後に古い ID で操作しても黙って no-op になります。
type Set struct {
	regions []*domain.Region
	byID    map[string]*domain.Region
}

// NewSet は空の検出集合を生成します。
func NewSet() *Set {
	return &Set{byID: make(map[string]*domain.Region)}
}

// ReplaceAll は検出結果で集合を総入れ替えします。
// ID は入力の位置に基づき "text-0", "text-1", ... と払い出されます。
// 入力の ID フィールドは無視され、常にここで再割り当てされます。
func (s *Set) ReplaceAll(regions []domain.Region) {
	s.regions = make([]*domain.Region, 0, len(regions))
	s.byID = make(map[string]*domain.Region, len(regions))

	for i, r := range regions {
		region := r
		region.ID = fmt.Sprintf("text-%d", i)
		region.IsEdited = false
		s.regions = append(s.regions, &region)
		s.byID[region.ID] = &region
	}
}

// Clear は集合を空にします。新しい画像が読み込まれたときに呼びます。
func (s *Set) Clear() {
	s.regions = nil
	s.byID = make(map[string]*domain.Region)
}

// MarkEdited は対象領域のテキストを差し替え、編集済みフラグを立てます。
// ID が見つからない場合（総入れ替え後の古い ID など）は false を返すだけで、
// 集合には一切手を付けません。
func (s *Set) MarkEdited(id, newText string) bool {
	region, ok := s.byID[id]
	if !ok {
		return false
	}
	region.Text = newText
	region.IsEdited = true
	return true
}

// Find は ID で領域を検索し、値コピーを返します。
// 領域の所有権は Set にあるため、呼び出し側の変更は集合へ波及しません。
func (s *Set) Find(id string) (domain.Region, bool) {
	region, ok := s.byID[id]
	if !ok {
		return domain.Region{}, false
	}
	return *region, true
}

// Regions は現在の全領域の値コピーを検出順で返します。
func (s *Set) Regions() []domain.Region {
	out := make([]domain.Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = *r
	}
	return out
}

// Len は領域数を返します。
func (s *Set) Len() int {
	return len(s.regions)
}

// EditedCount は編集済み領域の数を返します。
func (s *Set) EditedCount() int {
	n := 0
	for _, r := range s.regions {
		if r.IsEdited {
			n++
		}
	}
	return n
}
