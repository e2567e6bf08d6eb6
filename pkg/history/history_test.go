package history

import (
	"testing"

	"github.com/shouni/go-retext-kit/pkg/domain"
)

func snap(name string) *domain.Snapshot {
	return domain.NewSnapshot([]byte(name), "image/png")
}

func TestStore_Current(t *testing.T) {
	t.Run("何も読み込んでいなければnilなのだ", func(t *testing.T) {
		s := New()
		if s.Current() != nil {
			t.Error("空のストアがnil以外を返したのだ")
		}
	})

	t.Run("履歴が空ならば元画像を返すのだ", func(t *testing.T) {
		s := New()
		base := snap("base")
		s.Reset(base)
		if s.Current() != base {
			t.Error("元画像が返らないのだ")
		}
		if s.Cursor() != -1 {
			t.Errorf("リセット直後のカーソルは-1であるべきなのだ: %d", s.Cursor())
		}
	})

	t.Run("Pushすると末尾のスナップショットを指すのだ", func(t *testing.T) {
		s := New()
		s.Reset(snap("base"))
		a, b := snap("A"), snap("B")
		s.Push(a)
		s.Push(b)
		if s.Current() != b {
			t.Error("最新のスナップショットを指していないのだ")
		}
		if s.Len() != 2 || s.Cursor() != 1 {
			t.Errorf("履歴長・カーソルが不正なのだ: len=%d cursor=%d", s.Len(), s.Cursor())
		}
	})
}

func TestStore_UndoRedo(t *testing.T) {
	t.Run("アンドゥで元画像まで戻れるのだ", func(t *testing.T) {
		s := New()
		base := snap("base")
		s.Reset(base)
		a := snap("A")
		s.Push(a)

		s.Undo()
		if s.Current() != base {
			t.Error("アンドゥで元画像に戻らないのだ")
		}

		// 先頭より前には戻らない
		s.Undo()
		if s.Cursor() != -1 {
			t.Errorf("カーソルが-1を下回ったのだ: %d", s.Cursor())
		}

		s.Redo()
		if s.Current() != a {
			t.Error("リドゥで復帰しないのだ")
		}

		// 末尾より先には進まない
		s.Redo()
		if s.Cursor() != 0 {
			t.Errorf("カーソルが末尾を超えたのだ: %d", s.Cursor())
		}
	})

	t.Run("アンドゥ後のPushはリドゥ分岐を破棄するのだ", func(t *testing.T) {
		s := New()
		s.Reset(snap("base"))
		a, b, c, d := snap("A"), snap("B"), snap("C"), snap("D")
		s.Push(a)
		s.Push(b)
		s.Push(c)

		s.Undo() // [A,B,C] の B を指す
		if s.Current() != b {
			t.Fatal("アンドゥ後の現在地がBでないのだ")
		}

		s.Push(d) // C は破棄され [A,B,D] になる
		if s.Len() != 3 || s.Cursor() != 2 {
			t.Errorf("分岐破棄後の形が不正なのだ: len=%d cursor=%d", s.Len(), s.Cursor())
		}
		if s.Current() != d {
			t.Error("Push後の現在地がDでないのだ")
		}

		// C はもう復元できない
		s.Redo()
		if s.Current() != d {
			t.Error("破棄したはずのCへリドゥできてしまったのだ")
		}
	})

	t.Run("空のストアではアンドゥ・リドゥはno-opなのだ", func(t *testing.T) {
		s := New()
		s.Undo()
		s.Redo()
		if s.Current() != nil || s.Cursor() != -1 {
			t.Error("空ストアの操作で状態が変わったのだ")
		}
	})
}

func TestStore_Reset(t *testing.T) {
	t.Run("Resetで履歴が全破棄されるのだ", func(t *testing.T) {
		s := New()
		s.Reset(snap("base1"))
		s.Push(snap("A"))
		s.Push(snap("B"))

		base2 := snap("base2")
		s.Reset(base2)
		if s.Len() != 0 || s.Cursor() != -1 {
			t.Errorf("リセット後に履歴が残っているのだ: len=%d cursor=%d", s.Len(), s.Cursor())
		}
		if s.Current() != base2 {
			t.Error("新しい元画像を指していないのだ")
		}
		if s.CanUndo() || s.CanRedo() {
			t.Error("リセット直後はアンドゥもリドゥも不可のはずなのだ")
		}
	})

	t.Run("空スナップショットのPushは無視されるのだ", func(t *testing.T) {
		s := New()
		s.Reset(snap("base"))
		s.Push(nil)
		s.Push(&domain.Snapshot{})
		if s.Len() != 0 {
			t.Errorf("空データが履歴に積まれたのだ: len=%d", s.Len())
		}
	})
}
