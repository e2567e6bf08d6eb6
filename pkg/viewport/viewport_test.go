package viewport

import (
	"testing"

	"github.com/shouni/go-retext-kit/pkg/domain"
)

func TestController_ZoomBy(t *testing.T) {
	t.Run("上限は5で正確に止まるのだ", func(t *testing.T) {
		c := New()
		c.ZoomBy(100)
		if c.Scale() != 5 {
			t.Errorf("上限クランプが不正なのだ: %v", c.Scale())
		}
	})

	t.Run("下限は1で止まりオフセットがリセットされるのだ", func(t *testing.T) {
		c := New()
		c.ZoomBy(2)
		if ok := c.BeginPan(Point{X: 0, Y: 0}); !ok {
			t.Fatal("拡大中なのにパンが拒否されたのだ")
		}
		c.UpdatePan(Point{X: 30, Y: 40})
		c.EndPan()
		if c.Offset() == (Point{}) {
			t.Fatal("パンでオフセットが動いていないのだ")
		}

		c.ZoomBy(-100)
		if c.Scale() != 1 {
			t.Errorf("下限クランプが不正なのだ: %v", c.Scale())
		}
		if c.Offset() != (Point{}) {
			t.Errorf("等倍復帰でオフセットが原点に戻らないのだ: %+v", c.Offset())
		}
	})
}

func TestController_Wheel(t *testing.T) {
	t.Run("修飾キーなしのホイールは無視するのだ", func(t *testing.T) {
		c := New()
		c.Wheel(3, false)
		if c.Scale() != 1 {
			t.Errorf("通常スクロールを奪ってしまったのだ: %v", c.Scale())
		}
	})

	t.Run("修飾キーありなら1目盛り0.15で拡大するのだ", func(t *testing.T) {
		c := New()
		c.Wheel(1, true)
		if c.Scale() != 1.15 {
			t.Errorf("ホイール刻みが不正なのだ: %v", c.Scale())
		}
	})
}

func TestController_Pan(t *testing.T) {
	t.Run("等倍ではパンが拒否されるのだ", func(t *testing.T) {
		c := New()
		if c.BeginPan(Point{X: 10, Y: 10}) {
			t.Error("等倍でパンが開始できてしまったのだ")
		}
		c.UpdatePan(Point{X: 100, Y: 100})
		if c.Offset() != (Point{}) {
			t.Errorf("拒否されたパンでオフセットが動いたのだ: %+v", c.Offset())
		}
	})

	t.Run("ドラッグ移動量が開始時オフセットへ加算されるのだ", func(t *testing.T) {
		c := New()
		c.ZoomBy(1.5)

		c.BeginPan(Point{X: 100, Y: 100})
		c.UpdatePan(Point{X: 130, Y: 80})
		c.EndPan()
		if got := c.Offset(); got.X != 30 || got.Y != -20 {
			t.Errorf("1回目のパン結果が不正なのだ: %+v", got)
		}

		// 2回目のパンは前回のオフセットから継続する
		c.BeginPan(Point{X: 0, Y: 0})
		c.UpdatePan(Point{X: 10, Y: 10})
		c.EndPan()
		if got := c.Offset(); got.X != 40 || got.Y != -10 {
			t.Errorf("継続パンの合成が不正なのだ: %+v", got)
		}
	})
}

func TestController_Reset(t *testing.T) {
	c := New()
	c.ZoomBy(3)
	c.BeginPan(Point{})
	c.UpdatePan(Point{X: 5, Y: 5})

	c.Reset()
	if c.Scale() != 1 || c.Offset() != (Point{}) || c.IsPanning() {
		t.Errorf("リセット後の状態が不正なのだ: scale=%v offset=%+v panning=%v",
			c.Scale(), c.Offset(), c.IsPanning())
	}
}

func TestBoxMappingIsZoomIndependent(t *testing.T) {
	// オーバーレイ矩形の変換はズームに依存しない
	box := domain.BoundingBox{YMin: 100, XMin: 200, YMax: 150, XMax: 400}
	want := domain.ScreenRect{Top: 10, Left: 20, Width: 20, Height: 5}

	c := New()
	for _, delta := range []float64{0, 1.5, 100} {
		c.ZoomBy(delta)
		if got := box.ToScreen(); got != want {
			t.Errorf("倍率%vで矩形変換が変化したのだ: %+v", c.Scale(), got)
		}
	}
}
