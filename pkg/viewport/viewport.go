// Package viewport は画像検分用のズーム・パン変換を管理します。
// 変換は画像とオーバーレイの層全体に一括で適用される前提のため、
// 個々の領域矩形には掛かりません。
package viewport

// ズーム倍率と入力刻みの既定値です。
const (
	MinScale  = 1.0
	MaxScale  = 5.0
	WheelStep = 0.15
)

// Point は画面ピクセル座標です。
type Point struct {
	X float64
	Y float64
}

// Controller はズーム倍率 [1, 5] と平行移動オフセットを保持します。
// 倍率がちょうど 1 に戻ったときはオフセットも原点へリセットされます。
type Controller struct {
	scale  float64
	offset Point

	panning       bool
	panStart      Point
	offsetAtStart Point
}

// New は等倍・原点オフセットのコントローラを生成します。
func New() *Controller {
	return &Controller{scale: MinScale}
}

// Scale は現在のズーム倍率を返します。
func (c *Controller) Scale() float64 {
	return c.scale
}

// Offset は現在の平行移動量を返します。
func (c *Controller) Offset() Point {
	return c.offset
}

// IsPanning はパンジェスチャの最中かどうかを返します。
func (c *Controller) IsPanning() bool {
	return c.panning
}

// ZoomBy は倍率を delta だけ変化させます。結果は [1, 5] に丸められ、
// ちょうど 1 に到達した場合はオフセットを原点へ戻します。
func (c *Controller) ZoomBy(delta float64) {
	next := c.scale + delta
	if next < MinScale {
		next = MinScale
	}
	if next > MaxScale {
		next = MaxScale
	}
	c.scale = next
	if c.scale == MinScale {
		c.offset = Point{}
	}
}

// Wheel はホイール・ピンチ相当の入力を倍率へ反映します。
// 通常のページスクロールを奪わないよう、修飾キーが押されている間だけ作用します。
// ticks は上方向が正です。
func (c *Controller) Wheel(ticks float64, modifierHeld bool) {
	if !modifierHeld {
		return
	}
	c.ZoomBy(ticks * WheelStep)
}

// BeginPan はパン開始を試みます。等倍では拒否され false を返します。
func (c *Controller) BeginPan(pointerStart Point) bool {
	if c.scale <= MinScale {
		return false
	}
	c.panning = true
	c.panStart = pointerStart
	c.offsetAtStart = c.offset
	return true
}

// UpdatePan はドラッグ中のポインタ位置からオフセットを更新します。
// 速度ベースではなく、開始点からの直接的な移動量を適用します。
func (c *Controller) UpdatePan(pointerCurrent Point) {
	if !c.panning {
		return
	}
	c.offset = Point{
		X: pointerCurrent.X - c.panStart.X + c.offsetAtStart.X,
		Y: pointerCurrent.Y - c.panStart.Y + c.offsetAtStart.Y,
	}
}

// EndPan はパンジェスチャを終了します。
func (c *Controller) EndPan() {
	c.panning = false
}

// Reset は等倍・原点オフセットへ戻します。
func (c *Controller) Reset() {
	c.scale = MinScale
	c.offset = Point{}
	c.panning = false
}
