package domain

import (
	"encoding/json"
	"fmt"
)

// BoundingBox は検出された文字領域の矩形です。
// 座標系は画像サイズに依存しない 0..1000 の正規化空間で、
// Gemini の box_2d 規約（ymin, xmin, ymax, xmax の順）に従います。
type BoundingBox struct {
	YMin int
	XMin int
	YMax int
	XMax int
}

// ScreenRect はオーバーレイ描画用のパーセント表現です。
// 画像＋オーバーレイ層全体にズーム変換を掛ける前提なので、
// この値自体はズーム倍率に依存しません。
type ScreenRect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// ToScreen は 0..1000 正規化座標をパーセントに変換します。
// 変換は value / 10 の線形写像であり、オーバーレイと画像の位置合わせは
// この式に正確に一致していることを前提とします。
func (b BoundingBox) ToScreen() ScreenRect {
	return ScreenRect{
		Top:    float64(b.YMin) / 10,
		Left:   float64(b.XMin) / 10,
		Width:  float64(b.XMax-b.XMin) / 10,
		Height: float64(b.YMax-b.YMin) / 10,
	}
}

// MarshalJSON は box_2d 規約の [ymin, xmin, ymax, xmax] 配列として出力します。
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.YMin, b.XMin, b.YMax, b.XMax})
}

// UnmarshalJSON は [ymin, xmin, ymax, xmax] 配列からパースします。
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var arr []int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("box_2d のパースに失敗しました: %w", err)
	}
	if len(arr) != 4 {
		return fmt.Errorf("box_2d は4要素である必要があります（実際: %d要素）", len(arr))
	}
	b.YMin, b.XMin, b.YMax, b.XMax = arr[0], arr[1], arr[2], arr[3]
	return nil
}

// Region は検出された1つの文字領域と、その現在の表示テキストを保持します。
// Region の所有者は detection.Set であり、編集の適用によって
// Text と IsEdited がその場で更新されます。削除されることはありません。
type Region struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	IsEdited   bool        `json:"is_edited"`
	Box        BoundingBox `json:"box_2d"`
	Confidence float64     `json:"confidence,omitempty"`
}
