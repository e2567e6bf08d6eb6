// Package gateway は文字領域の検出と再描画を担う外部AIサービスへの窓口です。
// 検出・画像合成そのものはモデル側のブラックボックスであり、
// ここではその契約（入出力とエラー分類）だけを定義します。
package gateway

import (
	"context"

	"github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-retext-kit/pkg/domain"
)

// RenderRequest は1領域分のテキスト差し替え要求です。
type RenderRequest struct {
	// Image は編集対象の現在画像（履歴の現在地）です。
	Image *domain.Snapshot
	// OriginalText は領域の現在テキストです。
	OriginalText string
	// NewText は差し替え後のテキストです。
	NewText string
	// Box は対象領域の矩形（0..1000 正規化空間）です。
	Box domain.BoundingBox
	// Style は解決前のスタイル指定です。維持指定の解決はプロンプト構築側で行います。
	Style domain.EditStyle
	// Reference は任意のスタイル参照画像です。nil 可。
	Reference *domain.Snapshot
}

// Gateway は外部AIサービスが提供する2つの能力の契約です。
//
// Render が (nil, nil) を返すのは「モデルが画像を生成しなかった」ことを意味し、
// エラーとは区別される正常系の結果です。呼び出し側はこれを
// 「編集結果を生成できなかった」としてユーザーへ提示します。
type Gateway interface {
	// Detect は画像内の文字領域を検出して返します。ID はまだ付与されません。
	Detect(ctx context.Context, img *domain.Snapshot) ([]domain.Region, error)
	// Render は対象領域のテキストを差し替えた新しい全体画像を返します。
	Render(ctx context.Context, req RenderRequest) (*ports.ImageResponse, error)
}
