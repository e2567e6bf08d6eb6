package prompts

import "github.com/shouni/go-retext-kit/pkg/domain"

// DetectPrompt は、文字領域検出用のAIプロンプトを構築する契約です。
type DetectPrompt interface {
	// Build は、検出パス1回分のプロンプト文字列を生成します。
	Build() string
}

// EditPrompt は、領域テキスト差し替え用のAIプロンプトを構築する契約です。
type EditPrompt interface {
	// Build は、対象領域・新旧テキスト・スタイル指定からプロンプト文字列を生成します。
	Build(data EditPromptData) string
}

// EditPromptData は編集プロンプトのテンプレートに渡すデータ構造です。
type EditPromptData struct {
	OriginalText string
	NewText      string
	Box          domain.BoundingBox
	Style        domain.EditStyle
	HasReference bool // 追加のスタイル参照画像を同梱しているか
}
