package prompts

import "strings"

// DetectPromptBuilder は、検出レスポンスのJSONスキーマと
// 0..1000 正規化座標の規約を固定した検出プロンプトを構築します。
type DetectPromptBuilder struct {
	languageHint string // 例: "Japanese and English"
}

// NewDetectPromptBuilder は新しい DetectPromptBuilder を生成します。
// languageHint が空の場合は言語を限定しません。
func NewDetectPromptBuilder(languageHint string) *DetectPromptBuilder {
	return &DetectPromptBuilder{languageHint: languageHint}
}

// Build は検出パス用のプロンプトを生成します。
// box_2d の座標順と値域はモデル側の規約に合わせて明示します。
func (b *DetectPromptBuilder) Build() string {
	var sb strings.Builder

	sb.WriteString("Detect every piece of visible text in this image.\n")
	if b.languageHint != "" {
		sb.WriteString("Focus on text in: ")
		sb.WriteString(b.languageHint)
		sb.WriteString(".\n")
	}
	sb.WriteString("Return ONLY a JSON array. Each element must have this exact shape:\n")
	sb.WriteString(`{"text": "<the text content>", "box_2d": [ymin, xmin, ymax, xmax], "confidence": <0.0-1.0>}` + "\n")
	sb.WriteString("Coordinates are integers normalized to a 0-1000 space, ")
	sb.WriteString("ordered ymin, xmin, ymax, xmax.\n")
	sb.WriteString("Report each distinct text block as its own element. ")
	sb.WriteString("If the image contains no text, return an empty array [].")

	return sb.String()
}
