package prompts

import (
	"fmt"
	"strings"
)

// EditPromptBuilder は、領域テキスト差し替えの指示プロンプトを構築します。
// 「元のスタイルに合わせる」指定は明示値へ解決せず、
// そのまま維持するよう指示する文（パススルー）に変換します。
type EditPromptBuilder struct{}

// NewEditPromptBuilder は新しい EditPromptBuilder を生成します。
func NewEditPromptBuilder() *EditPromptBuilder {
	return &EditPromptBuilder{}
}

// Build は編集指示プロンプトを生成します。
func (b *EditPromptBuilder) Build(data EditPromptData) string {
	var sb strings.Builder

	sb.WriteString("Edit this image. ")
	sb.WriteString(fmt.Sprintf(
		"Find the text %q located inside the bounding box [ymin=%d, xmin=%d, ymax=%d, xmax=%d] "+
			"(coordinates normalized to a 0-1000 space) and replace it with %q.\n",
		data.OriginalText,
		data.Box.YMin, data.Box.XMin, data.Box.YMax, data.Box.XMax,
		data.NewText,
	))

	sb.WriteString("Typography requirements:\n")
	sb.WriteString("- Font: ")
	if font, ok := data.Style.Font.Value(); ok {
		sb.WriteString(fmt.Sprintf("use the font %q.\n", font))
	} else {
		sb.WriteString("match the original lettering exactly.\n")
	}

	sb.WriteString("- Color: ")
	if color, ok := data.Style.Color.Value(); ok {
		sb.WriteString(fmt.Sprintf("fill the new text with the color %s.\n", color))
	} else {
		sb.WriteString("keep the original text color.\n")
	}

	if data.Style.Stroke.Enabled {
		sb.WriteString(fmt.Sprintf(
			"- Outline: add a text stroke of width %d in the color %s.\n",
			data.Style.Stroke.Width, data.Style.Stroke.Color,
		))
	}

	if size := data.Style.SizePercent; size > 0 && size != 100 {
		sb.WriteString(fmt.Sprintf(
			"- Size: render the new text at %d%% of the original text size.\n", size,
		))
	}

	if data.HasReference {
		sb.WriteString("A second image is attached as a style reference for the new lettering.\n")
	}

	sb.WriteString("Keep every other part of the image pixel-identical: ")
	sb.WriteString("same background, lighting, perspective and surrounding objects. ")
	sb.WriteString("Blend the replacement naturally into the surface it is written on. ")
	sb.WriteString("Return the full edited image.")

	return sb.String()
}
