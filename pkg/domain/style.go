package domain

import (
	"encoding/json"
)

// matchOriginalSentinel は JSON 境界でのみ使う「元のスタイルに合わせる」目印です。
// コア内部では StyleValue のタグ付き表現だけを扱い、文字列比較は行いません。
const matchOriginalSentinel = "match-original"

// StyleValue はフォントや色の指定値です。
// ゼロ値は「元画像のスタイルに合わせる」を意味し、明示値は Explicit で作ります。
type StyleValue struct {
	value    string
	explicit bool
}

// MatchOriginal は「元のスタイルを維持する」指定を返します。
func MatchOriginal() StyleValue {
	return StyleValue{}
}

// Explicit は明示的なスタイル指定値を返します。
func Explicit(value string) StyleValue {
	return StyleValue{value: value, explicit: true}
}

// IsMatchOriginal は元スタイル維持の指定かどうかを返します。
func (s StyleValue) IsMatchOriginal() bool {
	return !s.explicit
}

// Value は明示値とその有無を返します。
func (s StyleValue) Value() (string, bool) {
	return s.value, s.explicit
}

// MarshalJSON は明示値をそのまま、維持指定はセンチネル文字列として出力します。
func (s StyleValue) MarshalJSON() ([]byte, error) {
	if !s.explicit {
		return json.Marshal(matchOriginalSentinel)
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON はセンチネル文字列・空文字を維持指定として読み込みます。
func (s *StyleValue) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == "" || v == matchOriginalSentinel {
		*s = MatchOriginal()
		return nil
	}
	*s = Explicit(v)
	return nil
}

// Stroke は文字の縁取り指定です。
type Stroke struct {
	Enabled bool   `json:"enabled"`
	Color   string `json:"color,omitempty"`
	Width   int    `json:"width,omitempty"`
}

// EditStyle は1回の編集に適用するスタイル一式です。
type EditStyle struct {
	Font        StyleValue `json:"font"`
	Color       StyleValue `json:"color"`
	Stroke      Stroke     `json:"stroke"`
	SizePercent int        `json:"size_percent"`
}

// DefaultEditStyle は編集フォーム初期状態と同じデフォルト値を返します。
// フォント・色は元画像に合わせ、縁取りなし、サイズ100%です。
func DefaultEditStyle() EditStyle {
	return EditStyle{
		Font:        MatchOriginal(),
		Color:       MatchOriginal(),
		Stroke:      Stroke{},
		SizePercent: 100,
	}
}
