package gateway

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	t.Run("429はレート制限に分類されるのだ", func(t *testing.T) {
		err := Classify(genai.APIError{Code: 429, Message: "quota exceeded"})
		if err.Kind != KindRateLimited {
			t.Errorf("分類が違うのだ: %s", err.Kind)
		}
		if !err.Retryable() {
			t.Error("レート制限は再試行可能であるべきなのだ")
		}
	})

	t.Run("認可系はキー不正に分類されるのだ", func(t *testing.T) {
		for _, code := range []int{401, 403} {
			err := Classify(genai.APIError{Code: code})
			if err.Kind != KindAuthInvalid {
				t.Errorf("code=%d の分類が違うのだ: %s", code, err.Kind)
			}
		}
		err := Classify(genai.APIError{Code: 400, Message: "API key not valid"})
		if err.Kind != KindAuthInvalid {
			t.Errorf("APIキー系400の分類が違うのだ: %s", err.Kind)
		}
	})

	t.Run("その他は未分類になり再試行導線は出ないのだ", func(t *testing.T) {
		err := Classify(errors.New("connection refused"))
		if err.Kind != KindUnclassified {
			t.Errorf("分類が違うのだ: %s", err.Kind)
		}
		if err.Retryable() {
			t.Error("未分類エラーに再試行導線が出てしまうのだ")
		}
	})

	t.Run("ラップ済みServiceErrorはそのまま通すのだ", func(t *testing.T) {
		original := safetyBlocked("PROHIBITED_CONTENT")
		wrapped := fmt.Errorf("検出に失敗しました: %w", original)
		if got := Classify(wrapped); got.Kind != KindSafetyBlocked {
			t.Errorf("再分類で種別が壊れたのだ: %s", got.Kind)
		}
	})

	t.Run("すべての分類がユーザー向けメッセージを持つのだ", func(t *testing.T) {
		for _, kind := range []Kind{KindRateLimited, KindAuthInvalid, KindSafetyBlocked, KindUnclassified} {
			e := &ServiceError{Kind: kind, Err: errors.New("x")}
			if e.UserMessage() == "" {
				t.Errorf("%s のメッセージが空なのだ", kind)
			}
		}
	})
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"[]":                        "[]",
		"```json\n[{\"a\":1}]\n```": `[{"a":1}]`,
		"```\n[]\n```":              "[]",
		"  [{\"text\":\"x\"}]  ":    `[{"text":"x"}]`,
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, 期待 %q", in, got, want)
		}
	}
}
