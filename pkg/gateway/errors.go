package gateway

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Kind はAIサービス障害の分類です。
type Kind string

const (
	// KindRateLimited はレート制限超過です。ユーザー操作による再試行が可能です。
	KindRateLimited Kind = "rate_limited"
	// KindAuthInvalid はAPIキー不正・認可エラーです。
	KindAuthInvalid Kind = "auth_invalid"
	// KindSafetyBlocked はコンテンツセーフティによるブロックです。
	KindSafetyBlocked Kind = "safety_blocked"
	// KindUnclassified は分類できない障害（ネットワーク断など）です。
	KindUnclassified Kind = "unclassified"
)

// ServiceError はAIサービス呼び出しの失敗を分類付きで表します。
// オーケストレーション境界でユーザー向けメッセージに変換されます。
type ServiceError struct {
	Kind Kind
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai service error (%s): %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Retryable はユーザーに「再試行」の導線を出すべき障害かどうかを返します。
func (e *ServiceError) Retryable() bool {
	return e.Kind == KindRateLimited
}

// UserMessage は障害分類に応じたユーザー向けメッセージを返します。
func (e *ServiceError) UserMessage() string {
	switch e.Kind {
	case KindRateLimited:
		return "リクエストが混み合っています。しばらく待ってから再試行してください。"
	case KindAuthInvalid:
		return "APIキーが無効です。GEMINI_API_KEY の設定を確認してください。"
	case KindSafetyBlocked:
		return "コンテンツセーフティにより処理がブロックされました。"
	default:
		return "AIサービスとの通信に失敗しました。時間を置いて再試行してください。"
	}
}

// Classify は genai SDK のエラーを ServiceError へ分類します。
// すでに ServiceError の場合はそのまま返します。
func Classify(err error) *ServiceError {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return &ServiceError{Kind: KindRateLimited, Err: err}
		case apiErr.Code == 401 || apiErr.Code == 403:
			return &ServiceError{Kind: KindAuthInvalid, Err: err}
		case apiErr.Code == 400 && strings.Contains(strings.ToLower(apiErr.Message), "api key"):
			return &ServiceError{Kind: KindAuthInvalid, Err: err}
		}
	}

	return &ServiceError{Kind: KindUnclassified, Err: err}
}

// safetyBlocked はプロンプト拒否を ServiceError として生成します。
func safetyBlocked(reason string) *ServiceError {
	return &ServiceError{
		Kind: KindSafetyBlocked,
		Err:  fmt.Errorf("blocked by safety filter: %s", reason),
	}
}
