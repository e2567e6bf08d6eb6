package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-retext-kit/pkg/domain"
	"github.com/shouni/go-retext-kit/pkg/prompts"

	"github.com/shouni/gemini-image-kit/ports"
	"github.com/patrickmn/go-cache"
	"google.golang.org/genai"
)

// 検出結果キャッシュの寿命です。同じ画像への再検出はAPIを叩き直しません。
const (
	detectCacheExpiration = 30 * time.Minute
	detectCacheCleanup    = 1 * time.Hour
)

// Config は GeminiGateway の構築パラメータです。
type Config struct {
	APIKey      string
	DetectModel string // 検出に使うテキスト・ビジョンモデル
	RenderModel string // 再描画に使う画像生成モデル
	// LanguageHint は検出プロンプトに付ける言語ヒントです。空なら限定しません。
	LanguageHint string
}

// GeminiGateway は Gemini API を使った Gateway 実装です。
// 検出は構造化JSON出力、再描画はインライン画像入出力で行います。
type GeminiGateway struct {
	client       *genai.Client
	detectModel  string
	renderModel  string
	detectPrompt prompts.DetectPrompt
	editPrompt   prompts.EditPrompt
	detectCache  *cache.Cache
}

// NewGeminiGateway は Gemini クライアントを初期化して GeminiGateway を生成します。
func NewGeminiGateway(ctx context.Context, cfg Config) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが設定されていません")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	return &GeminiGateway{
		client:       client,
		detectModel:  cfg.DetectModel,
		renderModel:  cfg.RenderModel,
		detectPrompt: prompts.NewDetectPromptBuilder(cfg.LanguageHint),
		editPrompt:   prompts.NewEditPromptBuilder(),
		detectCache:  cache.New(detectCacheExpiration, detectCacheCleanup),
	}, nil
}

// detectItem はモデルの検出レスポンス1要素の形です。
type detectItem struct {
	Text       string             `json:"text"`
	Box        domain.BoundingBox `json:"box_2d"`
	Confidence float64            `json:"confidence"`
}

// Detect は画像内の文字領域を検出します。
// 同一画像・同一モデルの結果はキャッシュから返します。
func (g *GeminiGateway) Detect(ctx context.Context, img *domain.Snapshot) ([]domain.Region, error) {
	if img.IsEmpty() {
		return nil, fmt.Errorf("検出対象の画像が空です")
	}

	key := g.cacheKey(img)
	if cached, ok := g.detectCache.Get(key); ok {
		regions := cached.([]domain.Region)
		slog.Info("検出結果をキャッシュから返すのだ", "regions", len(regions))
		return append([]domain.Region(nil), regions...), nil
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(img.Data, img.MimeType),
		genai.NewPartFromText(g.detectPrompt.Build()),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.detectModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(0)),
	})
	if err != nil {
		return nil, Classify(err)
	}
	if blocked := blockReason(resp); blocked != "" {
		return nil, safetyBlocked(blocked)
	}

	raw := stripCodeFence(resp.Text())
	var items []detectItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &ServiceError{
			Kind: KindUnclassified,
			Err:  fmt.Errorf("検出レスポンスのパースに失敗しました: %w", err),
		}
	}

	regions := make([]domain.Region, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		regions = append(regions, domain.Region{
			Text:       item.Text,
			Box:        item.Box,
			Confidence: item.Confidence,
		})
	}

	g.detectCache.Set(key, append([]domain.Region(nil), regions...), cache.DefaultExpiration)
	return regions, nil
}

// Render は対象領域のテキストを差し替えた全体画像を生成します。
// モデルが画像パートを返さなかった場合は (nil, nil) を返します。
func (g *GeminiGateway) Render(ctx context.Context, req RenderRequest) (*ports.ImageResponse, error) {
	if req.Image.IsEmpty() {
		return nil, fmt.Errorf("編集対象の画像が空です")
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Image.Data, req.Image.MimeType),
	}
	if !req.Reference.IsEmpty() {
		parts = append(parts, genai.NewPartFromBytes(req.Reference.Data, req.Reference.MimeType))
	}

	prompt := g.editPrompt.Build(prompts.EditPromptData{
		OriginalText: req.OriginalText,
		NewText:      req.NewText,
		Box:          req.Box,
		Style:        req.Style,
		HasReference: !req.Reference.IsEmpty(),
	})
	parts = append(parts, genai.NewPartFromText(prompt))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.renderModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, Classify(err)
	}
	if blocked := blockReason(resp); blocked != "" {
		return nil, safetyBlocked(blocked)
	}

	// 最初のインライン画像パートを採用する。テキストのみの応答は「生成なし」。
	var note strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ports.ImageResponse{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
			if part.Text != "" {
				note.WriteString(part.Text)
			}
		}
	}

	if note.Len() > 0 {
		slog.Warn("モデルが画像の代わりにテキストだけを返したのだ", "note", note.String())
	}
	return nil, nil
}

// cacheKey は画像バイト列とモデル名から検出キャッシュのキーを作ります。
func (g *GeminiGateway) cacheKey(img *domain.Snapshot) string {
	sum := sha256.Sum256(img.Data)
	return hex.EncodeToString(sum[:]) + ":" + g.detectModel
}

// blockReason はプロンプト拒否の理由を返します。拒否がなければ空文字です。
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil {
		return ""
	}
	if resp.PromptFeedback.BlockReason == "" {
		return ""
	}
	return string(resp.PromptFeedback.BlockReason)
}

// stripCodeFence はモデルがMarkdownコードフェンスで包んで返した場合に中身を取り出します。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
