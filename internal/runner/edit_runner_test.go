package runner

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-retext-kit/pkg/domain"
	"github.com/shouni/go-retext-kit/pkg/editor"
	"github.com/shouni/go-retext-kit/pkg/gateway"

	"google.golang.org/genai"
)

// scriptedGateway は編集ごとに応答を切り替えるテスト用実装です。
type scriptedGateway struct {
	regions []domain.Region
	renders []func(req gateway.RenderRequest) (*imagedom.ImageResponse, error)
	calls   int
}

func (g *scriptedGateway) Detect(_ context.Context, _ *domain.Snapshot) ([]domain.Region, error) {
	return g.regions, nil
}

func (g *scriptedGateway) Render(_ context.Context, req gateway.RenderRequest) (*imagedom.ImageResponse, error) {
	fn := g.renders[g.calls]
	g.calls++
	return fn(req)
}

func okRender(name string) func(gateway.RenderRequest) (*imagedom.ImageResponse, error) {
	return func(gateway.RenderRequest) (*imagedom.ImageResponse, error) {
		return &imagedom.ImageResponse{Data: []byte(name), MimeType: "image/png"}, nil
	}
}

func testBase() *domain.Snapshot {
	return domain.NewSnapshot([]byte("base"), "image/png")
}

func testRegions() []domain.Region {
	return []domain.Region{
		{Text: "OPEN", Box: domain.BoundingBox{YMin: 100, XMin: 200, YMax: 150, XMax: 400}},
		{Text: "SALE", Box: domain.BoundingBox{YMin: 500, XMin: 100, YMax: 600, XMax: 300}},
	}
}

func newTestRunner(gw gateway.Gateway) *RetextEditRunner {
	return NewRetextEditRunner(editor.New(gw), nil, nil, time.Millisecond)
}

// fakeDownloader は http(s) スタイル参照の取得を記録するテスト用実装です。
type fakeDownloader struct {
	calls []string
}

func (d *fakeDownloader) GetStream(_ context.Context, url string) (io.ReadCloser, error) {
	d.calls = append(d.calls, url)
	return io.NopCloser(bytes.NewReader([]byte("ref-image"))), nil
}

func (d *fakeDownloader) FetchStream(ctx context.Context, url string, fn func(io.Reader) error) error {
	rc, err := d.GetStream(ctx, url)
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(rc)
}

func TestRetextEditRunner_Run(t *testing.T) {
	t.Run("全指示が順に適用されて履歴が積み上がるのだ", func(t *testing.T) {
		gw := &scriptedGateway{
			regions: testRegions(),
			renders: []func(gateway.RenderRequest) (*imagedom.ImageResponse, error){
				okRender("v1"), okRender("v2"),
			},
		}
		r := newTestRunner(gw)

		outcome, err := r.Run(context.Background(), testBase(), []EditInstruction{
			{Region: "text-0", Text: "CLOSED"},
			{Region: "text-1", Text: "見切り品"},
		}, 0)
		if err != nil {
			t.Fatalf("一括編集に失敗したのだ: %v", err)
		}

		if outcome.Applied != 2 || len(outcome.Skipped) != 0 {
			t.Errorf("適用件数が不正なのだ: %+v", outcome)
		}
		if outcome.HistoryLen != 2 || outcome.HistoryCursor != 1 {
			t.Errorf("履歴が不正なのだ: len=%d cursor=%d", outcome.HistoryLen, outcome.HistoryCursor)
		}
		if string(outcome.Final.Data) != "v2" {
			t.Errorf("最終画像が最新スナップショットでないのだ: %s", outcome.Final.Data)
		}
		for i, want := range []string{"CLOSED", "見切り品"} {
			if outcome.Regions[i].Text != want || !outcome.Regions[i].IsEdited {
				t.Errorf("領域%dの更新が不正なのだ: %+v", i, outcome.Regions[i])
			}
		}
	})

	t.Run("存在しない領域と空応答はスキップ扱いで続行するのだ", func(t *testing.T) {
		gw := &scriptedGateway{
			regions: testRegions(),
			renders: []func(gateway.RenderRequest) (*imagedom.ImageResponse, error){
				func(gateway.RenderRequest) (*imagedom.ImageResponse, error) { return nil, nil },
				okRender("v1"),
			},
		}
		r := newTestRunner(gw)

		outcome, err := r.Run(context.Background(), testBase(), []EditInstruction{
			{Region: "text-99", Text: "幽霊"}, // 検出に存在しない
			{Region: "text-0", Text: "空振り"}, // モデルが画像を返さない
			{Region: "text-1", Text: "成功"},
		}, 0)
		if err != nil {
			t.Fatalf("続行すべき失敗で中断したのだ: %v", err)
		}

		if outcome.Applied != 1 || len(outcome.Skipped) != 2 {
			t.Errorf("スキップ集計が不正なのだ: %+v", outcome)
		}
		if outcome.HistoryLen != 1 {
			t.Errorf("スキップ分が履歴に積まれたのだ: %d", outcome.HistoryLen)
		}
	})

	t.Run("APIキー不正は即座に中断するのだ", func(t *testing.T) {
		gw := &scriptedGateway{
			regions: testRegions(),
			renders: []func(gateway.RenderRequest) (*imagedom.ImageResponse, error){
				func(gateway.RenderRequest) (*imagedom.ImageResponse, error) {
					return nil, genai.APIError{Code: 401, Message: "invalid key"}
				},
			},
		}
		r := newTestRunner(gw)

		_, err := r.Run(context.Background(), testBase(), []EditInstruction{
			{Region: "text-0", Text: "A"},
			{Region: "text-1", Text: "B"},
		}, 0)
		if err == nil {
			t.Fatal("キー不正で中断しないのだ")
		}
		if gw.calls != 1 {
			t.Errorf("中断後もAPIを叩き続けたのだ: calls=%d", gw.calls)
		}
	})

	t.Run("httpスタイル参照は共通クライアント経由で添付されるのだ", func(t *testing.T) {
		var gotRef *domain.Snapshot
		gw := &scriptedGateway{
			regions: testRegions(),
			renders: []func(gateway.RenderRequest) (*imagedom.ImageResponse, error){
				func(req gateway.RenderRequest) (*imagedom.ImageResponse, error) {
					gotRef = req.Reference
					return &imagedom.ImageResponse{Data: []byte("v1"), MimeType: "image/png"}, nil
				},
			},
		}
		dl := &fakeDownloader{}
		r := NewRetextEditRunner(editor.New(gw), nil, dl, time.Millisecond)

		outcome, err := r.Run(context.Background(), testBase(), []EditInstruction{
			{Region: "text-0", Text: "CLOSED", StyleRef: "https://example.com/ref.png"},
		}, 0)
		if err != nil {
			t.Fatalf("一括編集に失敗したのだ: %v", err)
		}

		if len(dl.calls) != 1 || dl.calls[0] != "https://example.com/ref.png" {
			t.Errorf("参照画像がHTTPクライアント経由で取得されていないのだ: %v", dl.calls)
		}
		if gotRef == nil || string(gotRef.Data) != "ref-image" {
			t.Errorf("参照画像が再描画要求へ添付されていないのだ: %+v", gotRef)
		}
		if outcome.Applied != 1 {
			t.Errorf("適用件数が不正なのだ: %+v", outcome)
		}
	})

	t.Run("undo指定は適用後に履歴を戻すのだ", func(t *testing.T) {
		gw := &scriptedGateway{
			regions: testRegions(),
			renders: []func(gateway.RenderRequest) (*imagedom.ImageResponse, error){
				okRender("v1"), okRender("v2"),
			},
		}
		r := newTestRunner(gw)

		outcome, err := r.Run(context.Background(), testBase(), []EditInstruction{
			{Region: "text-0", Text: "CLOSED"},
			{Region: "text-1", Text: "見切り品"},
		}, 1)
		if err != nil {
			t.Fatalf("一括編集に失敗したのだ: %v", err)
		}
		if string(outcome.Final.Data) != "v1" {
			t.Errorf("アンドゥ後の最終画像が不正なのだ: %s", outcome.Final.Data)
		}
		if outcome.HistoryCursor != 0 || outcome.HistoryLen != 2 {
			t.Errorf("アンドゥ後の履歴が不正なのだ: len=%d cursor=%d", outcome.HistoryLen, outcome.HistoryCursor)
		}
	})
}
