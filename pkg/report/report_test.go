package report

import (
	"strings"
	"testing"

	"github.com/shouni/go-retext-kit/pkg/domain"
)

func TestBuildMarkdown(t *testing.T) {
	t.Run("領域テーブルと統計が出力されるのだ", func(t *testing.T) {
		md := buildMarkdown(Summary{
			Title:     "看板の書き換え",
			ImagePath: "output/result.png",
			Regions: []domain.Region{
				{ID: "text-0", Text: "OPEN", IsEdited: true,
					Box: domain.BoundingBox{YMin: 100, XMin: 200, YMax: 150, XMax: 400}, Confidence: 0.92},
				{ID: "text-1", Text: "SALE",
					Box: domain.BoundingBox{YMin: 500, XMin: 100, YMax: 600, XMax: 300}, Confidence: 0.81},
			},
			HistoryLen:    1,
			HistoryCursor: 0,
		})

		for _, want := range []string{
			"# 看板の書き換え",
			"![result](output/result.png)",
			"- regions: 2",
			"- edited: 1",
			"- history: 1 snapshots (cursor 0)",
			"| text-0 | OPEN | yes | 100,200,150,400 | 0.92 |",
			"| text-1 | SALE |  | 500,100,600,300 | 0.81 |",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("%q が含まれないのだ。\n%s", want, md)
			}
		}
	})

	t.Run("領域ゼロ件でもテーブルなしで成立するのだ", func(t *testing.T) {
		md := buildMarkdown(Summary{})
		if !strings.Contains(md, "# Retext Report") {
			t.Error("デフォルトタイトルが出ないのだ")
		}
		if !strings.Contains(md, "検出されませんでした") {
			t.Error("ゼロ件の文言が出ないのだ")
		}
		if strings.Contains(md, "| id |") {
			t.Error("ゼロ件なのにテーブルが出ているのだ")
		}
	})

	t.Run("テキスト中のパイプ文字はエスケープされるのだ", func(t *testing.T) {
		md := buildMarkdown(Summary{
			Regions: []domain.Region{{ID: "text-0", Text: "A|B"}},
		})
		if !strings.Contains(md, `A\|B`) {
			t.Error("パイプがエスケープされていないのだ")
		}
	})
}
