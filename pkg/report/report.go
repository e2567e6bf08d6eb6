// Package report は検出・編集結果のサマリーを Markdown / HTML として出力します。
package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shouni/go-retext-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-text-format/pkg/md2htmlrunner"
)

// Options はレポート出力の設定です。
type Options struct {
	// OutputFile は Markdown の保存先（ローカル or gs://...）です。
	OutputFile string
}

// Result は出力されたファイルの情報です。
type Result struct {
	MarkdownPath string
	HTMLPath     string
}

// Summary はレポート1枚分の入力データです。
type Summary struct {
	Title         string
	ImagePath     string // 最終画像の保存先（任意）
	Regions       []domain.Region
	HistoryLen    int
	HistoryCursor int
}

// Publisher はレポートの永続化とHTML変換を担います。
type Publisher struct {
	writer     remoteio.OutputWriter
	htmlRunner md2htmlrunner.Runner
}

// NewPublisher は新しい Publisher を生成します。
// htmlRunner が nil の場合は Markdown のみを出力します。
func NewPublisher(writer remoteio.OutputWriter, htmlRunner md2htmlrunner.Runner) *Publisher {
	return &Publisher{
		writer:     writer,
		htmlRunner: htmlRunner,
	}
}

// Publish は Markdown の構築・保存と HTML 変換を一括して実行するのだ！
func (p *Publisher) Publish(ctx context.Context, summary Summary, opts Options) (Result, error) {
	result := Result{MarkdownPath: opts.OutputFile}

	content := buildMarkdown(summary)
	if err := p.writer.Write(ctx, opts.OutputFile, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}

	if p.htmlRunner != nil {
		slog.Info("レポートをHTMLへ変換するのだ", "title", summary.Title)
		htmlBuffer, err := p.htmlRunner.Run(ctx, summary.Title, []byte(content))
		if err != nil {
			return result, fmt.Errorf("HTMLの変換に失敗しました: %w", err)
		}

		htmlPath := strings.TrimSuffix(opts.OutputFile, filepath.Ext(opts.OutputFile)) + ".html"
		if err := p.writer.Write(ctx, htmlPath, htmlBuffer, "text/html; charset=utf-8"); err != nil {
			return result, fmt.Errorf("HTMLファイルの書き込みに失敗しました: %w", err)
		}
		result.HTMLPath = htmlPath
	}

	return result, nil
}

// buildMarkdown はサマリーから Markdown テキストを構築します。
func buildMarkdown(summary Summary) string {
	var sb strings.Builder

	title := summary.Title
	if title == "" {
		title = "Retext Report"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	if summary.ImagePath != "" {
		sb.WriteString(fmt.Sprintf("![result](%s)\n\n", summary.ImagePath))
	}

	edited := 0
	for _, r := range summary.Regions {
		if r.IsEdited {
			edited++
		}
	}
	sb.WriteString(fmt.Sprintf("- regions: %d\n", len(summary.Regions)))
	sb.WriteString(fmt.Sprintf("- edited: %d\n", edited))
	sb.WriteString(fmt.Sprintf("- history: %d snapshots (cursor %d)\n\n", summary.HistoryLen, summary.HistoryCursor))

	if len(summary.Regions) == 0 {
		sb.WriteString("文字領域は検出されませんでした。\n")
		return sb.String()
	}

	sb.WriteString("| id | text | edited | box (ymin,xmin,ymax,xmax) | confidence |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, r := range summary.Regions {
		mark := ""
		if r.IsEdited {
			mark = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d,%d,%d,%d | %.2f |\n",
			r.ID, escapePipes(r.Text), mark,
			r.Box.YMin, r.Box.XMin, r.Box.YMax, r.Box.XMax,
			r.Confidence))
	}
	return sb.String()
}

// escapePipes はテーブルセル内のパイプ文字をエスケープします。
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
