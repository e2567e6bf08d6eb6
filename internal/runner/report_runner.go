package runner

import (
	"context"

	"github.com/shouni/go-retext-kit/pkg/report"
)

// ReportRunner はレポート出力のインターフェースです。
type ReportRunner interface {
	Run(ctx context.Context, summary report.Summary, outputFile string) (report.Result, error)
}

// DefaultReportRunner は pkg/report を利用した標準実装です。
type DefaultReportRunner struct {
	publisher *report.Publisher
}

// NewRetextReportRunner は DefaultReportRunner を生成して返す。
func NewRetextReportRunner(pub *report.Publisher) *DefaultReportRunner {
	return &DefaultReportRunner{publisher: pub}
}

func (rr *DefaultReportRunner) Run(ctx context.Context, summary report.Summary, outputFile string) (report.Result, error) {
	return rr.publisher.Publish(ctx, summary, report.Options{OutputFile: outputFile})
}
