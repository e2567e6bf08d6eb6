package builder

import (
	"github.com/shouni/go-retext-kit/internal/config"
	"github.com/shouni/go-retext-kit/pkg/gateway"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options    config.RetextOptions    // Optionsは、コマンドラインから渡された実行時の設定です。
	Reader     remoteio.InputReader    // Readerは、対象写真や編集指示JSONの読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter   // Writerは、生成された画像やレポートを保存するための出力先です。
	Gateway    gateway.Gateway         // Gatewayは、文字検出と再描画を担う外部AIへの窓口です。
	httpClient httpkit.ClientInterface // httpClient は外部APIとの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.ClientInterface,
	gw gateway.Gateway,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Gateway:    gw,
		httpClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	}
}
