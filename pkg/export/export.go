// Package export は現在の画像をダウンロード用のエンコード済みペイロードへ変換します。
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/shouni/go-retext-kit/pkg/domain"
)

// Format は出力エンコード形式です。
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

const defaultJPEGQuality = 92

// Options はエクスポートの設定です。
type Options struct {
	// Width は出力画像の幅（ピクセル）です。0 なら元サイズのまま。
	// 縮小・拡大はアスペクト比を維持して行われます。
	Width int
	// Format は出力形式です。未指定なら PNG です。
	Format Format
	// Quality は JPEG 品質 (1-100) です。0 なら既定値を使います。
	Quality int
	// Stem はファイル名の拡張子を除いた部分です。空なら "retext" です。
	Stem string
}

// Result はエクスポート結果です。
type Result struct {
	Data     []byte
	MimeType string
	Filename string
	Width    int
	Height   int
}

// Snapshot はスナップショットをデコードし、必要ならリサンプルして再エンコードします。
func Snapshot(snap *domain.Snapshot, opts Options) (*Result, error) {
	if snap.IsEmpty() {
		return nil, fmt.Errorf("エクスポート対象の画像がありません")
	}

	img, _, err := image.Decode(bytes.NewReader(snap.Data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	if opts.Width < 0 {
		return nil, fmt.Errorf("出力幅が不正です: %d", opts.Width)
	}
	if opts.Width > 0 && opts.Width != img.Bounds().Dx() {
		// 高さ0指定でアスペクト比を維持したままリサンプルする
		img = imaging.Resize(img, opts.Width, 0, imaging.Lanczos)
	}

	format := opts.Format
	if format == "" {
		format = FormatPNG
	}

	var buf bytes.Buffer
	var mimeType, ext string
	switch format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("PNGエンコードに失敗しました: %w", err)
		}
		mimeType, ext = "image/png", ".png"
	case FormatJPEG:
		quality := opts.Quality
		if quality <= 0 {
			quality = defaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
		}
		mimeType, ext = "image/jpeg", ".jpg"
	default:
		return nil, fmt.Errorf("未対応の出力形式です: %s", format)
	}

	stem := opts.Stem
	if stem == "" {
		stem = "retext"
	}

	return &Result{
		Data:     buf.Bytes(),
		MimeType: mimeType,
		Filename: stem + ext,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}, nil
}
