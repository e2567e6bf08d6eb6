package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/shouni/go-retext-kit/pkg/domain"
)

func testSnapshot(t *testing.T, width, height int) *domain.Snapshot {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("テスト画像の生成に失敗したのだ: %v", err)
	}
	return domain.NewSnapshot(buf.Bytes(), "image/png")
}

func TestSnapshot(t *testing.T) {
	t.Run("幅指定でアスペクト比を維持してリサンプルするのだ", func(t *testing.T) {
		snap := testSnapshot(t, 200, 100)

		result, err := Snapshot(snap, Options{Width: 100, Stem: "store-front"})
		if err != nil {
			t.Fatalf("エクスポート失敗なのだ: %v", err)
		}
		if result.Width != 100 || result.Height != 50 {
			t.Errorf("リサンプル後サイズが不正なのだ: %dx%d", result.Width, result.Height)
		}
		if result.Filename != "store-front.png" || result.MimeType != "image/png" {
			t.Errorf("ファイル名・MIMEが不正なのだ: %s %s", result.Filename, result.MimeType)
		}

		// 出力が正しいPNGとしてデコードできること
		decoded, err := png.Decode(bytes.NewReader(result.Data))
		if err != nil {
			t.Fatalf("出力PNGがデコードできないのだ: %v", err)
		}
		if decoded.Bounds().Dx() != 100 {
			t.Errorf("出力画像の幅が不正なのだ: %d", decoded.Bounds().Dx())
		}
	})

	t.Run("幅0なら元サイズのままなのだ", func(t *testing.T) {
		result, err := Snapshot(testSnapshot(t, 64, 48), Options{})
		if err != nil {
			t.Fatalf("エクスポート失敗なのだ: %v", err)
		}
		if result.Width != 64 || result.Height != 48 {
			t.Errorf("サイズが変わってしまったのだ: %dx%d", result.Width, result.Height)
		}
		if result.Filename != "retext.png" {
			t.Errorf("デフォルトファイル名が不正なのだ: %s", result.Filename)
		}
	})

	t.Run("JPEG出力は拡張子とMIMEが切り替わるのだ", func(t *testing.T) {
		result, err := Snapshot(testSnapshot(t, 32, 32), Options{Format: FormatJPEG, Stem: "photo"})
		if err != nil {
			t.Fatalf("エクスポート失敗なのだ: %v", err)
		}
		if result.MimeType != "image/jpeg" || !strings.HasSuffix(result.Filename, ".jpg") {
			t.Errorf("JPEG出力の属性が不正なのだ: %+v", result)
		}
	})

	t.Run("空画像と不正指定はエラーなのだ", func(t *testing.T) {
		if _, err := Snapshot(nil, Options{}); err == nil {
			t.Error("空画像を受理してしまったのだ")
		}
		if _, err := Snapshot(testSnapshot(t, 8, 8), Options{Width: -1}); err == nil {
			t.Error("負の幅を受理してしまったのだ")
		}
		if _, err := Snapshot(testSnapshot(t, 8, 8), Options{Format: "bmp"}); err == nil {
			t.Error("未対応形式を受理してしまったのだ")
		}
	})
}
