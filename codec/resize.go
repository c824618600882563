package codec

import (
	"bytes"
	"image"

	"github.com/chaos-io/cutout/matte"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// LimitSize 缩放（最长边 <= maxSize），不需要缩放时原样返回
func LimitSize(buf *matte.PixelBuffer, maxSize int) *matte.PixelBuffer {
	if maxSize <= 0 {
		return buf
	}
	longest := max(buf.Width, buf.Height)
	if longest <= maxSize {
		return buf
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(buf.Width)*scale))
	newH := max(1, int(float64(buf.Height)*scale))

	resized := resize.Resize(uint(newW), uint(newH), buf.NRGBA(), resize.Lanczos3)
	return matte.FromImage(resized)
}

// DecodeMask 解码外部分割模型给出的掩码图，尺寸不一致时用最近邻缩放到 width x height
func DecodeMask(data []byte, width, height int) (*matte.BinaryMask, error) {
	if len(data) == 0 {
		return nil, &matte.DecodeError{Reason: "empty mask"}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &matte.DecodeError{Reason: "unsupported or corrupt mask", Err: err}
	}
	return matte.MaskFromGray(ScaleGray(toGray(img), width, height)), nil
}

// ScaleGray 最近邻缩放，保持掩码为硬边
func ScaleGray(g *image.Gray, width, height int) *image.Gray {
	b := g.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return g
	}
	return toGray(resize.Resize(uint(width), uint(height), g, resize.NearestNeighbor))
}

// toGray 带 alpha 的掩码图以 alpha 为准，否则取亮度
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if hasAlphaChannel(img) {
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				gray.Pix[y*gray.Stride+x] = uint8(a >> 8)
			}
		}
		return gray
	}
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

func hasAlphaChannel(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64:
	default:
		return false
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// TransferAlpha 把 src 的 alpha 通道双线性缩放到 dst 尺寸，并按 原 alpha * a / 255 写入 dst，RGB 不变
func TransferAlpha(dst, src *matte.PixelBuffer) {
	alpha := image.NewGray(image.Rect(0, 0, src.Width, src.Height))
	for i := range alpha.Pix {
		alpha.Pix[i] = src.Pix[i*4+3]
	}
	scaled := alpha
	if src.Width != dst.Width || src.Height != dst.Height {
		scaled = toGray(resize.Resize(uint(dst.Width), uint(dst.Height), alpha, resize.Bilinear))
	}
	for i, a := range scaled.Pix[:dst.Width*dst.Height] {
		ai := i*4 + 3
		dst.Pix[ai] = uint8((uint32(dst.Pix[ai])*uint32(a) + 127) / 255)
	}
}
