package matte

import (
	"image"

	"golang.org/x/image/draw"
)

// PixelBuffer 行优先的 RGBA 像素缓冲区，每像素 4 字节
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer 创建全透明黑色缓冲区
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage 把任意 image.Image 拷贝成非预乘的 RGBA 缓冲区
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	buf := &PixelBuffer{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]uint8, len(nrgba.Pix)),
	}
	copy(buf.Pix, nrgba.Pix)
	return buf
}

// NRGBA 以 image.NRGBA 的形式共享底层像素
func (b *PixelBuffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Clone 深拷贝
func (b *PixelBuffer) Clone() *PixelBuffer {
	c := &PixelBuffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// Validate 检查尺寸与像素长度是否一致，不一致视为解码失败
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return &DecodeError{Reason: "nil buffer"}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return &DecodeError{Reason: "empty image"}
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return &DecodeError{Reason: "pixel data does not match dimensions"}
	}
	return nil
}

// At 返回 (x, y) 处的颜色，忽略 alpha
func (b *PixelBuffer) At(x, y int) Color {
	i := (y*b.Width + x) * 4
	return Color{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

func (b *PixelBuffer) colorAt(idx int) Color {
	i := idx * 4
	return Color{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// HasUsefulAlpha 只要存在非 255 的 alpha，就认为已经抠过图
func (b *PixelBuffer) HasUsefulAlpha() bool {
	for i := 3; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 255 {
			return true
		}
	}
	return false
}

// Color 不含 alpha 的 RGB 三元组
type Color struct {
	R, G, B uint8
}
