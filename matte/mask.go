package matte

import (
	"image"
)

const (
	Background uint8 = 0
	Foreground uint8 = 1
)

// Trimap 标签
const (
	KnownBackground uint8 = 0
	Unknown         uint8 = 128
	KnownForeground uint8 = 255
)

// BinaryMask 每像素一个字节，0 背景 1 前景
type BinaryMask struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewBinaryMask(width, height int) *BinaryMask {
	return &BinaryMask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// MaskFromGray 把外部分割模型给出的灰度图转换为二值掩码，>= 128 视为前景
func MaskFromGray(g *image.Gray) *BinaryMask {
	b := g.Bounds()
	m := NewBinaryMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		row := y * g.Stride
		for x := 0; x < m.Width; x++ {
			if g.Pix[row+x] >= 128 {
				m.Pix[y*m.Width+x] = Foreground
			}
		}
	}
	return m
}

// CountForeground 前景像素数
func (m *BinaryMask) CountForeground() int {
	n := 0
	for _, v := range m.Pix {
		if v != Background {
			n++
		}
	}
	return n
}

// Gray 以 0/255 灰度图导出，便于调试落盘
func (m *BinaryMask) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != Background {
			g.Pix[i] = 255
		}
	}
	return g
}

// Trimap 0 已知背景，128 未知，255 已知前景
type Trimap struct {
	Width  int
	Height int
	Pix    []uint8
}

// Counts 返回 (背景, 未知, 前景) 像素数
func (t *Trimap) Counts() (bg, unknown, fg int) {
	for _, v := range t.Pix {
		switch v {
		case KnownBackground:
			bg++
		case Unknown:
			unknown++
		case KnownForeground:
			fg++
		}
	}
	return bg, unknown, fg
}

// AlphaMatte 连续不透明度，0..255
type AlphaMatte struct {
	Width  int
	Height int
	Pix    []uint8
}

func (a *AlphaMatte) clone() *AlphaMatte {
	c := &AlphaMatte{Width: a.Width, Height: a.Height, Pix: make([]uint8, len(a.Pix))}
	copy(c.Pix, a.Pix)
	return c
}

// Gray 导出为灰度图
func (a *AlphaMatte) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, a.Width, a.Height))
	copy(g.Pix, a.Pix)
	return g
}

// DistanceMap 每个前景像素到最近背景像素的近似距离
type DistanceMap struct {
	Width  int
	Height int
	Dist   []float64
}
