// Package compose 把抠好的缓冲区叠加到纯色背景上，只依赖 alpha 通道
package compose

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/chaos-io/cutout/matte"
	"github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColorSpec = errors.New("invalid color spec")

var namedColors = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
	"red":   "#ff0000",
	"green": "#00ff00",
	"blue":  "#0000ff",
	"gray":  "#808080",
	"grey":  "#808080",
}

// Background 合成目标，零值表示保持透明
type Background struct {
	Opaque bool
	Color  matte.Color
}

var Transparent = Background{}

// ParseColor 支持 "transparent"、颜色名、#rgb、#rrggbb（# 可省略）
func ParseColor(spec string) (Background, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	switch s {
	case "", "transparent", "none":
		return Transparent, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return Background{}, fmt.Errorf("%w: %q", ErrInvalidColorSpec, spec)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Background{}, fmt.Errorf("%w: %q: %v", ErrInvalidColorSpec, spec, err)
	}
	r, g, b := c.RGB255()
	return Background{Opaque: true, Color: matte.Color{R: r, G: g, B: b}}, nil
}

func (b Background) String() string {
	if !b.Opaque {
		return "transparent"
	}
	return colorful.Color{
		R: float64(b.Color.R) / 255,
		G: float64(b.Color.G) / 255,
		B: float64(b.Color.B) / 255,
	}.Hex()
}

// Over 直通 alpha 的 over 合成：out = fg*a + bg*(1-a)，结果不透明。
// 透明背景直接返回拷贝。输入缓冲区不会被修改。
func Over(buf *matte.PixelBuffer, bg Background) *matte.PixelBuffer {
	out := buf.Clone()
	if !bg.Opaque {
		return out
	}
	base := [3]float64{float64(bg.Color.R), float64(bg.Color.G), float64(bg.Color.B)}
	for i := 0; i+3 < len(out.Pix); i += 4 {
		a := float64(out.Pix[i+3]) / 255
		for c := 0; c < 3; c++ {
			v := float64(out.Pix[i+c])*a + base[c]*(1-a)
			out.Pix[i+c] = uint8(math.Min(255, math.Round(v)))
		}
		out.Pix[i+3] = 255
	}
	return out
}
