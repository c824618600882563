package matte

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrimap_Circle(t *testing.T) {
	t.Parallel()

	const (
		size   = 100
		center = 50
		radius = 20
	)
	tri := BuildTrimap(circleMask(size, size, center, center, radius), DefaultTrimapRadius)

	// 未知带最远离圆周 r*sqrt(2) 再加一个像素的离散误差
	band := float64(DefaultTrimapRadius)*math.Sqrt2 + 1
	var inner, outer int
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x-center), float64(y-center))
			v := tri.Pix[y*size+x]
			switch {
			case d < radius-band:
				require.Equalf(t, KnownForeground, v, "pixel (%d,%d) should be known foreground", x, y)
			case d > radius+band:
				require.Equalf(t, KnownBackground, v, "pixel (%d,%d) should be known background", x, y)
			}
			if v == Unknown {
				require.LessOrEqualf(t, math.Abs(d-radius), band, "unknown pixel (%d,%d) too far from boundary", x, y)
				if d <= radius {
					inner++
				} else {
					outer++
				}
			}
		}
	}
	// 未知带跨在圆周两侧
	assert.Positive(t, inner)
	assert.Positive(t, outer)
}

func TestBuildTrimap_Invariants(t *testing.T) {
	t.Parallel()

	masks := map[string]*BinaryMask{
		"circle":  circleMask(64, 48, 20, 20, 15),
		"empty":   NewBinaryMask(10, 10),
		"tiny":    circleMask(3, 3, 1, 1, 1),
		"corner":  circleMask(40, 40, 0, 0, 12),
		"nothing": NewBinaryMask(0, 0),
	}
	for name, mask := range masks {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tri := BuildTrimap(mask, 3)
			for _, v := range tri.Pix {
				require.Contains(t, []uint8{KnownBackground, Unknown, KnownForeground}, v)
			}
			bg, unknown, fg := tri.Counts()
			assert.Equal(t, mask.Width*mask.Height, bg+unknown+fg)
		})
	}
}

func TestBuildTrimap_EdgeBandKeepsLabel(t *testing.T) {
	t.Parallel()

	// 前景贴着左边缘：x < r 的像素不参与边界扫描
	mask := NewBinaryMask(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			mask.Pix[y*20+x] = Foreground
		}
	}
	tri := BuildTrimap(mask, 3)

	assert.Equal(t, KnownForeground, tri.Pix[10*20+0])
	assert.Equal(t, KnownForeground, tri.Pix[10*20+2])
	assert.Equal(t, KnownForeground, tri.Pix[10*20+6])
	assert.Equal(t, Unknown, tri.Pix[10*20+7])
	assert.Equal(t, Unknown, tri.Pix[10*20+12])
	assert.Equal(t, KnownBackground, tri.Pix[10*20+13])
	// 上下边缘带内的像素即使跨边界也保持原标签
	assert.Equal(t, KnownForeground, tri.Pix[0*20+9])
	assert.Equal(t, KnownBackground, tri.Pix[0*20+10])
}
