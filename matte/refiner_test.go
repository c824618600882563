package matte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func matteOf(w, h int, v uint8) *AlphaMatte {
	a := &AlphaMatte{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for i := range a.Pix {
		a.Pix[i] = v
	}
	return a
}

func TestRefineMatte_RemovesSpeckle(t *testing.T) {
	t.Parallel()

	alpha := matteOf(20, 20, 0)
	alpha.Pix[10*20+10] = 255

	out := RefineMatte(nil, alpha)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(0), v)
	}
	// 输入不被修改
	assert.Equal(t, uint8(255), alpha.Pix[10*20+10])
}

func TestRefineMatte_FillsPinhole(t *testing.T) {
	t.Parallel()

	alpha := matteOf(20, 20, 255)
	alpha.Pix[10*20+10] = 0

	out := RefineMatte(nil, alpha)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(255), v)
	}
}

func TestRefineMatte_KeepsSoftStraightEdge(t *testing.T) {
	t.Parallel()

	// 左侧前景，x=10 一列是抠图得到的软边
	alpha := matteOf(20, 20, 0)
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			alpha.Pix[y*20+x] = 255
		}
		alpha.Pix[y*20+10] = 200
	}

	out := RefineMatte(nil, alpha)
	assert.Equal(t, uint8(255), out.Pix[10*20+9])
	assert.Equal(t, uint8(200), out.Pix[10*20+10])
	assert.Equal(t, uint8(0), out.Pix[10*20+11])
}

func TestIsEdge(t *testing.T) {
	t.Parallel()

	pix := []uint8{
		0, 0, 0,
		0, 0, 0,
		0, 0, 200,
	}
	assert.False(t, isEdge(pix, 3, 3, 0, 0))
	assert.True(t, isEdge(pix, 3, 3, 1, 1))
	assert.True(t, isEdge(pix, 3, 3, 2, 2))

	fg, bg := countFg(pix, 3, 3, 1, 1, 1)
	assert.Equal(t, 1, fg)
	assert.Equal(t, 8, bg)
}
