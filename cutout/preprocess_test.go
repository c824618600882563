package cutout

import (
	"image"
	"testing"

	"github.com/chaos-io/cutout/matte"
	"github.com/stretchr/testify/assert"
)

func bufWithAlphaRect(w, h int, r image.Rectangle, a uint8) *matte.PixelBuffer {
	buf := matte.NewPixelBuffer(w, h)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := (y*w + x) * 4
			buf.Pix[i] = uint8(x)
			buf.Pix[i+3] = a
		}
	}
	return buf
}

func TestAlphaBBox(t *testing.T) {
	t.Parallel()

	buf := bufWithAlphaRect(20, 10, image.Rect(3, 2, 8, 6), 200)
	bbox, ok := alphaBBox(buf, 0)
	assert.True(t, ok)
	assert.Equal(t, image.Rect(3, 2, 8, 6), bbox)

	// 阈值以下不算主体
	_, ok = alphaBBox(buf, 0.9)
	assert.False(t, ok)

	_, ok = alphaBBox(matte.NewPixelBuffer(5, 5), 0)
	assert.False(t, ok)
}

func TestTrimToSubject(t *testing.T) {
	t.Parallel()

	buf := bufWithAlphaRect(20, 10, image.Rect(3, 2, 8, 6), 255)

	out := trimToSubject(buf, 0)
	assert.Equal(t, 5, out.Width)
	assert.Equal(t, 4, out.Height)
	assert.Equal(t, uint8(3), out.Pix[0])
	assert.Equal(t, uint8(255), out.Pix[3])

	// padding 被图像边界截断
	padded := trimToSubject(buf, 4)
	assert.Equal(t, 12, padded.Width)
	assert.Equal(t, 10, padded.Height)

	empty := matte.NewPixelBuffer(6, 6)
	assert.Same(t, empty, trimToSubject(empty, 2))
}
