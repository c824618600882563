package matte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uniformTrimap(w, h int, label uint8) *Trimap {
	tri := &Trimap{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for i := range tri.Pix {
		tri.Pix[i] = label
	}
	return tri
}

func TestEstimateAlpha_KnownPixelsExact(t *testing.T) {
	t.Parallel()

	buf := centeredSquare()
	tri := BuildTrimap(GrowRegions(buf, SampleBackground(buf), DefaultThreshold), DefaultTrimapRadius)
	alpha := EstimateAlpha(buf, tri)

	for i, label := range tri.Pix {
		switch label {
		case KnownForeground:
			assert.Equal(t, uint8(255), alpha.Pix[i])
		case KnownBackground:
			assert.Equal(t, uint8(0), alpha.Pix[i])
		}
	}
}

func TestEstimateAlpha_NoSamplesUsesDefaults(t *testing.T) {
	t.Parallel()

	// 全部未知时前景均值取黑、背景均值取白
	white := EstimateAlpha(filled(8, 8, Color{R: 255, G: 255, B: 255}), uniformTrimap(8, 8, Unknown))
	for _, v := range white.Pix {
		assert.Equal(t, uint8(0), v)
	}

	black := EstimateAlpha(filled(8, 8, Color{}), uniformTrimap(8, 8, Unknown))
	for _, v := range black.Pix {
		assert.Equal(t, uint8(255), v)
	}
}

func TestSampleAlpha(t *testing.T) {
	t.Parallel()

	tri := &Trimap{Width: 3, Height: 1, Pix: []uint8{KnownForeground, Unknown, KnownBackground}}

	// 前景、背景均值与像素本身重合，距离和小于 1
	gray := filled(3, 1, Color{R: 90, G: 90, B: 90})
	assert.Equal(t, uint8(255), sampleAlpha(gray, tri, 1, 0))

	// 黑前景、白背景，像素略偏白
	mid := filled(3, 1, Color{})
	fillRect(mid, 1, 0, 2, 1, Color{R: 128, G: 128, B: 128})
	fillRect(mid, 2, 0, 3, 1, Color{R: 255, G: 255, B: 255})
	assert.Equal(t, uint8(127), sampleAlpha(mid, tri, 1, 0))
}

func TestClamp255(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint8(0), clamp255(-3))
	assert.Equal(t, uint8(255), clamp255(300))
	assert.Equal(t, uint8(128), clamp255(127.5))
	assert.Equal(t, uint8(12), clamp255(12.4))
}
