package matte

const (
	maxSampleBand = 30
	binSize       = 20
	binsPerAxis   = 256/binSize + 1
)

// DefaultBackground 无法采样时返回的背景色
var DefaultBackground = Color{R: 255, G: 255, B: 255}

// sampleBand 边缘采样带宽度 min(30, w/15, h/15)，至少 1 像素
func sampleBand(width, height int) int {
	band := min(maxSampleBand, width/15, height/15)
	return max(1, band)
}

// SampleBackground 统计四条边缘带的颜色，按 20 为步长分桶，取像素最多的桶中心作为背景色
func SampleBackground(buf *PixelBuffer) Color {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 || len(buf.Pix) < buf.Width*buf.Height*4 {
		return DefaultBackground
	}
	w, h := buf.Width, buf.Height
	band := sampleBand(w, h)

	var hist [binsPerAxis * binsPerAxis * binsPerAxis]int
	for y := 0; y < h; y++ {
		inRowBand := y < band || y >= h-band
		for x := 0; x < w; x++ {
			if !inRowBand && x >= band && x < w-band {
				continue
			}
			c := buf.At(x, y)
			hist[binIndex(c)]++
		}
	}

	best, bestCount := -1, 0
	for i, n := range hist {
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	if best < 0 {
		return DefaultBackground
	}
	return binCenter(best)
}

func binIndex(c Color) int {
	r := int(c.R) / binSize
	g := int(c.G) / binSize
	b := int(c.B) / binSize
	return (r*binsPerAxis+g)*binsPerAxis + b
}

func binCenter(idx int) Color {
	b := idx % binsPerAxis
	g := (idx / binsPerAxis) % binsPerAxis
	r := idx / (binsPerAxis * binsPerAxis)
	center := func(v int) uint8 {
		return uint8(min(255, v*binSize+binSize/2))
	}
	return Color{R: center(r), G: center(g), B: center(b)}
}
