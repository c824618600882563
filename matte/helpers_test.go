package matte

var (
	red  = Color{R: 255}
	blue = Color{B: 255}
)

func filled(w, h int, c Color) *PixelBuffer {
	buf := NewPixelBuffer(w, h)
	for i := 0; i < w*h; i++ {
		buf.Pix[i*4] = c.R
		buf.Pix[i*4+1] = c.G
		buf.Pix[i*4+2] = c.B
		buf.Pix[i*4+3] = 255
	}
	return buf
}

func fillRect(buf *PixelBuffer, x0, y0, x1, y1 int, c Color) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := (y*buf.Width + x) * 4
			buf.Pix[i] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
		}
	}
}

// centeredSquare 100x100 蓝底，中间 40x40 红色方块
func centeredSquare() *PixelBuffer {
	buf := filled(100, 100, blue)
	fillRect(buf, 30, 30, 70, 70, red)
	return buf
}

func circleMask(w, h, cx, cy, r int) *BinaryMask {
	m := NewBinaryMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				m.Pix[y*w+x] = Foreground
			}
		}
	}
	return m
}

func alphaAt(buf *PixelBuffer, x, y int) uint8 {
	return buf.Pix[(y*buf.Width+x)*4+3]
}
