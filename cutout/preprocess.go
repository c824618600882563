package cutout

import (
	"image"

	"github.com/chaos-io/cutout/matte"
)

// alphaBBox 从 alpha 通道计算主体 bounding box
// 把 alpha > threshold * 255 的像素当作“主体”，找所有主体像素的坐标；没有主体时 ok 为 false
func alphaBBox(buf *matte.PixelBuffer, threshold float64) (image.Rectangle, bool) {
	w, h := buf.Width, buf.Height
	th := uint8(threshold * 255)

	minX, minY := w, h
	maxX, maxY := 0, 0
	found := false

	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			if buf.Pix[row+x*4+3] <= th {
				continue
			}
			found = true
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if !found {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// trimToSubject 裁剪到主体外接框并留 padding 像素边距，前景为空时原样返回
func trimToSubject(buf *matte.PixelBuffer, padding int) *matte.PixelBuffer {
	bbox, ok := alphaBBox(buf, 0)
	if !ok {
		return buf
	}
	rect := bbox.Inset(-padding).Intersect(image.Rect(0, 0, buf.Width, buf.Height))
	if rect.Dx() == buf.Width && rect.Dy() == buf.Height {
		return buf
	}

	dst := matte.NewPixelBuffer(rect.Dx(), rect.Dy())
	for y := 0; y < rect.Dy(); y++ {
		src := ((rect.Min.Y+y)*buf.Width + rect.Min.X) * 4
		copy(dst.Pix[y*dst.Width*4:(y+1)*dst.Width*4], buf.Pix[src:src+dst.Width*4])
	}
	return dst
}
