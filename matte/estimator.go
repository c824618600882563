package matte

import "math"

const sampleRadius = 10

var (
	defaultFgMean = [3]float64{0, 0, 0}
	defaultBgMean = [3]float64{255, 255, 255}
)

// EstimateAlpha 对未知像素做颜色采样抠图
//
// 在半径 10 的窗口内按三态标签收集前景/背景颜色，各取均值，
// alpha = 255 * (1 - dFg / (dFg + dBg))。前景样本为空时均值取黑，背景为空取白，
// 让模糊区域偏向保留。最后只对未知像素做一次 3x3 均值平滑。
func EstimateAlpha(buf *PixelBuffer, tri *Trimap) *AlphaMatte {
	return estimateAlpha(buf, tri, 1)
}

func estimateAlpha(buf *PixelBuffer, tri *Trimap, workers int) *AlphaMatte {
	w, h := tri.Width, tri.Height
	alpha := &AlphaMatte{Width: w, Height: h, Pix: make([]uint8, len(tri.Pix))}
	if buf == nil || len(buf.Pix) < w*h*4 {
		return alpha
	}

	forRows(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				switch tri.Pix[idx] {
				case KnownForeground:
					alpha.Pix[idx] = 255
				case Unknown:
					alpha.Pix[idx] = sampleAlpha(buf, tri, x, y)
				}
			}
		}
	})

	smoothUnknown(alpha, tri, workers)
	return alpha
}

func sampleAlpha(buf *PixelBuffer, tri *Trimap, x, y int) uint8 {
	w, h := tri.Width, tri.Height
	var fgSum, bgSum [3]float64
	fgN, bgN := 0, 0

	for ny := max(0, y-sampleRadius); ny <= min(h-1, y+sampleRadius); ny++ {
		for nx := max(0, x-sampleRadius); nx <= min(w-1, x+sampleRadius); nx++ {
			n := ny*w + nx
			label := tri.Pix[n]
			if label == Unknown {
				continue
			}
			i := n * 4
			r, g, b := float64(buf.Pix[i]), float64(buf.Pix[i+1]), float64(buf.Pix[i+2])
			if label == KnownForeground {
				fgSum[0] += r
				fgSum[1] += g
				fgSum[2] += b
				fgN++
			} else {
				bgSum[0] += r
				bgSum[1] += g
				bgSum[2] += b
				bgN++
			}
		}
	}

	fgMean := defaultFgMean
	if fgN > 0 {
		fgMean = [3]float64{fgSum[0] / float64(fgN), fgSum[1] / float64(fgN), fgSum[2] / float64(fgN)}
	}
	bgMean := defaultBgMean
	if bgN > 0 {
		bgMean = [3]float64{bgSum[0] / float64(bgN), bgSum[1] / float64(bgN), bgSum[2] / float64(bgN)}
	}

	c := buf.At(x, y)
	px := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	dFg := dist3(px, fgMean)
	dBg := dist3(px, bgMean)
	if dFg+dBg < 1 {
		return 255
	}
	return clamp255(255 * (1 - dFg/(dFg+dBg)))
}

func dist3(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(d0*d0 + d1*d1 + d2*d2)
}

func clamp255(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// smoothUnknown 只平滑未知像素，已知像素保持 0/255
func smoothUnknown(alpha *AlphaMatte, tri *Trimap, workers int) {
	w, h := alpha.Width, alpha.Height
	src := alpha.clone().Pix

	forRows(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				if tri.Pix[idx] != Unknown {
					continue
				}
				sum, n := 0, 0
				for ny := max(0, y-1); ny <= min(h-1, y+1); ny++ {
					for nx := max(0, x-1); nx <= min(w-1, x+1); nx++ {
						sum += int(src[ny*w+nx])
						n++
					}
				}
				alpha.Pix[idx] = uint8((sum + n/2) / n)
			}
		}
	})
}
