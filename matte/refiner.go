package matte

const (
	labelThreshold = 128
	voteRadius     = 2
	voteDominance  = 1.5
	morphMajority  = 5
)

// RefineMatte 边缘感知的掩码修正
//
// 边缘像素（3x3 邻域内标签不一致）在 5x5 窗口内投票，一方数量超过另一方 1.5 倍时强制为该标签，
// 否则保留抠图结果；随后先腐蚀再膨胀，去掉细小噪点并填补针孔。
// 顺序不能颠倒：先膨胀会把噪点放大。
func RefineMatte(buf *PixelBuffer, alpha *AlphaMatte) *AlphaMatte {
	return refineMatte(buf, alpha, 1)
}

func refineMatte(_ *PixelBuffer, alpha *AlphaMatte, workers int) *AlphaMatte {
	out := alpha.clone()
	voteEdges(out, workers)
	erode(out, workers)
	dilate(out, workers)
	return out
}

func isFg(v uint8) bool {
	return v >= labelThreshold
}

// isEdge 3x3 邻域（越界忽略）内是否存在不同标签
func isEdge(pix []uint8, w, h, x, y int) bool {
	label := isFg(pix[y*w+x])
	for ny := max(0, y-1); ny <= min(h-1, y+1); ny++ {
		for nx := max(0, x-1); nx <= min(w-1, x+1); nx++ {
			if isFg(pix[ny*w+nx]) != label {
				return true
			}
		}
	}
	return false
}

// countFg 统计 (2r+1)^2 窗口内的前景/背景数量，越界像素不计
func countFg(pix []uint8, w, h, x, y, r int) (fg, bg int) {
	for ny := max(0, y-r); ny <= min(h-1, y+r); ny++ {
		for nx := max(0, x-r); nx <= min(w-1, x+r); nx++ {
			if isFg(pix[ny*w+nx]) {
				fg++
			} else {
				bg++
			}
		}
	}
	return fg, bg
}

func voteEdges(alpha *AlphaMatte, workers int) {
	w, h := alpha.Width, alpha.Height
	src := alpha.clone().Pix
	forRows(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				if !isEdge(src, w, h, x, y) {
					continue
				}
				fg, bg := countFg(src, w, h, x, y, voteRadius)
				switch {
				case float64(fg) > voteDominance*float64(bg):
					alpha.Pix[y*w+x] = 255
				case float64(bg) > voteDominance*float64(fg):
					alpha.Pix[y*w+x] = 0
				}
			}
		}
	})
}

// erode 前景边界像素 3x3 内前景少于 5 个则变为背景
func erode(alpha *AlphaMatte, workers int) {
	w, h := alpha.Width, alpha.Height
	src := alpha.clone().Pix
	forRows(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				if !isFg(src[idx]) || !isEdge(src, w, h, x, y) {
					continue
				}
				if fg, _ := countFg(src, w, h, x, y, 1); fg < morphMajority {
					alpha.Pix[idx] = 0
				}
			}
		}
	})
}

// dilate 背景边界像素 3x3 内前景不少于 5 个则提升为前景
func dilate(alpha *AlphaMatte, workers int) {
	w, h := alpha.Width, alpha.Height
	src := alpha.clone().Pix
	forRows(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				if isFg(src[idx]) || !isEdge(src, w, h, x, y) {
					continue
				}
				if fg, _ := countFg(src, w, h, x, y, 1); fg >= morphMajority {
					alpha.Pix[idx] = 255
				}
			}
		}
	})
}
