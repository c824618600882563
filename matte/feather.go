package matte

import "math"

const (
	// DefaultFeatherRadius 羽化半径
	DefaultFeatherRadius = 2.0
	// DefaultDistanceIterations 距离松弛迭代次数，保持 5 次以兼容既有输出
	DefaultDistanceIterations = 5

	featherFloor = 0.7
	featherSlope = 0.3
)

// DistanceToBackground Jacobi 式松弛的近似距离变换
// 背景像素距离为 0，前景像素初始为 w+h，每轮取 3x3 邻居 dist + sqrt(dx²+dy²) 的最小值。
// 迭代次数固定时，远离边界的大块前景不会收敛，但它们本来就不在羽化带内。
func DistanceToBackground(alpha *AlphaMatte, iterations int) *DistanceMap {
	return distanceToBackground(alpha, iterations, 1)
}

func distanceToBackground(alpha *AlphaMatte, iterations, workers int) *DistanceMap {
	w, h := alpha.Width, alpha.Height
	far := float64(w + h)
	cur := make([]float64, w*h)
	for i, v := range alpha.Pix {
		if isFg(v) {
			cur[i] = far
		}
	}
	next := make([]float64, w*h)

	for it := 0; it < iterations; it++ {
		forRows(workers, h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					idx := y*w + x
					best := cur[idx]
					if best > 0 {
						for ny := max(0, y-1); ny <= min(h-1, y+1); ny++ {
							for nx := max(0, x-1); nx <= min(w-1, x+1); nx++ {
								step := 1.0
								if nx != x && ny != y {
									step = math.Sqrt2
								}
								if d := cur[ny*w+nx] + step; d < best {
									best = d
								}
							}
						}
					}
					next[idx] = best
				}
			}
		})
		cur, next = next, cur
	}
	return &DistanceMap{Width: w, Height: h, Dist: cur}
}

// FeatherFactor 距离 d 处的 alpha 乘数 min(1, d/r*0.3+0.7)，d >= r 时为 1
func FeatherFactor(d, radius float64) float64 {
	if radius <= 0 || d >= radius {
		return 1
	}
	return math.Min(1, d/radius*featherSlope+featherFloor)
}

// Composite 把修正后的 alpha 写回缓冲区的 alpha 通道，RGB 不变
//
// 纯背景像素 alpha 置 0；前景像素在羽化半径内乘以 FeatherFactor；其余为 原 alpha * matte / 255。
// 这是整条流水线里唯一修改 PixelBuffer 的地方。
func Composite(buf *PixelBuffer, alpha *AlphaMatte, dist *DistanceMap, radius float64) {
	composite(buf, alpha, dist, radius, 1)
}

func composite(buf *PixelBuffer, alpha *AlphaMatte, dist *DistanceMap, radius float64, workers int) {
	w, h := alpha.Width, alpha.Height
	if buf == nil || buf.Width != w || buf.Height != h || len(buf.Pix) < w*h*4 {
		return
	}
	forRows(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				a := alpha.Pix[idx]
				ai := idx*4 + 3
				if a == 0 {
					buf.Pix[ai] = 0
					continue
				}
				v := float64(buf.Pix[ai]) * float64(a) / 255
				if isFg(a) && dist != nil {
					v *= FeatherFactor(dist.Dist[idx], radius)
				}
				buf.Pix[ai] = clamp255(v)
			}
		}
	})
}

// Feather 距离变换 + 写回 alpha
func Feather(buf *PixelBuffer, alpha *AlphaMatte, radius float64) *DistanceMap {
	dist := DistanceToBackground(alpha, DefaultDistanceIterations)
	Composite(buf, alpha, dist, radius)
	return dist
}
