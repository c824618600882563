package matte

import "math"

const (
	// DefaultThreshold 颜色距离阈值
	DefaultThreshold = 50.0

	growBorderBand  = 30
	borderWiden     = 1.8
	seedStride      = 2
	seedColorFactor = 1.5
	bgColorFactor   = 1.3
	relaxedFactor   = 2.0
	tightFactor     = 1.1
	minBgNeighbors  = 3
)

// WeightedDistance 按亮度敏感度加权的 RGB 距离 (0.30/0.59/0.11)
func WeightedDistance(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(0.30*dr*dr + 0.59*dg*dg + 0.11*db*db)
}

// GrowRegions 生成初始二值掩码
//
//  1. 颜色阈值：与背景色距离 >= 阈值记为前景，边缘 30px 内阈值放宽 1.8 倍
//  2. 区域生长：从边缘背景像素出发做 4 邻接洪水填充，合并被主体隔开的背景块
//  3. 二次清理：被背景包围或与背景色足够接近的残留前景改判为背景
func GrowRegions(buf *PixelBuffer, bg Color, threshold float64) *BinaryMask {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return NewBinaryMask(0, 0)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	w, h := buf.Width, buf.Height
	mask := NewBinaryMask(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := threshold
			if inBorderBand(x, y, w, h, growBorderBand) {
				t *= borderWiden
			}
			idx := y*w + x
			if WeightedDistance(buf.colorAt(idx), bg) >= t {
				mask.Pix[idx] = Foreground
			}
		}
	}

	floodBackground(buf, mask, bg, threshold)
	cleanupIsolated(buf, mask, bg, threshold)
	return mask
}

func inBorderBand(x, y, w, h, band int) bool {
	return x < band || y < band || x >= w-band || y >= h-band
}

// borderSeeds 按固定顺序枚举边缘种子：上边、下边（从左到右），再左边、右边（从上到下）
func borderSeeds(w, h int) []int {
	seeds := make([]int, 0, (w+h)/seedStride*2+4)
	for x := 0; x < w; x += seedStride {
		seeds = append(seeds, x)
	}
	if h > 1 {
		for x := 0; x < w; x += seedStride {
			seeds = append(seeds, (h-1)*w+x)
		}
	}
	for y := 0; y < h; y += seedStride {
		seeds = append(seeds, y*w)
	}
	if w > 1 {
		for y := 0; y < h; y += seedStride {
			seeds = append(seeds, y*w+w-1)
		}
	}
	return seeds
}

// floodBackground 显式栈的洪水填充，visited 以行优先下标索引，避免递归
func floodBackground(buf *PixelBuffer, mask *BinaryMask, bg Color, threshold float64) {
	w, h := mask.Width, mask.Height
	visited := make([]bool, w*h)
	stack := make([]int, 0, 1024)

	seedLimit := threshold * seedColorFactor
	bgLimit := threshold * bgColorFactor

	for _, seed := range borderSeeds(w, h) {
		if visited[seed] || mask.Pix[seed] != Background {
			continue
		}
		visited[seed] = true
		stack = append(stack[:0], seed)

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%w, p/w
			// 与当前出栈像素比较颜色
			seedColor := buf.colorAt(p)

			for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := px+d[0], py+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				n := ny*w + nx
				if visited[n] {
					continue
				}
				if mask.Pix[n] != Background {
					c := buf.colorAt(n)
					if WeightedDistance(c, seedColor) >= seedLimit && WeightedDistance(c, bg) >= bgLimit {
						continue
					}
					mask.Pix[n] = Background
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
}

// cleanupIsolated 基于快照判断，结果与扫描顺序无关
func cleanupIsolated(buf *PixelBuffer, mask *BinaryMask, bg Color, threshold float64) {
	w, h := mask.Width, mask.Height
	snapshot := make([]uint8, len(mask.Pix))
	copy(snapshot, mask.Pix)

	relaxed := threshold * relaxedFactor
	tight := threshold * tightFactor

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if snapshot[idx] == Background {
				continue
			}
			bgNeighbors := 0
			if y > 0 && snapshot[idx-w] == Background {
				bgNeighbors++
			}
			if y < h-1 && snapshot[idx+w] == Background {
				bgNeighbors++
			}
			if x > 0 && snapshot[idx-1] == Background {
				bgNeighbors++
			}
			if x < w-1 && snapshot[idx+1] == Background {
				bgNeighbors++
			}
			d := WeightedDistance(buf.colorAt(idx), bg)
			if (bgNeighbors >= minBgNeighbors && d < relaxed) || d < tight {
				mask.Pix[idx] = Background
			}
		}
	}
}
