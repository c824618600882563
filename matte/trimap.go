package matte

// DefaultTrimapRadius 未知带的膨胀半径
const DefaultTrimapRadius = 3

// BuildTrimap 把二值掩码转成三态图
// 邻域 [-r, r] 内出现不同标签的像素标记为未知，距图像边缘 r 以内的像素保持原标签
func BuildTrimap(mask *BinaryMask, radius int) *Trimap {
	if radius <= 0 {
		radius = DefaultTrimapRadius
	}
	w, h := mask.Width, mask.Height
	tri := &Trimap{Width: w, Height: h, Pix: make([]uint8, len(mask.Pix))}
	for i, v := range mask.Pix {
		if v != Background {
			tri.Pix[i] = KnownForeground
		}
	}

	for y := radius; y < h-radius; y++ {
		for x := radius; x < w-radius; x++ {
			idx := y*w + x
			label := mask.Pix[idx] != Background
			if hasDifferentLabel(mask, x, y, radius, label) {
				tri.Pix[idx] = Unknown
			}
		}
	}
	return tri
}

func hasDifferentLabel(mask *BinaryMask, x, y, radius int, label bool) bool {
	w := mask.Width
	for dy := -radius; dy <= radius; dy++ {
		row := (y + dy) * w
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if (mask.Pix[row+x+dx] != Background) != label {
				return true
			}
		}
	}
	return false
}
