package matte

import (
	"golang.org/x/sync/errgroup"
)

// minRowsPerTile 每个分块至少的行数，太小的图不值得开协程
const minRowsPerTile = 64

// forRows 按行分块执行 fn(y0, y1)。每块只写自己负责的行，因此结果与 workers 无关
func forRows(workers, height int, fn func(y0, y1 int)) {
	if workers <= 1 || height < 2*minRowsPerTile {
		fn(0, height)
		return
	}
	tiles := min(workers, height/minRowsPerTile)
	step := (height + tiles - 1) / tiles

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(height, y0+step)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
