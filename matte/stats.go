package matte

import (
	"gonum.org/v1/gonum/stat"
)

// Stats 单次运行的统计信息，只用于日志和接口返回
type Stats struct {
	Pixels          int     `json:"pixels"`
	Foreground      int     `json:"foreground"`
	Unknown         int     `json:"unknown"`
	Coverage        float64 `json:"coverage"`
	EdgeAlphaMean   float64 `json:"edge_alpha_mean"`
	EdgeAlphaStdDev float64 `json:"edge_alpha_std_dev"`
}

func computeStats(tri *Trimap, alpha *AlphaMatte) Stats {
	s := Stats{Pixels: len(alpha.Pix)}
	edge := make([]float64, 0, len(alpha.Pix)/16)
	for i, v := range alpha.Pix {
		if isFg(v) {
			s.Foreground++
		}
		if tri.Pix[i] == Unknown {
			edge = append(edge, float64(v))
		}
	}
	s.Unknown = len(edge)
	if s.Pixels > 0 {
		s.Coverage = float64(s.Foreground) / float64(s.Pixels)
	}
	if len(edge) > 1 {
		s.EdgeAlphaMean, s.EdgeAlphaStdDev = stat.MeanStdDev(edge, nil)
	} else if len(edge) == 1 {
		s.EdgeAlphaMean = edge[0]
	}
	return s
}
