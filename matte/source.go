package matte

import (
	"context"
	"errors"
	"fmt"

	"github.com/chaos-io/cutout/util"
	"go.uber.org/zap"
)

const (
	SourceHeuristic = "heuristic"
	SourceExternal  = "external"
)

// MaskSource 二值掩码来源：本地启发式，或外部分割模型
type MaskSource interface {
	Name() string
	Mask(ctx context.Context, buf *PixelBuffer) (*BinaryMask, error)
}

// HeuristicSource 颜色采样 + 区域生长
type HeuristicSource struct {
	Threshold float64
}

func NewHeuristicSource(threshold float64) *HeuristicSource {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &HeuristicSource{Threshold: threshold}
}

func (h *HeuristicSource) Name() string {
	return SourceHeuristic
}

func (h *HeuristicSource) Mask(_ context.Context, buf *PixelBuffer) (*BinaryMask, error) {
	bg := SampleBackground(buf)
	util.Logger.Debug("background sampled",
		zap.Uint8("r", bg.R), zap.Uint8("g", bg.G), zap.Uint8("b", bg.B))
	return GrowRegions(buf, bg, h.Threshold), nil
}

// Outcome 回退链的成功结果，带上掩码来源
type Outcome struct {
	Source string
	Mask   *BinaryMask
}

// Chain 按顺序尝试的掩码来源
type Chain []MaskSource

// Resolve 依次尝试每个来源，第一个成功的返回；全部失败返回 *ExhaustedError
func (c Chain) Resolve(ctx context.Context, buf *PixelBuffer) (Outcome, error) {
	var (
		attempts []string
		last     error
	)
	for _, src := range c {
		name := src.Name()
		attempts = append(attempts, name)

		mask, err := src.Mask(ctx, buf)
		if err == nil {
			err = checkMask(buf, mask)
		}
		if err == nil {
			util.Logger.Info("mask source succeeded", zap.String("source", name))
			return Outcome{Source: name, Mask: mask}, nil
		}

		last = fmt.Errorf("%s: %w", name, wrapUnavailable(err))
		util.Logger.Warn("mask source failed, trying next", zap.String("source", name), zap.Error(err))

		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, &ExhaustedError{Attempts: attempts, Last: ctxErr}
		}
	}
	if last == nil {
		last = errors.New("no mask source configured")
	}
	return Outcome{}, &ExhaustedError{Attempts: attempts, Last: last}
}

func wrapUnavailable(err error) error {
	if errors.Is(err, ErrSegmentationUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSegmentationUnavailable, err)
}
