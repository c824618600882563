package matte

import (
	"context"
	"fmt"
	"time"

	"github.com/chaos-io/cutout/util"
	"go.uber.org/zap"
)

// Options 流水线参数，零值字段使用默认值
type Options struct {
	Threshold          float64 `mapstructure:"threshold"`
	TrimapRadius       int     `mapstructure:"trimap_radius"`
	FeatherRadius      float64 `mapstructure:"feather_radius"`
	DistanceIterations int     `mapstructure:"distance_iterations"`
	// Workers > 1 时按行分块并行，洪水填充始终单线程
	Workers int `mapstructure:"workers"`
}

func DefaultOptions() Options {
	return Options{
		Threshold:          DefaultThreshold,
		TrimapRadius:       DefaultTrimapRadius,
		FeatherRadius:      DefaultFeatherRadius,
		DistanceIterations: DefaultDistanceIterations,
		Workers:            1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Threshold <= 0 {
		o.Threshold = d.Threshold
	}
	if o.TrimapRadius <= 0 {
		o.TrimapRadius = d.TrimapRadius
	}
	if o.FeatherRadius <= 0 {
		o.FeatherRadius = d.FeatherRadius
	}
	if o.DistanceIterations <= 0 {
		o.DistanceIterations = d.DistanceIterations
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	return o
}

// Result 一次抠图的结果，缓冲区本身已被就地修改
type Result struct {
	Source string
	Mask   *BinaryMask
	Trimap *Trimap
	Alpha  *AlphaMatte
	Stats  Stats
	// Empty 前景为空（例如纯色图），输出全透明，不算错误
	Empty bool
}

// Pipeline 采样/生长 -> 三态图 -> 抠图 -> 修正 -> 羽化
type Pipeline struct {
	opts  Options
	chain Chain
}

// NewPipeline sources 按顺序尝试，启发式来源总是作为最后一环
func NewPipeline(opts Options, sources ...MaskSource) *Pipeline {
	opts = opts.withDefaults()
	chain := make(Chain, 0, len(sources)+1)
	for _, s := range sources {
		if s != nil {
			chain = append(chain, s)
		}
	}
	chain = append(chain, NewHeuristicSource(opts.Threshold))
	return &Pipeline{opts: opts, chain: chain}
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// Run 通过回退链拿到二值掩码，再执行 3-6 阶段
func (p *Pipeline) Run(ctx context.Context, buf *PixelBuffer) (*Result, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome, err := p.chain.Resolve(ctx, buf)
	if err != nil {
		return nil, err
	}
	res := p.matte(buf, outcome.Mask)
	res.Source = outcome.Source
	return res, nil
}

// ApplyMask 外部分割模型直接给出掩码，跳过采样与区域生长
func (p *Pipeline) ApplyMask(buf *PixelBuffer, mask *BinaryMask) (*Result, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := checkMask(buf, mask); err != nil {
		return nil, err
	}
	res := p.matte(buf, mask)
	res.Source = SourceExternal
	return res, nil
}

func checkMask(buf *PixelBuffer, mask *BinaryMask) error {
	if mask == nil || mask.Width != buf.Width || mask.Height != buf.Height || len(mask.Pix) != buf.Width*buf.Height {
		return ErrMaskSize
	}
	return nil
}

func (p *Pipeline) matte(buf *PixelBuffer, mask *BinaryMask) *Result {
	start := time.Now()
	workers := p.opts.Workers

	tri := BuildTrimap(mask, p.opts.TrimapRadius)
	alpha := estimateAlpha(buf, tri, workers)
	refined := refineMatte(buf, alpha, workers)
	// 没有任何前景标签时残留的软 alpha 也一并清零，空结果必须完全透明
	if !hasForeground(refined) {
		clear(refined.Pix)
	}
	dist := distanceToBackground(refined, p.opts.DistanceIterations, workers)
	composite(buf, refined, dist, p.opts.FeatherRadius, workers)

	res := &Result{
		Mask:   mask,
		Trimap: tri,
		Alpha:  refined,
		Stats:  computeStats(tri, refined),
	}
	res.Empty = res.Stats.Foreground == 0

	util.Logger.Debug("matte finished",
		zap.Int("width", buf.Width),
		zap.Int("height", buf.Height),
		zap.Int("unknown", res.Stats.Unknown),
		zap.Float64("coverage", res.Stats.Coverage),
		zap.Bool("empty", res.Empty),
		zap.Duration("cost", time.Since(start)))
	return res
}

func hasForeground(alpha *AlphaMatte) bool {
	for _, v := range alpha.Pix {
		if isFg(v) {
			return true
		}
	}
	return false
}

// Process 便捷函数：默认参数、只用启发式来源
func Process(buf *PixelBuffer) (*Result, error) {
	return NewPipeline(DefaultOptions()).Run(context.Background(), buf)
}

func (r *Result) String() string {
	return fmt.Sprintf("source=%s coverage=%.3f unknown=%d empty=%t", r.Source, r.Stats.Coverage, r.Stats.Unknown, r.Empty)
}
