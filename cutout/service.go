// Package cutout 串起完整的去背景流程：远程服务优先，失败后回退到本地抠图
package cutout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chaos-io/cutout/codec"
	"github.com/chaos-io/cutout/compose"
	"github.com/chaos-io/cutout/matte"
	"github.com/chaos-io/cutout/rembg"
	"github.com/chaos-io/cutout/util"
	"go.uber.org/zap"
)

const (
	SourceRemote     = "remote"
	SourceInputAlpha = "input-alpha"
)

// Request 一次去背景请求
type Request struct {
	Data []byte
	// Mask 可选，外部分割模型给出的掩码图，尺寸不一致时会缩放
	Mask       []byte
	Background compose.Background
	// Trim 裁剪到主体外接框
	Trim        bool
	TrimPadding int
	// Force 输入已有透明通道时也重新抠图
	Force bool
}

// Response PNG 结果和来源
type Response struct {
	PNG    []byte
	Source string
	Width  int
	Height int
	Stats  matte.Stats
	Empty  bool
	Cached bool
}

type Options struct {
	MaxDimension int
	Remote       bool
}

type Service struct {
	codec    codec.Codec
	remover  rembg.Remover
	model    *rembg.Model
	pipeline *matte.Pipeline
	cache    Cache
	opts     Options
}

type Option func(*Service)

func WithRemover(r rembg.Remover) Option {
	return func(s *Service) {
		if r != nil {
			s.remover = r
			s.opts.Remote = true
		}
	}
}

// WithModel 模型作为回退链的第一环，启发式算法兜底
func WithModel(m *rembg.Model) Option {
	return func(s *Service) { s.model = m }
}

func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithCodec(c codec.Codec) Option {
	return func(s *Service) {
		if c != nil {
			s.codec = c
		}
	}
}

func WithMaxDimension(n int) Option {
	return func(s *Service) { s.opts.MaxDimension = n }
}

func NewService(matting matte.Options, opts ...Option) *Service {
	s := &Service{
		codec:   codec.NewStdCodec(),
		remover: rembg.NopRemover{},
		cache:   NopCache{},
	}
	for _, o := range opts {
		o(s)
	}

	var sources []matte.MaskSource
	if s.model != nil {
		sources = append(sources, s.model)
	}
	s.pipeline = matte.NewPipeline(matting, sources...)
	return s
}

// Model 当前持有的模型，可能为 nil
func (s *Service) Model() *rembg.Model {
	return s.model
}

// Process 解码失败直接返回 *matte.DecodeError，其余失败都在内部回退
func (s *Service) Process(ctx context.Context, req *Request) (*Response, error) {
	defer util.Trace("cutout process")()
	start := time.Now()

	buf, format, err := s.codec.Decode(req.Data)
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(req)
	if cached, err := s.cache.Get(ctx, key); err != nil {
		util.Logger.Warn("failed to get cache", zap.Error(err))
	} else if cached != nil {
		util.Logger.Info("cache hit", zap.String("cache_key", key))
		return cached, nil
	}

	out, result, err := s.removeBackground(ctx, req, buf)
	if err != nil {
		return nil, err
	}

	if req.Trim && !result.Empty {
		out = trimToSubject(out, req.TrimPadding)
	}
	out = compose.Over(out, req.Background)

	png, err := codec.EncodePNG(out)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	resp := &Response{
		PNG:    png,
		Source: result.Source,
		Width:  out.Width,
		Height: out.Height,
		Stats:  result.Stats,
		Empty:  result.Empty,
	}
	if err := s.cache.Set(ctx, key, resp); err != nil {
		util.Logger.Warn("failed to set cache", zap.Error(err))
	}

	util.Logger.Info("background removed",
		zap.String("format", format),
		zap.String("source", resp.Source),
		zap.Int("width", resp.Width),
		zap.Int("height", resp.Height),
		zap.Bool("empty", resp.Empty),
		zap.Duration("cost", time.Since(start)))
	return resp, nil
}

func (s *Service) removeBackground(ctx context.Context, req *Request, buf *matte.PixelBuffer) (*matte.PixelBuffer, *matte.Result, error) {
	if !req.Force && buf.HasUsefulAlpha() {
		return buf, &matte.Result{Source: SourceInputAlpha}, nil
	}

	if len(req.Mask) > 0 {
		res, err := s.applyExternalMask(buf, req.Mask)
		if err == nil {
			return buf, res, nil
		}
		util.Logger.Warn("external mask rejected, falling back", zap.Error(err))
	}

	if s.opts.Remote {
		out, err := s.remote(ctx, req.Data)
		if err == nil {
			return out, &matte.Result{Source: SourceRemote}, nil
		}
		util.Logger.Warn("remote background removal failed, falling back to local matting", zap.Error(err))
	}

	res, err := s.matteLocal(ctx, buf)
	if err != nil {
		return nil, nil, err
	}
	return buf, res, nil
}

// matteLocal 大图在缩小的副本上抠图，再把 alpha 放大写回原图，输出尺寸和 RGB 与输入一致
func (s *Service) matteLocal(ctx context.Context, buf *matte.PixelBuffer) (*matte.Result, error) {
	local := codec.LimitSize(buf, s.opts.MaxDimension)
	if local == buf {
		return s.pipeline.Run(ctx, buf)
	}

	// 副本置为不透明，流水线写回的 alpha 只含抠图结果
	for i := 3; i < len(local.Pix); i += 4 {
		local.Pix[i] = 255
	}
	res, err := s.pipeline.Run(ctx, local)
	if err != nil {
		return nil, err
	}
	codec.TransferAlpha(buf, local)

	util.Logger.Debug("matte upscaled",
		zap.Int("matte_width", local.Width),
		zap.Int("width", buf.Width))
	return res, nil
}

func (s *Service) applyExternalMask(buf *matte.PixelBuffer, data []byte) (*matte.Result, error) {
	mask, err := codec.DecodeMask(data, buf.Width, buf.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", matte.ErrSegmentationUnavailable, err)
	}
	return s.pipeline.ApplyMask(buf, mask)
}

func (s *Service) remote(ctx context.Context, data []byte) (*matte.PixelBuffer, error) {
	out, err := s.remover.Remove(ctx, data)
	if err != nil {
		return nil, err
	}
	buf, _, err := s.codec.Decode(out)
	if err != nil {
		var decodeErr *matte.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, fmt.Errorf("%w: malformed response: %w", rembg.ErrRemoteStatus, err)
		}
		return nil, err
	}
	return buf, nil
}

func (s *Service) cacheKey(req *Request) string {
	o := s.pipeline.Options()
	return fmt.Sprintf("%s:%s:%s:%t:%d:%t:%.1f:%d:%.1f",
		util.BytesMD5(req.Data), util.BytesMD5(req.Mask), req.Background,
		req.Trim, req.TrimPadding, req.Force, o.Threshold, o.TrimapRadius, o.FeatherRadius)
}
