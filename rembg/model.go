package rembg

import (
	"context"
	"fmt"
	"sync"

	"github.com/chaos-io/cutout/matte"
	"github.com/chaos-io/cutout/util"
	"go.uber.org/zap"
)

const SourceModel = "model"

// Segmenter 已加载的分割模型，推理只读，可并发调用
type Segmenter interface {
	Segment(ctx context.Context, buf *matte.PixelBuffer) (*matte.BinaryMask, error)
}

// Loader 加载模型，返回可用的 Segmenter
type Loader func(ctx context.Context) (Segmenter, error)

// Model 显式持有已加载的模型，由调用方决定加载、重载和释放的时机
type Model struct {
	name   string
	loader Loader

	mu  sync.RWMutex
	seg Segmenter
}

// Load 创建并立即加载模型。加载失败时仍返回 *Model，可稍后 Reload
func Load(ctx context.Context, name string, loader Loader) (*Model, error) {
	m := &Model{name: name, loader: loader}
	return m, m.Reload(ctx)
}

// Reload 重新加载，失败时保留旧模型
func (m *Model) Reload(ctx context.Context) error {
	seg, err := m.loader(ctx)
	if err != nil {
		util.Logger.Warn("segmentation model load failed", zap.String("model", m.name), zap.Error(err))
		return fmt.Errorf("load model %s: %w: %w", m.name, matte.ErrSegmentationUnavailable, err)
	}

	m.mu.Lock()
	m.seg = seg
	m.mu.Unlock()

	util.Logger.Info("segmentation model loaded", zap.String("model", m.name))
	return nil
}

// Release 释放模型，之后的推理返回 ErrModelNotLoaded
func (m *Model) Release() {
	m.mu.Lock()
	m.seg = nil
	m.mu.Unlock()
}

func (m *Model) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seg != nil
}

// Name 实现 matte.MaskSource
func (m *Model) Name() string {
	return SourceModel
}

// Mask 实现 matte.MaskSource，失败由回退链接管
func (m *Model) Mask(ctx context.Context, buf *matte.PixelBuffer) (*matte.BinaryMask, error) {
	m.mu.RLock()
	seg := m.seg
	m.mu.RUnlock()

	if seg == nil {
		return nil, ErrModelNotLoaded
	}
	mask, err := seg.Segment(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("segment with %s: %w", m.name, err)
	}
	return mask, nil
}
